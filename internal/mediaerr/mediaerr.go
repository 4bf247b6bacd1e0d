// Package mediaerr classifies playback failures into the coarse kinds reported to the player and holds the sentinel
// errors shared by the playback packages.
package mediaerr

import (
	"errors"
	"fmt"
)

// Kind is a coarse playback error category.
type Kind int

const (
	KindUnknown Kind = iota
	KindOperation
	KindNetwork
	KindDecode
	KindFile
)

type kindInfo struct {
	name    string
	code    int
	message string
}

var kinds = map[Kind]kindInfo{
	KindUnknown:   {"unknown", 300, "Can not play due to unknown reasons."},
	KindOperation: {"operation", 301, "Can not play due to unknown operation reasons."},
	KindNetwork:   {"network", 302, "Can not play due to unknown network reasons."},
	KindDecode:    {"decode", 303, "Can not play due to unknown decode reasons."},
	KindFile:      {"file", 304, "Can not play due to playback error."},
}

func (k Kind) info() kindInfo {
	if info, ok := kinds[k]; ok {
		return info
	}
	return kinds[KindUnknown]
}

// String returns the kind name.
func (k Kind) String() string {
	return k.info().name
}

// Code returns the player error code for the kind.
func (k Kind) Code() int {
	return k.info().code
}

// Message returns the user-facing message for the kind.
func (k Kind) Message() string {
	return k.info().message
}

// FromMediaCode maps an element media error code (0-4) to a Kind.  Unrecognised codes are Unknown.
func FromMediaCode(code int) Kind {
	switch code {
	case 1:
		return KindOperation
	case 2:
		return KindNetwork
	case 3:
		return KindDecode
	case 4:
		return KindFile
	default:
		return KindUnknown
	}
}

// Error is a categorised playback error as handed to the error reporter.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// New builds an Error for kind wrapping cause (which may be nil).
func New(kind Kind, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    kind.Code(),
		Message: kind.Message(),
		Err:     cause,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidArgument is the root of argument validation failures.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotConnected is returned when a command is sent to a backend that is not running.
	ErrNotConnected = errors.New("not connected")
)
