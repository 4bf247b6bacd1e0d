package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/PizzaHomicide/playstate/internal/config"
	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/media"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/xid"
)

const (
	connectAttempts   = 20
	connectRetryDelay = 500 * time.Millisecond
	quitGracePeriod   = 2 * time.Second
)

// observedProperties are the mpv properties mirrored into the element state.  The slice index plus one is used as
// the observe_property id.
var observedProperties = []string{
	"duration",
	"time-pos",
	"pause",
	"paused-for-cache",
	"eof-reached",
	"volume",
	"mute",
	"seekable",
	"demuxer-cache-time",
}

// MPVElement drives an mpv process over JSON IPC and presents it as a media.Element.  Property changes and
// notifications from mpv are translated into element events and dispatched on a single goroutine.
type MPVElement struct {
	media.Listeners

	path       string
	args       string
	socketPath string
	ipc        *MPVIPCClient
	cmd        *exec.Cmd
	logger     *log.Logger
	done       chan struct{}

	mu             sync.RWMutex
	active         bool
	loaded         bool
	duration       float64
	currentTime    float64
	paused         bool
	ended          bool
	muted          bool
	volume         float64
	seeking        bool
	buffering      bool
	seekable       bool
	seekableKnown  bool
	bufferedEnd    float64
	hasBuffered    bool
	mediaErr       *media.MediaError
	processExited  bool
	ownsSocketFile bool
}

// NewMPVElement creates an element for the configured mpv binary.  Nothing is started until Start is called.
func NewMPVElement(cfg config.PlayerConfig, logger *log.Logger) *MPVElement {
	if logger == nil {
		logger = log.Discard()
	}

	path := cfg.Path
	if path == "" {
		path = "mpv"
	}

	socketPath := cfg.SocketPath
	ownsSocket := false
	if socketPath == "" {
		socketPath = defaultSocketPath(xid.New().String())
		ownsSocket = runtime.GOOS != "windows"
	}

	logger = logger.With("component", "mpv")
	return &MPVElement{
		path:           path,
		args:           cfg.Args,
		socketPath:     socketPath,
		ipc:            NewMPVIPCClient(socketPath, logger),
		logger:         logger,
		done:           make(chan struct{}),
		duration:       math.NaN(),
		paused:         true,
		volume:         1,
		ownsSocketFile: ownsSocket,
	}
}

// Start launches mpv in idle mode, connects to its IPC socket and begins dispatching events
func (e *MPVElement) Start(ctx context.Context) error {
	args := []string{
		"--idle=yes",                         // Stay alive between sources
		"--keep-open=yes",                    // Hold the last frame so eof-reached is observable
		"--no-terminal",                      // Disable terminal control
		"--input-ipc-server=" + e.socketPath, // Set IPC socket path
	}
	if e.args != "" {
		args = append(args, ParseArgs(e.args)...)
	}

	e.logger.Info("Starting MPV", "path", e.path, "socket_path", e.socketPath)
	cmd := exec.Command(e.path, args...)
	setupPlayerProcess(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start MPV: %w", err)
	}
	e.cmd = cmd

	go func() {
		err := cmd.Wait()
		e.mu.Lock()
		e.processExited = true
		e.mu.Unlock()
		e.logger.Debug("MPV process exited", "error", err)
	}()

	connCtx, cancel := context.WithTimeout(ctx, connectAttempts*connectRetryDelay)
	defer cancel()
	if err := e.ipc.WaitForConnection(connCtx, connectAttempts, connectRetryDelay); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to connect to MPV: %w", err)
	}

	return e.observe()
}

// observe registers the property observers and starts the dispatch goroutine
func (e *MPVElement) observe() error {
	for i, name := range observedProperties {
		if err := e.ipc.ObserveProperty(i+1, name); err != nil {
			return fmt.Errorf("failed to observe %s: %w", name, err)
		}
	}

	go e.run()
	return nil
}

// run dispatches mpv events until the IPC connection closes
func (e *MPVElement) run() {
	defer close(e.done)
	for ev := range e.ipc.Events() {
		e.handleEvent(ev)
	}
	e.logger.Info("MPV event stream closed")
}

// Done is closed once mpv stops delivering events, for example after it has exited
func (e *MPVElement) Done() <-chan struct{} {
	return e.done
}

// handleEvent updates the mirrored state under the lock and then dispatches the resulting element events outside it,
// so handlers are free to read the element.
func (e *MPVElement) handleEvent(ev MPVEvent) {
	var fire []media.EventKind

	e.mu.Lock()
	switch ev.Event {
	case "property-change":
		fire = e.applyProperty(ev.Name, ev.Data)
	case "start-file":
		e.active = true
		e.loaded = false
		e.duration = math.NaN()
		e.currentTime = 0
		e.ended = false
		e.seeking = false
		e.buffering = false
		e.seekableKnown = false
		e.hasBuffered = false
		e.bufferedEnd = 0
		e.mediaErr = nil
	case "file-loaded":
		e.loaded = true
		fire = []media.EventKind{media.EventLoadedMetadata, media.EventLoadedData, media.EventCanPlay}
		if !e.paused {
			fire = append(fire, media.EventPlay)
		}
	case "seek":
		if e.active {
			e.seeking = true
			fire = []media.EventKind{media.EventSeeking}
		}
	case "playback-restart":
		if e.seeking {
			e.seeking = false
			fire = append(fire, media.EventSeeked)
		}
		if e.active && !e.paused && !e.buffering {
			fire = append(fire, media.EventPlaying)
		}
	case "end-file":
		fire = e.endFile(ev.Reason, ev.FileError)
	default:
		e.logger.Trace("Ignoring MPV event", "event", ev.Event)
	}
	e.mu.Unlock()

	for _, kind := range fire {
		e.Dispatch(kind)
	}
}

// applyProperty must be called with the lock held
func (e *MPVElement) applyProperty(name string, data json.RawMessage) []media.EventKind {
	switch name {
	case "duration":
		d, ok := decodeFloat(data)
		if !ok {
			d = math.NaN()
		}
		if sameFloat(d, e.duration) {
			return nil
		}
		e.duration = d
		if e.active {
			return []media.EventKind{media.EventDurationChange}
		}
	case "time-pos":
		t, ok := decodeFloat(data)
		if !ok {
			return nil
		}
		e.currentTime = t
		if e.active {
			return []media.EventKind{media.EventTimeUpdate}
		}
	case "pause":
		p, ok := decodeBool(data)
		if !ok || p == e.paused {
			return nil
		}
		e.paused = p
		if !e.active || !e.loaded {
			return nil
		}
		if p {
			return []media.EventKind{media.EventPause}
		}
		if e.buffering {
			return []media.EventKind{media.EventPlay}
		}
		return []media.EventKind{media.EventPlay, media.EventPlaying}
	case "paused-for-cache":
		b, ok := decodeBool(data)
		if !ok || b == e.buffering {
			return nil
		}
		e.buffering = b
		if !e.active || !e.loaded {
			return nil
		}
		if b {
			return []media.EventKind{media.EventWaiting}
		}
		if !e.paused {
			return []media.EventKind{media.EventPlaying}
		}
	case "eof-reached":
		eof, ok := decodeBool(data)
		if !ok {
			return nil
		}
		if !eof {
			e.ended = false
			return nil
		}
		return e.markEnded()
	case "volume":
		v, ok := decodeFloat(data)
		if !ok {
			return nil
		}
		v = math.Max(0, math.Min(v/100, 1))
		if v == e.volume {
			return nil
		}
		e.volume = v
		return []media.EventKind{media.EventVolumeChange}
	case "mute":
		m, ok := decodeBool(data)
		if !ok || m == e.muted {
			return nil
		}
		e.muted = m
		return []media.EventKind{media.EventVolumeChange}
	case "seekable":
		s, ok := decodeBool(data)
		if !ok {
			return nil
		}
		e.seekable = s
		e.seekableKnown = true
	case "demuxer-cache-time":
		t, ok := decodeFloat(data)
		if !ok {
			e.hasBuffered = false
			return nil
		}
		e.bufferedEnd = t
		e.hasBuffered = true
		if e.active {
			return []media.EventKind{media.EventProgress}
		}
	}
	return nil
}

// markEnded must be called with the lock held.  Ended fires at most once per loaded file.
func (e *MPVElement) markEnded() []media.EventKind {
	if !e.active || e.ended {
		return nil
	}
	e.ended = true
	e.paused = true
	return []media.EventKind{media.EventEnded}
}

// endFile must be called with the lock held
func (e *MPVElement) endFile(reason, fileError string) []media.EventKind {
	var fire []media.EventKind
	switch reason {
	case "eof":
		fire = e.markEnded()
	case "error":
		e.mediaErr = mediaErrorFromFileError(fileError)
		fire = []media.EventKind{media.EventError}
	}
	e.active = false
	e.loaded = false
	return fire
}

// mediaErrorFromFileError classifies mpv's file_error text into a media error code
func mediaErrorFromFileError(fileError string) *media.MediaError {
	msg := strings.ToLower(fileError)
	code := 0
	switch {
	case strings.Contains(msg, "network"), strings.Contains(msg, "http"),
		strings.Contains(msg, "connection"), strings.Contains(msg, "timeout"):
		code = media.MediaErrNetwork
	case strings.Contains(msg, "unrecognized file format"), strings.Contains(msg, "loading failed"),
		strings.Contains(msg, "not supported"):
		code = media.MediaErrSrcNotSupported
	case strings.Contains(msg, "no audio or video"), strings.Contains(msg, "decod"):
		code = media.MediaErrDecode
	case strings.Contains(msg, "abort"), strings.Contains(msg, "interrupt"):
		code = media.MediaErrAborted
	}
	if fileError == "" {
		fileError = "playback failed"
	}
	return &media.MediaError{Code: code, Message: fileError}
}

func decodeFloat(data json.RawMessage) (float64, bool) {
	var v *float64
	if len(data) == 0 || json.Unmarshal(data, &v) != nil || v == nil {
		return 0, false
	}
	return *v, true
}

func decodeBool(data json.RawMessage) (bool, bool) {
	var v *bool
	if len(data) == 0 || json.Unmarshal(data, &v) != nil || v == nil {
		return false, false
	}
	return *v, true
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func (e *MPVElement) Duration() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.duration
}

func (e *MPVElement) CurrentTime() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentTime
}

func (e *MPVElement) Paused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

func (e *MPVElement) Ended() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ended
}

func (e *MPVElement) Muted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.muted
}

func (e *MPVElement) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.volume
}

func (e *MPVElement) Error() *media.MediaError {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mediaErr
}

// Buffered reports the demuxer cache as a single range from the start of the media
func (e *MPVElement) Buffered() (media.TimeRanges, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.hasBuffered {
		return nil, false
	}
	return media.TimeRanges{{Start: 0, End: e.bufferedEnd}}, true
}

// IsLive reports a loaded source that mpv cannot seek in
func (e *MPVElement) IsLive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded && e.seekableKnown && !e.seekable
}

// Load replaces the current file and starts playing it
func (e *MPVElement) Load(src provider.Source) error {
	e.logger.Info("Loading source", "source", src.Name(), "type", src.Type, "live", src.Live)
	if err := e.ipc.SendCommand("loadfile", src.File, "replace"); err != nil {
		return err
	}
	return e.ipc.SetProperty("pause", false)
}

func (e *MPVElement) Play() error {
	return e.ipc.SetProperty("pause", false)
}

func (e *MPVElement) Pause() error {
	return e.ipc.SetProperty("pause", true)
}

// Seek moves to an absolute position in seconds
func (e *MPVElement) Seek(position float64) error {
	return e.ipc.SendCommand("seek", position, "absolute")
}

// SeekBy moves relative to the current position
func (e *MPVElement) SeekBy(delta float64) error {
	return e.ipc.SendCommand("seek", delta, "relative")
}

// SetVolume sets the volume between 0 and 1
func (e *MPVElement) SetVolume(volume float64) error {
	volume = math.Max(0, math.Min(volume, 1))
	return e.ipc.SetProperty("volume", math.Round(volume*100))
}

func (e *MPVElement) SetMuted(muted bool) error {
	return e.ipc.SetProperty("mute", muted)
}

// Close asks mpv to quit, then tears down the connection, the process and the socket file
func (e *MPVElement) Close() error {
	var result *multierror.Error

	if e.cmd != nil {
		_ = e.ipc.SendCommand("quit")
		select {
		case <-e.done:
		case <-time.After(quitGracePeriod):
			e.logger.Warn("MPV did not quit in time")
		}
	}

	if err := e.ipc.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close MPV connection: %w", err))
	}

	if e.cmd != nil && e.cmd.Process != nil {
		e.mu.RLock()
		exited := e.processExited
		e.mu.RUnlock()
		if !exited {
			if err := e.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				result = multierror.Append(result, fmt.Errorf("failed to kill MPV process: %w", err))
			}
		}
	}

	if e.ownsSocketFile {
		if err := os.Remove(e.socketPath); err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, fmt.Errorf("failed to remove socket file: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Verify MPVElement implements Backend at compile time.
var _ Backend = (*MPVElement)(nil)
var _ media.LiveDetector = (*MPVElement)(nil)
