package mediaerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMediaCode(t *testing.T) {
	tests := []struct {
		code int
		want Kind
	}{
		{0, KindUnknown},
		{1, KindOperation},
		{2, KindNetwork},
		{3, KindDecode},
		{4, KindFile},
		{5, KindUnknown},
		{-1, KindUnknown},
		{42, KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromMediaCode(tt.code), "code %d", tt.code)
	}
}

func TestKindCodes(t *testing.T) {
	assert.Equal(t, 300, KindUnknown.Code())
	assert.Equal(t, 301, KindOperation.Code())
	assert.Equal(t, 302, KindNetwork.Code())
	assert.Equal(t, 303, KindDecode.Code())
	assert.Equal(t, 304, KindFile.Code())
	assert.Equal(t, KindUnknown.Code(), Kind(99).Code())
	assert.Equal(t, "network", KindNetwork.String())
}

func TestError(t *testing.T) {
	t.Run("WithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := New(KindNetwork, cause)

		assert.Equal(t, 302, err.Code)
		assert.Contains(t, err.Error(), "network reasons")
		assert.Contains(t, err.Error(), "connection reset")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("WithoutCause", func(t *testing.T) {
		err := New(KindFile, nil)

		assert.Equal(t, "Can not play due to playback error. (304)", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
