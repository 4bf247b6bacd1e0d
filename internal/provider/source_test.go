package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceFromLocation(t *testing.T) {
	tests := []struct {
		loc  string
		want Source
	}{
		{"/media/movie.MP4", Source{File: "/media/movie.MP4", Label: "movie.MP4", Type: "mp4"}},
		{"https://cdn.example.com/vod/master.m3u8", Source{File: "https://cdn.example.com/vod/master.m3u8", Label: "master.m3u8", Type: "hls"}},
		{"https://cdn.example.com/vod/manifest.mpd?token=1", Source{File: "https://cdn.example.com/vod/manifest.mpd?token=1", Label: "manifest.mpd", Type: "dash"}},
		{"rtmp://live.example.com/app/stream", Source{File: "rtmp://live.example.com/app/stream", Label: "stream", Type: "rtmp", Live: true}},
		{"srt://10.0.0.1:9000", Source{File: "srt://10.0.0.1:9000", Label: "10.0.0.1:9000", Type: "srt", Live: true}},
		{"wss://edge.example.com:3334/app/stream", Source{File: "wss://edge.example.com:3334/app/stream", Label: "stream", Type: "webrtc", Live: true}},
		{"song", Source{File: "song", Label: "song", Type: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.loc, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceFromLocation(tt.loc))
		})
	}
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "Intro", Source{File: "/a.mp4", Label: "Intro"}.Name())
	assert.Equal(t, "/a.mp4", Source{File: "/a.mp4"}.Name())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "stalled", StateStalled.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateStalled.IsActive())
	assert.False(t, StatePaused.IsActive())
}
