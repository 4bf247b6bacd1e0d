package provider

import (
	"net/url"
	"path"
	"strings"
)

// Source is one playable entry of the playlist.
type Source struct {
	// File is the location handed to the backend: a path or URL.
	File string
	// Label is a human readable name.
	Label string
	// Type is the media type, e.g. "mp4", "hls", "dash", "rtmp".
	Type string
	// Live marks sources that are known to be live streams regardless of the duration the backend reports.
	Live bool
}

// Name returns the label, or the file when there is no label.
func (s Source) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return s.File
}

var liveSchemes = map[string]string{
	"rtmp":   "rtmp",
	"rtmps":  "rtmp",
	"rtsp":   "rtsp",
	"rtsps":  "rtsp",
	"srt":    "srt",
	"udp":    "udp",
	"ws":     "webrtc",
	"wss":    "webrtc",
	"webrtc": "webrtc",
}

// SourceFromLocation builds a Source from a path or URL, deriving its type and live flag.
func SourceFromLocation(loc string) Source {
	src := Source{File: loc}

	p := loc
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		scheme := strings.ToLower(u.Scheme)
		if t, ok := liveSchemes[scheme]; ok {
			src.Type = t
			src.Live = true
		}
		p = u.Path
		if p == "" || p == "/" {
			p = u.Host
		}
	}

	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	if base != "." && base != "/" {
		src.Label = base
	}

	if src.Type == "" {
		switch ext := strings.ToLower(strings.TrimPrefix(path.Ext(base), ".")); ext {
		case "m3u8":
			src.Type = "hls"
		case "mpd":
			src.Type = "dash"
		default:
			src.Type = ext
		}
	}

	return src
}
