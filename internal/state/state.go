// Package state holds the Stream State consumed by the argument resolver.
//
// A StreamState is produced by an external prober/negotiator and is treated as
// read-only input: nothing in this repository mutates a state once it has been
// handed to the resolver.
package state

import (
	"strings"
	"time"
)

// Protocol identifies how the media path is reached.
type Protocol string

const (
	ProtocolFile Protocol = "file"
	ProtocolHTTP Protocol = "http"
)

// VideoType identifies the on-disk layout of the source.
type VideoType string

const (
	VideoTypeFile   VideoType = "file"
	VideoTypeDVD    VideoType = "dvd"
	VideoTypeBluRay VideoType = "bluray"
	VideoTypeISO    VideoType = "iso"
)

// MediaStream describes one probed stream of the source.
type MediaStream struct {
	Index      int    `toml:"index" json:"index" yaml:"index" doc:"Stream index within the source container"`
	Codec      string `toml:"codec" json:"codec" yaml:"codec" example:"h264" doc:"Codec token reported by the prober"`
	IsExternal bool   `toml:"is_external,omitempty" json:"isExternal,omitempty" yaml:"is_external,omitempty" doc:"Subtitle lives in a sidecar file"`
	Path       string `toml:"path,omitempty" json:"path,omitempty" yaml:"path,omitempty" doc:"Sidecar path for external streams"`
	Width      *int   `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	Height     *int   `toml:"height,omitempty" json:"height,omitempty" yaml:"height,omitempty"`
	BitRate    *int   `toml:"bit_rate,omitempty" json:"bitRate,omitempty" yaml:"bit_rate,omitempty" doc:"Bits per second"`
	Channels   *int   `toml:"channels,omitempty" json:"channels,omitempty" yaml:"channels,omitempty"`
}

// CodecIs reports whether the stream codec equals one of names, ignoring case.
func (m *MediaStream) CodecIs(names ...string) bool {
	if m == nil {
		return false
	}
	for _, n := range names {
		if strings.EqualFold(m.Codec, n) {
			return true
		}
	}
	return false
}

// CodecContains reports whether the stream codec contains any of parts, ignoring case.
func (m *MediaStream) CodecContains(parts ...string) bool {
	if m == nil {
		return false
	}
	codec := strings.ToLower(m.Codec)
	for _, p := range parts {
		if strings.Contains(codec, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// VideoRequest carries the client's video output constraints.
type VideoRequest struct {
	VideoCodec   string `toml:"video_codec,omitempty" json:"videoCodec,omitempty" yaml:"video_codec,omitempty" example:"h264"`
	Width        *int   `toml:"width,omitempty" json:"width,omitempty" yaml:"width,omitempty"`
	Height       *int   `toml:"height,omitempty" json:"height,omitempty" yaml:"height,omitempty"`
	MaxWidth     *int   `toml:"max_width,omitempty" json:"maxWidth,omitempty" yaml:"max_width,omitempty"`
	MaxHeight    *int   `toml:"max_height,omitempty" json:"maxHeight,omitempty" yaml:"max_height,omitempty"`
	VideoBitRate *int   `toml:"video_bit_rate,omitempty" json:"videoBitRate,omitempty" yaml:"video_bit_rate,omitempty"`
	Profile      string `toml:"profile,omitempty" json:"profile,omitempty" yaml:"profile,omitempty"`
	Level        string `toml:"level,omitempty" json:"level,omitempty" yaml:"level,omitempty"`
}

// HasBounds reports whether any output dimension was requested.
func (r *VideoRequest) HasBounds() bool {
	if r == nil {
		return false
	}
	return r.Width != nil || r.Height != nil || r.MaxWidth != nil || r.MaxHeight != nil
}

// StreamRequest carries the general (audio and seek) part of the client request.
type StreamRequest struct {
	AudioCodec       string `toml:"audio_codec,omitempty" json:"audioCodec,omitempty" yaml:"audio_codec,omitempty" example:"aac"`
	AudioChannels    *int   `toml:"audio_channels,omitempty" json:"audioChannels,omitempty" yaml:"audio_channels,omitempty"`
	MaxAudioChannels *int   `toml:"max_audio_channels,omitempty" json:"maxAudioChannels,omitempty" yaml:"max_audio_channels,omitempty"`
	AudioBitRate     *int   `toml:"audio_bit_rate,omitempty" json:"audioBitRate,omitempty" yaml:"audio_bit_rate,omitempty"`
	AudioSampleRate  *int   `toml:"audio_sample_rate,omitempty" json:"audioSampleRate,omitempty" yaml:"audio_sample_rate,omitempty"`
	StartTimeMs      int64  `toml:"start_time_ms,omitempty" json:"startTimeMs,omitempty" yaml:"start_time_ms,omitempty" doc:"Playback start offset in milliseconds"`
	AccurateSeek     bool   `toml:"accurate_seek,omitempty" json:"accurateSeek,omitempty" yaml:"accurate_seek,omitempty" doc:"Seek after decoding instead of before the input"`
}

// StartTime returns the requested start offset.
func (r StreamRequest) StartTime() time.Duration {
	return time.Duration(r.StartTimeMs) * time.Millisecond
}

// StreamState is the negotiated snapshot of one source and one output request.
type StreamState struct {
	MediaPath     string    `toml:"media_path" json:"mediaPath" yaml:"media_path"`
	Protocol      Protocol  `toml:"protocol,omitempty" json:"protocol,omitempty" yaml:"protocol,omitempty" enum:"file,http"`
	PlayableFiles []string  `toml:"playable_files,omitempty" json:"playableFiles,omitempty" yaml:"playable_files,omitempty"`
	VideoType     VideoType `toml:"video_type,omitempty" json:"videoType,omitempty" yaml:"video_type,omitempty" enum:"file,dvd,bluray,iso"`
	UserAgent     string    `toml:"user_agent,omitempty" json:"userAgent,omitempty" yaml:"user_agent,omitempty"`

	VideoStream    *MediaStream `toml:"video_stream,omitempty" json:"videoStream,omitempty" yaml:"video_stream,omitempty"`
	AudioStream    *MediaStream `toml:"audio_stream,omitempty" json:"audioStream,omitempty" yaml:"audio_stream,omitempty"`
	SubtitleStream *MediaStream `toml:"subtitle_stream,omitempty" json:"subtitleStream,omitempty" yaml:"subtitle_stream,omitempty"`

	Request      StreamRequest `toml:"request" json:"request,omitempty" yaml:"request"`
	VideoRequest *VideoRequest `toml:"video_request,omitempty" json:"videoRequest,omitempty" yaml:"video_request,omitempty"`

	InputFormat                string `toml:"input_format,omitempty" json:"inputFormat,omitempty" yaml:"input_format,omitempty"`
	InputVideoCodec            string `toml:"input_video_codec,omitempty" json:"inputVideoCodec,omitempty" yaml:"input_video_codec,omitempty"`
	InputAudioCodec            string `toml:"input_audio_codec,omitempty" json:"inputAudioCodec,omitempty" yaml:"input_audio_codec,omitempty"`
	ReadInputAtNativeFramerate bool   `toml:"read_input_at_native_framerate,omitempty" json:"readInputAtNativeFramerate,omitempty" yaml:"read_input_at_native_framerate,omitempty"`
	DeInterlace                bool   `toml:"deinterlace,omitempty" json:"deinterlace,omitempty" yaml:"deinterlace,omitempty"`
	AudioSync                  string `toml:"audio_sync,omitempty" json:"audioSync,omitempty" yaml:"audio_sync,omitempty"`

	// InternalSubtitleOffset is the position of SubtitleStream among the
	// source's subtitle streams, as ffmpeg's subtitles filter counts them.
	InternalSubtitleOffset int `toml:"internal_subtitle_offset,omitempty" json:"internalSubtitleOffset,omitempty" yaml:"internal_subtitle_offset,omitempty"`

	OutputPath string `toml:"output_path,omitempty" json:"outputPath,omitempty" yaml:"output_path,omitempty"`
}

// AudioSyncValue returns the aresample async value, defaulting to "1".
func (s *StreamState) AudioSyncValue() string {
	if s.AudioSync == "" {
		return "1"
	}
	return s.AudioSync
}

// Video returns the video request, or an empty one when none was negotiated.
func (s *StreamState) Video() *VideoRequest {
	if s.VideoRequest == nil {
		return &VideoRequest{}
	}
	return s.VideoRequest
}

// IsRemote reports whether the media path is fetched over HTTP.
func (s *StreamState) IsRemote() bool {
	return s.Protocol == ProtocolHTTP
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
