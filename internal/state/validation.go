package state

import (
	"errors"
	"fmt"
)

// Validate checks the state for values the resolver cannot express.
// The resolver itself never calls this; adapters do before resolving.
func (s *StreamState) Validate() error {
	var errs []error

	if s.MediaPath == "" && len(s.PlayableFiles) == 0 {
		errs = append(errs, errors.New("media path is required"))
	}

	switch s.Protocol {
	case "", ProtocolFile, ProtocolHTTP:
	default:
		errs = append(errs, fmt.Errorf("unsupported protocol %q", s.Protocol))
	}

	switch s.VideoType {
	case "", VideoTypeFile, VideoTypeDVD, VideoTypeBluRay, VideoTypeISO:
	default:
		errs = append(errs, fmt.Errorf("unsupported video type %q", s.VideoType))
	}

	errs = append(errs, validateStream("video_stream", s.VideoStream)...)
	errs = append(errs, validateStream("audio_stream", s.AudioStream)...)
	errs = append(errs, validateStream("subtitle_stream", s.SubtitleStream)...)

	if v := s.VideoRequest; v != nil {
		errs = appendPositive(errs, "video_request.width", v.Width)
		errs = appendPositive(errs, "video_request.height", v.Height)
		errs = appendPositive(errs, "video_request.max_width", v.MaxWidth)
		errs = appendPositive(errs, "video_request.max_height", v.MaxHeight)
		errs = appendPositive(errs, "video_request.video_bit_rate", v.VideoBitRate)
	}

	r := s.Request
	errs = appendPositive(errs, "request.audio_channels", r.AudioChannels)
	errs = appendPositive(errs, "request.max_audio_channels", r.MaxAudioChannels)
	errs = appendPositive(errs, "request.audio_bit_rate", r.AudioBitRate)
	errs = appendPositive(errs, "request.audio_sample_rate", r.AudioSampleRate)
	if r.StartTimeMs < 0 {
		errs = append(errs, fmt.Errorf("request.start_time_ms must not be negative, got %d", r.StartTimeMs))
	}

	return errors.Join(errs...)
}

func validateStream(name string, m *MediaStream) []error {
	if m == nil {
		return nil
	}
	var errs []error
	if m.Index < 0 {
		errs = append(errs, fmt.Errorf("%s.index must not be negative, got %d", name, m.Index))
	}
	if m.Codec == "" {
		errs = append(errs, fmt.Errorf("%s.codec is required", name))
	}
	errs = appendPositive(errs, name+".width", m.Width)
	errs = appendPositive(errs, name+".height", m.Height)
	errs = appendPositive(errs, name+".bit_rate", m.BitRate)
	errs = appendPositive(errs, name+".channels", m.Channels)
	return errs
}

func appendPositive(errs []error, field string, v *int) []error {
	if v != nil && *v <= 0 {
		return append(errs, fmt.Errorf("%s must be positive, got %d", field, *v))
	}
	return errs
}
