package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smazurov/transcodeargs/internal/state"
)

func TestSelectVideoCodec(t *testing.T) {
	tests := []struct {
		name string
		req  *state.VideoRequest
		want string
	}{
		{"no request", nil, CodecCopy},
		{"empty codec", &state.VideoRequest{}, CodecCopy},
		{"explicit copy", &state.VideoRequest{VideoCodec: "COPY"}, CodecCopy},
		{"h264", &state.VideoRequest{VideoCodec: "H264"}, "libx264"},
		{"hevc", &state.VideoRequest{VideoCodec: "hevc"}, "libx265"},
		{"vp9", &state.VideoRequest{VideoCodec: " vp9 "}, "libvpx-vp9"},
		{"unknown passes through", &state.VideoRequest{VideoCodec: "MPEG4"}, "mpeg4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectVideoCodec(tt.req))
		})
	}
}

func TestSelectAudioCodec(t *testing.T) {
	assert.Equal(t, CodecCopy, SelectAudioCodec(state.StreamRequest{}))
	assert.Equal(t, "aac -strict experimental", SelectAudioCodec(state.StreamRequest{AudioCodec: "AAC"}))
	assert.Equal(t, "libmp3lame", SelectAudioCodec(state.StreamRequest{AudioCodec: "mp3"}))
	assert.Equal(t, "flac", SelectAudioCodec(state.StreamRequest{AudioCodec: "flac"}))
}

func TestCodecListsAreSorted(t *testing.T) {
	video := VideoCodecs()
	assert.Len(t, video, len(videoEncoders))
	for i := 1; i < len(video); i++ {
		assert.Less(t, video[i-1].Name, video[i].Name)
	}
	assert.Contains(t, AudioCodecs(), CodecMapping{Name: "opus", Encoder: "libopus"})
}

func TestSubtitleClassification(t *testing.T) {
	tests := []struct {
		stream    *state.MediaStream
		graphical bool
		text      bool
	}{
		{nil, false, false},
		{&state.MediaStream{Codec: "hdmv_pgs_subtitle"}, true, false},
		{&state.MediaStream{Codec: "dvd_subtitle"}, true, false},
		{&state.MediaStream{Codec: "PGSSUB", IsExternal: true}, false, false},
		{&state.MediaStream{Codec: "subrip"}, false, true},
		{&state.MediaStream{Codec: "ASS"}, false, true},
		{&state.MediaStream{Codec: "mov_text"}, false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.graphical, IsGraphicalSubtitle(tt.stream), "%+v", tt.stream)
		assert.Equal(t, tt.text, IsTextSubtitle(tt.stream), "%+v", tt.stream)
	}
}
