package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStreamCodecMatching(t *testing.T) {
	var nilStream *MediaStream
	assert.False(t, nilStream.CodecIs("h264"))
	assert.False(t, nilStream.CodecContains("264"))

	s := &MediaStream{Codec: "HDMV_PGS_Subtitle"}
	assert.True(t, s.CodecContains("pgs"))
	assert.False(t, s.CodecIs("pgs"))
	assert.True(t, s.CodecIs("x", "hdmv_pgs_subtitle"), "CodecIs ignores case")
}

func TestVideoRequestHasBounds(t *testing.T) {
	tests := []struct {
		name string
		req  *VideoRequest
		want bool
	}{
		{"nil", nil, false},
		{"empty", &VideoRequest{VideoCodec: "h264", VideoBitRate: IntPtr(1)}, false},
		{"width", &VideoRequest{Width: IntPtr(640)}, true},
		{"max height", &VideoRequest{MaxHeight: IntPtr(480)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.HasBounds())
		})
	}
}

func TestStreamStateDefaults(t *testing.T) {
	s := &StreamState{}
	assert.Equal(t, "1", s.AudioSyncValue())
	require.NotNil(t, s.Video())
	assert.False(t, s.Video().HasBounds())
	assert.False(t, s.IsRemote())
	assert.Equal(t, 1500*time.Millisecond, StreamRequest{StartTimeMs: 1500}.StartTime())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		st      StreamState
		wantErr bool
	}{
		{"minimal", StreamState{MediaPath: "/a.mkv"}, false},
		{"playable files only", StreamState{PlayableFiles: []string{"/dvd/1.vob"}}, false},
		{"no path", StreamState{}, true},
		{"bad protocol", StreamState{MediaPath: "/a", Protocol: "ftp"}, true},
		{"bad video type", StreamState{MediaPath: "/a", VideoType: "vhs"}, true},
		{"negative width", StreamState{MediaPath: "/a", VideoRequest: &VideoRequest{Width: IntPtr(-1)}}, true},
		{"zero channels", StreamState{MediaPath: "/a", Request: StreamRequest{MaxAudioChannels: IntPtr(0)}}, true},
		{"negative start", StreamState{MediaPath: "/a", Request: StreamRequest{StartTimeMs: -1}}, true},
		{"stream without codec", StreamState{MediaPath: "/a", AudioStream: &MediaStream{Index: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.st.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	st := StreamState{
		VideoRequest: &VideoRequest{Width: IntPtr(0), MaxHeight: IntPtr(-5)},
	}
	err := st.Validate()
	require.Error(t, err)
	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "Validate() error is %T, want joined errors", err)
	assert.Len(t, joined.Unwrap(), 3)
}
