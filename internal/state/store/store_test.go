package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/transcodeargs/internal/state"
)

const tomlStates = `version = 1

[states.movie]
media_path = "/media/movie.mkv"

[states.movie.video_stream]
index = 0
codec = "h264"
width = 1920
height = 1080

[states.movie.audio_stream]
index = 1
codec = "dts"
channels = 6

[states.movie.request]
audio_codec = "aac"
max_audio_channels = 2

[states.movie.video_request]
video_codec = "h264"
max_width = 1280

[states.radio]
media_path = "http://radio.example/stream"
protocol = "http"
user_agent = "transcodeargs"

[states.radio.audio_stream]
index = 0
codec = "mp3"
`

const yamlStates = `
states:
  movie:
    media_path: /media/movie.mkv
    video_stream:
      index: 0
      codec: h264
      width: 1920
      height: 1080
    audio_stream:
      index: 1
      codec: dts
      channels: 6
    request:
      audio_codec: aac
      max_audio_channels: 2
    video_request:
      video_codec: h264
      max_width: 1280
`

const jsonStates = `{
  "version": 2,
  "states": {
    "movie": {
      "mediaPath": "/media/movie.mkv",
      "videoStream": {"index": 0, "codec": "h264", "width": 1920, "height": 1080},
      "audioStream": {"index": 1, "codec": "dts", "channels": 6},
      "request": {"audioCodec": "aac", "maxAudioChannels": 2},
      "videoRequest": {"videoCodec": "h264", "maxWidth": 1280}
    }
  }
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func assertMovie(t *testing.T, st *state.StreamState) {
	t.Helper()
	assert.Equal(t, "/media/movie.mkv", st.MediaPath)
	require.NotNil(t, st.VideoStream)
	assert.Equal(t, "h264", st.VideoStream.Codec)
	assert.Equal(t, state.IntPtr(1920), st.VideoStream.Width)
	require.NotNil(t, st.AudioStream)
	assert.Equal(t, state.IntPtr(6), st.AudioStream.Channels)
	assert.Nil(t, st.SubtitleStream)
	assert.Equal(t, "aac", st.Request.AudioCodec)
	assert.Equal(t, state.IntPtr(2), st.Request.MaxAudioChannels)
	require.NotNil(t, st.VideoRequest)
	assert.Equal(t, state.IntPtr(1280), st.VideoRequest.MaxWidth)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"states.toml", tomlStates},
		{"states.yaml", yamlStates},
		{"states.yml", yamlStates},
		{"states.json", jsonStates},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s := New(writeFile(t, tt.file, tt.content))
			require.NoError(t, s.Load())

			st, err := s.Get("movie")
			require.NoError(t, err)
			assertMovie(t, st)
		})
	}
}

func TestNames(t *testing.T) {
	s := New(writeFile(t, "states.toml", tomlStates))
	require.NoError(t, s.Load())

	assert.Equal(t, []string{"movie", "radio"}, s.Names())
	assert.Equal(t, 2, s.Len())

	radio, err := s.Get("radio")
	require.NoError(t, err)
	assert.Equal(t, state.ProtocolHTTP, radio.Protocol)
	assert.True(t, radio.IsRemote())
}

func TestGetMissing(t *testing.T) {
	s := New(writeFile(t, "states.toml", tomlStates))
	require.NoError(t, s.Load())

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, state.ErrStateNotFound)
}

func TestGetReturnsCopy(t *testing.T) {
	s := New(writeFile(t, "states.toml", tomlStates))
	require.NoError(t, s.Load())

	st, err := s.Get("movie")
	require.NoError(t, err)
	st.MediaPath = "/changed"

	again, err := s.Get("movie")
	require.NoError(t, err)
	assert.Equal(t, "/media/movie.mkv", again.MediaPath)
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, s.Load())
	assert.Empty(t, s.Names())
}

func TestLoadReplacesStates(t *testing.T) {
	path := writeFile(t, "states.toml", tomlStates)
	s := New(path)
	require.NoError(t, s.Load())

	require.NoError(t, os.WriteFile(path, []byte("[states.only]\nmedia_path = \"/a.mkv\"\n"), 0o644))
	require.NoError(t, s.Load())
	assert.Equal(t, []string{"only"}, s.Names())
}

func TestLoadErrors(t *testing.T) {
	t.Run("extension", func(t *testing.T) {
		err := New(writeFile(t, "states.ini", "")).Load()
		assert.ErrorContains(t, err, "unsupported state file extension")
	})
	t.Run("syntax", func(t *testing.T) {
		err := New(writeFile(t, "states.json", "{")).Load()
		assert.ErrorContains(t, err, "failed to parse json state file")
	})
}

func TestDecodeDefaults(t *testing.T) {
	f, err := Decode(FormatTOML, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Version)
	assert.NotNil(t, f.States)

	f, err = Decode(FormatJSON, []byte(jsonStates))
	require.NoError(t, err)
	assert.Equal(t, 2, f.Version)
}
