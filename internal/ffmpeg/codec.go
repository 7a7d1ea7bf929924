package ffmpeg

import (
	"sort"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// CodecCopy is the pass-through token understood by ffmpeg.
const CodecCopy = "copy"

// videoEncoders maps friendly video codec names to ffmpeg encoders.
var videoEncoders = map[string]string{
	"h264":   "libx264",
	"h265":   "libx265",
	"hevc":   "libx265",
	"vpx":    "libvpx",
	"vp8":    "libvpx",
	"vp9":    "libvpx-vp9",
	"wmv":    "wmv2",
	"theora": "libtheora",
}

// audioEncoders maps friendly audio codec names to ffmpeg encoders.
var audioEncoders = map[string]string{
	"aac":    "aac -strict experimental",
	"mp3":    "libmp3lame",
	"vorbis": "libvorbis",
	"wma":    "wmav2",
	"opus":   "libopus",
}

// CodecMapping is one entry of a selector table.
type CodecMapping struct {
	Name    string `json:"name" example:"h264" doc:"Codec name accepted in requests"`
	Encoder string `json:"encoder" example:"libx264" doc:"Encoder token passed to ffmpeg"`
}

// SelectVideoCodec returns the encoder token for the requested video codec,
// or CodecCopy when nothing (or copy) was requested.
func SelectVideoCodec(req *state.VideoRequest) string {
	if req == nil {
		return CodecCopy
	}
	return selectCodec(req.VideoCodec, videoEncoders)
}

// SelectAudioCodec returns the encoder token for the requested audio codec,
// or CodecCopy when nothing (or copy) was requested.
func SelectAudioCodec(req state.StreamRequest) string {
	return selectCodec(req.AudioCodec, audioEncoders)
}

func selectCodec(requested string, table map[string]string) string {
	name := strings.ToLower(strings.TrimSpace(requested))
	if name == "" || name == CodecCopy {
		return CodecCopy
	}
	if encoder, ok := table[name]; ok {
		return encoder
	}
	return name
}

// VideoCodecs lists the friendly video codec names and their encoders.
func VideoCodecs() []CodecMapping {
	return mappings(videoEncoders)
}

// AudioCodecs lists the friendly audio codec names and their encoders.
func AudioCodecs() []CodecMapping {
	return mappings(audioEncoders)
}

func mappings(table map[string]string) []CodecMapping {
	out := make([]CodecMapping, 0, len(table))
	for name, encoder := range table {
		out = append(out, CodecMapping{Name: name, Encoder: encoder})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsCopy reports whether codec is the pass-through token.
func IsCopy(codec string) bool {
	return strings.EqualFold(codec, CodecCopy)
}

// IsH264 reports whether the stream carries H.264 video.
func IsH264(stream *state.MediaStream) bool {
	return stream.CodecContains("264", "avc")
}

// IsGraphicalSubtitle reports whether the stream is an embedded bitmap
// subtitle (PGS or DVD family) that can only be shown by burning it in.
func IsGraphicalSubtitle(stream *state.MediaStream) bool {
	return stream != nil && !stream.IsExternal && stream.CodecContains("pgs", "dvd")
}

// IsTextSubtitle reports whether the stream is a text subtitle that the
// subtitles filter can render.
func IsTextSubtitle(stream *state.MediaStream) bool {
	return stream.CodecContains("srt", "subrip", "ass", "ssa")
}

// isVPX reports whether the encoder is one of the libvpx family.
func isVPX(codec string) bool {
	return strings.HasPrefix(strings.ToLower(codec), "libvpx")
}

// isH264Encoder reports whether the encoder produces H.264 and therefore
// needs even output dimensions.
func isH264Encoder(codec string) bool {
	return strings.Contains(strings.ToLower(codec), "264")
}
