package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// AudioMode is the branch the audio builder takes.
type AudioMode string

const (
	AudioNone   AudioMode = "none"
	AudioCopy   AudioMode = "copy"
	AudioEncode AudioMode = "encode"
)

// PlanAudio selects the audio branch. A source without audio never gets
// synthesized audio arguments.
func PlanAudio(st *state.StreamState) AudioMode {
	switch {
	case st.AudioStream == nil:
		return AudioNone
	case IsCopy(SelectAudioCodec(st.Request)):
		return AudioCopy
	default:
		return AudioEncode
	}
}

// AudioArgs builds the audio portion of the command, or "" without audio.
func (r *Resolver) AudioArgs(st *state.StreamState) string {
	switch PlanAudio(st) {
	case AudioNone:
		return ""
	case AudioCopy:
		return "-acodec copy"
	}

	args := "-acodec " + SelectAudioCodec(st.Request)

	if channels := r.policy.AudioChannels(st.Request, st.AudioStream); channels != nil {
		args += " -ac " + strconv.Itoa(*channels)
	}
	if bitrate := r.policy.AudioBitRate(st); bitrate != nil {
		args += " -ab " + strconv.Itoa(*bitrate)
	}

	args += " " + r.policy.AudioFilterArg(st, true)

	return strings.TrimRight(args, " ")
}
