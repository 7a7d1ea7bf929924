package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// Base returns the ffmpeg command with standard flags.
func Base() string {
	return "ffmpeg -hide_banner"
}

// Resolver derives ffmpeg arguments from a Stream State. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	policy Policy
}

// NewResolver creates a Resolver. A nil policy uses NewDefaultPolicy(Profile{}).
func NewResolver(policy Policy) *Resolver {
	if policy == nil {
		policy = NewDefaultPolicy(Profile{})
	}
	return &Resolver{policy: policy}
}

// Policy returns the policy the resolver delegates to.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolution is the full outcome of one resolution pass.
type Resolution struct {
	Command    string
	VideoArgs  string
	AudioArgs  string
	VideoCodec string
	AudioCodec string
	VideoMode  VideoMode
	AudioMode  AudioMode
	Threads    int
}

const fragmentedMP4Flags = " -f mp4 -movflags frag_keyframe+empty_moov"

// Command builds the complete progressive-output invocation for outputPath.
func (r *Resolver) Command(outputPath string, st *state.StreamState, performSubtitleConversions bool) string {
	return r.Resolve(outputPath, st, performSubtitleConversions).Command
}

// Resolve is Command plus the intermediate decisions, for callers that log
// or report them.
func (r *Resolver) Resolve(outputPath string, st *state.StreamState, performSubtitleConversions bool) Resolution {
	videoCodec := SelectVideoCodec(st.VideoRequest)

	var format string
	if strings.EqualFold(filepath.Ext(outputPath), ".mp4") {
		format = fragmentedMP4Flags
	}

	// keyframe placement is carried by -force_key_frames in the video args
	keyFrame := ""

	threads := r.policy.ThreadCount(st, isVPX(videoCodec))
	videoArgs := r.VideoArgs(st, videoCodec, performSubtitleConversions)
	audioArgs := r.AudioArgs(st)

	cmd := fmt.Sprintf(`%s -i %s%s%s %s %s -map_metadata -1 -threads %d %s%s "%s"`,
		r.policy.InputModifier(st),
		r.policy.InputArgument(st),
		r.policy.SlowSeekArg(st.Request),
		keyFrame,
		r.policy.MapArgs(st),
		videoArgs,
		threads,
		audioArgs,
		format,
		outputPath,
	)

	return Resolution{
		Command:    strings.TrimSpace(cmd),
		VideoArgs:  videoArgs,
		AudioArgs:  audioArgs,
		VideoCodec: videoCodec,
		AudioCodec: audioCodecFor(st),
		VideoMode:  PlanVideo(st, videoCodec),
		AudioMode:  PlanAudio(st),
		Threads:    threads,
	}
}

func audioCodecFor(st *state.StreamState) string {
	if st.AudioStream == nil {
		return ""
	}
	return SelectAudioCodec(st.Request)
}
