package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// VideoMode is the branch the video builder takes for a codec token.
type VideoMode string

const (
	// VideoCopy passes the source bitstream through.
	VideoCopy VideoMode = "copy"
	// VideoEncode re-encodes; requested bounds become a -vf scale.
	VideoEncode VideoMode = "encode"
	// VideoEncodeBurnIn re-encodes and overlays an embedded bitmap subtitle;
	// requested bounds are scaled inside the overlay graph.
	VideoEncodeBurnIn VideoMode = "encode_burn_in"
)

// forceKeyFramesArg puts the first keyframe at 0.1s and then one every 5s
// after the previous forced keyframe, so byte-range seeks land near one.
const forceKeyFramesArg = " -force_key_frames expr:if(isnan(prev_forced_t),gte(t,.1),gte(t,prev_forced_t+5))"

// PlanVideo selects the video branch for codec.
func PlanVideo(st *state.StreamState, codec string) VideoMode {
	switch {
	case IsCopy(codec):
		return VideoCopy
	case IsGraphicalSubtitle(st.SubtitleStream):
		return VideoEncodeBurnIn
	default:
		return VideoEncode
	}
}

// VideoArgs builds the video portion of the command for codec.
func (r *Resolver) VideoArgs(st *state.StreamState, codec string, performSubtitleConversion bool) string {
	args := "-vcodec " + codec
	mode := PlanVideo(st, codec)

	if mode == VideoCopy {
		if IsH264(st.VideoStream) {
			args += " -bsf h264_mp4toannexb"
		}
		return args
	}

	args += forceKeyFramesArg

	if mode == VideoEncode && st.Video().HasBounds() {
		args += r.policy.OutputSizeArg(st, codec, performSubtitleConversion)
	}

	if quality := strings.TrimSpace(r.policy.VideoQualityArg(st, codec, false)); quality != "" {
		args += " " + quality
	}

	if mode == VideoEncodeBurnIn {
		args += r.graphicalSubtitleArg(st, codec)
	}

	return args
}

// graphicalSubtitleArg overlays the bitmap subtitle onto the video. Any
// requested scaling is chained after the overlay in the same graph, and a
// deinterlaced source goes through yadif before the overlay.
func (r *Resolver) graphicalSubtitleArg(st *state.StreamState, codec string) string {
	var outputSize string
	if st.Video().HasBounds() {
		if scale := scaleFromSizeArg(r.policy.OutputSizeArg(st, codec, false)); scale != "" {
			outputSize = "," + scale
		}
	}

	videoIndex := "v"
	var sourceSize string
	if v := st.VideoStream; v != nil {
		videoIndex = strconv.Itoa(v.Index)
		if v.Width != nil && v.Height != nil {
			sourceSize = fmt.Sprintf(",scale=%d:%d", *v.Width, *v.Height)
		}
	}

	base := "[0:" + videoIndex + "]"
	var deinterlace string
	if st.DeInterlace {
		deinterlace = base + "yadif=0:-1:0[main] ; "
		base = "[main]"
	}

	return fmt.Sprintf(` -filter_complex "%s[0:%d]format=yuva444p%s,lut=u=128:v=128:y=gammaval(.3)[sub] ; %s [sub] overlay%s"`,
		deinterlace, st.SubtitleStream.Index, sourceSize, base, outputSize)
}
