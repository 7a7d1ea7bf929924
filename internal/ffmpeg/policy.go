package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smazurov/transcodeargs/internal/state"
)

// Policy supplies the negotiation routines the argument builders delegate to.
// Implementations must be pure functions of their arguments.
type Policy interface {
	// OutputSizeArg returns the resolution-scaling argument, including its
	// leading space, or "" when no scaling can be expressed.
	OutputSizeArg(st *state.StreamState, codec string, burnInTextSubs bool) string
	// VideoQualityArg returns rate-control flags for the encoder.
	VideoQualityArg(st *state.StreamState, codec string, segmented bool) string
	// AudioChannels returns the output channel count, or nil to keep the source layout.
	AudioChannels(req state.StreamRequest, source *state.MediaStream) *int
	// AudioBitRate returns the output audio bitrate, or nil to let the encoder decide.
	AudioBitRate(st *state.StreamState) *int
	// AudioFilterArg returns the -af argument for re-encoded audio.
	AudioFilterArg(st *state.StreamState, primeStart bool) string
	// ThreadCount returns the -threads value; 0 lets ffmpeg decide.
	ThreadCount(st *state.StreamState, isVPX bool) int
	// InputModifier returns the flags placed before -i.
	InputModifier(st *state.StreamState) string
	// InputArgument returns the value of -i.
	InputArgument(st *state.StreamState) string
	// SlowSeekArg returns the output-side seek, including its leading space.
	SlowSeekArg(req state.StreamRequest) string
	// MapArgs returns the -map flags.
	MapArgs(st *state.StreamState) string
}

// Quality selects the speed/quality trade-off of the default policy.
type Quality string

const (
	QualityHighSpeed   Quality = "high_speed"
	QualityHighQuality Quality = "high_quality"
	QualityMaxQuality  Quality = "max_quality"
)

// ParseQuality converts a config value to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityHighSpeed, QualityHighQuality, QualityMaxQuality:
		return q, nil
	case "":
		return QualityHighQuality, nil
	default:
		return "", fmt.Errorf("unknown encoding quality %q", s)
	}
}

// Profile configures DefaultPolicy.
type Profile struct {
	Quality  Quality
	CPUCount int
}

// DefaultPolicy implements Policy with progressive-streaming defaults.
type DefaultPolicy struct {
	profile Profile
}

// NewDefaultPolicy creates a DefaultPolicy, filling unset profile fields.
func NewDefaultPolicy(profile Profile) *DefaultPolicy {
	if profile.Quality == "" {
		profile.Quality = QualityHighQuality
	}
	if profile.CPUCount < 1 {
		profile.CPUCount = 1
	}
	return &DefaultPolicy{profile: profile}
}

// Profile returns the effective profile.
func (p *DefaultPolicy) Profile() Profile {
	return p.profile
}

// AudioChannels never upmixes: requested counts are capped at the source count.
func (p *DefaultPolicy) AudioChannels(req state.StreamRequest, source *state.MediaStream) *int {
	var sourceChannels *int
	if source != nil {
		sourceChannels = source.Channels
	}

	// wmav2 only supports stereo output
	if sourceChannels != nil && *sourceChannels > 2 &&
		(strings.EqualFold(req.AudioCodec, "wma") || strings.EqualFold(req.AudioCodec, "wmav2")) {
		return state.IntPtr(2)
	}

	if req.MaxAudioChannels != nil {
		return capAtSource(*req.MaxAudioChannels, sourceChannels)
	}
	if req.AudioChannels != nil {
		return capAtSource(*req.AudioChannels, sourceChannels)
	}
	return nil
}

func capAtSource(requested int, source *int) *int {
	if source != nil && *source < requested {
		return state.IntPtr(*source)
	}
	return state.IntPtr(requested)
}

// AudioBitRate caps the requested bitrate at the source bitrate.
func (p *DefaultPolicy) AudioBitRate(st *state.StreamState) *int {
	requested := st.Request.AudioBitRate
	if requested == nil {
		return nil
	}
	if st.AudioStream != nil && st.AudioStream.BitRate != nil && *st.AudioStream.BitRate < *requested {
		return state.IntPtr(*st.AudioStream.BitRate)
	}
	return state.IntPtr(*requested)
}

// AudioFilterArg builds the aresample chain, boosting volume on 5.1+ to
// stereo downmixes and shifting timestamps when text subtitles are burned.
func (p *DefaultPolicy) AudioFilterArg(st *state.StreamState, primeStart bool) string {
	var adelay, sampleRate, volume, pts string

	if primeStart {
		adelay = "adelay=1,"
	}
	if sr := st.Request.AudioSampleRate; sr != nil {
		sampleRate = strconv.Itoa(*sr) + ":"
	}

	channels := p.AudioChannels(st.Request, st.AudioStream)
	if channels != nil && *channels <= 2 &&
		st.AudioStream != nil && st.AudioStream.Channels != nil && *st.AudioStream.Channels > 5 {
		volume = ",volume=2.000000"
	}

	if IsTextSubtitle(st.SubtitleStream) && st.Request.StartTimeMs > 0 {
		seconds := math.Round(st.Request.StartTime().Seconds())
		pts = ",asetpts=PTS-" + strconv.FormatFloat(seconds, 'f', -1, 64) + "/TB"
	}

	return fmt.Sprintf(`-af "%saresample=%sasync=%s%s%s"`, adelay, sampleRate, st.AudioSyncValue(), volume, pts)
}

// ThreadCount gives libvpx explicit threads since it does not pick them itself.
func (p *DefaultPolicy) ThreadCount(st *state.StreamState, isVPX bool) int {
	cpus := p.profile.CPUCount

	if st.ReadInputAtNativeFramerate {
		if isVPX {
			return max(cpus-1, 1)
		}
		return 0
	}

	if p.profile.Quality == QualityHighSpeed {
		return 2
	}
	if isVPX {
		return max(cpus-1, 2)
	}
	return 0
}

// InputModifier returns probe, seek and input-override flags placed before -i.
func (p *DefaultPolicy) InputModifier(st *state.StreamState) string {
	var parts []string

	switch st.VideoType {
	case state.VideoTypeDVD, state.VideoTypeBluRay, state.VideoTypeISO:
		parts = append(parts, "-probesize 1G -analyzeduration 200M")
	}

	if st.IsRemote() && st.UserAgent != "" {
		parts = append(parts, `-user-agent "`+st.UserAgent+`"`)
	}

	if start := st.Request.StartTime(); start > 0 && !st.Request.AccurateSeek {
		parts = append(parts, "-ss "+FormatSeekTime(start))
	}

	if st.VideoRequest != nil {
		parts = append(parts, "-fflags genpts")
	}
	if st.InputFormat != "" {
		parts = append(parts, "-f "+st.InputFormat)
	}
	if st.InputVideoCodec != "" {
		parts = append(parts, "-vcodec "+st.InputVideoCodec)
	}
	if st.InputAudioCodec != "" {
		parts = append(parts, "-acodec "+st.InputAudioCodec)
	}
	if st.ReadInputAtNativeFramerate {
		parts = append(parts, "-re")
	}

	return strings.Join(parts, " ")
}

// InputArgument quotes the media path for the file, concat or http protocol.
func (p *DefaultPolicy) InputArgument(st *state.StreamState) string {
	if st.IsRemote() {
		return `"` + st.MediaPath + `"`
	}
	if len(st.PlayableFiles) > 1 {
		return `concat:"` + strings.Join(st.PlayableFiles, "|") + `"`
	}
	path := st.MediaPath
	if path == "" && len(st.PlayableFiles) == 1 {
		path = st.PlayableFiles[0]
	}
	return `file:"` + path + `"`
}

// SlowSeekArg seeks after the input only when accurate seeking was asked for.
func (p *DefaultPolicy) SlowSeekArg(req state.StreamRequest) string {
	if start := req.StartTime(); start > 0 && req.AccurateSeek {
		return " -ss " + FormatSeekTime(start)
	}
	return ""
}

// MapArgs maps the selected video and audio streams and drops subtitles
// when none is selected. Without any selected stream ffmpeg picks.
func (p *DefaultPolicy) MapArgs(st *state.StreamState) string {
	if st.VideoStream == nil && st.AudioStream == nil {
		return ""
	}

	var args []string
	if st.VideoStream != nil {
		args = append(args, fmt.Sprintf("-map 0:%d", st.VideoStream.Index))
	} else {
		args = append(args, "-map -0:v")
	}
	if st.AudioStream != nil {
		args = append(args, fmt.Sprintf("-map 0:%d", st.AudioStream.Index))
	} else {
		args = append(args, "-map -0:a")
	}
	if st.SubtitleStream == nil {
		args = append(args, "-map -0:s")
	}
	return strings.Join(args, " ")
}

// FormatSeekTime renders d as hh:mm:ss.fff.
func FormatSeekTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
