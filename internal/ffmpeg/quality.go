package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// crfByQuality holds the CRF per quality setting: high_speed, high_quality, max_quality.
var crfByQuality = map[string][3]int{
	"libx264":    {23, 20, 18},
	"libx265":    {28, 25, 23},
	"libvpx":     {10, 6, 4},
	"libvpx-vp9": {10, 6, 4},
}

func (p *DefaultPolicy) crf(codec string) int {
	values := crfByQuality[codec]
	switch p.profile.Quality {
	case QualityHighSpeed:
		return values[0]
	case QualityMaxQuality:
		return values[2]
	default:
		return values[1]
	}
}

// VideoQualityArg returns encoder presets and rate control for codec.
// Encoder tokens the policy does not know produce no preset flags.
func (p *DefaultPolicy) VideoQualityArg(st *state.StreamState, codec string, segmented bool) string {
	var param string
	codec = strings.ToLower(codec)

	switch codec {
	case "libx264", "libx265":
		param = fmt.Sprintf("-preset superfast -crf %d", p.crf(codec))
	case "libvpx", "libvpx-vp9":
		// http://www.webmproject.org/docs/encoder-parameters/
		profile := 0
		if st.VideoStream.CodecIs("vc1") {
			profile++
		}
		param = fmt.Sprintf("-speed 16 -quality good -profile:v %d -slices 8 -crf %d -qmin 0 -qmax 50", profile, p.crf(codec))
	case "mpeg4":
		param = "-mbd rd -flags +mv4+aic -trellis 2 -cmp 2 -subcmp 2 -bf 2"
	case "wmv2":
		param = "-qmin 2"
	case "msmpeg4":
		param = "-mbd 2"
	}

	req := st.Video()
	if req.VideoBitRate != nil {
		bitrate := *req.VideoBitRate
		if st.VideoStream != nil && st.VideoStream.BitRate != nil && *st.VideoStream.BitRate < bitrate {
			bitrate = *st.VideoStream.BitRate
		}

		switch {
		case isVPX(codec):
			param += fmt.Sprintf(" -maxrate:v %d -bufsize:v %d -b:v %d", bitrate, bitrate*2, bitrate)
		case codec == "libx264" && segmented:
			param += fmt.Sprintf(" -b:v %d -maxrate %d -bufsize %d", bitrate, bitrate, bitrate*2)
		default:
			param += fmt.Sprintf(" -b:v %d", bitrate)
		}
	}

	// libvpx already carries its own -profile:v
	if req.Profile != "" && !isVPX(codec) {
		param += " -profile:v " + req.Profile
	}
	if req.Level != "" {
		param += " -level " + req.Level
	}

	return strings.TrimSpace(param)
}
