package ffmpeg

import (
	"fmt"
	"math"
	"strings"

	"github.com/smazurov/transcodeargs/internal/state"
)

// OutputSizeArg returns ` -vf "<deinterlace><scale><subtitles>"`. Text
// subtitles are rendered into the same chain only when burnInTextSubs is set,
// in which case timestamps are kept with -copyts.
func (p *DefaultPolicy) OutputSizeArg(st *state.StreamState, codec string, burnInTextSubs bool) string {
	scale := scaleFilter(st, codec)
	if scale == "" {
		return ""
	}

	var deinterlace, subtitles, copyTS string
	if st.DeInterlace {
		deinterlace = "yadif=0:-1:0,"
	}
	if burnInTextSubs && IsTextSubtitle(st.SubtitleStream) {
		if subtitles = textSubtitleFilter(st); subtitles != "" {
			copyTS = " -copyts"
		}
	}

	return fmt.Sprintf(`%s -vf "%s%s%s"`, copyTS, deinterlace, scale, subtitles)
}

// scaleFilter picks the scale expression for the requested bounds. When the
// source size is known the target is computed here; otherwise ffmpeg
// expressions keep the aspect ratio, except for a fixed width and height
// which is passed through as is. H.264 encoders get even dimensions.
func scaleFilter(st *state.StreamState, codec string) string {
	req := st.Video()
	even := isH264Encoder(codec)

	if v := st.VideoStream; v != nil && v.Width != nil && v.Height != nil {
		w, h := Resize(*v.Width, *v.Height, req.Width, req.Height, req.MaxWidth, req.MaxHeight)
		if even {
			return fmt.Sprintf("scale=trunc(%d/2)*2:trunc(%d/2)*2", w, h)
		}
		return fmt.Sprintf("scale=%d:-1", w)
	}

	switch {
	case req.Width != nil && req.Height != nil:
		return fmt.Sprintf("scale=trunc(%d/2)*2:trunc(%d/2)*2", *req.Width, *req.Height)
	case req.Width != nil:
		if even {
			return fmt.Sprintf("scale=%d:trunc(ow/a/2)*2", *req.Width)
		}
		return fmt.Sprintf("scale=%d:-1", *req.Width)
	case req.Height != nil:
		if even {
			return fmt.Sprintf("scale=trunc(oh*a/2)*2:%d", *req.Height)
		}
		return fmt.Sprintf("scale=-1:%d", *req.Height)
	case req.MaxWidth != nil && req.MaxHeight != nil:
		filter := fmt.Sprintf(`scale=w=min(iw\,%d):h=min(ih\,%d):force_original_aspect_ratio=decrease`, *req.MaxWidth, *req.MaxHeight)
		if even {
			filter += ":force_divisible_by=2"
		}
		return filter
	case req.MaxWidth != nil:
		if even {
			return fmt.Sprintf(`scale=min(iw\,%d):trunc(ow/a/2)*2`, *req.MaxWidth)
		}
		return fmt.Sprintf(`scale=min(iw\,%d):-1`, *req.MaxWidth)
	case req.MaxHeight != nil:
		if even {
			return fmt.Sprintf(`scale=trunc(oh*a/2)*2:min(ih\,%d)`, *req.MaxHeight)
		}
		return fmt.Sprintf(`scale=-1:min(ih\,%d)`, *req.MaxHeight)
	}
	return ""
}

// Resize computes the output size for a source of width x height. Explicit
// width and height form a bounding box that keeps the aspect ratio. Neither
// explicit sizes nor max bounds ever enlarge the source.
func Resize(width, height int, reqWidth, reqHeight, maxWidth, maxHeight *int) (int, int) {
	w, h := float64(width), float64(height)

	factor := 1.0
	if reqWidth != nil && w > 0 {
		factor = math.Min(factor, float64(*reqWidth)/w)
	}
	if reqHeight != nil && h > 0 {
		factor = math.Min(factor, float64(*reqHeight)/h)
	}
	w, h = w*factor, h*factor

	if maxHeight != nil && float64(*maxHeight) < h {
		w = w * float64(*maxHeight) / h
		h = float64(*maxHeight)
	}
	if maxWidth != nil && float64(*maxWidth) < w {
		h = h * float64(*maxWidth) / w
		w = float64(*maxWidth)
	}

	return int(math.Round(w)), int(math.Round(h))
}

var filterPathEscaper = strings.NewReplacer(`\`, `/`, `:`, `\:`, `'`, `\'`)

// textSubtitleFilter renders a text subtitle from its sidecar file, or from
// the media file itself for embedded streams. An external stream without a
// path yields no filter.
func textSubtitleFilter(st *state.StreamState) string {
	sub := st.SubtitleStream
	if sub.IsExternal {
		if sub.Path == "" {
			return ""
		}
		return fmt.Sprintf(",subtitles=filename='%s'", filterPathEscaper.Replace(sub.Path))
	}
	return fmt.Sprintf(",subtitles=filename='%s':si=%d", filterPathEscaper.Replace(st.MediaPath), st.InternalSubtitleOffset)
}

// scaleFromSizeArg extracts the bare scale expression from an OutputSizeArg
// result so it can be chained inside another filter graph. The deinterlace
// prefix is dropped; graphicalSubtitleArg adds its own yadif stage.
func scaleFromSizeArg(arg string) string {
	idx := strings.Index(arg, "scale=")
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(arg[idx:], `"`)
}
