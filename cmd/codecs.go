package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/smazurov/transcodeargs/internal/ffmpeg"
)

// CreateCodecsCmd creates the codecs command.
func CreateCodecsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "codecs",
		Short: "List accepted codec names and their encoders",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return PrintCodecs(os.Stdout, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// PrintCodecs writes the video and audio selector tables to w.
func PrintCodecs(w io.Writer, asJSON bool) error {
	video, audio := ffmpeg.VideoCodecs(), ffmpeg.AudioCodecs()

	if asJSON {
		return json.NewEncoder(w).Encode(map[string][]ffmpeg.CodecMapping{
			"video": video,
			"audio": audio,
		})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tENCODER")
	for _, m := range video {
		fmt.Fprintf(tw, "video\t%s\t%s\n", m.Name, m.Encoder)
	}
	for _, m := range audio {
		fmt.Fprintf(tw, "audio\t%s\t%s\n", m.Name, m.Encoder)
	}
	fmt.Fprintf(tw, "any\t%s\t%s\n", ffmpeg.CodecCopy, ffmpeg.CodecCopy)
	return tw.Flush()
}
