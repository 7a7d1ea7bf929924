package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/smazurov/transcodeargs/internal/config"
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
	"github.com/smazurov/transcodeargs/internal/logging"
	"github.com/smazurov/transcodeargs/internal/state/store"
)

// Parts printable by the resolve command.
const (
	PartCommand = "command"
	PartVideo   = "video"
	PartAudio   = "audio"
)

// ResolveOptions are the inputs of one resolve run.
type ResolveOptions struct {
	Name       string
	StatesFile string
	Profile    string
	OutputPath string
	BurnInSubs bool
	Part       string
	JSON       bool
}

// ResolveOutput is printed by --json.
type ResolveOutput struct {
	Name       string `json:"name"`
	Binary     string `json:"binary"`
	Command    string `json:"command"`
	VideoArgs  string `json:"videoArgs"`
	AudioArgs  string `json:"audioArgs"`
	VideoCodec string `json:"videoCodec"`
	AudioCodec string `json:"audioCodec,omitempty"`
	VideoMode  string `json:"videoMode"`
	AudioMode  string `json:"audioMode"`
	Threads    int    `json:"threads"`
}

// CreateResolveCmd creates the resolve command.
func CreateResolveCmd() *cobra.Command {
	opts := ResolveOptions{}
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "resolve [state-name]",
		Short: "Print the ffmpeg arguments for a named state",
		Long: `Loads the named stream state from the state file and prints the ffmpeg ` +
			`arguments derived from it, using the [encoding] profile of the config file.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Setup(loggingConfig)
			logger := logging.GetLogger("cli").With("state", args[0])

			opts.Name = args[0]
			if err := RunResolve(os.Stdout, opts); err != nil {
				logger.Error("Failed to resolve state", "error", err, "states", opts.StatesFile)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&opts.StatesFile, "states", "states.toml", "State file (.toml, .yaml, .yml or .json)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "config.toml", "Config file holding the [encoding] profile")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output path; defaults to the state's output_path")
	cmd.Flags().BoolVar(&opts.BurnInSubs, "burn-in-subs", false, "Burn text subtitles into the scaled video")
	cmd.Flags().StringVar(&opts.Part, "part", PartCommand, "What to print: command, video or audio")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print every decision as JSON")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")

	return cmd
}

// RunResolve resolves opts.Name and writes the requested part to w.
func RunResolve(w io.Writer, opts ResolveOptions) error {
	switch opts.Part {
	case "", PartCommand, PartVideo, PartAudio:
	default:
		return fmt.Errorf("unknown part %q, want command, video or audio", opts.Part)
	}

	states := store.New(opts.StatesFile)
	if err := states.Load(); err != nil {
		return err
	}

	st, err := states.Get(opts.Name)
	if err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return fmt.Errorf("invalid state %q: %w", opts.Name, err)
	}

	profile, err := config.LoadProfile(opts.Profile)
	if err != nil {
		return err
	}
	resolver := ffmpeg.NewResolver(ffmpeg.NewDefaultPolicy(profile))

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = st.OutputPath
	}
	if outputPath == "" && (opts.Part == "" || opts.Part == PartCommand || opts.JSON) {
		return fmt.Errorf("state %q has no output path, pass --output", opts.Name)
	}

	res := resolver.Resolve(outputPath, st, opts.BurnInSubs)

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ResolveOutput{
			Name:       opts.Name,
			Binary:     ffmpeg.Base(),
			Command:    res.Command,
			VideoArgs:  res.VideoArgs,
			AudioArgs:  res.AudioArgs,
			VideoCodec: res.VideoCodec,
			AudioCodec: res.AudioCodec,
			VideoMode:  string(res.VideoMode),
			AudioMode:  string(res.AudioMode),
			Threads:    res.Threads,
		})
	}

	switch opts.Part {
	case PartVideo:
		_, err = fmt.Fprintln(w, res.VideoArgs)
	case PartAudio:
		_, err = fmt.Fprintln(w, res.AudioArgs)
	default:
		_, err = fmt.Fprintln(w, ffmpeg.Base()+" "+res.Command)
	}
	return err
}
