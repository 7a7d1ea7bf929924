package main

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/transcodeargs/cmd"
	"github.com/smazurov/transcodeargs/internal/api"
	"github.com/smazurov/transcodeargs/internal/config"
	"github.com/smazurov/transcodeargs/internal/events"
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
	"github.com/smazurov/transcodeargs/internal/logging"
	"github.com/smazurov/transcodeargs/internal/metrics"
	"github.com/smazurov/transcodeargs/internal/state/store"
	"github.com/smazurov/transcodeargs/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port  string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`
	Watch bool   `help:"Reload config and state files when they change" default:"true" toml:"server.watch" env:"SERVER_WATCH"`

	// Auth settings; auth is off while either is empty
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// States settings
	StatesFile string `help:"Named stream states (.toml, .yaml, .yml, .json)" default:"states.toml" toml:"states.file" env:"STATES_FILE"`

	// Encoding settings
	Quality  string `help:"Encoding quality (high_speed, high_quality, max_quality)" default:"high_quality" toml:"encoding.quality" env:"ENCODING_QUALITY"`
	CPUCount int    `help:"CPU count for thread decisions, 0 detects it" default:"0" toml:"encoding.cpu_count" env:"ENCODING_CPU_COUNT"`

	// Logging settings; per-module levels are read from [logging] in the config file
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		root := cli.Root()
		startup := *opts

		if loadErr := config.Load(opts, root); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		loggingConfig := config.LoadLoggingConfig(opts.Config)
		loggingConfig.Level = opts.LoggingLevel
		loggingConfig.Format = opts.LoggingFormat
		logging.Setup(loggingConfig)

		logger := logging.GetLogger("main")

		eventBus := events.New()

		var logSeq atomic.Uint64
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        logSeq.Add(1),
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		profile, err := config.NewProfile(opts.Quality, opts.CPUCount)
		if err != nil {
			logger.Warn("Invalid encoding profile, using defaults", "error", err)
			profile, _ = config.NewProfile("", 0)
		}
		var resolver atomic.Pointer[ffmpeg.Resolver]
		resolver.Store(ffmpeg.NewResolver(ffmpeg.NewDefaultPolicy(profile)))
		metrics.SetProfile(string(profile.Quality), profile.CPUCount)
		logger.Info("Encoding profile", "quality", profile.Quality, "cpu_count", profile.CPUCount)

		states := store.New(opts.StatesFile)
		if loadErr := states.Load(); loadErr != nil {
			logger.Warn("Failed to load state file", "path", states.Path(), "error", loadErr)
		}
		metrics.SetStatesLoaded(states.Len())

		// Reloads re-run the full precedence chain so flags and env still
		// win over the edited file.
		profileLoader := func(path string) (ffmpeg.Profile, error) {
			fresh := startup
			fresh.Config = path
			if loadErr := config.Load(&fresh, root); loadErr != nil {
				return ffmpeg.Profile{}, loadErr
			}
			return config.NewProfile(fresh.Quality, fresh.CPUCount)
		}
		profileWatcher := config.NewWatcher(opts.Config, profileLoader, logger)
		profileWatcher.OnReload(func(p ffmpeg.Profile) {
			resolver.Store(ffmpeg.NewResolver(ffmpeg.NewDefaultPolicy(p)))
			metrics.SetProfile(string(p.Quality), p.CPUCount)
			eventBus.Publish(events.ProfileReloadedEvent{
				Quality:   string(p.Quality),
				CPUCount:  p.CPUCount,
				Timestamp: events.Now(),
			})
			logger.Info("Encoding profile reloaded", "quality", p.Quality, "cpu_count", p.CPUCount)
		})

		statesLoader := func(string) (int, error) {
			if loadErr := states.Load(); loadErr != nil {
				return 0, loadErr
			}
			return states.Len(), nil
		}
		statesWatcher := config.NewWatcher(states.Path(), statesLoader, logger)
		statesWatcher.OnReload(func(n int) {
			metrics.SetStatesLoaded(n)
			eventBus.Publish(events.StatesReloadedEvent{
				Path:      states.Path(),
				Count:     n,
				Timestamp: events.Now(),
			})
			logger.Info("State file reloaded", "path", states.Path(), "count", n)
		})

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Resolver:          resolver.Load,
			States:            states,
			EventBus:          eventBus,
			PrometheusHandler: metrics.Handler(),
		})

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if opts.Watch {
				if startErr := profileWatcher.Start(ctx); startErr != nil {
					logger.Warn("Failed to watch config file", "path", opts.Config, "error", startErr)
				}
				if startErr := statesWatcher.Start(ctx); startErr != nil {
					logger.Warn("Failed to watch state file", "path", states.Path(), "error", startErr)
				}
			}

			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			cancel()
			_ = profileWatcher.Stop()
			_ = statesWatcher.Stop()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if stopErr := server.Stop(stopCtx); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
		})
	})

	root := cli.Root()
	root.Use = "transcodeargs"
	root.Short = "Resolve ffmpeg arguments from negotiated stream states"
	root.Version = version.Get().String()
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(cmd.CreateResolveCmd())
	root.AddCommand(cmd.CreateCodecsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			c.Println(version.Get().String())
		},
	})

	cli.Run()
}
