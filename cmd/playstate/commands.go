package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PizzaHomicide/playstate/internal/config"
	"github.com/PizzaHomicide/playstate/internal/log"
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/PizzaHomicide/playstate/internal/ui/tui"
	"github.com/PizzaHomicide/playstate/internal/version"
	"github.com/spf13/cobra"
)

var errNoMatchingSource = errors.New("no source matches")

type rootFlags struct {
	headless bool
	source   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "playstate [flags] <source>...",
		Short:         "Play local files and streams through mpv and follow their playback state",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), flags, args)
		},
	}
	root.Flags().BoolVar(&flags.headless, "headless", false, "log provider signals instead of showing the TUI")
	root.Flags().StringVarP(&flags.source, "source", "s", "", "start with the source whose name best matches this query")
	root.Flags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.GetVersionInfo())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List the supported environment variable overrides",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, v := range config.EnvVars() {
				cmd.Printf("%s\n    %s\n", v.Name, v.Description)
			}
		},
	})

	return root
}

func run(ctx context.Context, flags *rootFlags, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		// It is unrecoverable if we cannot produce an application config
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	logger, err := log.New(log.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	defer logger.Close()
	log.SetDefaultLogger(logger)

	log.Info("Starting up Playstate", "version", version.GetVersion(), "build_time", version.GetBuildTime())

	sources := make([]provider.Source, 0, len(args))
	for _, arg := range args {
		sources = append(sources, provider.SourceFromLocation(arg))
	}
	p := provider.NewLocal(logger.With("component", "provider"), sources...)

	start, err := startIndex(p, flags.source)
	if err != nil {
		p.Close()
		return err
	}

	backend, err := player.CreateBackend(cfg, logger)
	if err != nil {
		p.Close()
		return fmt.Errorf("failed to create playback backend: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := backend.Start(ctx); err != nil {
		p.Close()
		_ = backend.Close()
		return err
	}

	session := player.NewSession(backend, p, logger, player.SessionOptions{
		AutoAdvance:    cfg.Playback.AutoAdvanceEnabled(),
		StallPrecision: cfg.Playback.Precision(),
		SeekStep:       cfg.Playback.SeekStep,
		VolumeStep:     cfg.Playback.VolumeStep,
	})
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Error while closing playback session", "error", err)
		}
	}()

	if flags.headless {
		err = runHeadless(ctx, session, start, os.Stdout)
	} else {
		err = tui.Run(session, start)
	}
	if err != nil {
		log.Error("Unhandled error while running", "error", err)
		return err
	}

	log.Info("Playstate shutting down.  Goodbye!")
	return nil
}

// startIndex resolves the --source query against the playlist.  An empty query starts at the first source.
func startIndex(p *provider.Local, query string) (int, error) {
	if query == "" {
		return 0, nil
	}
	index := p.FindSource(query)
	if index < 0 {
		return -1, fmt.Errorf("%w %q", errNoMatchingSource, query)
	}
	return index, nil
}
