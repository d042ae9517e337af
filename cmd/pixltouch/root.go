package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/0bVdnt/PixlTouch/internal/config"
	"github.com/0bVdnt/PixlTouch/internal/logger"
	"github.com/0bVdnt/PixlTouch/internal/media"
	"github.com/0bVdnt/PixlTouch/internal/media/mpv"
	"github.com/0bVdnt/PixlTouch/internal/player"
	"github.com/0bVdnt/PixlTouch/internal/renderer"
	"github.com/0bVdnt/PixlTouch/internal/sched"
	"github.com/0bVdnt/PixlTouch/internal/tui"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const loopCapacity = 256

func init() {
	flags := rootCmd.Flags()
	flags.StringP("config", "c", "", "Directory holding "+config.Name+".toml")

	bindFlags(flags)

	lo.Must0(rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"sim", "mpv"}, cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("dismiss", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"rotation", "vertical", "none"}, cobra.ShellCompDirectiveDefault
	}))
}

func bindFlags(flags *pflag.FlagSet) {
	flags.StringP("backend", "b", "", "Media backend (sim, mpv)")
	lo.Must0(viper.BindPFlag(config.PlayerBackend, flags.Lookup("backend")))

	flags.String("mpv", "", "mpv binary used by the mpv backend")
	lo.Must0(viper.BindPFlag(config.PlayerMpvPath, flags.Lookup("mpv")))

	flags.Duration("duration", 0, "Length of the simulated item")
	lo.Must0(viper.BindPFlag(config.PlayerSimDuration, flags.Lookup("duration")))

	flags.StringP("dismiss", "d", "", "Swipe to dismiss shape (rotation, vertical, none)")
	lo.Must0(viper.BindPFlag(config.DismissMode, flags.Lookup("dismiss")))

	flags.Float64("skip", 0, "Seconds skipped per double tap")
	lo.Must0(viper.BindPFlag(config.SkipStep, flags.Lookup("skip")))

	flags.StringP("log", "l", "", "Write logs to this file")
	lo.Must0(viper.BindPFlag(config.LogsPath, flags.Lookup("log")))

	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	lo.Must0(viper.BindPFlag(config.LogsLevel, flags.Lookup("log-level")))
}

var rootCmd = &cobra.Command{
	Use:   config.Name + " [file or url]",
	Short: "Touch-style playback controls in the terminal",
	Long: config.Name + " drives a media player with the gestures of a touch video player:\n" +
		"double click to skip, hold to fast forward, drag the bar to scrub,\n" +
		"drag the picture to dismiss and scroll to zoom.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		return run(cmd.Context(), lo.Must(cmd.Flags().GetString("config")), target)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		handleErr(err)
	}
}

func handleErr(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}

func run(ctx context.Context, configDir, target string) error {
	fs := afero.NewOsFs()
	v := viper.GetViper()

	dirs := lo.Compact([]string{configDir, userConfigDir()})
	if err := config.Setup(v, fs, dirs...); err != nil {
		return err
	}
	if v.GetString(config.LogsPath) != "" {
		v.Set(config.LogsWrite, true)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logger.New(fs, cfg.Logger())
	if err != nil {
		return err
	}
	defer log.Close()

	loop := sched.NewLoop(loopCapacity)
	defer loop.Close()

	mpvLog := ""
	if log.IsEnabled() {
		mpvLog = cfg.LogsPath + ".mpv"
	}

	backend, stall, closeBackend, err := openBackend(ctx, cfg, loop, target, mpvLog, log)
	if err != nil {
		log.WithError(err).Error("open backend")
		return err
	}
	defer closeBackend()

	render, err := renderer.New()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	title := filepath.Base(target)
	if target == "" {
		title = "simulated"
	}

	coord := player.New(backend, loop, cfg.Player(), log)
	app, err := tui.New(tui.Config{
		Coordinator: coord,
		Loop:        loop,
		Renderer:    render,
		Logger:      log,
		Title:       title,
		Stall:       stall,
	})
	if err != nil {
		render.Close()
		return err
	}

	if c, ok := backend.(*mpv.Client); ok {
		go func() {
			select {
			case <-c.Wait():
				log.Info("mpv exited")
				app.Stop()
			case <-ctx.Done():
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"backend": cfg.PlayerBackend,
		"target":  target,
	}).Info("starting")
	return app.Run(ctx)
}

// openBackend starts the configured media player.
func openBackend(ctx context.Context, cfg config.Config, loop *sched.Loop, target, mpvLog string, log logrus.FieldLogger) (media.Player, func(d time.Duration), func(), error) {
	switch cfg.PlayerBackend {
	case "mpv":
		if target == "" {
			return nil, nil, nil, errors.New("the mpv backend needs a file or url")
		}
		c, err := mpv.Start(ctx, mpv.Options{
			Binary:  cfg.PlayerMpvPath,
			Target:  target,
			Title:   filepath.Base(target),
			Logger:  log,
			LogFile: mpvLog,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return c, nil, func() { _ = c.Close() }, nil

	default:
		sim := media.NewSim(loop, cfg.Sim())
		return sim, sim.Stall, func() {}, nil
	}
}

func userConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, config.Name)
}
