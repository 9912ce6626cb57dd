package main

import (
	"context"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"color-transfer/internal/algorithms"
	"color-transfer/internal/config"
	"color-transfer/internal/logger"
	"color-transfer/internal/models"
	"color-transfer/internal/opencv/conversion"
	"color-transfer/internal/pipeline"
	"color-transfer/internal/processing/filters"
	"color-transfer/internal/processing/mask"
	"color-transfer/internal/services"
	"color-transfer/internal/shutdown"
)

const (
	AppName    = "color-transfer"
	AppVersion = "1.0.0"

	component = "CLI"
)

// Application holds what every subcommand shares. It is built in the root
// command's PersistentPreRunE once flags and the config file are known.
type Application struct {
	cfg      *config.Config
	logger   logger.Logger
	timing   *pipeline.Tracker
	loader   pipeline.ImageLoader
	saver    pipeline.ImageSaver
	manager  *algorithms.Manager
	service  *services.TransferService
	shutdown *shutdown.Manager
}

type rootFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
	workers    int
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	app := &Application{}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Transfer the colour palette of a reference image as a 3-D LUT",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd, flags)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.shutdown != nil {
				app.shutdown.Shutdown()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "TOML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config and LOG_LEVEL)")
	pf.BoolVar(&flags.logJSON, "log-json", false, "write logs as JSON")
	pf.IntVar(&flags.workers, "workers", -1, "concurrent transfers, 0 for one per CPU")

	root.AddCommand(
		newGenerateCommand(app),
		newApplyCommand(app),
		newMaskCommand(app),
	)

	return root
}

func (app *Application) initialize(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	levelFlag := cmd.Flags().Changed("log-level")
	if levelFlag {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logJSON {
		cfg.Log.JSON = true
	}
	if flags.workers >= 0 {
		cfg.Service.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if !levelFlag {
		level = logger.LevelFromEnv(level)
	}
	if cfg.Log.JSON {
		app.logger = logger.NewZerolog(os.Stderr, level)
	} else {
		app.logger = logger.NewConsoleLogger(level)
	}

	app.cfg = cfg
	app.timing = pipeline.NewTracker(app.logger)
	app.loader = pipeline.NewLoader(app.logger, app.timing, conversion.Decode)
	app.saver = pipeline.NewSaver(app.logger, app.timing)
	app.manager = algorithms.NewManager()

	app.shutdown = shutdown.NewManager(context.Background(), app.logger)
	app.shutdown.Listen()
	app.shutdown.Register("timing summary", shutdown.CloserFunc(func() error {
		app.logTimings()
		return nil
	}))
	cmd.SetContext(app.shutdown.Context())

	app.service = services.NewTransferService(app.manager, services.Options{
		Workers:   cfg.Service.Workers,
		MaxPixels: cfg.Transfer.MaxPixels,
		Logger:    app.logger,
	})

	app.logger.Debug(component, "application initialized", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"log_level":  level.String(),
		"config":     flags.configPath,
	})
	return nil
}

// loadColor loads an image and widens grayscale sources to RGBA.
func (app *Application) loadColor(path string) (*models.Image, error) {
	data, err := app.loader.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return data.Image.ToRGBA(), nil
}

// loadMask loads a mask, reduces colour sources to one channel and runs
// the configured cleanup steps.
func (app *Application) loadMask(ctx context.Context, path string, cleanup mask.CleanupOptions) (*models.Image, error) {
	data, err := app.loader.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	m := data.Image.ToGray()
	if !cleanup.Enabled() {
		return m, nil
	}

	timing := app.timing.StartTiming("mask_cleanup")
	defer app.timing.EndTiming(timing)

	return filters.CleanMask(ctx, m, cleanup)
}

// cleanupFlags registers the mask cleanup flags; changed flags override
// the [mask.cleanup] table.
type cleanupFlags struct {
	cleanup bool
	erode   int
	feather float64
}

func (f *cleanupFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.cleanup, "mask-cleanup", false, "remove speckle and fill pinholes in the mask")
	fs.IntVar(&f.erode, "mask-erode", 0, "erode the mask by this many pixels")
	fs.Float64Var(&f.feather, "mask-feather", 0, "gaussian sigma used to feather the mask edge")
}

func (f *cleanupFlags) apply(fs *pflag.FlagSet, opts mask.CleanupOptions) (mask.CleanupOptions, error) {
	if fs.Changed("mask-cleanup") {
		opts.Cleanup = f.cleanup
	}
	if fs.Changed("mask-erode") {
		opts.Erode = f.erode
	}
	if fs.Changed("mask-feather") {
		opts.Feather = f.feather
	}
	return opts, opts.Validate()
}

func (app *Application) logTimings() {
	for _, op := range app.timing.Operations() {
		app.logger.Debug(component, "timing summary", map[string]interface{}{
			"operation": op,
			"count":     len(app.timing.GetTimings(op)),
			"average":   app.timing.GetAverageTime(op).String(),
		})
	}
}
