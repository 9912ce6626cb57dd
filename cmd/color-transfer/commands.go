package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/lut"
	"color-transfer/internal/models"
	"color-transfer/internal/processing/mask"
	"color-transfer/internal/processing/threshold"
	"color-transfer/internal/services"
	"color-transfer/internal/stats"
)

type generateFlags struct {
	input, reference, mask string
	threshold              int
	autoThreshold          bool
	out, cube              string
	algorithm              string
	iterations             int
	damping                float64
	bins                   int
	cleanup                cleanupFlags
}

func newGenerateCommand(app *Application) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a 256x16 LUT image mapping the input palette onto the reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runGenerate(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "input image")
	fl.StringVar(&f.reference, "reference", "", "reference image")
	fl.StringVar(&f.mask, "mask", "", "optional mask; only input pixels at or above --threshold contribute")
	fl.IntVar(&f.threshold, "threshold", 0, "mask threshold in [0, 255] (default from config)")
	fl.BoolVar(&f.autoThreshold, "auto-threshold", false, "choose the mask threshold with Otsu's method")
	f.cleanup.register(fl)
	fl.StringVar(&f.out, "out", "", "output LUT image (png)")
	fl.StringVar(&f.cube, "cube", "", "also write the LUT as an Adobe .cube file")
	fl.StringVar(&f.algorithm, "algorithm", "", "iterative or per-channel (default from config)")
	ranges := colortransfer.NewProcessor().ParameterRanges()
	fl.IntVar(&f.iterations, "iterations", 0, "transfer iterations in "+ranges["iterations"].Interval())
	fl.Float64Var(&f.damping, "damping", 0, "damping factor in "+ranges["damping_factor"].Interval())
	fl.IntVar(&f.bins, "bins", 0, "histogram bins in "+ranges["histogram_bins"].Interval())
	for _, name := range []string{"input", "reference", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (app *Application) runGenerate(cmd *cobra.Command, f *generateFlags) error {
	var err error
	cfg := *app.cfg
	fl := cmd.Flags()
	if fl.Changed("algorithm") {
		cfg.Transfer.Algorithm = f.algorithm
	}
	if fl.Changed("iterations") {
		cfg.Transfer.Iterations = f.iterations
	}
	if fl.Changed("damping") {
		cfg.Transfer.DampingFactor = f.damping
	}
	if fl.Changed("bins") {
		cfg.Transfer.HistogramBins = f.bins
	}
	if fl.Changed("threshold") {
		cfg.Mask.Threshold = f.threshold
		cfg.Mask.Auto = false
	}
	if f.autoThreshold {
		cfg.Mask.Auto = true
	}
	if cfg.Mask.Cleanup, err = f.cleanup.apply(fl, cfg.Mask.Cleanup); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	algorithm, err := cfg.AlgorithmName()
	if err != nil {
		return err
	}

	input, err := app.loadColor(f.input)
	if err != nil {
		return err
	}
	reference, err := app.loadColor(f.reference)
	if err != nil {
		return err
	}

	job := services.Job{
		Name:          filepath.Base(f.input),
		Input:         input,
		Reference:     reference,
		Threshold:     cfg.Mask.Threshold,
		AutoThreshold: cfg.Mask.Auto,
		Algorithm:     algorithm,
		Parameters:    cfg.AlgorithmParameters(),
	}
	if f.mask != "" {
		if job.Mask, err = app.loadMask(cmd.Context(), f.mask, cfg.Mask.Cleanup); err != nil {
			return err
		}
	}

	result, err := app.service.Generate(cmd.Context(), job)
	if err != nil {
		return err
	}

	if err := app.saver.SaveToPath(f.out, result.LUT); err != nil {
		return err
	}

	table, err := lut.FromImage(result.LUT)
	if err != nil {
		return err
	}
	if f.cube != "" {
		title := strings.TrimSuffix(filepath.Base(f.cube), filepath.Ext(f.cube))
		if err := app.saver.SaveCube(f.cube, table, title); err != nil {
			return err
		}
	}

	app.reportConvergence(table, input, reference)

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s LUT written to %s (%d pixels sampled, %s)\n",
		job.Name, result.Algorithm, f.out, result.SampledPixels, result.Elapsed.Round(time.Millisecond))
	if result.Degenerate {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %v, LUT is the identity\n", job.Name, models.ErrDegenerateInput)
	}
	return nil
}

// reportConvergence logs how much closer the graded input is to the
// reference than the ungraded input.
func (app *Application) reportConvergence(table *lut.LUT, input, reference *models.Image) {
	graded, err := table.Apply(input)
	if err != nil {
		app.logger.Error(component, err, nil)
		return
	}
	app.logger.Info(component, "distribution distance to reference", map[string]interface{}{
		"channel_before": stats.ChannelDistance(input, reference),
		"channel_after":  stats.ChannelDistance(graded, reference),
		"lab_before":     stats.MeanLabDistance(input, reference),
		"lab_after":      stats.MeanLabDistance(graded, reference),
	})
}

func newApplyCommand(app *Application) *cobra.Command {
	var lutPath, input, out string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Grade an image through a LUT (256x16 png or .cube)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := app.loadLUT(lutPath)
			if err != nil {
				return err
			}
			img, err := app.loadColor(input)
			if err != nil {
				return err
			}
			graded, err := table.Apply(img)
			if err != nil {
				return err
			}
			if err := app.saver.SaveToPath(out, graded); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s graded with %s into %s\n", input, lutPath, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&lutPath, "lut", "", "LUT image or .cube file")
	cmd.Flags().StringVar(&input, "input", "", "image to grade")
	cmd.Flags().StringVar(&out, "out", "", "graded output image")
	for _, name := range []string{"lut", "input", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (app *Application) loadLUT(path string) (*lut.LUT, error) {
	if strings.EqualFold(filepath.Ext(path), ".cube") {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open LUT: %w", err)
		}
		defer file.Close()

		table, err := lut.ReadCube(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return table, nil
	}

	img, err := app.loadColor(path)
	if err != nil {
		return nil, err
	}
	return lut.FromImage(img)
}

func newMaskCommand(app *Application) *cobra.Command {
	var input, maskPath, out string
	var level int
	var auto bool
	var cleanup cleanupFlags

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Write the input pixels selected by a mask as a one-pixel-wide column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("threshold") {
				level = app.cfg.Mask.Threshold
			}

			img, err := app.loadColor(input)
			if err != nil {
				return err
			}
			opts, err := cleanup.apply(cmd.Flags(), app.cfg.Mask.Cleanup)
			if err != nil {
				return err
			}
			m, err := app.loadMask(cmd.Context(), maskPath, opts)
			if err != nil {
				return err
			}
			if auto || (app.cfg.Mask.Auto && !cmd.Flags().Changed("threshold")) {
				if level, err = threshold.Otsu(m.Pix); err != nil {
					return err
				}
				app.logger.Info(component, "automatic mask threshold", map[string]interface{}{
					"threshold": level,
				})
			}

			selected, err := mask.ExtractMasked(img, m, level)
			if err != nil {
				return err
			}
			if selected.Empty() {
				return fmt.Errorf("%w: no mask sample reaches threshold %d", models.ErrDegenerateInput, level)
			}

			if err := app.saver.SaveToPath(out, selected); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d pixels selected into %s\n", selected.Len(), img.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input image")
	cmd.Flags().StringVar(&maskPath, "mask", "", "mask image")
	cmd.Flags().IntVar(&level, "threshold", 0, "mask threshold in [0, 255] (default from config)")
	cmd.Flags().BoolVar(&auto, "auto-threshold", false, "choose the threshold with Otsu's method")
	cleanup.register(cmd.Flags())
	cmd.Flags().StringVar(&out, "out", "", "output image")
	for _, name := range []string{"input", "mask", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
