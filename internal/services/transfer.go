// Package services runs LUT generation jobs over a bounded worker pool.
package services

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"color-transfer/internal/algorithms"
	"color-transfer/internal/logger"
	"color-transfer/internal/models"
	"color-transfer/internal/pipeline"
	"color-transfer/internal/processing/mask"
	"color-transfer/internal/processing/threshold"
)

const component = "TransferService"

// Segmenter produces a one-channel mask for an RGBA8 image. The mask may
// have any size; it is resized to the image before use.
// *segmentation.Processor satisfies it.
type Segmenter interface {
	Run(input *models.Image) (*models.Image, error)
}

// Job is one independent LUT generation. When Mask is set, only input
// pixels whose mask value is at least Threshold contribute statistics.
// Without a Mask, Segmenter (if set) computes one from Input.
// AutoThreshold replaces Threshold by the Otsu level of the mask.
type Job struct {
	Name          string
	Input         *models.Image
	Reference     *models.Image
	Mask          *models.Image
	Segmenter     Segmenter
	Threshold     int
	AutoThreshold bool
	Algorithm     string
	Parameters    map[string]interface{}
}

type Result struct {
	Name          string
	Algorithm     string
	LUT           *models.Image
	Degenerate    bool
	SampledPixels int
	Elapsed       time.Duration
}

// TransferService runs jobs on at most Workers goroutines at a time.
// Each job works on its own buffers.
type TransferService struct {
	algorithmManager *algorithms.Manager
	logger           logger.Logger
	workerPool       chan struct{}
	maxPixels        int
}

type Options struct {
	Workers   int
	MaxPixels int
	Logger    logger.Logger
}

func NewTransferService(manager *algorithms.Manager, opts Options) *TransferService {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	pool := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		pool <- struct{}{}
	}

	return &TransferService{
		algorithmManager: manager,
		logger:           log,
		workerPool:       pool,
		maxPixels:        opts.MaxPixels,
	}
}

// Generate runs one job once a worker is free.
func (s *TransferService) Generate(ctx context.Context, job Job) (*Result, error) {
	select {
	case <-s.workerPool:
		defer func() { s.workerPool <- struct{}{} }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	name := job.Algorithm
	if name == "" {
		name = s.algorithmManager.GetCurrentAlgorithm()
	}
	algorithm, err := s.algorithmManager.GetAlgorithm(name)
	if err != nil {
		return nil, err
	}

	params := s.algorithmManager.GetParameters(name)
	for k, v := range job.Parameters {
		params[k] = v
	}
	if err := algorithm.ValidateParameters(params); err != nil {
		return nil, err
	}

	input, err := s.prepareInput(job)
	if err != nil {
		return nil, err
	}
	reference, err := s.downscale("reference image", job.Reference)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transfer, err := algorithm.GenerateLUT(input, reference, params)
	if err != nil {
		s.logger.Error(component, err, map[string]interface{}{
			"job":       job.Name,
			"algorithm": name,
		})
		return nil, err
	}

	result := &Result{
		Name:          job.Name,
		Algorithm:     transfer.Algorithm,
		LUT:           transfer.LUT,
		Degenerate:    transfer.Degenerate,
		SampledPixels: input.Len(),
		Elapsed:       time.Since(startTime),
	}

	if result.Degenerate {
		s.logger.Warning(component, models.ErrDegenerateInput.Error()+": identity LUT produced", map[string]interface{}{
			"job":              job.Name,
			"input_pixels":     input.Len(),
			"reference_pixels": reference.Len(),
		})
	}

	s.logger.Info(component, "LUT generated", map[string]interface{}{
		"job":            job.Name,
		"algorithm":      name,
		"sampled_pixels": result.SampledPixels,
		"elapsed":        result.Elapsed.String(),
	})

	return result, nil
}

// prepareInput downscales the input (and mask, to the same size) and
// applies the mask.
func (s *TransferService) prepareInput(job Job) (*models.Image, error) {
	if job.Mask == nil && job.Segmenter == nil {
		return s.downscale("input image", job.Input)
	}

	if err := job.Input.Validate("input image"); err != nil {
		return nil, err
	}
	if job.Mask == nil {
		segmented, err := s.segment(job)
		if err != nil {
			return nil, err
		}
		job.Mask = segmented
	}
	if err := job.Mask.Validate("mask"); err != nil {
		return nil, err
	}
	if job.Mask.Width != job.Input.Width || job.Mask.Height != job.Input.Height {
		return nil, models.NewValidationError("mask size",
			fmt.Sprintf("%dx%d", job.Mask.Width, job.Mask.Height),
			fmt.Sprintf("must match input size %dx%d", job.Input.Width, job.Input.Height))
	}
	level := job.Threshold
	if !job.AutoThreshold {
		if err := mask.ValidateThreshold(level); err != nil {
			return nil, err
		}
	}

	input, err := s.downscale("input image", job.Input)
	if err != nil {
		return nil, err
	}
	m, err := pipeline.ResizeMask(job.Mask, input.Width, input.Height)
	if err != nil {
		return nil, err
	}

	if job.AutoThreshold {
		if level, err = threshold.Otsu(m.Pix); err != nil {
			return nil, fmt.Errorf("automatic mask threshold: %w", err)
		}
	}

	selected, err := mask.ExtractMasked(input, m, level)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(component, "mask applied", map[string]interface{}{
		"job":       job.Name,
		"threshold": level,
		"auto":      job.AutoThreshold,
		"selected":  selected.Len(),
		"total":     input.Len(),
	})
	return selected, nil
}

func (s *TransferService) segment(job Job) (*models.Image, error) {
	out, err := job.Segmenter.Run(job.Input)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}
	if out == nil {
		return nil, models.NewValidationError("segmentation mask", nil, "must not be nil")
	}
	if out.Type != models.PixelTypeGray8 {
		return nil, models.NewValidationError("segmentation mask", out.Type, "must have type CV_8UC1")
	}
	if err := out.Validate("segmentation mask"); err != nil {
		return nil, err
	}

	s.logger.Debug(component, "mask segmented", map[string]interface{}{
		"job":    job.Name,
		"width":  out.Width,
		"height": out.Height,
	})
	return pipeline.ResizeMask(out, job.Input.Width, job.Input.Height)
}

func (s *TransferService) downscale(name string, img *models.Image) (*models.Image, error) {
	if img == nil || img.Type != models.PixelTypeRGBA8 || s.maxPixels <= 0 {
		// Rejected or passed through untouched by the algorithm.
		return img, nil
	}
	if err := img.Validate(name); err != nil {
		return nil, err
	}
	return pipeline.Downscale(img, s.maxPixels)
}

// GenerateAll runs jobs concurrently. Results are in job order; the first
// error in job order is returned alongside the results that succeeded.
func (s *TransferService) GenerateAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Generate(ctx, jobs[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("job %d (%s): %w", i, jobs[i].Name, err)
		}
	}
	return results, nil
}
