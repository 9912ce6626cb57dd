// Package histmatch is the single-pass baseline: every RGB channel is
// matched independently, with no rotation of the colour space.
package histmatch

import (
	"fmt"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"
	"color-transfer/internal/processing/matching"
)

const AlgorithmName = "Per-Channel Histogram Match"

type Processor struct {
	params models.AlgorithmParameters
}

func NewProcessor() *Processor {
	defaults := map[string]interface{}{
		"damping_factor": 1.0,
		"histogram_bins": 256,
	}
	return &Processor{
		params: models.AlgorithmParameters{
			Name:       AlgorithmName,
			Parameters: defaults,
			Defaults: map[string]interface{}{
				"damping_factor": 1.0,
				"histogram_bins": 256,
			},
			Ranges: map[string]models.ParameterRange{
				"damping_factor": {Min: 0.0, Max: 1.0, MinExclusive: true},
				"histogram_bins": {Min: histogram.MinBins, Max: histogram.MaxBins},
			},
		},
	}
}

func (p *Processor) GetName() string {
	return AlgorithmName
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return p.params.Copy().Defaults
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	for name, value := range params {
		if err := p.params.ValidateParameter(name, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) parameters(params map[string]interface{}) (float64, int, error) {
	if err := p.ValidateParameters(params); err != nil {
		return 0, 0, err
	}

	damping := p.params.Defaults["damping_factor"].(float64)
	bins := p.params.Defaults["histogram_bins"].(int)

	switch v := params["damping_factor"].(type) {
	case float64:
		damping = v
	case int:
		damping = float64(v)
	}
	if v, ok := params["histogram_bins"].(int); ok {
		bins = v
	}

	if err := matching.ValidateDamping(damping); err != nil {
		return 0, 0, err
	}
	if err := histogram.ValidateBins(bins); err != nil {
		return 0, 0, err
	}
	return damping, bins, nil
}

func (p *Processor) GenerateLUT(input, reference *models.Image, params map[string]interface{}) (*models.TransferResult, error) {
	damping, bins, err := p.parameters(params)
	if err != nil {
		return nil, err
	}
	if err := colortransfer.ValidateImage("input image", input); err != nil {
		return nil, err
	}
	if err := colortransfer.ValidateImage("reference image", reference); err != nil {
		return nil, err
	}

	result := &models.TransferResult{Algorithm: AlgorithmName}

	var tables [3][histogram.Levels]uint8
	if input.Empty() || reference.Empty() {
		result.Degenerate = true
		for c := range tables {
			tables[c] = identityTable()
		}
	} else {
		for c := range tables {
			tables[c], err = channelTable(input, reference, c, bins, damping)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", c, err)
			}
		}
	}

	result.LUT = sampleTables(&tables)
	return result, nil
}

func channelTable(input, reference *models.Image, channel, bins int, damping float64) ([histogram.Levels]uint8, error) {
	source, err := histogram.Build(channelSamples(input, channel), bins)
	if err != nil {
		return [histogram.Levels]uint8{}, err
	}
	target, err := histogram.Build(channelSamples(reference, channel), bins)
	if err != nil {
		return [histogram.Levels]uint8{}, err
	}
	return matching.MatchDistribution(source.CDF(), target.CDF(), damping)
}

func channelSamples(img *models.Image, channel int) []uint8 {
	samples := make([]uint8, 0, img.Len())
	for i := channel; i < len(img.Pix); i += 4 {
		samples = append(samples, img.Pix[i])
	}
	return samples
}

func identityTable() [histogram.Levels]uint8 {
	var t [histogram.Levels]uint8
	for i := range t {
		t[i] = uint8(i)
	}
	return t
}

func sampleTables(tables *[3][histogram.Levels]uint8) *models.Image {
	out := models.NewImage(colortransfer.LUTWidth, colortransfer.LUTHeight, models.PixelTypeRGBA8)
	for b := 0; b < colortransfer.GridSize; b++ {
		for r := 0; r < colortransfer.GridSize; r++ {
			for g := 0; g < colortransfer.GridSize; g++ {
				i := colortransfer.LUTOffset(r, g, b)
				out.Pix[i] = tables[0][colortransfer.NodeValue(r)]
				out.Pix[i+1] = tables[1][colortransfer.NodeValue(g)]
				out.Pix[i+2] = tables[2][colortransfer.NodeValue(b)]
				out.Pix[i+3] = 255
			}
		}
	}
	return out
}
