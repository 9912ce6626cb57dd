package colortransfer

import (
	"fmt"

	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"
	"color-transfer/internal/processing/matching"

	"github.com/chewxy/math32"
)

// minAxisSpan is the narrowest value range, in 8-bit units, that is still
// worth matching on a rotated axis.
const minAxisSpan = 255 * 1e-6

// Driver runs the iterative rotate-match-unrotate loop. It holds only its
// parameters, so one Driver may serve concurrent calls.
type Driver struct {
	params Parameters
}

func NewDriver(params Parameters) (*Driver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Driver{params: params}, nil
}

func (d *Driver) Parameters() Parameters {
	return d.params
}

// Run matches the input samples onto the reference samples and returns the
// composite transform. The arguments are not modified. An empty input or
// reference yields the identity transform.
func (d *Driver) Run(input, reference []Vec3) (*Transform, error) {
	if len(input) == 0 || len(reference) == 0 {
		return Identity(), nil
	}

	working := make([]Vec3, len(input))
	copy(working, input)

	scratch := newAxisScratch(len(working), len(reference))
	transform := &Transform{passes: make([]pass, 0, d.params.Iterations)}

	for i := 0; i < d.params.Iterations; i++ {
		p, err := d.buildPass(Rotation(i), working, reference, scratch)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}

		for k := range working {
			working[k] = p.apply(working[k])
		}
		transform.passes = append(transform.passes, p)
	}

	return transform, nil
}

type axisScratch struct {
	working   [3][]float32
	reference [3][]float32
	levelsW   []uint8
	levelsR   []uint8
}

func newAxisScratch(nWorking, nReference int) *axisScratch {
	s := &axisScratch{
		levelsW: make([]uint8, nWorking),
		levelsR: make([]uint8, nReference),
	}
	for a := 0; a < 3; a++ {
		s.working[a] = make([]float32, nWorking)
		s.reference[a] = make([]float32, nReference)
	}
	return s
}

func project(rotation Matrix3, samples []Vec3, dst *[3][]float32) {
	for k, c := range samples {
		r := rotation.Mul(c)
		dst[0][k] = r[0]
		dst[1][k] = r[1]
		dst[2][k] = r[2]
	}
}

func (d *Driver) buildPass(rotation Matrix3, working, reference []Vec3, s *axisScratch) (pass, error) {
	p := pass{rotation: rotation}

	project(rotation, working, &s.working)
	project(rotation, reference, &s.reference)

	for a := 0; a < 3; a++ {
		lo, hi := valueRange(s.working[a], s.reference[a])
		span := hi - lo
		if !(span > minAxisSpan) {
			continue
		}

		quantize(s.working[a], lo, span, s.levelsW)
		quantize(s.reference[a], lo, span, s.levelsR)

		curve, err := d.axisCurve(s.levelsW, s.levelsR)
		if err != nil {
			return p, err
		}
		p.axes[a] = &axisMap{lo: lo, span: span, curve: curve}
	}

	return p, nil
}

func (d *Driver) axisCurve(levelsW, levelsR []uint8) (*matching.Curve, error) {
	hw, err := histogram.Build(levelsW, d.params.HistogramBins)
	if err != nil {
		return nil, err
	}
	hr, err := histogram.Build(levelsR, d.params.HistogramBins)
	if err != nil {
		return nil, err
	}
	return matching.NewCurve(
		hw.Smooth(smoothingSigma).CDF(),
		hr.Smooth(smoothingSigma).CDF(),
		d.params.DampingFactor,
	)
}

func valueRange(a, b []float32) (float32, float32) {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	for _, v := range a {
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	for _, v := range b {
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	return lo, hi
}

// quantize maps values in [lo, lo+span] onto integer levels 0..255.
func quantize(values []float32, lo, span float32, dst []uint8) {
	scale := 255 / span
	for k, v := range values {
		dst[k] = toByte((v - lo) * scale)
	}
}

// SamplesFromImage collects the RGB triples of a 4-channel image, dropping
// alpha.
func SamplesFromImage(img *models.Image) []Vec3 {
	channels := img.Channels()
	samples := make([]Vec3, 0, img.Len())
	for i := 0; i+2 < len(img.Pix); i += channels {
		samples = append(samples, Vec3{float32(img.Pix[i]), float32(img.Pix[i+1]), float32(img.Pix[i+2])})
	}
	return samples
}
