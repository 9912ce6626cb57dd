package lut

import (
	"color-transfer/internal/models"
)

// Lookup interpolates the LUT at (r, g, b) in [0, 1] using tetrahedral
// interpolation, which keeps the grey axis exact.
func (l *LUT) Lookup(r, g, b float64) [3]float64 {
	const scale = float64(Size - 1)
	rPos := clamp(r, 0, 1) * scale
	gPos := clamp(g, 0, 1) * scale
	bPos := clamp(b, 0, 1) * scale

	ri := clamp(int(rPos), 0, Size-2)
	gi := clamp(int(gPos), 0, Size-2)
	bi := clamp(int(bPos), 0, Size-2)

	fr := clamp(rPos-float64(ri), 0, 1)
	fg := clamp(gPos-float64(gi), 0, 1)
	fb := clamp(bPos-float64(bi), 0, 1)

	const (
		bStride = channels
		gStride = Size * bStride
		rStride = Size * gStride
	)
	base := ri*rStride + gi*gStride + bi*bStride

	c000 := base
	c001 := base + bStride
	c010 := base + gStride
	c011 := base + gStride + bStride
	c100 := base + rStride
	c101 := base + rStride + bStride
	c110 := base + rStride + gStride
	c111 := base + rStride + gStride + bStride

	n := l.nodes
	var out [3]float64
	for i := 0; i < channels; i++ {
		switch {
		case fr > fg && fg > fb:
			out[i] = (1-fr)*n[c000+i] + (fr-fg)*n[c100+i] + (fg-fb)*n[c110+i] + fb*n[c111+i]
		case fr > fg && fr > fb:
			out[i] = (1-fr)*n[c000+i] + (fr-fb)*n[c100+i] + (fb-fg)*n[c101+i] + fg*n[c111+i]
		case fr > fg:
			out[i] = (1-fb)*n[c000+i] + (fb-fr)*n[c001+i] + (fr-fg)*n[c101+i] + fg*n[c111+i]
		case fr > fb:
			out[i] = (1-fg)*n[c000+i] + (fg-fr)*n[c010+i] + (fr-fb)*n[c110+i] + fb*n[c111+i]
		case fg > fb:
			out[i] = (1-fg)*n[c000+i] + (fg-fb)*n[c010+i] + (fb-fr)*n[c011+i] + fr*n[c111+i]
		default:
			out[i] = (1-fb)*n[c000+i] + (fb-fg)*n[c001+i] + (fg-fr)*n[c011+i] + fr*n[c111+i]
		}
	}
	return out
}

// Apply grades a colour image through the LUT. Alpha is copied unchanged;
// the source is not modified.
func (l *LUT) Apply(img *models.Image) (*models.Image, error) {
	if err := img.Validate("image"); err != nil {
		return nil, err
	}
	if img.Type != models.PixelTypeRGBA8 && img.Type != models.PixelTypeRGB8 {
		return nil, models.NewValidationError("image", img.Type, "must have 3 or 4 channels")
	}

	out := img.Clone()
	step := img.Channels()

	// Cache per distinct colour; graded photos repeat colours heavily.
	cache := make(map[[3]uint8][3]uint8)
	for i := 0; i+2 < len(out.Pix); i += step {
		key := [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
		graded, ok := cache[key]
		if !ok {
			c := l.Lookup(float64(key[0])/255, float64(key[1])/255, float64(key[2])/255)
			graded = [3]uint8{toByte(c[0]), toByte(c[1]), toByte(c[2])}
			cache[key] = graded
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = graded[0], graded[1], graded[2]
	}
	return out, nil
}
