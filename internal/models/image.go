package models

import (
	"fmt"
	"image"
	"image/color"
)

// PixelType describes the channel layout of an 8-bit image buffer. The
// string form follows OpenCV naming so messages line up with Mat types.
type PixelType int

const (
	PixelTypeUnknown PixelType = iota
	PixelTypeGray8
	PixelTypeRGB8
	PixelTypeRGBA8
)

func (t PixelType) Channels() int {
	switch t {
	case PixelTypeGray8:
		return 1
	case PixelTypeRGB8:
		return 3
	case PixelTypeRGBA8:
		return 4
	default:
		return 0
	}
}

func (t PixelType) String() string {
	switch t {
	case PixelTypeGray8:
		return "CV_8UC1"
	case PixelTypeRGB8:
		return "CV_8UC3"
	case PixelTypeRGBA8:
		return "CV_8UC4"
	default:
		return fmt.Sprintf("PixelType(%d)", int(t))
	}
}

// PixelTypeForChannels maps a channel count to its 8-bit pixel type.
func PixelTypeForChannels(channels int) PixelType {
	switch channels {
	case 1:
		return PixelTypeGray8
	case 3:
		return PixelTypeRGB8
	case 4:
		return PixelTypeRGBA8
	default:
		return PixelTypeUnknown
	}
}

// MaxDimension bounds the width and height of any buffer handed to OpenCV.
const MaxDimension = 32768

// ValidateShape checks a width x height buffer of pixel type t. When
// allowed is non-empty, t must be one of the listed types.
func ValidateShape(name string, width, height int, t PixelType, allowed ...PixelType) error {
	if width <= 0 || height <= 0 {
		return NewValidationError(name, fmt.Sprintf("%dx%d", width, height), "must have positive dimensions")
	}
	if width > MaxDimension || height > MaxDimension {
		return NewValidationError(name, fmt.Sprintf("%dx%d", width, height),
			fmt.Sprintf("must not exceed %d pixels per side", MaxDimension))
	}
	if t.Channels() == 0 {
		return NewValidationError(name, t, "must have a known pixel type")
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, a := range allowed {
		if t == a {
			return nil
		}
	}
	return NewValidationError(name, t, fmt.Sprintf("must have type %v", allowed))
}

// Image is a tightly packed, row-major 8-bit pixel buffer. Channel order
// for colour types is R, G, B(, A).
type Image struct {
	Width  int
	Height int
	Type   PixelType
	Pix    []uint8
}

// NewImage allocates a zeroed image.
func NewImage(width, height int, pixelType PixelType) *Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Type:   pixelType,
		Pix:    make([]uint8, width*height*pixelType.Channels()),
	}
}

func (img *Image) Channels() int {
	return img.Type.Channels()
}

// Len returns the number of pixels.
func (img *Image) Len() int {
	return img.Width * img.Height
}

func (img *Image) Empty() bool {
	return img == nil || img.Width == 0 || img.Height == 0
}

func (img *Image) Stride() int {
	return img.Width * img.Channels()
}

// PixOffset returns the index of the first channel of pixel (x, y).
func (img *Image) PixOffset(x, y int) int {
	return y*img.Stride() + x*img.Channels()
}

// At returns the channels of pixel (x, y) as a sub-slice of Pix.
func (img *Image) At(x, y int) []uint8 {
	i := img.PixOffset(x, y)
	return img.Pix[i : i+img.Channels() : i+img.Channels()]
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	pix := make([]uint8, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{Width: img.Width, Height: img.Height, Type: img.Type, Pix: pix}
}

// Validate checks that the buffer length agrees with the declared geometry.
func (img *Image) Validate(name string) error {
	if img == nil {
		return NewValidationError(name, nil, "must not be nil")
	}
	if img.Width < 0 || img.Height < 0 {
		return NewValidationError(name, fmt.Sprintf("%dx%d", img.Width, img.Height), "must have non-negative dimensions")
	}
	if img.Type.Channels() == 0 {
		return NewValidationError(name, img.Type, "must have a known pixel type")
	}
	if want := img.Width * img.Height * img.Channels(); len(img.Pix) != want {
		return NewValidationError(name+" buffer", len(img.Pix), fmt.Sprintf("must hold %d bytes", want))
	}
	return nil
}

// FromGoImage converts any image.Image into an RGBA8 buffer with
// non-premultiplied alpha. *image.Gray sources become Gray8.
func FromGoImage(src image.Image) *Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch typed := src.(type) {
	case *image.Gray:
		dst := NewImage(width, height, PixelTypeGray8)
		for y := 0; y < height; y++ {
			rowStart := typed.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*width:(y+1)*width], typed.Pix[rowStart:rowStart+width])
		}
		return dst
	case *image.NRGBA:
		dst := NewImage(width, height, PixelTypeRGBA8)
		for y := 0; y < height; y++ {
			rowStart := typed.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[y*width*4:(y+1)*width*4], typed.Pix[rowStart:rowStart+width*4])
		}
		return dst
	}

	dst := NewImage(width, height, PixelTypeRGBA8)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.Pix[i] = c.R
			dst.Pix[i+1] = c.G
			dst.Pix[i+2] = c.B
			dst.Pix[i+3] = c.A
			i += 4
		}
	}
	return dst
}

// ToGoImage returns an image.Image view of the buffer contents (copied).
func (img *Image) ToGoImage() (image.Image, error) {
	rect := image.Rect(0, 0, img.Width, img.Height)

	switch img.Type {
	case PixelTypeGray8:
		out := image.NewGray(rect)
		copy(out.Pix, img.Pix)
		return out, nil
	case PixelTypeRGBA8:
		out := image.NewNRGBA(rect)
		copy(out.Pix, img.Pix)
		return out, nil
	case PixelTypeRGB8:
		out := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
			out.Pix[j] = img.Pix[i]
			out.Pix[j+1] = img.Pix[i+1]
			out.Pix[j+2] = img.Pix[i+2]
			out.Pix[j+3] = 255
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported pixel type: %s", img.Type)
	}
}

// ToGray reduces a colour image to a single luma channel (BT.601). Gray
// images are cloned.
func (img *Image) ToGray() *Image {
	if img.Type == PixelTypeGray8 {
		return img.Clone()
	}
	out := NewImage(img.Width, img.Height, PixelTypeGray8)
	channels := img.Channels()
	for i, j := 0, 0; j < len(out.Pix); i, j = i+channels, j+1 {
		r := uint32(img.Pix[i])
		g := uint32(img.Pix[i+1])
		b := uint32(img.Pix[i+2])
		out.Pix[j] = uint8((299*r + 587*g + 114*b + 500) / 1000)
	}
	return out
}

// ToRGBA expands Gray8 and RGB8 buffers to RGBA8 with opaque alpha.
// RGBA8 images are cloned.
func (img *Image) ToRGBA() *Image {
	if img.Type == PixelTypeRGBA8 {
		return img.Clone()
	}
	out := NewImage(img.Width, img.Height, PixelTypeRGBA8)
	channels := img.Channels()
	for i, j := 0, 0; j < len(out.Pix); i, j = i+channels, j+4 {
		if channels == 1 {
			out.Pix[j], out.Pix[j+1], out.Pix[j+2] = img.Pix[i], img.Pix[i], img.Pix[i]
		} else {
			out.Pix[j], out.Pix[j+1], out.Pix[j+2] = img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		}
		out.Pix[j+3] = 255
	}
	return out
}
