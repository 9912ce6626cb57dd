package pipeline

import (
	"io"

	"color-transfer/internal/lut"
	"color-transfer/internal/models"
)

// ImageLoader decodes images into RGBA8 (or Gray8 for grayscale sources).
type ImageLoader interface {
	LoadFromPath(path string) (*ImageData, error)
	LoadFromReader(reader io.Reader, format string) (*ImageData, error)
	LoadFromBytes(data []byte, format string) (*ImageData, error)
}

// ImageSaver encodes images and LUTs.
type ImageSaver interface {
	SaveToWriter(writer io.Writer, img *models.Image, format string) error
	SaveToPath(path string, img *models.Image) error
	SaveCube(path string, table *lut.LUT, title string) error
}

// ImageData is a decoded image and where it came from.
type ImageData struct {
	Image  *models.Image
	Width  int
	Height int
	Format string
	Path   string
}
