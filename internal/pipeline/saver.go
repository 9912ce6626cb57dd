package pipeline

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"color-transfer/internal/lut"
	"color-transfer/internal/models"
)

type imageSaver struct {
	logger        Logger
	timingTracker TimingTracker
}

func NewSaver(logger Logger, timingTracker TimingTracker) ImageSaver {
	return &imageSaver{logger: logger, timingTracker: timingTracker}
}

// FormatForPath picks the encoder from the file extension; anything other
// than JPEG is written as PNG.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	default:
		return "png"
	}
}

func (s *imageSaver) SaveToWriter(writer io.Writer, img *models.Image, format string) error {
	if img == nil {
		return fmt.Errorf("no image data to save")
	}

	ctx := s.timingTracker.StartTiming("save_to_writer")
	defer s.timingTracker.EndTiming(ctx)

	goImg, err := img.ToGoImage()
	if err != nil {
		return err
	}

	if format == "" {
		format = "png"
	}

	s.logger.Debug("ImageSaver", "saving image", map[string]interface{}{
		"format": format,
		"width":  img.Width,
		"height": img.Height,
	})

	switch format {
	case "jpeg":
		err = jpeg.Encode(writer, goImg, &jpeg.Options{Quality: 95})
	case "png":
		err = png.Encode(writer, goImg)
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": strings.ToUpper(format),
		})
		err = png.Encode(writer, goImg)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": format,
		})
		return err
	}

	return nil
}

func (s *imageSaver) SaveToPath(path string, img *models.Image) error {
	return s.writeFile(path, func(w io.Writer) error {
		return s.SaveToWriter(w, img, FormatForPath(path))
	})
}

// SaveCube writes the table in the .cube text format.
func (s *imageSaver) SaveCube(path string, table *lut.LUT, title string) error {
	return s.writeFile(path, func(w io.Writer) error {
		return table.WriteCube(w, title)
	})
}

func (s *imageSaver) writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := write(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("ImageSaver", "file saved", map[string]interface{}{
		"path": path,
	})
	return nil
}
