package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"color-transfer/internal/models"
)

// Decoder is the fallback used when no registered Go decoder recognises
// the data, normally the OpenCV decoder.
type Decoder func(data []byte) (*models.Image, error)

type imageLoader struct {
	logger        Logger
	timingTracker TimingTracker
	fallback      Decoder
}

func NewLoader(logger Logger, timingTracker TimingTracker, fallback Decoder) ImageLoader {
	return &imageLoader{
		logger:        logger,
		timingTracker: timingTracker,
		fallback:      fallback,
	}
}

func (l *imageLoader) LoadFromPath(path string) (*ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	data, err := l.LoadFromReader(file, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data.Path = path
	return data, nil
}

func (l *imageLoader) LoadFromReader(reader io.Reader, format string) (*ImageData, error) {
	ctx := l.timingTracker.StartTiming("load_from_reader")
	defer l.timingTracker.EndTiming(ctx)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	l.logger.Debug("ImageLoader", "image data read", map[string]interface{}{
		"size_bytes": len(data),
		"extension":  format,
	})

	return l.LoadFromBytes(data, format)
}

func (l *imageLoader) LoadFromBytes(data []byte, format string) (*ImageData, error) {
	ctx := l.timingTracker.StartTiming("load_from_bytes")
	defer l.timingTracker.EndTiming(ctx)

	var img *models.Image
	decoded, standardLibFormat, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		img = models.FromGoImage(decoded)
	} else {
		if l.fallback == nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		l.logger.Debug("ImageLoader", "standard decoders failed, trying fallback", map[string]interface{}{
			"error": err.Error(),
		})
		img, err = l.fallback(data)
		if err != nil {
			return nil, err
		}
	}

	actualFormat := determineActualFormat(format, standardLibFormat)
	imageData := &ImageData{
		Image:  img,
		Width:  img.Width,
		Height: img.Height,
		Format: actualFormat,
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": img.Channels(),
		"format":   actualFormat,
	})

	return imageData, nil
}

func determineActualFormat(extension, stdLibFormat string) string {
	switch strings.ToLower(extension) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if stdLibFormat != "" {
			return stdLibFormat
		}
		return "unknown"
	}
}
