package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Config for the recompression pass applied to newly picked files before upload
type Config struct {
	MaxWidth  int // bounding box width (default 1600)
	MaxHeight int // bounding box height (default 1600)
	Quality   int // JPEG quality 1-100 (default 72)
}

// DefaultConfig returns the default recompression config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  1600,
		MaxHeight: 1600,
		Quality:   72,
	}
}

// Result holds a recompressed image
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Recompressor shrinks images to fit a bounding box and re-encodes them at
// reduced quality so upload payloads stay small
type Recompressor struct {
	config Config
}

// NewRecompressor creates a recompressor
func NewRecompressor(config Config) *Recompressor {
	return &Recompressor{config: config}
}

// Recompress decodes an image, fits it into the configured bounding box and
// re-encodes it. GIFs and videos are passed through untouched by the caller;
// this only handles still raster formats.
func (r *Recompressor) Recompress(reader io.Reader) (*Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := img
	if img.Bounds().Dx() > r.config.MaxWidth || img.Bounds().Dy() > r.config.MaxHeight {
		resized = imaging.Fit(img, r.config.MaxWidth, r.config.MaxHeight, imaging.Lanczos)
	}

	encoded, contentType, err := r.encode(resized, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	// Re-encoding an already small PNG can grow it; keep whichever is smaller
	if len(encoded) >= len(data) {
		return &Result{
			Data:        data,
			ContentType: mimeFromFormat(format),
			Width:       img.Bounds().Dx(),
			Height:      img.Bounds().Dy(),
		}, nil
	}

	return &Result{
		Data:        encoded,
		ContentType: contentType,
		Width:       resized.Bounds().Dx(),
		Height:      resized.Bounds().Dy(),
	}, nil
}

func (r *Recompressor) encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		// JPEG at reduced quality for everything else
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.config.Quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// ValidateType checks if filename has a supported image or video extension
func ValidateType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".mp4", ".webm":
		return true
	default:
		return false
	}
}

// IsStillImage reports whether the media type goes through the recompressor
func IsStillImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

// MimeFromExt maps a filename extension to a media type
func MimeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

func mimeFromFormat(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
