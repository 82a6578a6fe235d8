package adminclient

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/pkg/dataurl"
	"github.com/festivo/festivo-api/internal/pkg/imaging"
)

// Ingestor turns picked files into working-set entries: type check,
// recompression for still images, data-URL encoding, per-file size check.
type Ingestor struct {
	rec *imaging.Recompressor
}

// NewIngestor creates an ingestor with the given recompression config.
func NewIngestor(cfg imaging.Config) *Ingestor {
	return &Ingestor{rec: imaging.NewRecompressor(cfg)}
}

// IngestFiles processes files one at a time to bound memory. A file that
// fails validation or recompression is skipped with its error recorded; the
// rest of the batch still goes through.
func (ing *Ingestor) IngestFiles(paths []string) ([]SelectedImage, []error) {
	var images []SelectedImage
	var errs []error

	for _, path := range paths {
		img, err := ing.ingestFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping file")
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		images = append(images, *img)
	}

	return images, errs
}

func (ing *Ingestor) ingestFile(path string) (*SelectedImage, error) {
	if !imaging.ValidateType(path) {
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	contentType := imaging.MimeFromExt(path)
	data := raw

	if imaging.IsStillImage(contentType) {
		result, err := ing.rec.Recompress(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("recompression failed: %w", err)
		}
		data = result.Data
		contentType = result.ContentType
	}

	size := int64(len(data))
	if size > MaxNewImageBytes {
		return nil, fmt.Errorf("%w: %d bytes after recompression", ErrNewImageTooLarge, size)
	}

	return &SelectedImage{
		Src:  dataurl.Encode(contentType, data),
		Type: contentType,
		Name: filepath.Base(path),
		Size: size,
	}, nil
}
