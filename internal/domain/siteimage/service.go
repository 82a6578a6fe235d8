package siteimage

import (
	"context"

	"github.com/festivo/festivo-api/internal/pkg/dataurl"
)

// MaxImageBytes is the site image ceiling (5MB); these render inline on every
// page load, so they are held tighter than gallery payloads.
const MaxImageBytes int64 = 5 * 1024 * 1024

// Service handles site image business logic
type Service struct {
	repo Repository
}

// NewService creates site image service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all configured site images
func (s *Service) List(ctx context.Context) ([]*SiteImage, error) {
	return s.repo.List(ctx)
}

// GetByKey returns the image of one slot
func (s *Service) GetByKey(ctx context.Context, key string) (*SiteImage, error) {
	if !ValidKey(key) {
		return nil, ErrUnknownKey
	}
	image, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound
	}
	return image, nil
}

// Upsert replaces a slot's image
func (s *Service) Upsert(ctx context.Context, key string, req *UpsertRequest) (*SiteImage, error) {
	if !ValidKey(key) {
		return nil, ErrUnknownKey
	}

	src := req.Payload()
	if src == "" {
		return nil, ErrEmptyImage
	}
	if !dataurl.IsDataURL(src) && req.Type != "" {
		src = "data:" + req.Type + ";base64," + src
	}

	size := dataurl.DecodedSize(src)
	if size > MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	fileType := req.Type
	if fileType == "" {
		if mt, err := dataurl.MediaType(src); err == nil {
			fileType = mt
		}
	}

	return s.repo.Upsert(ctx, &SiteImage{
		Key:         key,
		Description: req.Description,
		Src:         src,
		FileType:    fileType,
		FileSize:    size,
	})
}
