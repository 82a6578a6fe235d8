package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/pkg/dataurl"
)

const (
	cacheVersionKey = "gallery:list:ver"
	cacheTTL        = 5 * time.Minute
)

// Limits configure the payload ceilings the service enforces before any
// store mutation is attempted.
type Limits struct {
	MaxImageBytes   int64 // per image (decoded)
	MaxRequestBytes int64 // aggregate per request (decoded)
}

// Service handles gallery business logic
type Service struct {
	repo   Repository
	cache  *redis.Client // optional, public listing cache
	limits Limits
}

// NewService creates gallery service
func NewService(repo Repository, cache *redis.Client, limits Limits) *Service {
	return &Service{repo: repo, cache: cache, limits: limits}
}

type cachedList struct {
	Items []*Item `json:"items"`
	Total int     `json:"total"`
}

// List returns a page of items. Public (active-only) pages are served from
// the cache when available.
func (s *Service) List(ctx context.Context, filter Filter, opts ListOptions) ([]*Item, int, error) {
	cacheable := filter.ActiveOnly && s.cache != nil

	var key string
	if cacheable {
		key = s.listCacheKey(ctx, filter, opts)
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached cachedList
			if json.Unmarshal(raw, &cached) == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	items, total, err := s.repo.List(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if raw, err := json.Marshal(cachedList{Items: items, Total: total}); err == nil {
			if err := s.cache.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("gallery list cache set failed")
			}
		}
	}

	return items, total, nil
}

// GetByID returns one item. Soft-deleted items are only visible when
// includeInactive is set (admin editing).
func (s *Service) GetByID(ctx context.Context, rawID string, includeInactive bool) (*Item, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}

	item, err := s.repo.GetByID(ctx, id, includeInactive)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// Create validates the draft and stores a new item. Fails before any write
// when the draft has no visual content or an image exceeds the limits.
func (s *Service) Create(ctx context.Context, req *CreateItemRequest) (*Item, error) {
	images, err := s.collectImages(req)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	item := &Item{
		ID:       uuid.New(),
		Title:    req.Title,
		Caption:  req.Caption,
		Category: CategoryGeneral,
		Date:     time.Now(),
		IsActive: true,
		Images:   images,
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Date != nil && !req.Date.IsZero() {
		item.Date = req.Date.Time
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return item, nil
}

// Update applies a partial patch. An absent images field leaves stored images
// untouched; an explicit empty array clears them.
func (s *Service) Update(ctx context.Context, rawID string, req *UpdateItemRequest) (*Item, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}

	// A present-but-blank value would erase a required field; the struct tags
	// cannot catch this (omitempty skips the min rule for an empty string)
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if req.Caption != nil && strings.TrimSpace(*req.Caption) == "" {
		return nil, ErrEmptyCaption
	}

	patch := &Patch{
		Title:    req.Title,
		Caption:  req.Caption,
		Category: req.Category,
		IsActive: req.IsActive,
	}
	if req.Date != nil && !req.Date.IsZero() {
		patch.Date = &req.Date.Time
	}
	if req.Images != nil {
		images, err := s.convertImages(*req.Images)
		if err != nil {
			return nil, err
		}
		patch.Images = &images
	}

	item, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	s.invalidateListCache(ctx)
	return item, nil
}

// Delete removes an item: soft by default, permanently when requested.
func (s *Service) Delete(ctx context.Context, rawID string, permanent bool) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return ErrInvalidID
	}

	var found bool
	if permanent {
		found, err = s.repo.Delete(ctx, id)
	} else {
		found, err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return err
	}
	if !found {
		return ErrItemNotFound
	}

	s.invalidateListCache(ctx)
	return nil
}

// collectImages folds both request shapes (images list, legacy single file)
// into one validated image list.
func (s *Service) collectImages(req *CreateItemRequest) (ImageList, error) {
	if len(req.Images) > 0 {
		return s.convertImages(req.Images)
	}
	if req.FileData != "" {
		src := req.FileData
		if !dataurl.IsDataURL(src) && req.FileType != "" {
			src = "data:" + req.FileType + ";base64," + src
		}
		if err := s.checkImageSize(src); err != nil {
			return nil, err
		}
		return ImageList{{Src: src, Alt: req.Title}}, nil
	}
	return ImageList{}, nil
}

// convertImages turns request entries into the stored form, enforcing size
// limits. Entries flagged as already existing skip the per-image check since
// their size was enforced when first stored.
func (s *Service) convertImages(inputs []ImageInput) (ImageList, error) {
	images := make(ImageList, 0, len(inputs))
	var totalBytes int64

	for i := range inputs {
		in := &inputs[i]
		src := in.Payload()
		if src == "" {
			return nil, ErrEmptyImage
		}

		size := dataurl.DecodedSize(src)
		totalBytes += size
		if !in.IsExisting {
			if s.limits.MaxImageBytes > 0 && size > s.limits.MaxImageBytes {
				return nil, ErrImageTooLarge
			}
		}

		alt := in.Alt
		if alt == "" {
			alt = in.Name
		}
		if alt == "" {
			alt = fmt.Sprintf("Imagem %d", i+1)
		}
		images = append(images, Image{Src: src, Alt: alt})
	}

	if s.limits.MaxRequestBytes > 0 && totalBytes > s.limits.MaxRequestBytes {
		return nil, ErrPayloadTooLarge
	}
	return images, nil
}

func (s *Service) checkImageSize(src string) error {
	if s.limits.MaxImageBytes > 0 && dataurl.DecodedSize(src) > s.limits.MaxImageBytes {
		return ErrImageTooLarge
	}
	return nil
}

// listCacheKey stamps keys with a version counter so invalidation is a single
// INCR instead of a key scan.
func (s *Service) listCacheKey(ctx context.Context, filter Filter, opts ListOptions) string {
	version, err := s.cache.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		version = 0
	}
	return fmt.Sprintf("gallery:list:v%d:%s:%d:%d:%s:%s",
		version, filter.Category, opts.Page, opts.Limit, opts.SortBy, opts.SortOrder)
}

func (s *Service) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, cacheVersionKey).Err(); err != nil {
		log.Debug().Err(err).Msg("gallery list cache invalidation failed")
	}
}
