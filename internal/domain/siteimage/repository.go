package siteimage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines site image data access
type Repository interface {
	List(ctx context.Context) ([]*SiteImage, error)
	GetByKey(ctx context.Context, key string) (*SiteImage, error)
	Upsert(ctx context.Context, image *SiteImage) (*SiteImage, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates site image repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]*SiteImage, error) {
	query := `SELECT * FROM site_images ORDER BY key`
	var images []*SiteImage
	err := r.db.SelectContext(ctx, &images, query)
	return images, err
}

func (r *repository) GetByKey(ctx context.Context, key string) (*SiteImage, error) {
	query := `SELECT * FROM site_images WHERE key = $1`
	var image SiteImage
	if err := r.db.GetContext(ctx, &image, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// Upsert replaces a slot's image in place, bumping its version.
func (r *repository) Upsert(ctx context.Context, image *SiteImage) (*SiteImage, error) {
	query := `
		INSERT INTO site_images (id, key, description, src, file_type, file_size, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, now(), now())
		ON CONFLICT (key) DO UPDATE SET
			description = EXCLUDED.description,
			src = EXCLUDED.src,
			file_type = EXCLUDED.file_type,
			file_size = EXCLUDED.file_size,
			version = site_images.version + 1,
			updated_at = now()
		RETURNING *
	`
	var saved SiteImage
	if err := r.db.GetContext(ctx, &saved, query,
		uuid.New(),
		image.Key,
		image.Description,
		image.Src,
		image.FileType,
		image.FileSize,
	); err != nil {
		return nil, err
	}
	return &saved, nil
}
