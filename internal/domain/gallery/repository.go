package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/festivo/festivo-api/internal/pkg/dataurl"
)

// Filter narrows a listing
type Filter struct {
	ActiveOnly bool
	Category   string
}

// ListOptions control pagination and ordering
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string // createdAt, date, title
	SortOrder string // asc, desc
}

// Repository defines gallery item data access
type Repository interface {
	List(ctx context.Context, filter Filter, opts ListOptions) ([]*Item, int, error)
	GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*Item, error)
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, id uuid.UUID, patch *Patch) (*Item, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates gallery repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// itemRow is the raw table shape. Early records stored a single file in the
// legacy columns instead of the images list; toItem folds both shapes into
// the one the rest of the system sees.
type itemRow struct {
	ID        uuid.UUID      `db:"id"`
	Title     string         `db:"title"`
	Caption   string         `db:"caption"`
	Category  string         `db:"category"`
	EventDate sql.NullTime   `db:"event_date"`
	IsActive  bool           `db:"is_active"`
	Images    ImageList      `db:"images"`
	FileData  sql.NullString `db:"file_data"`
	FileType  sql.NullString `db:"file_type"`
	FileSize  sql.NullInt64  `db:"file_size"`
	CreatedAt sql.NullTime   `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

func (r *itemRow) toItem() *Item {
	item := &Item{
		ID:       r.ID,
		Title:    r.Title,
		Caption:  r.Caption,
		Category: r.Category,
		IsActive: r.IsActive,
		Images:   r.Images,
	}
	if r.EventDate.Valid {
		item.Date = r.EventDate.Time
	}
	if r.CreatedAt.Valid {
		item.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		item.UpdatedAt = r.UpdatedAt.Time
	}
	if len(item.Images) == 0 && r.FileData.Valid && r.FileData.String != "" {
		src := r.FileData.String
		if !dataurl.IsDataURL(src) && r.FileType.Valid && r.FileType.String != "" {
			// Bare base64 payload stored before data URLs were adopted
			src = "data:" + r.FileType.String + ";base64," + src
		}
		item.Images = ImageList{{Src: src, Alt: r.Title}}
	}
	if item.Images == nil {
		item.Images = ImageList{}
	}
	return item
}

const itemColumns = `id, title, caption, category, event_date, is_active, images, file_data, file_type, file_size, created_at, updated_at`

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"date":      "event_date",
	"title":     "title",
	"updatedAt": "updated_at",
}

func (r *repository) List(ctx context.Context, filter Filter, opts ListOptions) ([]*Item, int, error) {
	var where []string
	var args []interface{}

	if filter.ActiveOnly {
		where = append(where, "is_active = true")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM gallery_items" + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[opts.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(
		"SELECT %s FROM gallery_items%s ORDER BY %s %s LIMIT %d OFFSET %d",
		itemColumns, whereClause, sortCol, direction, limit, (page-1)*limit,
	)

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	items := make([]*Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toItem())
	}
	return items, total, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*Item, error) {
	query := "SELECT " + itemColumns + " FROM gallery_items WHERE id = $1"
	if !includeInactive {
		query += " AND is_active = true"
	}

	var row itemRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toItem(), nil
}

func (r *repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO gallery_items (id, title, caption, category, event_date, is_active, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Caption,
		item.Category,
		item.Date,
		item.IsActive,
		item.Images,
	)
	return err
}

// Update applies only the fields the patch carries in a single UPDATE, so a
// partial edit is atomic per row. Writing a new images list also clears the
// legacy columns it supersedes.
func (r *repository) Update(ctx context.Context, id uuid.UUID, patch *Patch) (*Item, error) {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Caption != nil {
		add("caption", *patch.Caption)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Date != nil {
		add("event_date", *patch.Date)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.Images != nil {
		add("images", *patch.Images)
		sets = append(sets, "file_data = NULL", "file_type = NULL", "file_size = NULL")
	}

	if len(sets) == 0 {
		// Nothing to change; return the current row
		return r.GetByID(ctx, id, true)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE gallery_items SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), itemColumns,
	)

	var row itemRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toItem(), nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE gallery_items SET is_active = false, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM gallery_items WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
