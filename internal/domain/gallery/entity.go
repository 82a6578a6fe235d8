package gallery

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Gallery item categories
const (
	CategoryWedding    = "wedding"
	CategoryBirthday   = "birthday"
	CategoryCorporate  = "corporate"
	CategoryGraduation = "graduation"
	CategoryGeneral    = "general"
)

// Image is one entry of an item's ordered image list. Src holds the encoded
// payload as a base64 data URL; the first entry of a list is the item's
// representative thumbnail.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ImageList is stored as a JSONB column so a gallery item stays a single row
// and updates to it stay atomic.
type ImageList []Image

// Value implements driver.Valuer
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ImageList) Scan(src interface{}) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ImageList", src)
	}
	if len(data) == 0 {
		*l = ImageList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Item represents one published record in the gallery. Legacy single-file
// records are normalized into Images by the repository, so this is the only
// shape the rest of the system sees.
type Item struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Caption   string    `db:"caption" json:"caption"`
	Category  string    `db:"category" json:"category"`
	Date      time.Time `db:"event_date" json:"date"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	Images    ImageList `db:"images" json:"images"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Thumbnail returns the representative image, or nil for an item whose images
// were explicitly cleared.
func (i *Item) Thumbnail() *Image {
	if len(i.Images) == 0 {
		return nil
	}
	return &i.Images[0]
}

// Patch carries a partial update. Nil fields are left untouched; a non-nil
// empty Images list clears the stored images.
type Patch struct {
	Title    *string
	Caption  *string
	Category *string
	Date     *time.Time
	IsActive *bool
	Images   *ImageList
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Caption == nil && p.Category == nil &&
		p.Date == nil && p.IsActive == nil && p.Images == nil
}
