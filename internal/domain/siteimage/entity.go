package siteimage

import (
	"time"

	"github.com/google/uuid"
)

// Site image slots the public pages render
const (
	KeyHome  = "home"
	KeyAbout = "about"
	KeyLogo  = "logo"
)

// ValidKey reports whether key names a known site image slot
func ValidKey(key string) bool {
	switch key {
	case KeyHome, KeyAbout, KeyLogo:
		return true
	}
	return false
}

// SiteImage is one keyed static image of the public site (hero, about
// section, logo). Replacing a slot bumps its version.
type SiteImage struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Key         string    `db:"key" json:"key"`
	Description string    `db:"description" json:"description"`
	Src         string    `db:"src" json:"src"`
	FileType    string    `db:"file_type" json:"fileType"`
	FileSize    int64     `db:"file_size" json:"fileSize"`
	Version     int       `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
