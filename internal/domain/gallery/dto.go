package gallery

import (
	"bytes"
	"time"
)

// EventDate accepts both a bare calendar date ("2006-01-02", what a date
// picker submits) and a full RFC3339 timestamp.
type EventDate struct {
	time.Time
}

func (d *EventDate) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", string(data)); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ImageInput is one image entry of a create/update request. The payload is
// accepted under either "src" or "data" (the admin clients historically used
// both). IsExisting marks entries already stored server-side, whose size
// limits were enforced when they were first uploaded.
type ImageInput struct {
	Src        string `json:"src,omitempty"`
	Data       string `json:"data,omitempty"`
	Type       string `json:"type,omitempty" validate:"omitempty,mediatype"`
	Name       string `json:"name,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Alt        string `json:"alt,omitempty"`
	IsExisting bool   `json:"isExisting,omitempty"`
}

// Payload returns the encoded image payload regardless of which key carried it.
func (in *ImageInput) Payload() string {
	if in.Src != "" {
		return in.Src
	}
	return in.Data
}

// CreateItemRequest for POST /gallery
type CreateItemRequest struct {
	Title    string       `json:"title" validate:"required,max=100"`
	Caption  string       `json:"caption" validate:"required,max=500"`
	Category string       `json:"category" validate:"omitempty,category"`
	Date     *EventDate   `json:"date"`
	IsActive *bool        `json:"isActive"`
	Images   []ImageInput `json:"images"`

	// Legacy single-file shape, still accepted on create
	FileData string `json:"fileData,omitempty"`
	FileType string `json:"fileType,omitempty" validate:"omitempty,mediatype"`
}

// UpdateItemRequest for PUT /gallery/{id}. Absent fields leave stored values
// untouched. A present-but-empty images array is an explicit clear; an absent
// images field must never drop stored images.
type UpdateItemRequest struct {
	Title    *string       `json:"title" validate:"omitempty,min=1,max=100"`
	Caption  *string       `json:"caption" validate:"omitempty,min=1,max=500"`
	Category *string       `json:"category" validate:"omitempty,category"`
	Date     *EventDate    `json:"date"`
	IsActive *bool         `json:"isActive"`
	Images   *[]ImageInput `json:"images"`
}

// Pagination mirrors the wire format the public site consumes
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ListResponse for GET /gallery
type ListResponse struct {
	Items      []*Item    `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ItemResponse wraps a single item
type ItemResponse struct {
	Item *Item `json:"item"`
}

// NewPagination computes page counts from a total
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
