package siteimage

// UpsertRequest for PUT /site-images/{key}
type UpsertRequest struct {
	Description string `json:"description" validate:"required,max=255"`
	Src         string `json:"src,omitempty"`
	Data        string `json:"data,omitempty"`
	Type        string `json:"type,omitempty" validate:"omitempty,mediatype"`
}

// Payload returns the encoded image payload regardless of which key carried it
func (r *UpsertRequest) Payload() string {
	if r.Src != "" {
		return r.Src
	}
	return r.Data
}

// ListResponse for GET /site-images
type ListResponse struct {
	Images []*SiteImage `json:"images"`
}

// ImageResponse wraps a single site image
type ImageResponse struct {
	Image *SiteImage `json:"image"`
}
