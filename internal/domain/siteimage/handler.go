package siteimage

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/pkg/response"
	"github.com/festivo/festivo-api/internal/pkg/validator"
)

// Handler handles site image HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates site image handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /site-images
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list site images")
		response.InternalError(w)
		return
	}
	if images == nil {
		images = []*SiteImage{}
	}
	response.OK(w, ListResponse{Images: images})
}

// GetByKey handles GET /site-images/{key}
func (h *Handler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	image, err := h.service.GetByKey(r.Context(), key)
	if err != nil {
		switch err {
		case ErrUnknownKey:
			response.InvalidArgument(w, "Unknown site image key")
		case ErrImageNotFound:
			response.NotFound(w, "Site image not configured")
		default:
			log.Error().Err(err).Str("key", key).Msg("failed to get site image")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ImageResponse{Image: image})
}

// Upsert handles PUT /site-images/{key}
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	image, err := h.service.Upsert(r.Context(), key, &req)
	if err != nil {
		switch err {
		case ErrUnknownKey:
			response.InvalidArgument(w, "Unknown site image key")
		case ErrEmptyImage:
			response.ValidationError(w, map[string]string{"src": "Image payload is required"})
		case ErrImageTooLarge:
			response.PayloadTooLarge(w, "Site image exceeds the maximum allowed size")
		default:
			log.Error().Err(err).Str("key", key).Msg("failed to upsert site image")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ImageResponse{Image: image})
}
