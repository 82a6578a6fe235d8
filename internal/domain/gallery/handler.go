package gallery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/festivo/festivo-api/internal/middleware"
	"github.com/festivo/festivo-api/internal/pkg/response"
	"github.com/festivo/festivo-api/internal/pkg/validator"
)

// Handler handles gallery HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates gallery handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /gallery
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	isAdmin := middleware.GetRole(r.Context()) == "admin"
	includeInactive := isAdmin && q.Get("includeInactive") == "true"

	filter := Filter{
		ActiveOnly: !includeInactive,
		Category:   q.Get("category"),
	}
	opts := ListOptions{
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	items, total, err := h.service.List(r.Context(), filter, opts)
	if err != nil {
		// The public gallery degrades to an empty page instead of failing
		// hard; admins get the real error
		if !isAdmin {
			log.Error().Err(err).Msg("public gallery listing degraded")
			response.OKWithMessage(w, "Gallery is temporarily unavailable", ListResponse{
				Items:      []*Item{},
				Pagination: NewPagination(page, limit, 0),
			})
			return
		}
		log.Error().Err(err).Msg("failed to list gallery items")
		response.InternalError(w)
		return
	}

	response.OK(w, ListResponse{
		Items:      items,
		Pagination: NewPagination(page, limit, total),
	})
}

// GetByID handles GET /gallery/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	isAdmin := middleware.GetRole(r.Context()) == "admin"
	includeInactive := isAdmin && r.URL.Query().Get("includeInactive") == "true"

	item, err := h.service.GetByID(r.Context(), id, includeInactive)
	if err != nil {
		switch err {
		case ErrInvalidID:
			response.InvalidArgument(w, "Invalid item id")
		case ErrItemNotFound:
			response.NotFound(w, "Item not found")
		default:
			log.Error().Err(err).Str("id", id).Msg("failed to get gallery item")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ItemResponse{Item: item})
}

// Create handles POST /gallery
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeMutationError(w, r, err, "failed to create gallery item")
		return
	}

	response.Created(w, ItemResponse{Item: item})
}

// Update handles PUT /gallery/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeMutationError(w, r, err, "failed to update gallery item")
		return
	}

	response.OK(w, ItemResponse{Item: item})
}

// Delete handles DELETE /gallery/{id}. Soft delete by default; permanent=true
// removes the record irrecoverably.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.service.Delete(r.Context(), id, permanent); err != nil {
		h.writeMutationError(w, r, err, "failed to delete gallery item")
		return
	}

	message := "Item removed"
	if !permanent {
		message = "Item deactivated"
	}
	response.OKWithMessage(w, message, nil)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch err {
	case ErrInvalidID:
		response.InvalidArgument(w, "Invalid item id")
	case ErrItemNotFound:
		response.NotFound(w, "Item not found")
	case ErrEmptyTitle:
		response.ValidationError(w, map[string]string{"title": "This field cannot be blank"})
	case ErrEmptyCaption:
		response.ValidationError(w, map[string]string{"caption": "This field cannot be blank"})
	case ErrNoImages:
		response.ValidationError(w, map[string]string{"images": "At least one image is required"})
	case ErrEmptyImage:
		response.ValidationError(w, map[string]string{"images": "Image entry carries no payload"})
	case ErrImageTooLarge:
		response.PayloadTooLarge(w, "Image exceeds the maximum allowed size")
	case ErrPayloadTooLarge:
		response.PayloadTooLarge(w, "Combined image payload exceeds the request limit")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg(logMsg)
		response.InternalError(w)
	}
}
