package transport

import (
	"errors"
	"net/http"

	"catalog-admin/internal/middleware"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest is the body of category create and rename calls
type CategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required,notblank"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns every category, newest first
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns one category, or null when the id is unknown
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid category id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get category", zap.Int64("category_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r, msgServerErrPost)
	if !ok {
		return
	}

	category, err := h.categoryService.Create(r.Context(), req.CategoryName)
	if err != nil {
		h.respondServiceError(w, err, msgServerErrPost)
		return
	}

	h.logger.Info("Category created", zap.Int64("category_id", category.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update handles category rename. Success answers 201.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid category id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrPut)
		return
	}

	req, ok := h.decode(w, r, msgServerErrPut)
	if !ok {
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, req.CategoryName)
	if err != nil {
		h.respondServiceError(w, err, msgServerErrPut)
		return
	}

	h.logger.Info("Category updated", zap.Int64("category_id", category.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Delete removes a category without checking it exists
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid category id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrDelete)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete category", zap.Int64("category_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrDelete)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, StatusResponse{Status: http.StatusOK})
}

// decode reads and validates a CategoryRequest. An unreadable body is a
// fault; a missing name is a validation error.
func (h *CategoryHandler) decode(w http.ResponseWriter, r *http.Request, faultMsg string) (*CategoryRequest, bool) {
	var req CategoryRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		h.logger.Error("Failed to decode category request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
		return nil, false
	}

	if err := middleware.ValidateRequest(&req); err != nil {
		if !middleware.IsValidationError(err) {
			h.logger.Error("Failed to validate category request", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
			return nil, false
		}
		h.logger.Debug("Category validation failed", zap.Any("errors", middleware.FormatValidationErrors(err)))
		middleware.RespondWithError(w, http.StatusBadRequest, msgRequiredFields)
		return nil, false
	}

	return &req, true
}

func (h *CategoryHandler) respondServiceError(w http.ResponseWriter, err error, faultMsg string) {
	switch {
	case errors.Is(err, service.ErrRequiredFields):
		middleware.RespondWithError(w, http.StatusBadRequest, msgRequiredFields)
	case errors.Is(err, service.ErrCategoryAlreadyExists):
		middleware.RespondWithError(w, http.StatusBadRequest, msgCategoryExists)
	default:
		h.logger.Error("Category operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
	}
}
