package transport

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"catalog-admin/internal/middleware"
	"catalog-admin/internal/pagination"
	"catalog-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartMemory is how much of a form is buffered in memory before parts
// spill to temporary files.
const multipartMemory = 8 << 20

// ProductForm holds the text fields of a product create or update form,
// already trimmed.
type ProductForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description" validate:"required"`
	CategoryID  string `form:"categoryId" validate:"required"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
	maxUploadBytes int64
}

// NewProductHandler creates a new ProductHandler. Request bodies above
// maxUploadBytes are rejected; zero disables the limit.
func NewProductHandler(productService service.ProductService, logger *zap.Logger, maxUploadBytes int64) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns one page of products. Query: page (default 1), categoryId
// (absent or 0 means every category). page must be a whole number: values
// such as "1.5" or "2abc" answer 400 rather than being truncated to their
// leading digits.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidPage)
			return
		}
		page = parsed
	}

	if err := pagination.Validate(page); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidPage)
		return
	}

	var categoryID *int64
	if raw := strings.TrimSpace(query.Get("categoryId")); raw != "" && raw != "0" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Error("Invalid category filter", zap.String("categoryId", raw), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
			return
		}
		categoryID = &parsed
	}

	result, err := h.productService.List(r.Context(), page, categoryID)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidPage) {
			middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidPage)
			return
		}
		h.logger.Error("Failed to list products", zap.Int("page", page), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get returns one product with its category, or null when the id is unknown
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid product id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrGet)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles a multipart product form with an optional image part
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, cleanup, ok := h.readForm(w, r, msgServerErrPost)
	if !ok {
		return
	}
	defer cleanup()

	product, err := h.productService.Create(r.Context(), *input)
	if err != nil {
		h.respondServiceError(w, err, msgServerErrPost)
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product's fields. Success answers 201.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid product id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrPut)
		return
	}

	input, cleanup, ok := h.readForm(w, r, msgServerErrPut)
	if !ok {
		return
	}
	defer cleanup()

	product, err := h.productService.Update(r.Context(), id, *input)
	if err != nil {
		h.respondServiceError(w, err, msgServerErrPut)
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Delete removes a product without checking it exists
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.logger.Error("Invalid product id", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrDelete)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, msgServerErrDelete)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, StatusResponse{Status: http.StatusOK})
}

// readForm parses and validates a product form. On failure it has already
// written the response. The returned cleanup releases the uploaded image.
func (h *ProductHandler) readForm(w http.ResponseWriter, r *http.Request, faultMsg string) (*service.ProductInput, func(), bool) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := parseForm(r); err != nil {
		h.logger.Error("Failed to parse product form", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
		return nil, nil, false
	}

	form := ProductForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		CategoryID:  strings.TrimSpace(r.PostFormValue("categoryId")),
	}
	if err := middleware.ValidateRequest(&form); err != nil {
		if !middleware.IsValidationError(err) {
			h.logger.Error("Failed to validate product request", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
			return nil, nil, false
		}
		h.logger.Debug("Product validation failed", zap.Any("errors", middleware.FormatValidationErrors(err)))
		middleware.RespondWithError(w, http.StatusBadRequest, msgRequiredFields)
		return nil, nil, false
	}

	categoryID, err := strconv.ParseInt(form.CategoryID, 10, 64)
	if err != nil {
		h.logger.Error("Invalid categoryId in product form", zap.String("categoryId", form.CategoryID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
		return nil, nil, false
	}

	image, file, err := formImage(r)
	if err != nil {
		h.logger.Error("Failed to read product image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
		return nil, nil, false
	}

	cleanup := func() {
		if file != nil {
			file.Close()
		}
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}

	return &service.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		CategoryID:  categoryID,
		Image:       image,
	}, cleanup, true
}

// parseForm accepts multipart bodies and, for forms without a file, plain
// url-encoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func formImage(r *http.Request) (*service.ImageUpload, multipart.File, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to open image part: %w", err)
	}

	return &service.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, file, nil
}

func (h *ProductHandler) respondServiceError(w http.ResponseWriter, err error, faultMsg string) {
	if errors.Is(err, service.ErrRequiredFields) {
		middleware.RespondWithError(w, http.StatusBadRequest, msgRequiredFields)
		return
	}

	h.logger.Error("Product operation failed", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, faultMsg)
}
