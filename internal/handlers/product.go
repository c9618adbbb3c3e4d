// internal/handlers/product.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beirutvibes/menu-backend/internal/services"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	imageService   *services.ImageService
}

func NewProductHandler(productService *services.ProductService, imageService *services.ImageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
	}
}

type availabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

type productReorderRequest struct {
	CategoryID uuid.UUID   `json:"category_id" binding:"required"`
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}

// GET /admin/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := services.ProductSearchParams{
		Search: c.Query("q"),
	}

	if idStr := c.Query("category_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			params.CategoryID = &id
		}
	}
	if v := c.Query("featured"); v != "" {
		if featured, err := strconv.ParseBool(v); err == nil {
			params.Featured = &featured
		}
	}
	if v := c.Query("available"); v != "" {
		if available, err := strconv.ParseBool(v); err == nil {
			params.Available = &available
		}
	}

	products, err := h.productService.SearchProducts(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, product)
}

// PUT /admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// PATCH /admin/products/:id/availability
func (h *ProductHandler) SetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, err := h.productService.SetAvailable(id, req.IsAvailable)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// PUT /admin/products/reorder
func (h *ProductHandler) Reorder(c *gin.Context) {
	var req productReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.productService.Reorder(req.CategoryID, req.OrderedIDs); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"reordered": true})
}

// POST /admin/products/:id/images
// Multipart form; one or more files under the "images" field. Files are
// stored strictly in form order. A batch that overflows the gallery cap
// stores the fitting prefix and reports the limit alongside it.
func (h *ProductHandler) UploadImages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if _, err := h.productService.GetProduct(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No images in request", nil)
		return
	}

	files := make([]services.ImageFile, 0, len(headers))
	for _, header := range headers {
		file, readErr := imageFileFromHeader(header)
		if readErr != nil {
			utils.BadRequestResponse(c, "Invalid image file", readErr.Error())
			return
		}
		files = append(files, *file)
	}

	existing, err := h.imageService.CountProductImages(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	inserted, err := h.imageService.UploadProductImages(id, files, existing, nil)
	if err != nil {
		if errors.Is(err, services.ErrImageLimit) && len(inserted) > 0 {
			// Partial success: the prefix that fit is committed.
			utils.SuccessResponseWithMeta(c, inserted, gin.H{"warning": err.Error()})
			return
		}
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, inserted)
}

// PUT /admin/products/:id/images/reorder
func (h *ProductHandler) ReorderImages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.imageService.ReorderProductImages(id, req.OrderedIDs); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"reordered": true})
}

// DELETE /admin/images/:id
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid image ID", nil)
		return
	}

	storageErr, err := h.imageService.DeleteProductImage(id, c.Query("path"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	if storageErr != nil {
		// The row is gone; the leaked object is reported, not fatal.
		utils.SuccessResponseWithMeta(c, gin.H{"deleted": true}, gin.H{"warning": storageErr.Error()})
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}
