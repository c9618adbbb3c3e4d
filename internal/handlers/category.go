// internal/handlers/category.go
package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beirutvibes/menu-backend/internal/services"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// readImageFile pulls one uploaded file out of the multipart form.
// Returns nil without error when the field is absent.
func readImageFile(c *gin.Context, field string) (*services.ImageFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return imageFileFromHeader(header)
}

func imageFileFromHeader(header *multipart.FileHeader) (*services.ImageFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &services.ImageFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

type reorderRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids" binding:"required"`
}

type visibilityRequest struct {
	IsActive bool `json:"is_active"`
}

// GET /admin/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, categories)
}

// POST /admin/categories
// Accepts JSON, or multipart/form-data with an optional "cover" file.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest

	if isMultipart(c) {
		req.Name = c.PostForm("name")
		req.Description = c.PostForm("description")
		if v := c.PostForm("is_active"); v != "" {
			if active, err := strconv.ParseBool(v); err == nil {
				req.IsActive = &active
			}
		}
		cover, err := readImageFile(c, "cover")
		if err != nil {
			utils.BadRequestResponse(c, "Invalid cover file", err.Error())
			return
		}
		req.Cover = cover
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, category)
}

// PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	var req services.UpdateCategoryRequest

	if isMultipart(c) {
		req.Name = c.PostForm("name")
		if v, ok := c.GetPostForm("description"); ok {
			req.Description = &v
		}
		if v := c.PostForm("is_active"); v != "" {
			if active, parseErr := strconv.ParseBool(v); parseErr == nil {
				req.IsActive = &active
			}
		}
		if v := c.PostForm("remove_cover"); v != "" {
			req.RemoveCover, _ = strconv.ParseBool(v)
		}
		cover, fileErr := readImageFile(c, "cover")
		if fileErr != nil {
			utils.BadRequestResponse(c, "Invalid cover file", fileErr.Error())
			return
		}
		req.Cover = cover
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// PATCH /admin/categories/:id/visibility
func (h *CategoryHandler) SetVisibility(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, err := h.categoryService.SetActive(id, req.IsActive)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, category)
}

// DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid category ID", nil)
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// PUT /admin/categories/reorder
func (h *CategoryHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.categoryService.Reorder(req.OrderedIDs); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	categories, err := h.categoryService.GetCategories()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, categories)
}
