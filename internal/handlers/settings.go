// internal/handlers/settings.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beirutvibes/menu-backend/internal/services"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, settings)
}

// PUT /admin/settings
// Accepts JSON, or multipart/form-data with an optional "about_image" file.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest

	if isMultipart(c) {
		req.Name = c.PostForm("name")
		bindOptionalForm(c, "tagline", &req.Tagline)
		bindOptionalForm(c, "currency", &req.Currency)
		bindOptionalForm(c, "address", &req.Address)
		bindOptionalForm(c, "phone", &req.Phone)
		bindOptionalForm(c, "hours", &req.Hours)
		bindOptionalForm(c, "maps_url", &req.MapsURL)
		bindOptionalForm(c, "social_url", &req.SocialURL)
		bindOptionalForm(c, "about_title", &req.AboutTitle)
		bindOptionalForm(c, "about_text", &req.AboutText)
		if v := c.PostForm("remove_about_image"); v != "" {
			req.RemoveAboutImage, _ = strconv.ParseBool(v)
		}
		img, err := readImageFile(c, "about_image")
		if err != nil {
			utils.BadRequestResponse(c, "Invalid about image", err.Error())
			return
		}
		req.AboutImage = img
	} else if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(&req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, settings)
}

func bindOptionalForm(c *gin.Context, field string, dst **string) {
	if v, ok := c.GetPostForm(field); ok {
		*dst = &v
	}
}
