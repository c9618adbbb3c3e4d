// internal/handlers/menu.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/beirutvibes/menu-backend/internal/services"
	"github.com/beirutvibes/menu-backend/internal/utils"
)

type MenuHandler struct {
	menuService     *services.MenuService
	settingsService *services.SettingsService
}

func NewMenuHandler(menuService *services.MenuService, settingsService *services.SettingsService) *MenuHandler {
	return &MenuHandler{
		menuService:     menuService,
		settingsService: settingsService,
	}
}

// GET /menu
func (h *MenuHandler) GetPublicMenu(c *gin.Context) {
	menu, err := h.menuService.PublicMenu(c.Query("q"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, menu)
}

// GET /settings
func (h *MenuHandler) GetPublicSettings(c *gin.Context) {
	settings, err := h.settingsService.PublicSettings()
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, settings)
}

// GET /admin/menu
func (h *MenuHandler) GetAdminMenu(c *gin.Context) {
	menu, err := h.menuService.AdminMenu(c.Query("q"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, menu)
}
