package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

type settingsHandler struct {
	settings portssvc.SettingsSvc
}

// RegisterSettingsRoutes registers the settings routes.
func RegisterSettingsRoutes(rg *gin.RouterGroup, settings portssvc.SettingsSvc) {
	h := &settingsHandler{settings: settings}

	s := rg.Group("/settings")
	{
		s.GET("", h.getSettings)
		s.PUT("", h.updateSettings)
		s.POST("/rates/sync", h.syncRates)
	}
}

func (h *settingsHandler) getSettings(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := h.settings.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "retrieve settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// updateSettings godoc
// @Summary Update settings
// @Description Changes the base currency, the rate table or display preferences
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   settings body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} domain.Settings
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /settings [put]
func (h *settingsHandler) updateSettings(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingsRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	settings, err := h.settings.UpdateSettings(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "update settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// syncRates godoc
// @Summary Sync reference exchange rates
// @Description Pulls the published reference rates and rebases them to the user's base currency
// @Tags settings
// @Produce  json
// @Success 200 {object} dto.SyncRatesResponse
// @Failure 400 {object} map[string]string "No rate source configured or base currency not published"
// @Failure 503 {object} map[string]string "Rate source unavailable"
// @Security BearerAuth
// @Router /settings/rates/sync [post]
func (h *settingsHandler) syncRates(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.settings.SyncRates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "sync rates")
		return
	}
	logger.Info("Rates synced", slog.Int("updated", len(resp.Updated)))
	middleware.RecordLedgerEvent(c, middleware.EventRatesSynced, map[string]any{
		"base_currency": resp.BaseCurrency,
		"updated":       len(resp.Updated),
	})
	c.JSON(http.StatusOK, resp)
}
