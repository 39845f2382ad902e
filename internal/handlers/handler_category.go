package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/dto"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categories     portssvc.CategorySvc
	counterparties portssvc.CounterpartySvc
}

// RegisterCategoryRoutes registers the category and counterparty routes.
func RegisterCategoryRoutes(rg *gin.RouterGroup, categories portssvc.CategorySvc, counterparties portssvc.CounterpartySvc) {
	h := &categoryHandler{categories: categories, counterparties: counterparties}

	cats := rg.Group("/categories")
	{
		cats.GET("", h.listCategories)
		cats.POST("", h.createCategory)
		cats.PUT("/:id", h.updateCategory)
		cats.DELETE("/:id", h.deleteCategory)
	}
	cps := rg.Group("/counterparties")
	{
		cps.GET("", h.listCounterparties)
		cps.POST("", h.createCounterparty)
		cps.PUT("/:id", h.updateCounterparty)
		cps.DELETE("/:id", h.deleteCounterparty)
	}
}

// listCategories godoc
// @Summary List categories
// @Tags categories
// @Produce  json
// @Success 200 {object} dto.ListCategoriesResponse
// @Security BearerAuth
// @Router /categories [get]
func (h *categoryHandler) listCategories(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	cats, err := h.categories.ListCategories(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ListCategoriesResponse{Categories: cats})
}

// createCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} domain.Category
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /categories [post]
func (h *categoryHandler) createCategory(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateCategoryRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	cat, err := h.categories.CreateCategory(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *categoryHandler) updateCategory(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	cat, err := h.categories.UpdateCategory(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update category")
		return
	}
	c.JSON(http.StatusOK, cat)
}

// deleteCategory godoc
// @Summary Delete a category
// @Description Deletes a category and its budget. Transactions keep the reference and show a placeholder label.
// @Tags categories
// @Param   id path string true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *categoryHandler) deleteCategory(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *categoryHandler) listCounterparties(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	cps, err := h.counterparties.ListCounterparties(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "list counterparties")
		return
	}
	c.JSON(http.StatusOK, dto.ListCounterpartiesResponse{Counterparties: cps})
}

func (h *categoryHandler) createCounterparty(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateCounterpartyRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	cp, err := h.counterparties.CreateCounterparty(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create counterparty")
		return
	}
	c.JSON(http.StatusCreated, cp)
}

func (h *categoryHandler) updateCounterparty(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.UpdateCounterpartyRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	cp, err := h.counterparties.UpdateCounterparty(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "update counterparty")
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (h *categoryHandler) deleteCounterparty(c *gin.Context) {
	userID, logger, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.counterparties.DeleteCounterparty(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, logger, err, "delete counterparty")
		return
	}
	c.Status(http.StatusNoContent)
}
