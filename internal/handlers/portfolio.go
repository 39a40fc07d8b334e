package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novalearn/novalearn-server/internal/models"
	"github.com/novalearn/novalearn-server/internal/services"
	apperrors "github.com/novalearn/novalearn-server/pkg/errors"
	"github.com/novalearn/novalearn-server/pkg/response"
	"github.com/novalearn/novalearn-server/pkg/validator"
)

// PortfolioHandler exposes portfolio item CRUD.
type PortfolioHandler struct {
	svc *services.PortfolioService
}

// NewPortfolioHandler constructs a portfolio handler.
func NewPortfolioHandler(svc *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

type portfolioItemRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	ClientName  string `json:"client_name"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type portfolioItemUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	ClientName  *string `json:"client_name"`
	Status      *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ListPublished returns published items for the public site.
func (h *PortfolioHandler) ListPublished(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), models.ContentStatusPublished)
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{Total: len(items)})
}

// List returns all items for the admin console.
func (h *PortfolioHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{Total: len(items)})
}

// Create adds an item.
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req portfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	item, err := h.svc.Create(c.Request.Context(), services.PortfolioItemInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ClientName:  req.ClientName,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, item)
}

// Update patches an item.
func (h *PortfolioHandler) Update(c *gin.Context) {
	var req portfolioItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdatePortfolioItemInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ClientName:  req.ClientName,
		Status:      req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, item)
}

// Delete removes an item.
func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
