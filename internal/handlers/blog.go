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

// BlogHandler exposes blog CRUD. Public routes see published posts only;
// the full set is admin-gated.
type BlogHandler struct {
	svc *services.BlogService
}

// NewBlogHandler constructs a blog handler.
func NewBlogHandler(svc *services.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

type blogPostRequest struct {
	Title         string `json:"title" validate:"required"`
	Slug          string `json:"slug" validate:"required"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	CoverImageURL string `json:"cover_image_url"`
	Category      string `json:"category"`
	Status        string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type blogPostUpdateRequest struct {
	Title         *string `json:"title"`
	Slug          *string `json:"slug"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	CoverImageURL *string `json:"cover_image_url"`
	Category      *string `json:"category"`
	Status        *string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// ListPublished returns published posts for the public site.
func (h *BlogHandler) ListPublished(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), models.ContentStatusPublished, c.Query("category"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Total: len(posts)})
}

// GetBySlug returns one published post for the public site.
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	if post.Status != models.ContentStatusPublished {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, post)
}

// List returns all posts for the admin console.
func (h *BlogHandler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("category"))
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Total: len(posts)})
}

// Create adds a post.
func (h *BlogHandler) Create(c *gin.Context) {
	var req blogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	post, err := h.svc.Create(c.Request.Context(), services.CreateBlogPostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Category:      req.Category,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusCreated, post)
}

// Update patches a post; the status transition into published stamps
// published_at exactly once.
func (h *BlogHandler) Update(c *gin.Context) {
	var req blogPostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.NewBadRequest("invalid request body"))
		return
	}
	if err := validator.ValidateStruct(req); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}

	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.UpdateBlogPostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Category:      req.Category,
		Status:        req.Status,
	})
	if err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, post)
}

// Delete removes a post.
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, mapServiceError(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
