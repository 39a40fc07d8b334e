package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/novalearn/novalearn-server/internal/models"
)

var (
	// ErrBlogPostNotFound indicates the requested post does not exist.
	ErrBlogPostNotFound = errors.New("blog service: post not found")
	// ErrDuplicateSlug indicates the slug is already taken.
	ErrDuplicateSlug = errors.New("blog service: slug already in use")
)

// BlogOption customises the BlogService.
type BlogOption func(*BlogService)

// WithBlogClock injects a custom time source, used for published_at stamping.
func WithBlogClock(clock func() time.Time) BlogOption {
	return func(s *BlogService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// BlogService manages CRUD for blog posts. published_at is stamped exactly
// once, when a post first transitions into the published status.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewBlogService constructs a blog service.
func NewBlogService(db *gorm.DB, opts ...BlogOption) (*BlogService, error) {
	if db == nil {
		return nil, errors.New("blog service: db is required")
	}

	service := &BlogService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// CreateBlogPostInput captures the writable fields at creation.
type CreateBlogPostInput struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	Category      string
	Status        string
}

// UpdateBlogPostInput describes mutable post fields. A nil pointer means no
// change; the field set here is the full allow-list of client-mutable columns.
type UpdateBlogPostInput struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	CoverImageURL *string
	Category      *string
	Status        *string
}

// Create persists a new post, defaulting to draft status.
func (s *BlogService) Create(ctx context.Context, input CreateBlogPostInput) (*models.BlogPost, error) {
	post := models.BlogPost{
		Title:         strings.TrimSpace(input.Title),
		Slug:          strings.TrimSpace(input.Slug),
		Excerpt:       input.Excerpt,
		Content:       input.Content,
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		Category:      strings.TrimSpace(input.Category),
		Status:        models.ContentStatusDraft,
	}

	if status := strings.TrimSpace(input.Status); status != "" {
		post.Status = status
	}
	if post.Status == models.ContentStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("blog service: create post: %w", err)
	}
	return &post, nil
}

// Update applies the allow-listed changes to a post. The transition into
// published stamps published_at only when it is not already set.
func (s *BlogService) Update(ctx context.Context, id string, input UpdateBlogPostInput) (*models.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		updates["slug"] = strings.TrimSpace(*input.Slug)
	}
	if input.Excerpt != nil {
		updates["excerpt"] = *input.Excerpt
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.CoverImageURL != nil {
		updates["cover_image_url"] = strings.TrimSpace(*input.CoverImageURL)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		updates["status"] = status
		if status == models.ContentStatusPublished && post.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
	}

	if len(updates) == 0 {
		return post, nil
	}

	if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("blog service: update post: %w", err)
	}

	return s.Get(ctx, id)
}

// Get loads a post by id.
func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("blog service: get post: %w", err)
	}
	return &post, nil
}

// GetBySlug loads a post by slug.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, "slug = ?", strings.TrimSpace(slug)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, fmt.Errorf("blog service: get post by slug: %w", err)
	}
	return &post, nil
}

// List returns posts newest first, optionally filtered by status and category.
func (s *BlogService) List(ctx context.Context, status, category string) ([]models.BlogPost, error) {
	q := s.db.WithContext(ctx).Model(&models.BlogPost{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("status = ?", status)
	}
	if category = strings.TrimSpace(category); category != "" {
		q = q.Where("category = ?", category)
	}

	var posts []models.BlogPost
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("blog service: list posts: %w", err)
	}
	return posts, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("blog service: delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBlogPostNotFound
	}
	return nil
}
