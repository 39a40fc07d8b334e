package models

import (
	"time"

	"gorm.io/datatypes"
)

// Content statuses shared by the publishable entities.
const (
	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"
	ContentStatusArchived  = "archived"
)

// BlogPost is an article on the public site. PublishedAt is stamped exactly
// once, when the status first transitions into "published".
type BlogPost struct {
	BaseModel

	Title         string     `gorm:"not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	CoverImageURL string     `json:"cover_image_url"`
	Category      string     `gorm:"index" json:"category"`
	Status        string     `gorm:"not null;default:draft;index" json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
}

// Course is a program offered by the company.
type Course struct {
	BaseModel

	Title         string         `gorm:"not null" json:"title"`
	Description   string         `json:"description"`
	Level         string         `json:"level"`
	DurationWeeks int            `json:"duration_weeks"`
	Price         float64        `json:"price"`
	Syllabus      datatypes.JSON `json:"syllabus,omitempty"`
	Status        string         `gorm:"not null;default:draft;index" json:"status"`
}

// GalleryImage is a photo shown on the public gallery.
type GalleryImage struct {
	BaseModel

	Title    string `json:"title"`
	ImageURL string `gorm:"not null" json:"image_url"`
	Category string `gorm:"index" json:"category"`
	Status   string `gorm:"not null;default:draft;index" json:"status"`
}

// PortfolioItem is a showcased past engagement.
type PortfolioItem struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ClientName  string `json:"client_name"`
	Status      string `gorm:"not null;default:draft;index" json:"status"`
}

// Testimonial statuses. Testimonials go live once approved.
const (
	TestimonialStatusPending  = "pending"
	TestimonialStatusApproved = "approved"
	TestimonialStatusRejected = "rejected"
)

// Testimonial is a quote from a client or guardian.
type Testimonial struct {
	BaseModel

	AuthorName string `gorm:"not null" json:"author_name"`
	AuthorRole string `json:"author_role"`
	Quote      string `gorm:"not null" json:"quote"`
	Rating     int    `json:"rating"`
	Status     string `gorm:"not null;default:pending;index" json:"status"`
}

// Registration statuses track the follow-up pipeline for course enquiries.
const (
	RegistrationStatusNew       = "new"
	RegistrationStatusContacted = "contacted"
	RegistrationStatusEnrolled  = "enrolled"
	RegistrationStatusClosed    = "closed"
)

// Registration is a public course-enquiry submission.
type Registration struct {
	BaseModel

	StudentName  string  `gorm:"not null" json:"student_name"`
	GuardianName string  `json:"guardian_name"`
	Email        string  `gorm:"not null" json:"email"`
	Phone        string  `json:"phone"`
	CourseID     *string `gorm:"type:uuid;index" json:"course_id"`
	Course       *Course `json:"course,omitempty"`
	Message      string  `json:"message"`
	Status       string  `gorm:"not null;default:new;index" json:"status"`
}
