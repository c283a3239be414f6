package portfolio

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ArticleInput is the body of an article create.
type ArticleInput struct {
	Title     string `json:"title" validate:"required,max=255"`
	Slug      string `json:"slug" validate:"required,slug"`
	Excerpt   string `json:"excerpt,omitempty"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

// ArticleUpdate changes only the fields that are set.
type ArticleUpdate struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug      *string `json:"slug,omitempty" validate:"omitempty,slug"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Content   *string `json:"content,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

type Project struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	GithubURL    string    `json:"github_url"`
	LiveURL      string    `json:"live_url,omitempty"`
	Technologies []string  `json:"technologies"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectInput is the body of a project create.
type ProjectInput struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description,omitempty"`
	GithubURL    string   `json:"github_url,omitempty" validate:"omitempty,url,max=500"`
	LiveURL      string   `json:"live_url,omitempty" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies" validate:"dive,required"`
	Featured     bool     `json:"featured"`
}

// ProjectUpdate changes only the fields that are set.
type ProjectUpdate struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Description  *string  `json:"description,omitempty"`
	GithubURL    *string  `json:"github_url,omitempty" validate:"omitempty,url,max=500"`
	LiveURL      *string  `json:"live_url,omitempty" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies,omitempty" validate:"omitempty,dive,required"`
	Featured     *bool    `json:"featured,omitempty"`
}

type SocialLinks struct {
	GitHub   string `json:"github,omitempty" validate:"omitempty,url"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Phone    string `json:"phone,omitempty"`
}

type Settings struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}

// Profile is the single portfolio record of the site.
type Profile struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Bio         string       `json:"bio"`
	Email       string       `json:"email"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
	Settings    *Settings    `json:"settings,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type ProfileUpdate struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,max=255"`
	Title       *string      `json:"title,omitempty" validate:"omitempty,max=255"`
	Bio         *string      `json:"bio,omitempty"`
	Email       *string      `json:"email,omitempty" validate:"omitempty,email"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
	Settings    *Settings    `json:"settings,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
