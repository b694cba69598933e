package entity

import (
	"database/sql"
	"regexp"
	"strings"
	"time"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type NewsArticle struct {
	Id          int          `db:"id" json:"id"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
	Published   TextBool     `db:"published" json:"published"`
	PublishedAt sql.NullTime `db:"published_at" json:"published_at"`
	NewsArticleInsert
}

type NewsArticleInsert struct {
	Slug     string `db:"slug" json:"slug" valid:"required"`
	Title    string `db:"title" json:"title" valid:"required"`
	Summary  string `db:"summary" json:"summary" valid:"-"`
	Body     string `db:"body" json:"body" valid:"required"`
	CoverURL string `db:"cover_url" json:"cover_url" valid:"-"`
}

func ValidateNewsArticleInsert(n *NewsArticleInsert) error {
	n.Slug = strings.TrimSpace(strings.ToLower(n.Slug))
	n.Title = strings.TrimSpace(n.Title)
	n.Summary = strings.TrimSpace(n.Summary)
	n.Body = strings.TrimSpace(n.Body)

	if n.Slug == "" {
		return &ValidationError{Message: "slug is required"}
	}
	if !slugRegex.MatchString(n.Slug) {
		return &ValidationError{Message: "slug must be lowercase words separated by dashes"}
	}
	if n.Title == "" {
		return &ValidationError{Message: "title is required"}
	}
	if n.Body == "" {
		return &ValidationError{Message: "body is required"}
	}
	if len(n.Title) > 200 {
		return &ValidationError{Message: "title must not exceed 200 characters"}
	}

	return nil
}
