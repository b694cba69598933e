package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

type newsStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) News() dependency.News {
	return &newsStore{
		MYSQLStore: ms,
	}
}

func (s *newsStore) AddNewsArticle(ctx context.Context, n *entity.NewsArticleInsert) (int, error) {
	query := `
		INSERT INTO news_article (slug, title, summary, body, cover_url, published)
		VALUES (:slug, :title, :summary, :body, :cover_url, 'false')
	`
	id, err := ExecNamedLastId(ctx, s.DB(), query, map[string]any{
		"slug":      n.Slug,
		"title":     n.Title,
		"summary":   n.Summary,
		"body":      n.Body,
		"cover_url": n.CoverURL,
	})
	if err != nil {
		if s.IsErrUniqueViolation(err) {
			return 0, gerr.ErrSlugTaken
		}
		return 0, fmt.Errorf("can't add news article: %w", err)
	}
	return id, nil
}

func (s *newsStore) UpdateNewsArticle(ctx context.Context, id int, n *entity.NewsArticleInsert) error {
	query := `
		UPDATE news_article
		SET slug = :slug, title = :title, summary = :summary, body = :body,
		    cover_url = :cover_url, updated_at = NOW()
		WHERE id = :id
	`
	err := ExecNamed(ctx, s.DB(), query, map[string]any{
		"slug":      n.Slug,
		"title":     n.Title,
		"summary":   n.Summary,
		"body":      n.Body,
		"cover_url": n.CoverURL,
		"id":        id,
	})
	if err != nil {
		if s.IsErrUniqueViolation(err) {
			return gerr.ErrSlugTaken
		}
		return fmt.Errorf("can't update news article: %w", err)
	}
	return nil
}

func (s *newsStore) PublishNewsArticle(ctx context.Context, id int, publish bool) error {
	text := "false"
	var publishedAt sql.NullTime
	if publish {
		text = "true"
		publishedAt = sql.NullTime{Time: s.Now(), Valid: true}
	}

	query := `
		UPDATE news_article
		SET published = :published, published_at = :published_at, updated_at = NOW()
		WHERE id = :id
	`
	err := ExecNamed(ctx, s.DB(), query, map[string]any{
		"published":    text,
		"published_at": publishedAt,
		"id":           id,
	})
	if err != nil {
		return fmt.Errorf("can't publish news article: %w", err)
	}
	return nil
}

func (s *newsStore) DeleteNewsArticleById(ctx context.Context, id int) error {
	err := ExecNamed(ctx, s.DB(), `DELETE FROM news_article WHERE id = :id`, map[string]any{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("can't delete news article: %w", err)
	}
	return nil
}

func (s *newsStore) GetNewsPaged(ctx context.Context, limit, offset int, publishedOnly bool) ([]entity.NewsArticle, int, error) {
	whereClause := ""
	if publishedOnly {
		whereClause = "WHERE published = 'true'"
	}

	args := map[string]any{
		"limit":  limit,
		"offset": offset,
	}

	query := fmt.Sprintf(`
		SELECT id, slug, title, summary, body, cover_url, published, published_at,
		       created_at, updated_at
		FROM news_article
		%s
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`, whereClause)

	articles, err := QueryListNamed[entity.NewsArticle](ctx, s.DB(), query, args)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []entity.NewsArticle{}, 0, nil
		}
		return nil, 0, fmt.Errorf("can't get news articles: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM news_article %s`, whereClause)
	totalCount, err := QueryCountNamed(ctx, s.DB(), countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("can't get total count: %w", err)
	}

	return articles, totalCount, nil
}

func (s *newsStore) GetNewsArticleBySlug(ctx context.Context, slug string) (entity.NewsArticle, error) {
	var n entity.NewsArticle
	query := `
		SELECT id, slug, title, summary, body, cover_url, published, published_at,
		       created_at, updated_at
		FROM news_article
		WHERE slug = ?
	`
	err := s.DB().GetContext(ctx, &n, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.NewsArticle{}, gerr.ErrNotFound
		}
		return entity.NewsArticle{}, fmt.Errorf("can't get news article: %w", err)
	}
	return n, nil
}
