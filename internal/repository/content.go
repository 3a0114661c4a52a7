package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zarena/platform/internal/domain"
)

type postRepo struct{}

// NewPostRepository returns a pgx-backed PostRepository.
func NewPostRepository() PostRepository {
	return &postRepo{}
}

const postColumns = `id, kind, slug, title, body, cover_url, published, author_id, created_at, updated_at`

func (r *postRepo) Create(ctx context.Context, db DBTX, p *domain.Post) error {
	_, err := db.Exec(ctx, `
		INSERT INTO posts (id, kind, slug, title, body, cover_url, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, string(p.Kind), p.Slug, p.Title, p.Body, p.CoverURL, p.Published, p.AuthorID)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postRepo) Update(ctx context.Context, db DBTX, p *domain.Post) error {
	tag, err := db.Exec(ctx, `
		UPDATE posts
		SET kind = $2, slug = $3, title = $4, body = $5, cover_url = $6, published = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, string(p.Kind), p.Slug, p.Title, p.Body, p.CoverURL, p.Published)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("post", p.ID.String())
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("post", id.String())
	}
	return nil
}

func (r *postRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Post, error) {
	row := db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *postRepo) FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Post, error) {
	row := db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	return scanPost(row)
}

func (r *postRepo) List(ctx context.Context, db DBTX, kind *domain.PostKind, publishedOnly bool, limit int) ([]domain.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var kindStr *string
	if kind != nil {
		k := string(*kind)
		kindStr = &k
	}
	rows, err := db.Query(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE ($1::text IS NULL OR kind = $1) AND (NOT $2 OR published)
		ORDER BY created_at DESC LIMIT $3`, kindStr, publishedOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Kind, &p.Slug, &p.Title, &p.Body, &p.CoverURL,
		&p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}
