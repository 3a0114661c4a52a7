package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository"
)

var slugCleanRegex = regexp.MustCompile(`[^a-z0-9]+`)

// ContentService manages news articles and game guides.
type ContentService struct {
	db     repository.DBTX
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(db repository.DBTX, posts repository.PostRepository, logger *slog.Logger) *ContentService {
	return &ContentService{db: db, posts: posts, logger: logger}
}

// Slugify derives a URL slug from a title: lowercase, non-alphanumeric runs
// collapsed to single hyphens.
func Slugify(title string) string {
	slug := slugCleanRegex.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// CreatePostInput holds the staff-supplied content fields.
type CreatePostInput struct {
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	CoverURL  *string `json:"cover_url,omitempty"`
	Published bool    `json:"published"`
}

// CreatePost creates a news article or guide. The slug is derived from the
// title and must not collide with an existing post.
func (s *ContentService) CreatePost(ctx context.Context, authorID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	kind := domain.PostKind(input.Kind)
	if kind != domain.PostNews && kind != domain.PostGuide {
		return nil, domain.ErrValidation("kind must be news or guide")
	}
	title := domain.SanitizeText(input.Title)
	if title == "" {
		return nil, domain.ErrValidation("title is required")
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, domain.ErrValidation("body is required")
	}

	slug := Slugify(title)
	if slug == "" {
		return nil, domain.ErrValidation("title must contain letters or digits")
	}
	existing, err := s.posts.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, domain.ErrInternal("check slug", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("a post with this title already exists")
	}

	p := &domain.Post{
		ID:        uuid.New(),
		Kind:      kind,
		Slug:      slug,
		Title:     title,
		Body:      body,
		CoverURL:  input.CoverURL,
		Published: input.Published,
		AuthorID:  authorID,
	}
	if err := s.posts.Create(ctx, s.db, p); err != nil {
		return nil, domain.ErrInternal("create post", err)
	}

	s.logger.Info("post created", "post_id", p.ID, "kind", p.Kind, "slug", p.Slug)
	return p, nil
}

// UpdatePostInput holds the editable content fields. Nil pointers leave the
// current value in place. Retitling does not change the slug; published
// links stay stable.
type UpdatePostInput struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	CoverURL  *string `json:"cover_url,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// UpdatePost applies partial edits to a post.
func (s *ContentService) UpdatePost(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*domain.Post, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := domain.SanitizeText(*input.Title)
		if title == "" {
			return nil, domain.ErrValidation("title is required")
		}
		p.Title = title
	}
	if input.Body != nil {
		body := strings.TrimSpace(*input.Body)
		if body == "" {
			return nil, domain.ErrValidation("body is required")
		}
		p.Body = body
	}
	if input.CoverURL != nil {
		p.CoverURL = input.CoverURL
	}
	if input.Published != nil {
		p.Published = *input.Published
	}

	if err := s.posts.Update(ctx, s.db, p); err != nil {
		return nil, domain.ErrInternal("update post", err)
	}
	return p, nil
}

// DeletePost removes a post.
func (s *ContentService) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, s.db, id); err != nil {
		return domain.ErrInternal("delete post", err)
	}
	return nil
}

// GetPost returns one post by ID.
func (s *ContentService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.ErrInternal("find post", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound("post", id.String())
	}
	return p, nil
}

// GetBySlug returns one published post by slug. Unpublished posts are not
// reachable through the public lookup.
func (s *ContentService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	p, err := s.posts.FindBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, domain.ErrInternal("find post", err)
	}
	if p == nil || !p.Published {
		return nil, domain.ErrNotFound("post", slug)
	}
	return p, nil
}

// List returns posts, optionally filtered by kind. publishedOnly=true is the
// public view; staff pass false to see drafts.
func (s *ContentService) List(ctx context.Context, kind *domain.PostKind, publishedOnly bool, limit int) ([]domain.Post, error) {
	ps, err := s.posts.List(ctx, s.db, kind, publishedOnly, normalizeListLimit(limit))
	if err != nil {
		return nil, domain.ErrInternal("list posts", err)
	}
	return ps, nil
}
