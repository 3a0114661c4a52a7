package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/repository/repotest"
)

func newContentService(t *testing.T) (*ContentService, *repotest.FakePostRepo) {
	t.Helper()
	posts := repotest.NewFakePostRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewContentService(nil, posts, logger), posts
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "valorant-patch-notes-8-11", Slugify("Valorant Patch Notes 8.11"))
	assert.Equal(t, "hello-world", Slugify("  Hello,   World!  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestCreatePostDerivesSlug(t *testing.T) {
	svc, _ := newContentService(t)

	p, err := svc.CreatePost(context.Background(), uuid.New(), CreatePostInput{
		Kind:      "news",
		Title:     "Season 5 Launch Announced",
		Body:      "The new season begins next Friday.",
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "season-5-launch-announced", p.Slug)
	assert.Equal(t, domain.PostNews, p.Kind)
}

func TestCreatePostDuplicateTitleConflicts(t *testing.T) {
	svc, _ := newContentService(t)
	ctx := context.Background()
	author := uuid.New()

	_, err := svc.CreatePost(ctx, author, CreatePostInput{Kind: "guide", Title: "Aim Training 101", Body: "Practice daily."})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, author, CreatePostInput{Kind: "guide", Title: "Aim Training 101", Body: "Different body."})
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestCreatePostRejectsUnknownKind(t *testing.T) {
	svc, _ := newContentService(t)

	_, err := svc.CreatePost(context.Background(), uuid.New(), CreatePostInput{
		Kind:  "podcast",
		Title: "Episode 1",
		Body:  "Hello.",
	})
	assert.Error(t, err)
}

func TestUpdatePostKeepsSlugStable(t *testing.T) {
	svc, _ := newContentService(t)
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, uuid.New(), CreatePostInput{Kind: "news", Title: "Original Title", Body: "Body."})
	require.NoError(t, err)

	newTitle := "Completely New Title"
	updated, err := svc.UpdatePost(ctx, p.ID, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Completely New Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	svc, _ := newContentService(t)
	ctx := context.Background()

	draft, err := svc.CreatePost(ctx, uuid.New(), CreatePostInput{Kind: "news", Title: "Draft Post", Body: "WIP."})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, draft.Slug)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	published := true
	_, err = svc.UpdatePost(ctx, draft.ID, UpdatePostInput{Published: &published})
	require.NoError(t, err)

	found, err := svc.GetBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)
}

func TestDeletePost(t *testing.T) {
	svc, posts := newContentService(t)
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, uuid.New(), CreatePostInput{Kind: "guide", Title: "Short Guide", Body: "Tips."})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, p.ID))
	assert.Empty(t, posts.Posts)

	err = svc.DeletePost(ctx, p.ID)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestListFiltersByKindAndPublished(t *testing.T) {
	svc, _ := newContentService(t)
	ctx := context.Background()
	author := uuid.New()

	_, err := svc.CreatePost(ctx, author, CreatePostInput{Kind: "news", Title: "News One", Body: "B.", Published: true})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, author, CreatePostInput{Kind: "guide", Title: "Guide One", Body: "B.", Published: true})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, author, CreatePostInput{Kind: "news", Title: "Unpublished News", Body: "B."})
	require.NoError(t, err)

	news := domain.PostNews
	public, err := svc.List(ctx, &news, true, 0)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "news-one", public[0].Slug)

	staff, err := svc.List(ctx, &news, false, 0)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}
