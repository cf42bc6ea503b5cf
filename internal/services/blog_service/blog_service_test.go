package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/services/changefeed"
	"contractor_site/internal/services/content"
	"contractor_site/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) SaveBlogPost(ctx context.Context, post models.BlogPost) (uuid.UUID, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBlogRepository) UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *MockBlogRepository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBlogRepository) GetBlogPostByID(ctx context.Context, id uuid.UUID) (models.BlogPost, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPostBySlug(ctx context.Context, slug string) (models.BlogPost, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPosts(ctx context.Context, statusFilter string, page, perPage int) ([]models.BlogPost, int, error) {
	args := m.Called(ctx, statusFilter, page, perPage)
	posts, _ := args.Get(0).([]models.BlogPost)
	return posts, args.Int(1), args.Error(2)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, c changefeed.Change) error {
	return m.Called(ctx, c).Error(0)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockBlogRepository, events *MockPublisher, fallback []models.BlogPost) *BlogService {
	var pub Publisher
	if events != nil {
		pub = events
	}
	s := NewBlogService(sl.Discard(), repo, content.NewRenderer(200), pub, fallback, time.Minute)
	s.now = func() time.Time { return fixedNow }
	return s
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBlogService_ListPublic_MergesFallback(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBlogRepository)

	stored := []models.BlogPost{
		{ID: uuid.New(), Slug: "kitchen-trends", Title: "Kitchen Trends (db)", Status: models.PostStatusPublished, PublishedAt: day(10), Category: "kitchen"},
		{ID: uuid.New(), Slug: "deck-care", Title: "Deck Care draft", Status: models.PostStatusDraft, PublishedAt: nil},
		{ID: uuid.New(), Slug: "roof-guide", Title: "Roof Guide", Status: models.PostStatusPublished, PublishedAt: day(3), Category: "roofing"},
	}
	fallback := []models.BlogPost{
		{Slug: "kitchen-trends", Title: "Kitchen Trends (bundled)", Status: models.PostStatusPublished, PublishedAt: day(20)},
		{Slug: "deck-care", Title: "Deck Care (bundled)", Status: models.PostStatusPublished, PublishedAt: day(15)},
		{Slug: "bath-ideas", Title: "Bath Ideas", Status: models.PostStatusPublished, PublishedAt: day(5), Category: "Kitchen"},
		{Slug: "old-news", Title: "Old News", Status: models.PostStatusArchived, PublishedAt: day(1)},
	}

	repo.On("GetBlogPosts", ctx, "all", 1, repoPageSize).Return(stored, len(stored), nil).Once()

	s := newTestService(repo, nil, fallback)

	posts, err := s.ListPublic(ctx, "")
	require.NoError(t, err)

	var slugs, titles []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"kitchen-trends", "bath-ideas", "roof-guide"}, slugs)
	assert.Equal(t, "Kitchen Trends (db)", titles[0])

	kitchen, err := s.ListPublic(ctx, "kitchen")
	require.NoError(t, err)
	assert.Len(t, kitchen, 2)

	repo.AssertExpectations(t)
}

func TestBlogService_ListPublic_Pages(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBlogRepository)

	first := make([]models.BlogPost, repoPageSize)
	for i := range first {
		first[i] = models.BlogPost{Slug: uuid.NewString(), Status: models.PostStatusPublished, CreatedAt: fixedNow}
	}
	second := []models.BlogPost{{Slug: "last", Status: models.PostStatusPublished, CreatedAt: fixedNow}}

	repo.On("GetBlogPosts", ctx, "all", 1, repoPageSize).Return(first, repoPageSize+1, nil).Once()
	repo.On("GetBlogPosts", ctx, "all", 2, repoPageSize).Return(second, repoPageSize+1, nil).Once()

	s := newTestService(repo, nil, nil)

	posts, err := s.ListPublic(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, repoPageSize+1)

	repo.AssertExpectations(t)
}

func TestBlogService_ListPublic_RepoError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBlogRepository)
	boom := errors.New("db down")

	repo.On("GetBlogPosts", ctx, "all", 1, repoPageSize).Return(nil, 0, boom).Once()

	s := newTestService(repo, nil, nil)

	_, err := s.ListPublic(ctx, "")
	assert.ErrorIs(t, err, boom)
}

func TestBlogService_GetPublicPost(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBlogRepository)

	stored := []models.BlogPost{
		{ID: uuid.New(), Slug: "hidden", Status: models.PostStatusDraft, Content: "# Draft"},
	}
	fallback := []models.BlogPost{
		{Slug: "choosing-tile", Title: "Choosing Tile", Status: models.PostStatusPublished, Content: "# Choosing Tile\n\n## Grout\n\nText."},
		{Slug: "hidden", Status: models.PostStatusPublished, Content: "bundled"},
	}
	repo.On("GetBlogPosts", ctx, "all", 1, repoPageSize).Return(stored, 1, nil).Once()

	s := newTestService(repo, nil, fallback)

	post, err := s.GetPublicPost(ctx, "choosing-tile")
	require.NoError(t, err)
	assert.Contains(t, post.Rendered.HTML, `<h2 id="grout">`)
	assert.Len(t, post.Rendered.Headings, 2)
	assert.Equal(t, 1, post.ReadTime)

	_, err = s.GetPublicPost(ctx, "hidden")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = s.GetPublicPost(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	repo.AssertExpectations(t)
}

func TestBlogService_CreatePost(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name    string
		input   PostInput
		mock    func(repo *MockBlogRepository, events *MockPublisher)
		wantErr error
	}{
		{
			name:  "draft with generated slug",
			input: PostInput{Title: "  Spring Deck Prep!  ", Content: "Sand and seal.", Tags: []string{"Deck", "deck", " "}},
			mock: func(repo *MockBlogRepository, events *MockPublisher) {
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Slug == "spring-deck-prep" &&
						p.Title == "Spring Deck Prep!" &&
						p.Status == models.PostStatusDraft &&
						p.PublishedAt == nil &&
						p.ReadTime == 1 &&
						assert.ObjectsAreEqual([]string{"deck"}, p.Tags)
				})).Return(id, nil).Once()
				repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Slug: "spring-deck-prep"}, nil).Once()
				events.On("Publish", ctx, mock.MatchedBy(func(c changefeed.Change) bool {
					return c.Table == changefeed.TableBlogPosts && c.Op == changefeed.OpInsert && c.ID == id
				})).Return(nil).Once()
			},
		},
		{
			name:  "published stamps date",
			input: PostInput{Title: "Roof Guide", Status: models.PostStatusPublished},
			mock: func(repo *MockBlogRepository, events *MockPublisher) {
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.PublishedAt != nil && p.PublishedAt.Equal(fixedNow)
				})).Return(id, nil).Once()
				repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id}, nil).Once()
				events.On("Publish", ctx, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:  "slug conflict retries with suffix",
			input: PostInput{Title: "Roof Guide"},
			mock: func(repo *MockBlogRepository, events *MockPublisher) {
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Slug == "roof-guide"
				})).Return(uuid.Nil, storage.ErrSlugExists).Once()
				repo.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Slug == "roof-guide-2"
				})).Return(id, nil).Once()
				repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Slug: "roof-guide-2"}, nil).Once()
				events.On("Publish", ctx, mock.Anything).Return(errors.New("redis down")).Once()
			},
		},
		{
			name:    "empty title",
			input:   PostInput{Title: "   "},
			mock:    func(repo *MockBlogRepository, events *MockPublisher) {},
			wantErr: ErrInvalidPost,
		},
		{
			name:    "bad status",
			input:   PostInput{Title: "x", Status: "scheduled"},
			mock:    func(repo *MockBlogRepository, events *MockPublisher) {},
			wantErr: ErrInvalidStatus,
		},
		{
			name:  "storage error",
			input: PostInput{Title: "x"},
			mock: func(repo *MockBlogRepository, events *MockPublisher) {
				repo.On("SaveBlogPost", ctx, mock.Anything).Return(uuid.Nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBlogRepository)
			events := new(MockPublisher)
			tt.mock(repo, events)

			s := newTestService(repo, events, nil)

			post, err := s.CreatePost(ctx, tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, post.ID)

			repo.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestBlogService_CreatePost_SlugExhausted(t *testing.T) {
	ctx := context.Background()
	repo := new(MockBlogRepository)

	repo.On("SaveBlogPost", ctx, mock.Anything).Return(uuid.Nil, storage.ErrSlugExists).Times(slugRetries + 1)

	s := newTestService(repo, nil, nil)

	_, err := s.CreatePost(ctx, PostInput{Title: "Busy Slug"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	repo.AssertExpectations(t)
}

func TestBlogService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	title := "New Title"
	slug := "New Slug"
	body := "word word word"
	featured := true

	repo := new(MockBlogRepository)
	events := new(MockPublisher)

	repo.On("UpdateBlogPostFields", ctx, id, map[string]interface{}{
		"title":     "New Title",
		"slug":      "new-slug",
		"content":   body,
		"read_time": 1,
		"featured":  true,
	}).Return(nil).Once()
	repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Title: title}, nil).Once()
	events.On("Publish", ctx, mock.Anything).Return(nil).Once()

	s := newTestService(repo, events, nil)

	post, err := s.UpdatePost(ctx, id, PostUpdate{Title: &title, Slug: &slug, Content: &body, Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, title, post.Title)

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBlogService_UpdatePost_Errors(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	blank := " "
	title := "ok"

	t.Run("blank title", func(t *testing.T) {
		s := newTestService(new(MockBlogRepository), nil, nil)
		_, err := s.UpdatePost(ctx, id, PostUpdate{Title: &blank})
		assert.ErrorIs(t, err, ErrInvalidPost)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("UpdateBlogPostFields", ctx, id, mock.Anything).Return(storage.ErrPostNotFound).Once()

		s := newTestService(repo, nil, nil)
		_, err := s.UpdatePost(ctx, id, PostUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("slug conflict", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("UpdateBlogPostFields", ctx, id, mock.Anything).Return(storage.ErrSlugExists).Once()

		s := newTestService(repo, nil, nil)
		_, err := s.UpdatePost(ctx, id, PostUpdate{Title: &title})
		assert.ErrorIs(t, err, ErrSlugTaken)
	})

	t.Run("nothing to change", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id}, nil).Once()

		s := newTestService(repo, nil, nil)
		_, err := s.UpdatePost(ctx, id, PostUpdate{})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "UpdateBlogPostFields", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBlogService_PublishPost(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("first publish sets date", func(t *testing.T) {
		repo := new(MockBlogRepository)
		events := new(MockPublisher)

		repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Status: models.PostStatusDraft}, nil).Once()
		repo.On("UpdateBlogPostFields", ctx, id, map[string]interface{}{
			"status":       models.PostStatusPublished,
			"published_at": fixedNow,
		}).Return(nil).Once()
		repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Status: models.PostStatusPublished}, nil).Once()
		events.On("Publish", ctx, mock.Anything).Return(nil).Once()

		s := newTestService(repo, events, nil)

		post, err := s.PublishPost(ctx, id)
		require.NoError(t, err)
		assert.True(t, post.IsPublished())
		repo.AssertExpectations(t)
	})

	t.Run("republish keeps date", func(t *testing.T) {
		repo := new(MockBlogRepository)
		events := new(MockPublisher)

		repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Status: models.PostStatusArchived, PublishedAt: day(2)}, nil)
		repo.On("UpdateBlogPostFields", ctx, id, map[string]interface{}{
			"status": models.PostStatusPublished,
		}).Return(nil).Once()
		events.On("Publish", ctx, mock.Anything).Return(nil).Once()

		s := newTestService(repo, events, nil)

		_, err := s.PublishPost(ctx, id)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{}, storage.ErrPostNotFound).Once()

		s := newTestService(repo, nil, nil)

		_, err := s.PublishPost(ctx, id)
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestBlogService_ArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockBlogRepository)
	events := new(MockPublisher)

	repo.On("UpdateBlogPostFields", ctx, id, map[string]interface{}{"status": models.PostStatusArchived}).Return(nil).Once()
	repo.On("GetBlogPostByID", ctx, id).Return(models.BlogPost{ID: id, Status: models.PostStatusArchived}, nil).Once()
	repo.On("DeleteBlogPost", ctx, id).Return(nil).Once()
	events.On("Publish", ctx, mock.MatchedBy(func(c changefeed.Change) bool { return c.Op == changefeed.OpUpdate })).Return(nil).Once()
	events.On("Publish", ctx, mock.MatchedBy(func(c changefeed.Change) bool { return c.Op == changefeed.OpDelete })).Return(nil).Once()

	s := newTestService(repo, events, nil)

	post, err := s.ArchivePost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusArchived, post.Status)

	require.NoError(t, s.DeletePost(ctx, id))

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestBlogService_DeletePost_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockBlogRepository)
	repo.On("DeleteBlogPost", ctx, id).Return(storage.ErrPostNotFound).Once()

	s := newTestService(repo, nil, nil)

	assert.ErrorIs(t, s.DeletePost(ctx, id), ErrPostNotFound)
}

func TestBlogService_ChangeFlushesPublicCache(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockBlogRepository)
	repo.On("GetBlogPosts", ctx, "all", 1, repoPageSize).Return([]models.BlogPost{}, 0, nil).Twice()
	repo.On("DeleteBlogPost", ctx, id).Return(nil).Once()

	s := newTestService(repo, nil, nil)

	_, err := s.ListPublic(ctx, "")
	require.NoError(t, err)
	_, err = s.ListPublic(ctx, "")
	require.NoError(t, err)

	require.NoError(t, s.DeletePost(ctx, id))

	_, err = s.ListPublic(ctx, "")
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestBlogService_ListPosts(t *testing.T) {
	ctx := context.Background()

	repo := new(MockBlogRepository)
	repo.On("GetBlogPosts", ctx, models.PostStatusDraft, 2, defaultPageSize).Return(nil, 25, nil).Once()

	s := newTestService(repo, nil, nil)

	posts, total, err := s.ListPosts(ctx, models.PostStatusDraft, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.BlogPost{}, posts)
	assert.Equal(t, 25, total)

	_, _, err = s.ListPosts(ctx, "deleted", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	repo.AssertExpectations(t)
}

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.yaml")

	data := `posts:
  - title: "Kitchen Remodel Costs"
    category: kitchen
    published_at: 2024-02-01T00:00:00Z
    content: "# Costs"
  - slug: draft-one
    title: Draft
    status: draft
  - title: "!!!"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	posts, err := LoadFallback(path)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "kitchen-remodel-costs", posts[0].Slug)
	assert.Equal(t, models.PostStatusPublished, posts[0].Status)
	assert.Equal(t, []string{}, posts[0].Tags)
	require.NotNil(t, posts[0].PublishedAt)
	assert.Equal(t, 2024, posts[0].PublishedAt.Year())
	assert.Equal(t, models.PostStatusDraft, posts[1].Status)

	missing, err := LoadFallback(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGenerateSlug(t *testing.T) {
	tests := map[string]string{
		"Spring Deck Prep!":        "spring-deck-prep",
		"  Don't Skip the Permit ": "dont-skip-the-permit",
		"Bath & Kitchen -- 2024":   "bath-kitchen-2024",
		"!!!":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, GenerateSlug(in), in)
	}
}
