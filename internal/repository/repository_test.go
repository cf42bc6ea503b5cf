package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/domain/ordering"
	"contractor_site/internal/repository"
	"contractor_site/internal/storage"
	"contractor_site/internal/storage/postgresql"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testCtx = context.Background()

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres container tests are skipped in -short mode")
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(testCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(testCtx) })

	host, err := pgContainer.Host(testCtx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(testCtx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := pgxpool.Connect(testCtx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(testCtx, postgresql.Schema)
	require.NoError(t, err)

	return pool
}

func newProject(title string, order int) models.GalleryProject {
	return models.GalleryProject{
		Title:         title,
		Category:      "kitchen",
		DisplayMode:   models.DisplayModeSingle,
		AfterImageURL: "https://cdn.example.com/" + title + ".jpg",
		DisplayOrder:  order,
	}
}

func TestGalleryRepo(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewGalleryRepo(pool)

	t.Run("save replaces the whole image set", func(t *testing.T) {
		p := newProject("before-after", 0)
		p.DisplayMode = models.DisplayModeBeforeAfter

		saved, err := repo.SaveProject(testCtx, p, []models.ProjectImage{
			{ImageURL: "old-1.jpg", ImageType: models.ImageTypeGallery, DisplayOrder: 0},
			{ImageURL: "old-2.jpg", ImageType: models.ImageTypeBefore, DisplayOrder: 0},
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, saved.ID)

		afters := []models.ProjectImage{
			{ImageURL: "a0.jpg", ImageType: models.ImageTypeAfter, DisplayOrder: 0},
			{ImageURL: "a1.jpg", ImageType: models.ImageTypeAfter, DisplayOrder: 1},
			{ImageURL: "a2.jpg", ImageType: models.ImageTypeAfter, DisplayOrder: 2},
		}
		_, err = repo.SaveProject(testCtx, saved, afters)
		require.NoError(t, err)

		images, err := repo.ListProjectImages(testCtx, saved.ID)
		require.NoError(t, err)
		require.Len(t, images, 3)
		for i, img := range images {
			assert.Equal(t, models.ImageTypeAfter, img.ImageType)
			assert.Equal(t, i, img.DisplayOrder)
			assert.Equal(t, afters[i].ImageURL, img.ImageURL)
		}
	})

	t.Run("last save wins", func(t *testing.T) {
		saved, err := repo.SaveProject(testCtx, newProject("concurrent", 1), nil)
		require.NoError(t, err)

		_, err = repo.SaveProject(testCtx, saved, []models.ProjectImage{
			{ImageURL: "tab-a-1.jpg", ImageType: models.ImageTypeGallery, DisplayOrder: 0},
			{ImageURL: "tab-a-2.jpg", ImageType: models.ImageTypeGallery, DisplayOrder: 1},
		})
		require.NoError(t, err)

		_, err = repo.SaveProject(testCtx, saved, []models.ProjectImage{
			{ImageURL: "tab-b.jpg", ImageType: models.ImageTypeGallery, DisplayOrder: 0},
		})
		require.NoError(t, err)

		images, err := repo.ListProjectImages(testCtx, saved.ID)
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, "tab-b.jpg", images[0].ImageURL)
	})

	t.Run("update keeps display order", func(t *testing.T) {
		saved, err := repo.SaveProject(testCtx, newProject("ordered", 7), nil)
		require.NoError(t, err)

		saved.Title = "renamed"
		saved.DisplayOrder = 99
		updated, err := repo.SaveProject(testCtx, saved, nil)
		require.NoError(t, err)

		assert.Equal(t, 7, updated.DisplayOrder)
		got, err := repo.GetProject(testCtx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
	})

	t.Run("reorder is persisted", func(t *testing.T) {
		projects, err := repo.ListProjects(testCtx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(projects), 3)

		ids := ordering.IDs(projects)
		moved, err := ordering.Move(ids, ids[0], ids[len(ids)-1])
		require.NoError(t, err)

		require.NoError(t, repo.UpdateDisplayOrders(testCtx, ordering.Renumber(moved)))

		after, err := repo.ListProjects(testCtx)
		require.NoError(t, err)
		assert.Equal(t, moved, ordering.IDs(after))
	})

	t.Run("reorder with unknown id rolls back", func(t *testing.T) {
		before, err := repo.ListProjects(testCtx)
		require.NoError(t, err)

		updates := ordering.Renumber(append([]uuid.UUID{uuid.New()}, ordering.IDs(before)...))
		err = repo.UpdateDisplayOrders(testCtx, updates)
		assert.ErrorIs(t, err, storage.ErrProjectNotFound)

		after, err := repo.ListProjects(testCtx)
		require.NoError(t, err)
		assert.Equal(t, ordering.IDs(before), ordering.IDs(after))
	})

	t.Run("categories round trip", func(t *testing.T) {
		p := newProject("multi", 10)
		p.Category = "bathroom"
		p.Categories = []string{"bathroom", "basement"}

		saved, err := repo.SaveProject(testCtx, p, nil)
		require.NoError(t, err)

		got, err := repo.GetProject(testCtx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "bathroom", got.Category)
		assert.Equal(t, []string{"bathroom", "basement"}, got.Categories)
	})

	t.Run("delete cascades to images", func(t *testing.T) {
		saved, err := repo.SaveProject(testCtx, newProject("doomed", 20), []models.ProjectImage{
			{ImageURL: "x.jpg", ImageType: models.ImageTypeGallery},
		})
		require.NoError(t, err)

		require.NoError(t, repo.DeleteProject(testCtx, saved.ID))

		images, err := repo.ListProjectImages(testCtx, saved.ID)
		require.NoError(t, err)
		assert.Empty(t, images)

		_, err = repo.GetProject(testCtx, saved.ID)
		assert.ErrorIs(t, err, storage.ErrProjectNotFound)
		assert.ErrorIs(t, repo.DeleteProject(testCtx, saved.ID), storage.ErrProjectNotFound)
	})
}

func TestBlogRepo(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewBlogRepository(pool)

	now := time.Now().UTC().Truncate(time.Second)
	post := models.BlogPost{
		Slug:        "kitchen-remodel-cost",
		Title:       "What a kitchen remodel costs",
		Content:     "# Costs\n\nIt depends.",
		Author:      "Team",
		Category:    "kitchen",
		Tags:        []string{"kitchen", "budget"},
		Status:      models.PostStatusPublished,
		PublishedAt: &now,
	}

	id, err := repo.SaveBlogPost(testCtx, post)
	require.NoError(t, err)

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := repo.SaveBlogPost(testCtx, post)
		assert.ErrorIs(t, err, storage.ErrSlugExists)
	})

	t.Run("get by slug and id", func(t *testing.T) {
		bySlug, err := repo.GetBlogPostBySlug(testCtx, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, id, bySlug.ID)
		assert.Equal(t, post.Tags, bySlug.Tags)

		byID, err := repo.GetBlogPostByID(testCtx, id)
		require.NoError(t, err)
		assert.Equal(t, post.Title, byID.Title)

		_, err = repo.GetBlogPostBySlug(testCtx, "missing")
		assert.ErrorIs(t, err, storage.ErrPostNotFound)
	})

	t.Run("update fields", func(t *testing.T) {
		err := repo.UpdateBlogPostFields(testCtx, id, map[string]interface{}{"status": models.PostStatusArchived})
		require.NoError(t, err)

		got, err := repo.GetBlogPostByID(testCtx, id)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusArchived, got.Status)
		assert.NotNil(t, got.UpdatedAt)

		err = repo.UpdateBlogPostFields(testCtx, id, map[string]interface{}{"id": uuid.New()})
		assert.Error(t, err)

		err = repo.UpdateBlogPostFields(testCtx, uuid.New(), map[string]interface{}{"title": "x"})
		assert.ErrorIs(t, err, storage.ErrPostNotFound)
	})

	t.Run("list by status", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := repo.SaveBlogPost(testCtx, models.BlogPost{
				Slug:   fmt.Sprintf("draft-%d", i),
				Title:  gofakeit.Sentence(4),
				Status: models.PostStatusDraft,
			})
			require.NoError(t, err)
		}

		drafts, total, err := repo.GetBlogPosts(testCtx, models.PostStatusDraft, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, drafts, 2)

		_, _, err = repo.GetBlogPosts(testCtx, "bogus", 1, 10)
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteBlogPost(testCtx, id))
		assert.ErrorIs(t, repo.DeleteBlogPost(testCtx, id), storage.ErrPostNotFound)
	})
}

func TestLeadRepo(t *testing.T) {
	pool := setupTestDB(t)
	repo := repository.NewLeadRepository(pool)

	lead, err := repo.CreateLead(testCtx, models.Lead{
		Name:       gofakeit.Name(),
		Email:      gofakeit.Email(),
		Phone:      "5551234567",
		FormSource: "contact-page",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, lead.ID)
	assert.False(t, lead.SyncedToCRM)
	assert.False(t, lead.SyncedToSheet)

	leads, total, err := repo.GetLeads(testCtx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, leads, 1)
	assert.Equal(t, lead.ID, leads[0].ID)

	_, unsynced, err := repo.CountLeads(testCtx)
	require.NoError(t, err)
	assert.Equal(t, 1, unsynced)

	require.NoError(t, repo.MarkSynced(testCtx, lead.ID, models.SyncTargetCRM))
	require.NoError(t, repo.MarkSynced(testCtx, lead.ID, models.SyncTargetSheet))

	_, unsynced, err = repo.CountLeads(testCtx)
	require.NoError(t, err)
	assert.Equal(t, 0, unsynced)

	assert.ErrorIs(t, repo.MarkSynced(testCtx, uuid.New(), models.SyncTargetCRM), storage.ErrLeadNotFound)
	assert.Error(t, repo.MarkSynced(testCtx, lead.ID, models.SyncTarget("fax")))
}

func TestUserAndRoleRepo(t *testing.T) {
	pool := setupTestDB(t)
	users := repository.NewUserRepository(pool)
	roles := repository.NewRoleRepository(pool)

	email := gofakeit.Email()
	id, err := users.SaveUser(testCtx, email, []byte("hash"))
	require.NoError(t, err)

	_, err = users.SaveUser(testCtx, email, []byte("hash"))
	assert.ErrorIs(t, err, storage.ErrUserExists)

	u, err := users.UserByEmail(testCtx, email)
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, []byte("hash"), u.Password)

	_, err = users.UserByEmail(testCtx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	has, err := roles.HasRole(testCtx, id, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = roles.AddRole(testCtx, id, models.RoleAdmin)
	require.NoError(t, err)
	_, err = roles.AddRole(testCtx, id, models.RoleAdmin)
	assert.ErrorIs(t, err, storage.ErrRoleExists)
	_, err = roles.AddRole(testCtx, id, models.RoleSales)
	require.NoError(t, err)

	got, err := roles.RolesForUser(testCtx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Role{models.RoleAdmin, models.RoleSales}, got)

	require.NoError(t, roles.RemoveRole(testCtx, id, models.RoleSales))
	assert.ErrorIs(t, roles.RemoveRole(testCtx, id, models.RoleSales), storage.ErrRoleNotFound)

	all, err := roles.ListRoles(testCtx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	list, err := users.ListUsers(testCtx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUploadRepo(t *testing.T) {
	pool := setupTestDB(t)
	users := repository.NewUserRepository(pool)
	repo := repository.NewUploadRepository(pool)

	uploader, err := users.SaveUser(testCtx, gofakeit.Email(), []byte("hash"))
	require.NoError(t, err)

	up := models.NewUpload(uploader, "kitchen.jpg", "projects/kitchen.jpg", "https://cdn.example.com/projects/kitchen.jpg", 2048)
	up.MimeType = "image/jpeg"
	up.Width, up.Height = 1920, 1080

	require.NoError(t, repo.CreateUpload(testCtx, up))

	var publicURL string
	err = pool.QueryRow(testCtx, "SELECT public_url FROM uploads WHERE id = $1", up.ID).Scan(&publicURL)
	require.NoError(t, err)
	assert.Equal(t, up.PublicURL, publicURL)

	invalid := models.NewUpload(uuid.Nil, "", "", "", 0)
	assert.Error(t, repo.CreateUpload(testCtx, invalid))
}
