package postgresql

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDeclaresTables(t *testing.T) {
	for _, table := range []string{
		"users",
		"user_roles",
		"gallery_projects",
		"gallery_project_images",
		"blog_posts",
		"leads",
		"uploads",
	} {
		assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}

	assert.Contains(t, Schema, "UNIQUE (user_id, role)")
	assert.Contains(t, Schema, "REFERENCES gallery_projects(id) ON DELETE CASCADE")
	assert.True(t, strings.Contains(Schema, "slug            TEXT NOT NULL UNIQUE"))
}

func TestNew_BadDSN(t *testing.T) {
	_, err := New(context.Background(), "://not a dsn")
	require.Error(t, err)
}
