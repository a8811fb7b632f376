package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ai-admissions-be/internal/entity"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_AppendAssignsMonotonicIds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "contacts.json")
	repo := NewContactRepository(path)
	ctx := context.Background()

	first := &entity.ContactRecord{Name: "Jean Dupont", Email: "jean@test.com", SessionId: "1234567890abcdef"}
	second := &entity.ContactRecord{Name: "Marie Curie", Email: "marie@test.com", SessionId: "short"}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))

	assert.Equal(t, int64(1), first.Id)
	assert.Equal(t, int64(2), second.Id)
	assert.Equal(t, "12345678", first.SessionId)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "jean@test.com", stored[0]["email"])
	assert.Equal(t, "Marie Curie", stored[1]["nom"])
}

func TestContactRepository_CountMissingFile(t *testing.T) {
	repo := NewContactRepository(filepath.Join(t.TempDir(), "absent.json"))
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestContactRepository_CorruptFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	err := NewContactRepository(path).Append(context.Background(), &entity.ContactRecord{Name: "X"})
	assert.Error(t, err)
}
