package snapshot

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/modeldrift/internal/models"
)

func sample(id, topic string, ts time.Time, tags ...string) *models.Snapshot {
	def := "None"
	snap := &models.Snapshot{
		ID:        id,
		Topic:     topic,
		Timestamp: ts,
		Version:   "1.0.0",
		Tags:      tags,
		Models: []models.DeclaredRecord{{
			Name:       "User",
			FilePath:   "app/models.py",
			IsPydantic: true,
			Hash:       "abcd1234",
			Fields: []models.Field{
				{Name: "id", Type: "int", Required: true},
				{Name: "email", Type: "Optional[str]", Default: &def},
			},
			UsedInEndpoints: []string{"GET /users"},
		}},
		Endpoints: []models.EndpointMapping{{FunctionName: "list_users", Method: "GET", Path: "/users", ResponseModel: "User", Tags: []string{}}},
	}
	snap.Summarize()
	return snap
}

func TestSaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/snaps")
	ts := time.Date(2026, 3, 4, 10, 11, 12, 0, time.UTC)

	path, err := store.Save(sample("id-1", "Before Release!", ts))
	require.NoError(t, err)
	assert.Equal(t, "/snaps/2026-03-04T101112-before-release.json", path)

	snap, err := Load(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "id-1", snap.ID)
	assert.True(t, ts.Equal(snap.Timestamp))
	assert.Equal(t, "User", snap.Models[0].Name)
	require.NotNil(t, snap.Models[0].Fields[1].Default)
	assert.Equal(t, "None", *snap.Models[0].Fields[1].Default)
}

func TestRewriteKeepsPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/snaps")
	snap := sample("id-1", "audit", time.Date(2026, 3, 4, 10, 11, 12, 0, time.UTC), "old")

	path, err := store.Save(snap)
	require.NoError(t, err)

	snap.Tags = []string{"new"}
	snap.Topic = "renamed"
	require.NoError(t, store.Rewrite(path, snap))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Path)
	assert.Equal(t, []string{"new"}, entries[0].Tags)
}

func TestDecodeJSONWithoutZone(t *testing.T) {
	data := []byte(`{
  "timestamp": "2025-11-02T09:30:00.123456",
  "project_root": "/src",
  "git_info": {"commit_hash": "abc", "is_dirty": false},
  "models": [{"name": "A", "fields": [{"name": "x", "type": "int", "default": null, "required": true}], "hash": "11111111"}],
  "endpoints": [],
  "files_analyzed": ["a.py"]
}`)
	snap, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 2025, snap.Timestamp.Year())
	assert.Equal(t, "abc", snap.Git.CommitHash)
	assert.Equal(t, 1, snap.Summary.TotalModels)
	assert.NotNil(t, snap.Functions)
}

func TestListAndResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "/snaps")
	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := old.Add(48 * time.Hour)

	_, err := store.Save(sample("aaaa-1111", "baseline", old))
	require.NoError(t, err)
	newPath, err := store.Save(sample("bbbb-2222", "feature", newer))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/snaps/garbage.json", []byte("{"), 0644))

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "feature", entries[0].Topic)

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, newPath, latest)

	p, err := store.Resolve("bbbb")
	require.NoError(t, err)
	assert.Equal(t, newPath, p)

	p, err = store.Resolve("Feature")
	require.NoError(t, err)
	assert.Equal(t, newPath, p)

	_, err = store.Resolve("nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMissingDir(t *testing.T) {
	entries, err := NewStore(afero.NewMemMapFs(), "/none").List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = NewStore(afero.NewMemMapFs(), "/none").Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlan(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Path: "recent", Timestamp: now.AddDate(0, 0, -5)},
		{Path: "old", Timestamp: now.AddDate(0, 0, -100)},
		{Path: "old-release", Timestamp: now.AddDate(0, 0, -200), Tags: []string{"release"}},
	}
	preserve := func(tags []string) bool {
		for _, t := range tags {
			if t == "release" {
				return true
			}
		}
		return false
	}

	prune, keep := Plan(entries, 90, now, preserve)
	require.Len(t, prune, 1)
	assert.Equal(t, "old", prune[0].Entry.Path)
	assert.Equal(t, "older than 90 days", prune[0].Reason)
	require.Len(t, keep, 2)
	assert.Equal(t, "within retention period", keep[0].Reason)
	assert.Equal(t, "has preserve tag", keep[1].Reason)
}

func TestVersionDocRoundTrip(t *testing.T) {
	snap := sample("id", "t", time.Now())
	snap.Git = models.GitInfo{CommitHash: "abc", Branch: "main", Timestamp: "2026-01-02T03:04:05+00:00"}

	doc := NewVersionDoc(snap)
	require.Len(t, doc.Models, 1)
	assert.Equal(t, "pydantic", doc.Models[0].Type)
	assert.Equal(t, "abc", doc.Git.Commit)

	back := doc.Snapshot()
	assert.Equal(t, "User", back.Models[0].Name)
	assert.True(t, back.Models[0].IsPydantic)
	assert.Equal(t, "abcd1234", back.Models[0].Hash)
	assert.Equal(t, []string{"app/models.py"}, back.FilesAnalyzed)
	assert.Equal(t, 2026, back.Timestamp.Year())
	assert.Equal(t, "User", back.Endpoints[0].ResponseModel)
}
