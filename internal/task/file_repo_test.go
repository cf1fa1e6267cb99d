package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

func TestFileRepo_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	a, err := repo.Create(weekly("Plan week", model.Line1, datekey.Sunday))
	require.NoError(t, err)
	_, err = repo.Create(ranged("Trip", model.Line3, "2026-02-01", "2026-02-03"))
	require.NoError(t, err)
	_, err = repo.ToggleCheck(a.ID, "2026-01-04", "2026-01-05")
	require.NoError(t, err)

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)

	want, _ := repo.List()
	got, err := reopened.List()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	b, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"tasks": [`)
	assert.Contains(t, string(b), `"startDateKey": "2026-02-01"`)
	assert.NoFileExists(t, filepath.Join(dir, "tasks.json.tmp"))
}

func TestFilePersister_MissingFileIsEmptyBoard(t *testing.T) {
	p, err := NewFilePersister(filepath.Join(t.TempDir(), "nested", "tasks"))
	require.NoError(t, err)

	tasks, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestFilePersister_CorruptFileFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("{not json"), 0o644))

	_, err := NewFileRepo(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load tasks")
}

func TestSQLiteRepo_PersistsOrderAndContent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db", "taskodo.db")

	repo, p, err := NewSQLiteRepo(dbPath)
	require.NoError(t, err)

	seqIDs(repo)
	a, err := repo.Create(weekly("Alpha", model.Line2, datekey.Monday, datekey.Thursday))
	require.NoError(t, err)
	b, err := repo.Create(ranged("Beta", model.Line1, "2026-01-01", "2026-01-31"))
	require.NoError(t, err)
	_, err = repo.Move(b.ID, model.Line2, nil)
	require.NoError(t, err)
	_, err = repo.ToggleCheck(a.ID, "2026-01-05", "2026-01-05")
	require.NoError(t, err)
	want, _ := repo.List()
	require.NoError(t, p.Close())

	reopened, p2, err := NewSQLiteRepo(dbPath)
	require.NoError(t, err)
	defer p2.Close()

	got, err := reopened.List()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	var line, ord int
	require.NoError(t, p2.db.QueryRow(`SELECT line, ord FROM tasks WHERE id = ?`, string(b.ID)).Scan(&line, &ord))
	assert.Equal(t, 2, line)
	assert.Equal(t, model.OrderLast+1, ord)
}

func TestSQLitePersister_SaveReplacesRows(t *testing.T) {
	p, err := OpenSQLitePersister(filepath.Join(t.TempDir(), "taskodo.db"))
	require.NoError(t, err)
	defer p.Close()

	x := weekly("Xray", model.Line1, datekey.Monday)
	x.ID = "x"
	y := weekly("Yankee", model.Line1, datekey.Monday)
	y.ID = "y"

	require.NoError(t, p.Save([]model.Task{x, y}))
	require.NoError(t, p.Save([]model.Task{y}))

	got, err := p.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.TaskID("y"), got[0].ID)
}
