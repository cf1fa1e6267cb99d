package ops

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var backupTime = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir parent %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	return got
}

var sampleData = map[string]string{
	"tasks/tasks.json": `{"tasks":[` +
		`{"id":"a","title":"Plan week","color":"zinc","line":1,"order":1,"checked":[],"weekly":true,"days":["sunday"]},` +
		`{"id":"b","title":"Trip","color":"sky","line":2,"order":2,"checked":[],"weekly":false,"days":[],"startDateKey":"2026-02-01","endDateKey":"2026-02-03"}]}`,
	"exports/tasks-store.json": `{"state":{"tasks":[]},"version":0}`,
}

func TestBackupRestoreDataDir_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeTree(t, src, sampleData)

	archive := filepath.Join(t.TempDir(), "backups", "backup.tar.gz")
	m, err := BackupDataDir(src, archive, backupTime)
	if err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if m.TaskCount != 2 {
		t.Fatalf("manifest task count = %d, want 2", m.TaskCount)
	}
	if len(m.Files) != 2 || m.Files[0].Path != "exports/tasks-store.json" {
		t.Fatalf("manifest files not sorted: %+v", m.Files)
	}

	restoreDir := filepath.Join(t.TempDir(), "restore")
	restored, err := RestoreDataDir(archive, restoreDir)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !restored.CreatedAt.Equal(backupTime) || restored.App != "taskodo" {
		t.Fatalf("restored manifest = %+v", restored)
	}

	if got := readTree(t, restoreDir); !reflect.DeepEqual(sampleData, got) {
		t.Fatalf("restored files mismatch:\nwant=%v\ngot=%v", sampleData, got)
	}
}

func TestBackupDataDir_Errors(t *testing.T) {
	if _, err := BackupDataDir("", "out.tar.gz", backupTime); err == nil {
		t.Fatalf("expected error for empty source")
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	writeTree(t, filepath.Dir(file), map[string]string{"plain.txt": "x"})
	if _, err := BackupDataDir(file, filepath.Join(t.TempDir(), "b.tar.gz"), backupTime); err == nil {
		t.Fatalf("expected error for non-directory source")
	}
}

func TestCountTasks_MissingStoreIsZero(t *testing.T) {
	dir := t.TempDir()
	if n := CountTasks(dir); n != 0 {
		t.Fatalf("CountTasks = %d, want 0", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("CountTasks must not create the tasks dir")
	}
}

func writeRawArchive(t *testing.T, entries map[string]string, order []string) string {
	t.Helper()
	archive := filepath.Join(t.TempDir(), "raw.tar.gz")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, name := range order {
		body := entries[name]
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(body)),
		}); err != nil {
			t.Fatalf("write header: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return archive
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := writeRawArchive(t, map[string]string{"../escape.txt": "bad"}, []string{"../escape.txt"})
	if _, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("expected restore to reject path traversal archive")
	}
}

func TestRestoreDataDir_RequiresManifest(t *testing.T) {
	archive := writeRawArchive(t, map[string]string{"tasks/tasks.json": "{}"}, []string{"tasks/tasks.json"})
	if _, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out")); err == nil {
		t.Fatalf("expected restore to require a manifest")
	}
}

func TestRestoreDataDir_DetectsTampering(t *testing.T) {
	manifest := `{"app":"taskodo","files":[{"path":"tasks/tasks.json","size":2,"sha256":"0000"}]}`
	archive := writeRawArchive(t, map[string]string{
		ManifestName:       manifest,
		"tasks/tasks.json": "{}",
	}, []string{ManifestName, "tasks/tasks.json"})

	_, err := RestoreDataDir(archive, filepath.Join(t.TempDir(), "out"))
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestDrill(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	writeTree(t, src, sampleData)

	res, err := Drill(src, t.TempDir(), backupTime)
	if err != nil {
		t.Fatalf("drill failed: %v", err)
	}
	if res.TaskCount != 2 || res.Digest == "" {
		t.Fatalf("drill result = %+v", res)
	}
	if filepath.Base(res.Archive) != "taskodo-drill-20260105T120000Z.tar.gz" {
		t.Fatalf("archive name = %s", res.Archive)
	}

	d, err := DirDigest(res.RestoreDir)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d != res.Digest {
		t.Fatalf("restored digest %s != %s", d, res.Digest)
	}
}
