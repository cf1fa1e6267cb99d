package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"taskodo/internal/task"
)

// ManifestName is the first entry of every backup archive.
const ManifestName = "MANIFEST.json"

type FileEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

type Manifest struct {
	App       string      `json:"app"`
	CreatedAt time.Time   `json:"createdAt"`
	TaskCount int         `json:"taskCount"`
	Files     []FileEntry `json:"files"`
}

// BackupDataDir writes every regular file under srcDir into a tar.gz at
// archivePath, preceded by a manifest with per-file checksums.
func BackupDataDir(srcDir, archivePath string, now time.Time) (Manifest, error) {
	if strings.TrimSpace(srcDir) == "" || strings.TrimSpace(archivePath) == "" {
		return Manifest{}, errors.New("srcDir and archivePath are required")
	}
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	info, err := os.Stat(srcDir)
	if err != nil {
		return Manifest{}, err
	}
	if !info.IsDir() {
		return Manifest{}, fmt.Errorf("source is not a directory: %s", srcDir)
	}

	files, err := listFiles(srcDir)
	if err != nil {
		return Manifest{}, err
	}
	m := Manifest{
		App:       "taskodo",
		CreatedAt: now.UTC(),
		TaskCount: CountTasks(srcDir),
		Files:     files,
	}

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}
	f, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	if err := writeArchive(tw, srcDir, m); err != nil {
		return Manifest{}, err
	}
	if err := tw.Close(); err != nil {
		return Manifest{}, err
	}
	if err := gz.Close(); err != nil {
		return Manifest{}, err
	}
	return m, f.Close()
}

func writeArchive(tw *tar.Writer, srcDir string, m Manifest) error {
	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:     ManifestName,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(mb)),
		ModTime:  m.CreatedAt,
	}); err != nil {
		return err
	}
	if _, err := tw.Write(mb); err != nil {
		return err
	}

	for _, fe := range m.Files {
		if err := addFile(tw, srcDir, fe); err != nil {
			return fmt.Errorf("archive %s: %w", fe.Path, err)
		}
	}
	return nil
}

func addFile(tw *tar.Writer, srcDir string, fe FileEntry) error {
	src, err := os.Open(filepath.Join(srcDir, filepath.FromSlash(fe.Path)))
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = fe.Path
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, src)
	return err
}

// listFiles returns regular files under root, sorted, with checksums.
// Symlinks are skipped so restores are predictable.
func listFiles(root string) ([]FileEntry, error) {
	out := []FileEntry{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sum, size, err := fileSHA256(path)
		if err != nil {
			return err
		}
		out = append(out, FileEntry{Path: filepath.ToSlash(rel), Size: size, SHA256: sum})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func fileSHA256(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// CountTasks reports how many tasks the file store under dataDir holds, or
// 0 when there is none or it cannot be read.
func CountTasks(dataDir string) int {
	dir := filepath.Join(dataDir, "tasks")
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); err != nil {
		return 0
	}
	p, err := task.NewFilePersister(dir)
	if err != nil {
		return 0
	}
	tasks, err := p.Load()
	if err != nil {
		return 0
	}
	return len(tasks)
}
