package ops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type DrillResult struct {
	Archive    string
	RestoreDir string
	Digest     string
	TaskCount  int
}

// Drill backs dataDir up into workDir, restores it next to the archive and
// checks the restored tree hashes the same as the source.
func Drill(dataDir, workDir string, now time.Time) (DrillResult, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillResult{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	res := DrillResult{
		Archive:    filepath.Join(workDir, "taskodo-drill-"+ts+".tar.gz"),
		RestoreDir: filepath.Join(workDir, "taskodo-drill-restore-"+ts),
	}

	m, err := BackupDataDir(dataDir, res.Archive, now)
	if err != nil {
		return res, err
	}
	if _, err := RestoreDataDir(res.Archive, res.RestoreDir); err != nil {
		return res, err
	}

	srcDigest, err := DirDigest(dataDir)
	if err != nil {
		return res, err
	}
	restoredDigest, err := DirDigest(res.RestoreDir)
	if err != nil {
		return res, err
	}
	if srcDigest != restoredDigest {
		return res, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoredDigest)
	}
	if got := CountTasks(res.RestoreDir); got != m.TaskCount {
		return res, fmt.Errorf("task count mismatch after restore: want %d, got %d", m.TaskCount, got)
	}

	res.Digest = srcDigest
	res.TaskCount = m.TaskCount
	return res, nil
}

// DirDigest hashes relative paths and contents of every regular file
// under root in path order.
func DirDigest(root string) (string, error) {
	files, err := listFiles(filepath.Clean(root))
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, fe := range files {
		_, _ = io.WriteString(h, fe.Path)
		_, _ = io.WriteString(h, "\n")
		_, _ = io.WriteString(h, fe.SHA256)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
