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
	"os"
	"path/filepath"
	"strings"
)

var ErrChecksumMismatch = errors.New("checksum mismatch")

// RestoreDataDir unpacks a backup into targetDir and checks every file
// against the archive manifest.
func RestoreDataDir(archivePath, targetDir string) (Manifest, error) {
	if strings.TrimSpace(archivePath) == "" || strings.TrimSpace(targetDir) == "" {
		return Manifest{}, errors.New("archivePath and targetDir are required")
	}
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))

	f, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, err
	}
	defer gz.Close()

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Manifest{}, err
	}

	var (
		m       Manifest
		haveM   bool
		written = map[string]string{}
	)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Manifest{}, err
		}

		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		if rel == ManifestName {
			if err := json.NewDecoder(tr).Decode(&m); err != nil {
				return Manifest{}, fmt.Errorf("read manifest: %w", err)
			}
			haveM = true
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(filepath.Join(targetDir, rel), 0o755); err != nil {
				return Manifest{}, err
			}
		case tar.TypeReg:
			sum, err := extractFile(tr, filepath.Join(targetDir, rel), os.FileMode(hdr.Mode).Perm())
			if err != nil {
				return Manifest{}, err
			}
			written[filepath.ToSlash(rel)] = sum
		default:
			// other entry types are not produced by BackupDataDir
		}
	}

	if !haveM {
		return Manifest{}, fmt.Errorf("%s missing from archive", ManifestName)
	}
	for _, fe := range m.Files {
		got, ok := written[fe.Path]
		if !ok {
			return m, fmt.Errorf("%w: %s missing", ErrChecksumMismatch, fe.Path)
		}
		if got != fe.SHA256 {
			return m, fmt.Errorf("%w: %s", ErrChecksumMismatch, fe.Path)
		}
	}
	return m, nil
}

func extractFile(r io.Reader, outPath string, mode os.FileMode) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, h), r); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
