package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const defaultExt = ".jpg"

// imageExts are the raster types served back from the upload dir. SVG is
// excluded because browsers run script inside it.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// IFileStorage persists uploaded files and returns the public URL they are
// served from.
type IFileStorage interface {
	Save(file *multipart.FileHeader) (string, error)
	// Remove deletes a file previously returned by Save. Unknown URLs are
	// ignored.
	Remove(url string) error
}

type localStorage struct {
	dir          string
	publicPrefix string
}

// NewLocalStorage stores files under dir; dir must be served at publicPrefix.
func NewLocalStorage(dir, publicPrefix string) IFileStorage {
	return &localStorage{dir: dir, publicPrefix: strings.TrimRight(publicPrefix, "/")}
}

func (s *localStorage) Save(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	// Client file names are never used on disk.
	name := uuid.NewString() + SafeExt(file.Filename)
	if err := fasthttp.SaveMultipartFile(file, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path.Join(s.publicPrefix, name), nil
}

func (s *localStorage) Remove(url string) error {
	prefix := s.publicPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// SafeExt returns the lowercased extension of name when it is a known raster
// image type, and ".jpg" otherwise.
func SafeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if imageExts[ext] {
		return ext
	}
	return defaultExt
}
