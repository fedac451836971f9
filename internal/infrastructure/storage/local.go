package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain"
)

var _ ports.BlobStorage = (*LocalStorage)(nil)

// LocalStorage guarda los objetos bajo un directorio y los publica con un prefijo HTTP.
type LocalStorage struct {
	dir        string
	publicBase string
}

// NewLocalStorage construye el adaptador y crea el directorio raíz.
func NewLocalStorage(dir, publicBase string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

// Dir directorio raíz (lo sirve el router en /files).
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Upload(_ context.Context, objectPath, _ string, data []byte, upsert bool) (string, error) {
	clean, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !upsert {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(full, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", domain.ErrDuplicate
		}
		return "", fmt.Errorf("storage: abrir %s: %w", clean, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar %s: %w", clean, err)
	}
	return s.PublicURL(clean), nil
}

func (s *LocalStorage) PublicURL(objectPath string) string {
	return s.publicBase + "/" + strings.TrimLeft(objectPath, "/")
}

// cleanPath rechaza rutas que escapan del directorio raíz.
func cleanPath(p string) (string, error) {
	clean := path.Clean("/" + p)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: ruta de objeto %q", domain.ErrInvalidInput, p)
	}
	return clean, nil
}
