package storage

import (
	"fmt"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/pkg/config"
)

// New elige el adaptador según STORAGE_DRIVER (supabase | local).
func New(cfg config.StorageConfig) (ports.BlobStorage, error) {
	switch cfg.Driver {
	case "supabase":
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("storage: SUPABASE_URL es obligatorio con driver supabase")
		}
		return NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Bucket), nil
	case "local", "":
		return NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
