// Package storage implementa ports.BlobStorage sobre Supabase Storage o el
// sistema de archivos local, y el procesamiento de imágenes subidas.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
)

// Verificar en tiempo de compilación que SupabaseStorage implementa BlobStorage.
var _ ports.BlobStorage = (*SupabaseStorage)(nil)

// SupabaseStorage adaptador sobre la API REST de Supabase Storage.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStorage construye el adaptador. baseURL es la URL del proyecto (https://xyz.supabase.co).
func NewSupabaseStorage(baseURL, serviceKey, bucket string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type supabaseError struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Upload sube el objeto. Con upsert reemplaza el existente (firma, remito).
func (s *SupabaseStorage) Upload(ctx context.Context, path, contentType string, data []byte, upsert bool) (string, error) {
	if s.serviceKey == "" {
		return "", fmt.Errorf("storage: SUPABASE_SERVICE_KEY no configurado")
	}
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", strconv.FormatBool(upsert))
	req.Header.Set("cache-control", "max-age=3600")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: subir %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr supabaseError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("storage: subir %s: %s (%d)", path, apiErr.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("storage: subir %s: status %d", path, resp.StatusCode)
	}
	return s.PublicURL(path), nil
}

// PublicURL URL pública del objeto (bucket público).
func (s *SupabaseStorage) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(path, "/"))
}
