package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/domain"
)

func TestLocalStorage_UploadYUpsert(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/files/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Upload(ctx, "t1/o1/signature.png", "image/png", []byte("v1"), true)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/t1/o1/signature.png", url)

	_, err = s.Upload(ctx, "t1/o1/signature.png", "image/png", []byte("v2"), true)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "t1", "o1", "signature.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	_, err = s.Upload(ctx, "t1/o1/signature.png", "image/png", []byte("v3"), false)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestLocalStorage_RechazaRutasFueraDeRaiz(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://x")
	require.NoError(t, err)

	// path.Clean ancla la ruta en la raíz: "../" no puede escapar.
	url, err := s.Upload(context.Background(), "../../etc/passwd", "text/plain", []byte("x"), true)
	require.NoError(t, err)
	assert.Equal(t, "http://x/etc/passwd", url)

	_, err = s.Upload(context.Background(), "/", "text/plain", []byte("x"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupabaseStorage_Upload(t *testing.T) {
	var gotPath, gotUpsert, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"work-orders/t1/o1/remito-00000001.pdf"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL+"/", "service-key", "work-orders")
	url, err := s.Upload(context.Background(), "t1/o1/remito-00000001.pdf", "application/pdf", []byte("%PDF"), true)

	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/work-orders/t1/o1/remito-00000001.pdf", gotPath)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "%PDF", gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/work-orders/t1/o1/remito-00000001.pdf", url)
}

func TestSupabaseStorage_ErrorDelServidor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`))
	}))
	defer srv.Close()

	s := NewSupabaseStorage(srv.URL, "k", "b")
	_, err := s.Upload(context.Background(), "a/b.jpg", "image/jpeg", []byte("x"), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageProcessor_ReduceAnchoMaximo(t *testing.T) {
	p := NewImageProcessor(100)

	out, ct, err := p.Process(pngOf(t, 400, 200))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestImageProcessor_ImagenChicaSinCambios(t *testing.T) {
	raw := pngOf(t, 50, 20)

	out, ct, err := NewImageProcessor(100).Process(raw)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, raw, out)
}

func TestImageProcessor_RechazaNoImagen(t *testing.T) {
	_, _, err := NewImageProcessor(100).Process([]byte("hola"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
