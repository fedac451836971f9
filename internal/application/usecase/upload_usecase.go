package usecase

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain"
)

// UploadUseCase sube fotos y firmas de una orden al almacenamiento de objetos.
type UploadUseCase struct {
	*base
	storage ports.BlobStorage
	images  ports.ImageProcessor
}

// UploadPhoto sube una foto nueva de la orden y devuelve su URL pública.
// Si la subida falla se registra y la URL vuelve vacía sin error.
func (uc *UploadUseCase) UploadPhoto(ctx context.Context, tenantID, orderID, filename string, data []byte) (string, error) {
	if err := uc.requireOrder(ctx, tenantID, orderID); err != nil {
		return "", err
	}
	data, contentType, err := uc.process(data)
	if err != nil {
		return "", err
	}
	name := photoName(filename, contentType)
	p := fmt.Sprintf("%s/%s/photos/%d-%s", tenantID, orderID, uc.now().UnixMilli(), name)
	return uc.upload(ctx, tenantID, p, contentType, data, false), nil
}

// UploadSignature sube la firma de la orden. La ruta es fija por orden y se sobrescribe.
func (uc *UploadUseCase) UploadSignature(ctx context.Context, tenantID, orderID string, data []byte) (string, error) {
	if err := uc.requireOrder(ctx, tenantID, orderID); err != nil {
		return "", err
	}
	data, contentType, err := uc.process(data)
	if err != nil {
		return "", err
	}
	if contentType != "image/png" {
		return "", fmt.Errorf("%w: la firma debe ser png", domain.ErrInvalidInput)
	}
	p := fmt.Sprintf("%s/%s/signature.png", tenantID, orderID)
	return uc.upload(ctx, tenantID, p, contentType, data, true), nil
}

func (uc *UploadUseCase) requireOrder(ctx context.Context, tenantID, orderID string) error {
	w, err := uc.store.WorkOrders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *UploadUseCase) process(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if uc.images == nil {
		return data, http.DetectContentType(data), nil
	}
	out, contentType, err := uc.images.Process(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return out, contentType, nil
}

func (uc *UploadUseCase) upload(ctx context.Context, tenantID, p, contentType string, data []byte, upsert bool) string {
	if uc.storage == nil {
		uc.log.WithCompany(tenantID).Error().Str("path", p).Msg("almacenamiento no configurado")
		return ""
	}
	url, err := uc.storage.Upload(ctx, p, contentType, data, upsert)
	if err != nil {
		uc.log.WithCompany(tenantID).Error().Err(err).Str("path", p).Msg("falló la subida de archivo")
		return ""
	}
	return url
}

// photoName limpia el nombre recibido y ajusta la extensión al formato final.
func photoName(filename, contentType string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	stem := strings.TrimSuffix(name, path.Ext(name))
	if stem == "" || stem == "." || stem == "_" {
		stem = "foto"
	}
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	return stem + ext
}
