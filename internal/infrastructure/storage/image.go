package storage

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
)

var _ ports.ImageProcessor = (*ImageProcessor)(nil)

// ErrUnsupportedImage el archivo no es PNG, JPEG ni WebP.
var ErrUnsupportedImage = errors.New("la imagen debe ser png, jpeg o webp")

// ImageProcessor reduce fotos al ancho máximo configurado conservando la proporción.
type ImageProcessor struct {
	maxWidth int
}

// NewImageProcessor construye el procesador. maxWidth <= 0 desactiva la reducción.
func NewImageProcessor(maxWidth int) *ImageProcessor {
	return &ImageProcessor{maxWidth: maxWidth}
}

// Process decodifica la imagen y, si es más ancha que maxWidth, la reduce.
// Las PNG siguen siendo PNG (firmas con transparencia); el resto se recodifica a JPEG.
func (p *ImageProcessor) Process(raw []byte) ([]byte, string, error) {
	mime := http.DetectContentType(raw)
	switch mime {
	case "image/png", "image/jpeg", "image/webp":
	default:
		return nil, "", ErrUnsupportedImage
	}

	var (
		img image.Image
		err error
	)
	if mime == "image/webp" {
		img, err = webp.Decode(bytes.NewReader(raw))
	} else {
		img, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	b := img.Bounds()
	if p.maxWidth <= 0 || b.Dx() <= p.maxWidth {
		if mime == "image/webp" {
			return encode(img, "image/jpeg")
		}
		return raw, mime, nil
	}

	height := b.Dy() * p.maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	resized := image.NewRGBA(image.Rect(0, 0, p.maxWidth, height))
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), img, b, xdraw.Over, nil)

	if mime == "image/png" {
		return encode(resized, "image/png")
	}
	return encode(resized, "image/jpeg")
}

func encode(img image.Image, contentType string) ([]byte, string, error) {
	var out bytes.Buffer
	if contentType == "image/png" {
		if err := png.Encode(&out, img); err != nil {
			return nil, "", err
		}
		return out.Bytes(), contentType, nil
	}
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 82}); err != nil {
		return nil, "", err
	}
	return out.Bytes(), "image/jpeg", nil
}
