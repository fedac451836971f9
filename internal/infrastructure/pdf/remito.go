package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
)

// Posiciones fijas del remito sobre la plantilla A4 (mm).
const (
	numberX, numberY   = 150.0, 28.0
	dateX, dateY       = 150.0, 38.0
	addressX, addressY = 20.0, 62.0
	addressMaxWidth    = 170.0
	descX, descY       = 20.0, 80.0
	descWidth          = 170.0
	descLineHeight     = 6.0
	signX, signY       = 120.0, 230.0
	signW, signH       = 60.0, 30.0

	baseFontSize = 12.0
	minFontSize  = 6.0

	maxSignatureBytes = 2 << 20
)

// RemitoGenerator implementa ports.RemitoRenderer con gofpdf. Si hay plantilla se usa
// como fondo de página; los textos van siempre en las mismas coordenadas.
type RemitoGenerator struct {
	templatePath string
	maxDescLines int
	signatures   workorder.SignatureSource
	httpClient   *http.Client
}

// NewRemitoGenerator construye el generador. maxDescLines <= 0 usa 6. Las firmas
// que no son data URL solo se descargan si signatures las acepta.
func NewRemitoGenerator(templatePath string, maxDescLines int, signatures workorder.SignatureSource) *RemitoGenerator {
	if maxDescLines <= 0 {
		maxDescLines = 6
	}
	return &RemitoGenerator{
		templatePath: templatePath,
		maxDescLines: maxDescLines,
		signatures:   signatures,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			// Una redirección podría salir del almacenamiento.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

var _ ports.RemitoRenderer = (*RemitoGenerator)(nil)

// RenderRemito estampa número, fecha, dirección, descripción y firma.
// La dirección achica la fuente hasta entrar en su ancho; la descripción se corta
// sin aviso en maxDescLines renglones.
func (g *RemitoGenerator) RenderRemito(ctx context.Context, p ports.RemitoPayload) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	if g.templatePath != "" {
		if _, err := os.Stat(g.templatePath); err != nil {
			return nil, fmt.Errorf("pdf: plantilla de remito: %w", err)
		}
		doc.ImageOptions(g.templatePath, 0, 0, 210, 297, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	} else {
		doc.SetFont("Helvetica", "B", 16)
		doc.Text(20, 28, "REMITO")
	}

	doc.SetFont("Helvetica", "B", baseFontSize)
	doc.Text(numberX, numberY, tr("N° "+p.Number))
	doc.SetFont("Helvetica", "", baseFontSize)
	doc.Text(dateX, dateY, tr(p.Date))

	address := tr(p.Address)
	doc.SetFont("Helvetica", "", fitFontSize(doc, address, addressMaxWidth))
	doc.Text(addressX, addressY, address)

	doc.SetFont("Helvetica", "", 10)
	for i, ln := range g.descriptionLines(doc, tr(p.Description)) {
		doc.Text(descX, descY+float64(i)*descLineHeight, ln)
	}

	if p.SignatureDataURL != "" {
		if err := g.drawSignature(ctx, doc, p.SignatureDataURL); err != nil {
			return nil, err
		}
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf: generar remito: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: escribir remito: %w", err)
	}
	return buf.Bytes(), nil
}

// fitFontSize mayor tamaño (desde baseFontSize, de a medio punto) con el que s entra en maxWidth.
func fitFontSize(doc *gofpdf.Fpdf, s string, maxWidth float64) float64 {
	size := baseFontSize
	for size > minFontSize {
		doc.SetFontSize(size)
		if doc.GetStringWidth(s) <= maxWidth {
			break
		}
		size -= 0.5
	}
	return size
}

// descriptionLines parte el texto al ancho de la descripción respetando saltos de línea.
func (g *RemitoGenerator) descriptionLines(doc *gofpdf.Fpdf, s string) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		for _, ln := range doc.SplitText(para, descWidth) {
			lines = append(lines, ln)
			if len(lines) == g.maxDescLines {
				return lines
			}
		}
	}
	return lines
}

// drawSignature acepta un data URL o la URL pública de la firma subida.
func (g *RemitoGenerator) drawSignature(ctx context.Context, doc *gofpdf.Fpdf, src string) error {
	if !g.signatures.Allowed(src) {
		return fmt.Errorf("pdf: origen de firma no permitido")
	}
	data, contentType, ok := decodeDataURL(src)
	if !ok {
		var err error
		if data, contentType, err = g.fetch(ctx, src); err != nil {
			return err
		}
	}
	kind := "PNG"
	if strings.Contains(contentType, "jpeg") || strings.Contains(contentType, "jpg") {
		kind = "JPG"
	}
	opts := gofpdf.ImageOptions{ImageType: kind}
	doc.RegisterImageOptionsReader("firma", opts, bytes.NewReader(data))
	doc.ImageOptions("firma", signX, signY, signW, signH, false, opts, 0, "")
	return nil
}

func (g *RemitoGenerator) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: firma: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: descargar firma: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("pdf: descargar firma: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSignatureBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: leer firma: %w", err)
	}
	if len(data) > maxSignatureBytes {
		return nil, "", fmt.Errorf("pdf: firma de más de %d bytes", maxSignatureBytes)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("pdf: firma con tipo %q", contentType)
	}
	return data, contentType, nil
}
