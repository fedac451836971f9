package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ascensores-api/internal/application/ports"
	"github.com/jhoicas/ascensores-api/internal/domain/entity"
	"github.com/jhoicas/ascensores-api/internal/domain/workorder"
	"github.com/jhoicas/ascensores-api/pkg/daykey"
)

func signatureDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURL(t *testing.T) {
	data, kind, ok := decodeDataURL("data:image/png;base64,AAEC")
	require.True(t, ok)
	assert.Equal(t, "image/png", kind)
	assert.Equal(t, []byte{0, 1, 2}, data)

	_, _, ok = decodeDataURL("https://files.test/firma.png")
	assert.False(t, ok)
	_, _, ok = decodeDataURL("data:image/png,sin-base64")
	assert.False(t, ok)
	_, _, ok = decodeDataURL("data:image/png;base64,@@@")
	assert.False(t, ok)
}

func TestRemito_DireccionLargaAchicaLaFuente(t *testing.T) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", baseFontSize)

	assert.Equal(t, baseFontSize, fitFontSize(doc, "Av. Corrientes 1234", addressMaxWidth))

	long := strings.Repeat("Avenida Presidente Figueroa Alcorta ", 4)
	size := fitFontSize(doc, long, addressMaxWidth)
	assert.Less(t, size, baseFontSize)
	assert.GreaterOrEqual(t, size, minFontSize)
}

func TestRemito_DescripcionCortadaEnMaximoDeRenglones(t *testing.T) {
	g := NewRemitoGenerator("", 3, workorder.SignatureSource{})
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 10)

	lines := g.descriptionLines(doc, strings.Repeat("cambio de cables de tracción y ajuste de freno ", 30))
	assert.Len(t, lines, 3)

	lines = g.descriptionLines(doc, "uno\r\n\r\ndos")
	assert.Equal(t, []string{"uno", "dos"}, lines)
}

func TestRemito_GeneraPDF(t *testing.T) {
	g := NewRemitoGenerator("", 0, workorder.SignatureSource{})
	out, err := g.RenderRemito(context.Background(), ports.RemitoPayload{
		Number:           "00000042",
		Date:             "10/03/2026",
		Address:          "Av. Corrientes 1234, Piso 3°",
		Description:      "Se reemplazó la botonera de cabina.",
		SignatureDataURL: signatureDataURL(t),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewRemitoGenerator("/no/existe.png", 6, workorder.SignatureSource{}).RenderRemito(context.Background(), ports.RemitoPayload{Number: "1"})
	assert.Error(t, err)
}

func TestRemito_FirmaFueraDelAlmacenamiento_NoSeDescarga(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	g := NewRemitoGenerator("", 0, workorder.NewSignatureSource("https://files.test"))
	_, err := g.RenderRemito(context.Background(), ports.RemitoPayload{Number: "1", SignatureDataURL: srv.URL + "/latest/meta-data"})

	assert.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRemito_FirmaDelAlmacenamiento(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/t1/o1/signature.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
		case "/files/t1/o1/grande.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(make([]byte, maxSignatureBytes+10))
		default:
			http.Redirect(w, r, "http://169.254.169.254/", http.StatusFound)
		}
	}))
	defer srv.Close()

	g := NewRemitoGenerator("", 0, workorder.NewSignatureSource(srv.URL+"/files"))
	out, err := g.RenderRemito(context.Background(), ports.RemitoPayload{Number: "1", SignatureDataURL: srv.URL + "/files/t1/o1/signature.png"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.RenderRemito(context.Background(), ports.RemitoPayload{Number: "1", SignatureDataURL: srv.URL + "/files/t1/o1/grande.png"})
	assert.Error(t, err)

	// una redirección no se sigue
	_, err = g.RenderRemito(context.Background(), ports.RemitoPayload{Number: "1", SignatureDataURL: srv.URL + "/files/t1/o1/movida.png"})
	assert.Error(t, err)
}

func TestServiceReport_GeneraPDF(t *testing.T) {
	finish := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	comments := "Se lubricaron guías"
	sig := signatureDataURL(t)
	elevator := "e1"
	out, err := NewServiceReportGenerator().RenderServiceReport(context.Background(), ports.ServiceReport{
		CompanyName: "Ascensores Sur",
		Order: &entity.WorkOrder{
			ID: "0f3c2a9b-1111-2222-3333-444455556666", ClaimType: entity.ClaimMonthlyMaintenance,
			ElevatorID: &elevator, Status: entity.StatusCompleted, Priority: entity.PriorityMedium,
			Description: "Mantenimiento mensual", Comments: &comments, FinishTime: &finish,
			PartsUsed:        []entity.PartUsed{{Name: "Grasa (litros)", Quantity: decimal.RequireFromString("1.5")}},
			SignatureDataURL: &sig,
		},
		Building:       &entity.Building{Address: "Av. Corrientes 1234", Neighborhood: "San Nicolás"},
		AssetLabel:     "Ascensor N° 1",
		TechnicianName: "Ana",
		Location:       daykey.Location(""),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewServiceReportGenerator().RenderServiceReport(context.Background(), ports.ServiceReport{})
	assert.Error(t, err)
}
