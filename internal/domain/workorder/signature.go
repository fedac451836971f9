package workorder

import (
	"net/url"
	"strings"
)

// SignatureSource orígenes aceptados para la firma del cliente: un data URL de
// imagen en base64 o una URL bajo alguna base pública del almacenamiento propio.
// El valor cero solo acepta data URLs.
type SignatureSource struct {
	bases []string
}

// NewSignatureSource normaliza cada base para que termine en "/"; las vacías se ignoran.
func NewSignatureSource(publicBases ...string) SignatureSource {
	var s SignatureSource
	for _, b := range publicBases {
		b = strings.TrimRight(strings.TrimSpace(b), "/")
		if b == "" {
			continue
		}
		s.bases = append(s.bases, b+"/")
	}
	return s
}

// Allowed informa si ref puede guardarse como firma o leerse al emitir el remito.
func (s SignatureSource) Allowed(ref string) bool {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "data:") {
		meta, _, ok := strings.Cut(ref[len("data:"):], ",")
		return ok && strings.HasPrefix(meta, "image/") && strings.HasSuffix(meta, ";base64")
	}
	u, err := url.Parse(ref)
	if err != nil || u.User != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if strings.Contains(u.Path, "..") || strings.Contains(ref, "%2e") || strings.Contains(ref, "%2E") {
		return false
	}
	for _, b := range s.bases {
		if strings.HasPrefix(ref, b) {
			return true
		}
	}
	return false
}
