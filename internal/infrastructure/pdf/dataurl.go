package pdf

import (
	"encoding/base64"
	"strings"
)

// decodeDataURL decodifica "data:<tipo>;base64,<datos>". ok=false si no es un data URL válido.
func decodeDataURL(s string) (data []byte, contentType string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", false
	}
	meta, payload, found := strings.Cut(s[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return data, strings.TrimSuffix(meta, ";base64"), true
}
