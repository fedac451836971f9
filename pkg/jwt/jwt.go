package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims incluye los claims estándar JWT más la sesión resuelta:
// identidad, empresa activa y faceta (office | technician | engineer).
// CompanyID y Role vacíos = identidad sin contexto de empresa.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	CompanyID  string `json:"company_id"`
	Role       string `json:"role"`
	ClientID   string `json:"client_id,omitempty"`
	EngineerID string `json:"engineer_id,omitempty"`
}

// Session datos de sesión que viajan en el token.
// TokenID y ExpiresAt los completa Parse; Generate los ignora.
type Session struct {
	UserID     string
	CompanyID  string
	Role       string
	ClientID   string
	EngineerID string
	TokenID    string
	ExpiresAt  time.Time
}

// Generate genera un token JWT firmado con la sesión indicada.
func Generate(secret, issuer string, expMinutes int, s Session) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     s.UserID,
		CompanyID:  s.CompanyID,
		Role:       s.Role,
		ClientID:   s.ClientID,
		EngineerID: s.EngineerID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la sesión.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Session, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("claims inválidos: user_id vacío")
	}
	out := &Session{
		UserID:     claims.UserID,
		CompanyID:  claims.CompanyID,
		Role:       claims.Role,
		ClientID:   claims.ClientID,
		EngineerID: claims.EngineerID,
		TokenID:    claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
