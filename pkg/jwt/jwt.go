package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. El claim "type" distingue access de refresh: un refresh token
// nunca autoriza una petición y un access token nunca rota una sesión.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Errores de verificación. El caller decide cómo mapearlos a su taxonomía.
var (
	ErrExpired        = errors.New("jwt: token expirado")
	ErrMalformed      = errors.New("jwt: token malformado o con firma inválida")
	ErrWrongType      = errors.New("jwt: tipo de token inesperado")
	ErrMissingSubject = errors.New("jwt: falta el subject")
)

// Claims incluye los claims estándar más los campos propios de la aplicación.
// Email solo viaja en los access tokens; el refresh lleva payload mínimo.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Type  string `json:"type"`
}

// Config parámetros de firma y verificación compartidos por ambos tipos de token.
type Config struct {
	Secret     string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// GenerateAccess genera un access token firmado: {sub=userID, email, type=access}.
func GenerateAccess(cfg Config, userID, email string) (string, error) {
	return generate(cfg, userID, email, TypeAccess, cfg.AccessTTL)
}

// GenerateRefresh genera un refresh token firmado con payload mínimo: {sub=userID, type=refresh}.
func GenerateRefresh(cfg Config, userID string) (string, error) {
	return generate(cfg, userID, "", TypeRefresh, cfg.RefreshTTL)
}

func generate(cfg Config, userID, email, tokenType string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// El jti hace único cada token emitido: dos sesiones del mismo
			// usuario en el mismo segundo no comparten valor de token.
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Type:  tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// Parse valida firma, expiración, issuer y audience, y exige el tipo esperado.
// Un issuer o audience que no coincide se trata como token malformado.
func Parse(cfg Config, tokenString, expectedType string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithAudience(cfg.Audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	if claims.Type != expectedType {
		return nil, ErrWrongType
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// RemainingTTL devuelve cuánto falta para que el token expire (cero si no hay claim exp).
func (c *Claims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
