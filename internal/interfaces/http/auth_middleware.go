package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/pkg/jwt"
)

// Locals keys para UserID y Email en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// HeaderExpiringSoon se agrega a la respuesta cuando al access token le quedan
// menos de 5 minutos: el frontend lo usa para renovar de forma preventiva.
const (
	HeaderExpiringSoon = "X-Token-Expiring-Soon"
	expiringSoonWindow = 5 * time.Minute
)

// AuthMiddleware valida el Bearer Token JWT (de tipo access) y extrae UserID y
// Email a c.Locals.
func AuthMiddleware(jwtCfg jwt.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return status(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return status(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return status(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "token vacío")
		}
		claims, err := jwt.Parse(jwtCfg, tokenString, jwt.TypeAccess)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				return status(c, fiber.StatusUnauthorized, "TOKEN_EXPIRED", "token expirado")
			}
			return status(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido")
		}
		if claims.RemainingTTL(time.Now()) < expiringSoonWindow {
			c.Set(HeaderExpiringSoon, "true")
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
