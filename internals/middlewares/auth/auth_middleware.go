// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"kampusku_backend/internals/configs"
	helper "kampusku_backend/internals/helpers"
)

// AdminMiddleware memverifikasi bearer token JWT untuk endpoint admin
// (generate billing, pembayaran manual, recalc denda).
// Webhook gateway TIDAK lewat sini — otentikasinya via HMAC signature.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, err.Error())
		}

		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return helper.Error(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		if _, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "unexpected signing method")
			}
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		if role, _ := claims["role"].(string); role != "" {
			c.Locals("role", role)
		}
		if sub, _ := claims["sub"].(string); sub != "" {
			c.Locals("user_id", sub)
		}
		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	h := c.Get("Authorization")
	if h == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
