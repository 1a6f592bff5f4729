package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/swiftsendllc/swiftsend-service-sub000/internal/utils"
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func parseBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header empty")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func parseAndValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RequireUser resolves the bearer token to a user id and stores it in
// c.Locals("user_id"). Websocket upgrades keep locals through the upgrade.
func RequireUser(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr, err := parseBearerToken(c.Get("Authorization"))
		if err != nil {
			// allow the token via query for websocket clients
			tokenStr = c.Query("token")
			if tokenStr == "" {
				return utils.JSONError(c, fiber.StatusUnauthorized, "missing bearer token")
			}
		}
		claims, err := parseAndValidateToken(secret, tokenStr)
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}
