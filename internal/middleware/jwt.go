package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

const (
	userIDLocal   = "user_id"
	userRoleLocal = "user_role"
)

// JWTProtected returns a middleware that validates HMAC-signed bearer tokens and binds the
// caller's id and role to the request. Tokens without a usable subject are rejected.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get(fiber.HeaderAuthorization)
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID, ok := extractUserIDFromClaims(claims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "token subject missing")
		}

		SetActor(c, access.Actor{ID: userID, Role: extractUserRoleFromClaims(claims)})
		return c.Next()
	}
}

// SetActor binds an authenticated caller to the request.
func SetActor(c *fiber.Ctx, actor access.Actor) {
	c.Locals(userIDLocal, actor.ID)
	c.Locals(userRoleLocal, actor.Role)
}

// ActorFromContext returns the caller bound by JWTProtected. The zero Actor means anonymous.
func ActorFromContext(c *fiber.Ctx) access.Actor {
	var actor access.Actor
	if id, ok := c.Locals(userIDLocal).(uint); ok {
		actor.ID = id
	}
	switch role := c.Locals(userRoleLocal).(type) {
	case access.Role:
		actor.Role = access.ParseRole(string(role))
	case string:
		actor.Role = access.ParseRole(role)
	}
	return actor
}

func extractUserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	for _, key := range []string{"sub", "user_id", "id"} {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil && normalized > 0 {
				return normalized, true
			}
		}
	}
	return 0, false
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractUserRoleFromClaims(claims jwt.MapClaims) access.Role {
	for _, key := range []string{"role", "roles"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if role := access.ParseRole(v); role != "" {
				return role
			}
		case []interface{}:
			for _, item := range v {
				if str, ok := item.(string); ok {
					if role := access.ParseRole(str); role != "" {
						return role
					}
				}
			}
		}
	}
	return ""
}
