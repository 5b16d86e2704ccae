package auth

import (
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/config"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
)

const CtxActorKey = "actor"

// JWTMiddleware authenticates the bearer token and stores the caller as a
// scope.Actor. The profile is reloaded on every request so a role change or a
// logout takes effect immediately.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Header Authorization tidak ada")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Format Authorization harus 'Bearer <token>'")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau sudah kedaluwarsa")
		}

		var profile models.Profile
		if err := database.DB.WithContext(c.UserContext()).First(&profile, "id = ?", claims.UserID).Error; err != nil {
			if apperr.Classify(err).Kind == apperr.KindNotFound {
				return fiber.NewError(fiber.StatusUnauthorized, "Sesi tidak valid, silakan login kembali")
			}
			return err
		}
		if profile.TokenVersion != claims.TokenVersion {
			return fiber.NewError(fiber.StatusUnauthorized, "Sesi sudah berakhir, silakan login kembali")
		}

		c.Locals(CtxActorKey, scope.Actor{
			ID:    profile.ID,
			Email: profile.Email,
			Name:  profile.Name,
			Role:  profile.Role,
		})

		return c.Next()
	}
}

// ActorFrom returns the caller installed by JWTMiddleware.
func ActorFrom(c *fiber.Ctx) (scope.Actor, error) {
	actor, ok := c.Locals(CtxActorKey).(scope.Actor)
	if !ok || actor.ID == "" {
		return scope.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Informasi pengguna tidak ditemukan")
	}
	return actor, nil
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFrom(c)
		if err != nil {
			return err
		}

		for _, r := range allowedRoles {
			if r == actor.Role {
				return c.Next()
			}
		}
		return apperr.Forbidden("")
	}
}
