package auth

import (
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/config"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterSuperAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      models.UserRole `json:"role"`
	CreatedAt string          `json:"created_at"`
}

func NewProfileResponse(p models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// POST /api/auth/register-super-admin
// Only works while no superadmin exists yet.
func RegisterSuperAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterSuperAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}

		body.Email = NormalizeEmail(body.Email)
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body, "Nama, email dan password harus diisi"); err != nil {
			return err
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return apperr.Wrap(err, "Password tidak bisa diproses")
		}

		profile := models.Profile{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
		}
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			// blocks concurrent bootstraps until this one commits
			if tx.Dialector.Name() == "postgres" {
				if err := tx.Exec("LOCK TABLE profiles IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
					return err
				}
			}

			var count int64
			if err := tx.Model(&models.Profile{}).
				Where("role = ?", models.RoleSuperAdmin).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Forbidden("Superadmin sudah ada")
			}

			if err := tx.Create(&profile).Error; err != nil {
				return apperr.Wrap(err, "Gagal membuat pengguna")
			}
			return nil
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(NewProfileResponse(profile))
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}

		body.Email = NormalizeEmail(body.Email)

		var profile models.Profile
		if err := database.DB.WithContext(c.UserContext()).Where("email = ?", body.Email).First(&profile).Error; err != nil {
			if apperr.Classify(err).Kind == apperr.KindNotFound {
				return apperr.New(apperr.KindAuth, "")
			}
			return err
		}

		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(body.Password)); err != nil {
			return apperr.New(apperr.KindAuth, "")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, &profile)
		if err != nil {
			return apperr.Wrap(err, "Token tidak bisa dibuat")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  NewProfileResponse(profile),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFrom(c)
		if err != nil {
			return err
		}
		return c.JSON(actor)
	}
}

// POST /api/auth/logout
// Bumps the token version so every token issued so far is rejected.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFrom(c)
		if err != nil {
			return err
		}

		if err := database.DB.WithContext(c.UserContext()).
			Model(&models.Profile{}).
			Where("id = ?", actor.ID).
			UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
			return apperr.Wrap(err, "Gagal logout")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
