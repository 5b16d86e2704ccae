package admin

import (
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/audit"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const entityProfile = "profile"

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role"`
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var profiles []models.Profile
		if err := database.DB.WithContext(c.UserContext()).Order("created_at DESC").Find(&profiles).Error; err != nil {
			return apperr.Wrap(err, "Gagal memuat pengguna")
		}

		res := make([]auth.ProfileResponse, 0, len(profiles))
		for _, p := range profiles {
			res = append(res, auth.NewProfileResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/users
// Signs up a new account. Role defaults to user.
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		body.Email = auth.NormalizeEmail(body.Email)
		body.Name = strings.TrimSpace(body.Name)
		if body.Role == "" {
			body.Role = models.RoleUser
		}
		if !body.Role.Valid() {
			return apperr.Validation("Role tidak valid")
		}
		if err := validate.Struct(body, "Nama, email dan password (minimal 6 karakter) harus diisi"); err != nil {
			return err
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return apperr.Wrap(err, "Password tidak bisa diproses")
		}

		profile := models.Profile{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Role:         body.Role,
		}
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Profile{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Conflict("Email sudah terdaftar")
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityProfile,
				EntityID:    profile.ID,
				Action:      models.AuditActionCreate,
				Description: "Pengguna " + profile.Email + " (" + string(profile.Role) + ")",
				After:       auth.NewProfileResponse(profile),
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal membuat pengguna")
		}

		return c.Status(fiber.StatusCreated).JSON(auth.NewProfileResponse(profile))
	}
}
