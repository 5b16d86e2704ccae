package inventory

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

const entityOutboundCategory = "outbound_category"

type OutboundCategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type OutboundCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func toOutboundCategoryResponse(cat models.OutboundCategory) OutboundCategoryResponse {
	return OutboundCategoryResponse{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		CreatedAt:   cat.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (r *OutboundCategoryRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
}

func outboundNameTaken(tx *gorm.DB, name, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.OutboundCategory{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// GET /api/outbound-categories
func ListOutboundCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.OutboundCategory
		if err := database.DB.WithContext(c.UserContext()).Order("name asc").Find(&categories).Error; err != nil {
			return apperr.Wrap(err, "Gagal memuat jenis stok keluar")
		}

		res := make([]OutboundCategoryResponse, 0, len(categories))
		for _, cat := range categories {
			res = append(res, toOutboundCategoryResponse(cat))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/outbound-categories
func CreateOutboundCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body OutboundCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		body.normalize()
		if err := validate.Struct(body, "Nama jenis harus diisi"); err != nil {
			return err
		}

		cat := models.OutboundCategory{Name: body.Name, Description: body.Description}
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			taken, err := outboundNameTaken(tx, cat.Name, "")
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Jenis stok keluar sudah ada")
			}
			if err := tx.Create(&cat).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityOutboundCategory,
				EntityID:    cat.ID,
				Action:      models.AuditActionCreate,
				Description: "Jenis stok keluar " + cat.Name,
				After:       cat,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menyimpan jenis stok keluar")
		}

		return c.Status(fiber.StatusCreated).JSON(toOutboundCategoryResponse(cat))
	}
}

// PUT /api/admin/outbound-categories/:id
func UpdateOutboundCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		var body OutboundCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		body.normalize()
		if err := validate.Struct(body, "Nama jenis harus diisi"); err != nil {
			return err
		}

		var cat models.OutboundCategory
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&cat, "id = ?", id).Error; err != nil {
				return apperr.Wrap(err, "Jenis stok keluar tidak ditemukan")
			}
			before := cat

			taken, err := outboundNameTaken(tx, body.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Jenis stok keluar sudah ada")
			}

			cat.Name = body.Name
			cat.Description = body.Description
			if err := tx.Model(&cat).Select("name", "description", "updated_at").Updates(&cat).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityOutboundCategory,
				EntityID:    cat.ID,
				Action:      models.AuditActionUpdate,
				Description: "Jenis stok keluar " + cat.Name + " diperbarui",
				Before:      before,
				After:       cat,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menyimpan jenis stok keluar")
		}

		return c.JSON(toOutboundCategoryResponse(cat))
	}
}

// DELETE /api/admin/outbound-categories/:id
func DeleteOutboundCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var cat models.OutboundCategory
			if err := tx.First(&cat, "id = ?", id).Error; err != nil {
				return apperr.Wrap(err, "Jenis stok keluar tidak ditemukan")
			}

			var used int64
			if err := tx.Model(&models.StockOut{}).Where("outbound_category_id = ?", id).Count(&used).Error; err != nil {
				return err
			}
			if used > 0 {
				return apperr.Validation("Jenis stok keluar masih dipakai")
			}

			if err := tx.Delete(&cat).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityOutboundCategory,
				EntityID:    cat.ID,
				Action:      models.AuditActionDelete,
				Description: "Jenis stok keluar " + cat.Name + " dihapus",
				Before:      cat,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menghapus jenis stok keluar")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/inbound-categories
// Seeded at startup, read-only.
func ListInboundCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.InboundCategory
		if err := database.DB.WithContext(c.UserContext()).Order("name asc").Find(&categories).Error; err != nil {
			return apperr.Wrap(err, "Gagal memuat jenis stok masuk")
		}
		return c.JSON(categories)
	}
}
