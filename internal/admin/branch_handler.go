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

const entityBranch = "branch"

type BranchResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type BranchRequest struct {
	Name string `json:"name" validate:"required"`
}

func toBranchResponse(b models.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func parseBranchBody(c *fiber.Ctx) (BranchRequest, error) {
	var body BranchRequest
	if err := c.BodyParser(&body); err != nil {
		return body, apperr.Validation("Body request tidak valid")
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validate.Struct(body, "Nama cabang harus diisi"); err != nil {
		return body, err
	}
	return body, nil
}

func branchNameTaken(tx *gorm.DB, name, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Branch{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// ----------------------------------------
// CABANG CRUD
// ----------------------------------------

// GET /api/branches
// Every signed-in user needs the list for the stock forms.
func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.WithContext(c.UserContext()).Order("name asc").Find(&branches).Error; err != nil {
			return apperr.Wrap(err, "Gagal memuat cabang")
		}

		res := make([]BranchResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, toBranchResponse(b))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/branches
func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		body, err := parseBranchBody(c)
		if err != nil {
			return err
		}

		branch := models.Branch{Name: body.Name}
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			taken, err := branchNameTaken(tx, branch.Name, "")
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Cabang sudah ada")
			}
			if err := tx.Create(&branch).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityBranch,
				EntityID:    branch.ID,
				Action:      models.AuditActionCreate,
				Description: "Cabang " + branch.Name,
				After:       branch,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menyimpan cabang")
		}

		return c.Status(fiber.StatusCreated).JSON(toBranchResponse(branch))
	}
}

// PUT /api/admin/branches/:id
func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		body, err := parseBranchBody(c)
		if err != nil {
			return err
		}

		var branch models.Branch
		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&branch, "id = ?", id).Error; err != nil {
				return apperr.Wrap(err, "Cabang tidak ditemukan")
			}
			before := branch

			taken, err := branchNameTaken(tx, body.Name, id)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict("Cabang sudah ada")
			}

			branch.Name = body.Name
			if err := tx.Save(&branch).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityBranch,
				EntityID:    branch.ID,
				Action:      models.AuditActionUpdate,
				Description: "Cabang " + before.Name + " menjadi " + branch.Name,
				Before:      before,
				After:       branch,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menyimpan cabang")
		}

		return c.JSON(toBranchResponse(branch))
	}
}

// DELETE /api/admin/branches/:id
// Refused while any stock event still points at the branch.
func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		err = database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var branch models.Branch
			if err := tx.First(&branch, "id = ?", id).Error; err != nil {
				return apperr.Wrap(err, "Cabang tidak ditemukan")
			}

			var ins, outs int64
			if err := tx.Model(&models.StockIn{}).
				Where("source_id = ? OR return_branch_id = ?", id, id).
				Count(&ins).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.StockOut{}).Where("destination_id = ?", id).Count(&outs).Error; err != nil {
				return err
			}
			if ins+outs > 0 {
				return apperr.Validation("Cabang masih dipakai di transaksi stok")
			}

			if err := tx.Delete(&branch).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.LogOptions{
				Actor:       actor,
				EntityType:  entityBranch,
				EntityID:    branch.ID,
				Action:      models.AuditActionDelete,
				Description: "Cabang " + branch.Name + " dihapus",
				Before:      branch,
			})
		})
		if err != nil {
			return apperr.Wrap(err, "Gagal menghapus cabang")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
