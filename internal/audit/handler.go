package audit

import (
	"strconv"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          string             `json:"id"`
	CreatedAt   string             `json:"created_at"`
	ActorID     string             `json:"actor_id"`
	ActorName   string             `json:"actor_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    string             `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	BeforeData  string             `json:"before_data"`
	AfterData   string             `json:"after_data"`
}

const maxAuditLogs = 500

// GET /api/audit-logs?entity_type=product&entity_id=...&limit=100
// Standard users see their own actions, superadmin sees everyone's.
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		dbq := scope.Apply(database.DB.WithContext(c.UserContext()).Model(&models.AuditLog{}), actor, "actor_id")

		if v := c.Query("entity_type"); v != "" {
			dbq = dbq.Where("entity_type = ?", v)
		}
		if v := c.Query("entity_id"); v != "" {
			dbq = dbq.Where("entity_id = ?", v)
		}
		if v := c.Query("actor_id"); v != "" && actor.Elevated() {
			dbq = dbq.Where("actor_id = ?", v)
		}

		limit := maxAuditLogs
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return apperr.Validation("limit tidak valid")
			}
			if n < limit {
				limit = n
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return apperr.Wrap(err, "Gagal memuat log")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				ActorID:     l.ActorID,
				ActorName:   l.ActorName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}
		return c.JSON(resp)
	}
}
