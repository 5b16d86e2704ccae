package audit

import (
	"encoding/json"
	"fmt"

	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"gorm.io/gorm"
)

type LogOptions struct {
	Actor       scope.Actor
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog stores one audit entry. Pass the transaction handle when the change
// itself runs in a transaction so both commit together.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	// jsonb does not accept an empty string
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		ActorID:     opts.Actor.ID,
		ActorName:   actorName(opts.Actor),
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: truncate(opts.Description, 255),
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit log gagal disimpan: %w", err)
	}
	return nil
}

func actorName(a scope.Actor) string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
