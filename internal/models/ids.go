package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (p *Profile) BeforeCreate(*gorm.DB) error          { newID(&p.ID); return nil }
func (b *Branch) BeforeCreate(*gorm.DB) error           { newID(&b.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error          { newID(&p.ID); return nil }
func (c *OutboundCategory) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }
func (c *InboundCategory) BeforeCreate(*gorm.DB) error  { newID(&c.ID); return nil }
func (s *StockIn) BeforeCreate(*gorm.DB) error          { newID(&s.ID); return nil }
func (s *StockOut) BeforeCreate(*gorm.DB) error         { newID(&s.ID); return nil }
func (a *AuditLog) BeforeCreate(*gorm.DB) error         { newID(&a.ID); return nil }
