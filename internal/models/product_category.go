package models

import "time"

// OutboundCategory (jenis stok keluar): free-form classification of stock-out events.
type OutboundCategory struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description *string   `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// Stable inbound category codes. Validation rules key on these, never on Name.
const (
	InboundCodeSupplier      = "SUPPLIER"
	InboundCodeReturCabang   = "RETUR_CABANG"
	InboundCodeReturKonsumen = "RETUR_KONSUMEN"
)

// InboundCategory (jenis stok masuk).
type InboundCategory struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Code string `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`
}
