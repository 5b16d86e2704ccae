package models

import "time"

// SupplierBranchName is the conventional cabang row used as the default stock-in source.
const SupplierBranchName = "SUPPLIER"

// Branch (cabang): both a transfer destination and a supply source.
type Branch struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
