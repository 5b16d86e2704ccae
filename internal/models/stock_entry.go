package models

import "time"

// StockIn: append-only inbound movement. Never updated or deleted.
type StockIn struct {
	ID                string           `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID         string           `gorm:"type:uuid;index;not null" json:"product_id"`
	Product           Product          `json:"-"`
	Variant           *string          `gorm:"size:100" json:"variant"`
	Quantity          int              `gorm:"not null" json:"quantity"`
	SourceID          string           `gorm:"type:uuid;index;not null" json:"source_id"`
	Source            Branch           `gorm:"foreignKey:SourceID" json:"-"`
	InboundCategoryID *string          `gorm:"type:uuid;index" json:"inbound_category_id"`
	InboundCategory   *InboundCategory `json:"-"`

	// Conditionally required, see inventory.InboundRules.
	PlateNumber    string  `gorm:"size:30" json:"plate_number"`
	Driver         string  `gorm:"size:100" json:"driver"`
	DeliveryNote   string  `gorm:"size:100" json:"delivery_note"`
	ReturnBranchID *string `gorm:"type:uuid" json:"return_branch_id"`
	ReturnBranch   *Branch `gorm:"foreignKey:ReturnBranchID" json:"-"`

	OwnerID   string    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// StockOut: append-only outbound movement. Never updated or deleted.
type StockOut struct {
	ID                 string           `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID          string           `gorm:"type:uuid;index;not null" json:"product_id"`
	Product            Product          `json:"-"`
	Variant            *string          `gorm:"size:100" json:"variant"`
	Quantity           int              `gorm:"not null" json:"quantity"`
	DestinationID      string           `gorm:"type:uuid;index;not null" json:"destination_id"`
	Destination        Branch           `gorm:"foreignKey:DestinationID" json:"-"`
	OutboundCategoryID string           `gorm:"type:uuid;index;not null" json:"outbound_category_id"`
	OutboundCategory   OutboundCategory `json:"-"`
	OwnerID            string           `gorm:"type:uuid;index;not null" json:"owner_id"`
	Date               time.Time        `gorm:"index;not null" json:"date"`
	CreatedAt          time.Time        `json:"created_at"`
}
