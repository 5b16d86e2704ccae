package models

import "time"

// Product: several rows may share Name with different Variant values.
// (Name, Variant) is the logical identity of a sellable item.
type Product struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	Variant   *string   `gorm:"size:100" json:"variant"`
	OwnerID   string    `gorm:"type:uuid;index;not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// VariantLabel returns the variant for display, "-" when the row has none.
func (p Product) VariantLabel() string {
	if p.Variant == nil || *p.Variant == "" {
		return "-"
	}
	return *p.Variant
}
