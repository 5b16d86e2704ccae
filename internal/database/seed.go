package database

import (
	"gudang-backend/internal/models"

	"gorm.io/gorm"
)

var inboundCategories = []models.InboundCategory{
	{Code: models.InboundCodeSupplier, Name: "SUPPLIER"},
	{Code: models.InboundCodeReturCabang, Name: "RETUR CABANG"},
	{Code: models.InboundCodeReturKonsumen, Name: "RETUR KONSUMEN"},
}

// Seed inserts the fixed reference rows. Safe to run on every start.
func Seed(db *gorm.DB) error {
	for _, c := range inboundCategories {
		var cnt int64
		if err := db.Model(&models.InboundCategory{}).Where("code = ?", c.Code).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			row := c
			if err := db.Create(&row).Error; err != nil {
				return err
			}
		}
	}

	var cnt int64
	if err := db.Model(&models.Branch{}).Where("name = ?", models.SupplierBranchName).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt == 0 {
		return db.Create(&models.Branch{Name: models.SupplierBranchName}).Error
	}
	return nil
}
