package inventory

import (
	"context"
	"fmt"
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/audit"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"gorm.io/gorm"
)

const entityProduct = "product"

// ListProducts returns the products visible to actor, ordered by name.
func ListProducts(ctx context.Context, db *gorm.DB, actor scope.Actor) ([]models.Product, error) {
	var rows []models.Product
	err := scope.Apply(db.WithContext(ctx), actor, "owner_id").
		Order("name ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

// GetProduct loads one row. Rows outside the actor's scope are reported as
// not found.
func GetProduct(ctx context.Context, db *gorm.DB, actor scope.Actor, id string) (models.Product, error) {
	var p models.Product
	err := scope.Apply(db.WithContext(ctx), actor, "owner_id").First(&p, "id = ?", id).Error
	if err != nil {
		return p, apperr.Wrap(err, "Produk tidak ditemukan")
	}
	return p, nil
}

// GetProductGroup loads every in-scope row sharing name.
func GetProductGroup(ctx context.Context, db *gorm.DB, actor scope.Actor, name string) (ProductGroup, error) {
	var rows []models.Product
	if err := scope.Apply(db.WithContext(ctx), actor, "owner_id").
		Where("name = ?", name).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return ProductGroup{}, err
	}
	if len(rows) == 0 {
		return ProductGroup{}, apperr.NotFound("Produk tidak ditemukan")
	}
	return GroupProducts(rows)[0], nil
}

// CreateProductGroup inserts one row per variant, all owned by actor.
func CreateProductGroup(ctx context.Context, db *gorm.DB, actor scope.Actor, name string, variants []string) ([]models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Nama produk harus diisi")
	}

	rows := make([]models.Product, 0, len(variants))
	for _, v := range NormalizeVariants(variants) {
		rows = append(rows, models.Product{Name: name, Variant: v, OwnerID: actor.ID})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityProduct,
			EntityID:    rows[0].ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Produk %s (%d varian)", name, len(rows)),
			After:       rows,
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Gagal menyimpan produk")
	}
	return rows, nil
}

// UpdateProduct changes one row's name and variant.
func UpdateProduct(ctx context.Context, db *gorm.DB, actor scope.Actor, id, name string, variant *string) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, apperr.Validation("Nama produk harus diisi")
	}

	var updated models.Product
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := GetProduct(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		updated = before
		updated.Name = name
		updated.Variant = NormalizeVariant(variant)
		if err := tx.Model(&updated).Select("name", "variant", "updated_at").Updates(&updated).Error; err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityProduct,
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Produk %s diperbarui", name),
			Before:      before,
			After:       updated,
		})
	})
	if err != nil {
		return models.Product{}, apperr.Wrap(err, "Gagal menyimpan produk")
	}
	return updated, nil
}

// ReplaceProductGroup renames the group and makes its variant set equal to
// variants, separately for each owner holding rows of that name: kept
// variants are renamed in place, new ones inserted, dropped ones deleted.
// Inserted rows belong to the owner whose rows they join, so an elevated
// actor never takes over or removes another owner's product.
func ReplaceProductGroup(ctx context.Context, db *gorm.DB, actor scope.Actor, name, newName string, variants []string) ([]models.Product, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, apperr.Validation("Nama produk harus diisi")
	}
	wanted := NormalizeVariants(variants)

	var result []models.Product
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := GetProductGroup(ctx, tx, actor, name)
		if err != nil {
			return err
		}

		for _, owned := range rowsByOwner(group.Rows) {
			rows, err := replaceOwnedVariants(tx, owned, newName, wanted)
			if err != nil {
				return err
			}
			result = append(result, rows...)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityProduct,
			EntityID:    group.Rows[0].ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Produk %s diperbarui (%d varian)", newName, len(result)),
			Before:      group.Rows,
			After:       result,
		})
	})
	if err != nil {
		return nil, apperr.Wrap(err, "Gagal menyimpan produk")
	}
	return result, nil
}

// rowsByOwner splits rows per owner, owners in order of first appearance.
func rowsByOwner(rows []models.Product) [][]models.Product {
	index := make(map[string]int)
	var out [][]models.Product
	for _, r := range rows {
		i, ok := index[r.OwnerID]
		if !ok {
			i = len(out)
			index[r.OwnerID] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], r)
	}
	return out
}

// replaceOwnedVariants applies the new name and variant set to rows that all
// share one owner.
func replaceOwnedVariants(tx *gorm.DB, rows []models.Product, newName string, wanted []*string) ([]models.Product, error) {
	ownerID := rows[0].OwnerID
	result := make([]models.Product, 0, len(wanted))

	kept := make([]*string, 0, len(wanted))
	for _, row := range rows {
		if containsVariant(wanted, row.Variant) && !containsVariant(kept, row.Variant) {
			kept = append(kept, row.Variant)
			if err := tx.Model(&models.Product{}).Where("id = ?", row.ID).Update("name", newName).Error; err != nil {
				return nil, err
			}
			row.Name = newName
			result = append(result, row)
			continue
		}
		if err := tx.Delete(&models.Product{}, "id = ?", row.ID).Error; err != nil {
			return nil, err
		}
	}

	for _, v := range wanted {
		if containsVariant(kept, v) {
			continue
		}
		p := models.Product{Name: newName, Variant: v, OwnerID: ownerID}
		if err := tx.Create(&p).Error; err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

// DeleteProduct removes one row.
func DeleteProduct(ctx context.Context, db *gorm.DB, actor scope.Actor, id string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := GetProduct(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityProduct,
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Produk %s (%s) dihapus", before.Name, before.VariantLabel()),
			Before:      before,
		})
	})
	if err != nil {
		return apperr.Wrap(err, "Gagal menghapus produk")
	}
	return nil
}

// DeleteProductGroup deletes every in-scope row named name, whatever its
// variant, and returns how many rows went.
func DeleteProductGroup(ctx context.Context, db *gorm.DB, actor scope.Actor, name string) (int64, error) {
	var deleted int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := GetProductGroup(ctx, tx, actor, name)
		if err != nil {
			return err
		}

		res := scope.Apply(tx, actor, "owner_id").Where("name = ?", name).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityProduct,
			EntityID:    group.Rows[0].ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Produk %s dihapus (%d baris)", name, deleted),
			Before:      group.Rows,
		})
	})
	if err != nil {
		return 0, apperr.Wrap(err, "Gagal menghapus produk")
	}
	return deleted, nil
}
