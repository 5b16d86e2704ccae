package inventory

import (
	"context"
	"fmt"
	"time"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/audit"
	"gudang-backend/internal/ledger"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	entityStockIn  = "stock_in"
	entityStockOut = "stock_out"

	dateLayout = "2006-01-02"
)

// EventFilter narrows stock-in and stock-out listings. Zero fields are ignored.
type EventFilter struct {
	Start      time.Time // inclusive, start of day
	End        time.Time // inclusive, whole day
	ProductIDs []string
	Limit      int
}

func (f EventFilter) apply(q *gorm.DB) *gorm.DB {
	if !f.Start.IsZero() {
		q = q.Where("date >= ?", f.Start)
	}
	if !f.End.IsZero() {
		q = q.Where("date < ?", f.End.AddDate(0, 0, 1))
	}
	if len(f.ProductIDs) > 0 {
		q = q.Where("product_id IN ?", f.ProductIDs)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q
}

// ParseDay parses a YYYY-MM-DD query value. Blank yields the zero time.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("Format tanggal harus YYYY-MM-DD")
	}
	return t, nil
}

// ParseEventDate accepts a day or a full RFC 3339 timestamp. Blank means now.
func ParseEventDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return ParseDay(s)
}

func checkQuantity(q int) error {
	if q <= 0 {
		return apperr.Validation("Jumlah harus lebih dari 0")
	}
	return nil
}

// eventVariant falls back to the product row's variant when the request has
// none.
func eventVariant(requested *string, p models.Product) *string {
	if v := NormalizeVariant(requested); v != nil {
		return v
	}
	return p.Variant
}

// CreateStockIn validates in and stores it owned by actor. The product must
// be visible to actor.
func CreateStockIn(ctx context.Context, db *gorm.DB, actor scope.Actor, in models.StockIn) (models.StockIn, error) {
	if err := checkQuantity(in.Quantity); err != nil {
		return in, err
	}
	if in.ProductID == "" {
		return in, apperr.Validation("Produk harus dipilih")
	}
	if in.SourceID == "" {
		return in, apperr.Validation("Sumber harus dipilih")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.InboundCategoryID != nil && *in.InboundCategoryID != "" {
			var cat models.InboundCategory
			if err := tx.First(&cat, "id = ?", *in.InboundCategoryID).Error; err != nil {
				return apperr.Wrap(err, "Jenis stok masuk tidak ditemukan")
			}
			if err := CheckInboundRules(cat.Code, &in); err != nil {
				return err
			}
		} else {
			in.InboundCategoryID = nil
		}

		product, err := GetProduct(ctx, tx, actor, in.ProductID)
		if err != nil {
			return err
		}
		if err := tx.First(&models.Branch{}, "id = ?", in.SourceID).Error; err != nil {
			return apperr.Wrap(err, "Sumber tidak ditemukan")
		}
		if in.ReturnBranchID != nil && *in.ReturnBranchID != "" {
			if err := tx.First(&models.Branch{}, "id = ?", *in.ReturnBranchID).Error; err != nil {
				return apperr.Wrap(err, "Cabang retur tidak ditemukan")
			}
		} else {
			in.ReturnBranchID = nil
		}

		in.Variant = eventVariant(in.Variant, product)
		in.OwnerID = actor.ID
		if in.Date.IsZero() {
			in.Date = time.Now()
		}
		if err := tx.Create(&in).Error; err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityStockIn,
			EntityID:    in.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok masuk %s (%s) %d", product.Name, product.VariantLabel(), in.Quantity),
			After:       in,
		})
	})
	if err != nil {
		return in, apperr.Wrap(err, "Gagal menyimpan stok masuk")
	}
	return in, nil
}

// CreateStockOut validates out and stores it owned by actor.
func CreateStockOut(ctx context.Context, db *gorm.DB, actor scope.Actor, out models.StockOut) (models.StockOut, error) {
	if err := checkQuantity(out.Quantity); err != nil {
		return out, err
	}
	if out.ProductID == "" {
		return out, apperr.Validation("Produk harus dipilih")
	}
	if out.DestinationID == "" {
		return out, apperr.Validation("Tujuan harus dipilih")
	}
	if out.OutboundCategoryID == "" {
		return out, apperr.Validation("Jenis stok keluar harus dipilih")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := GetProduct(ctx, tx, actor, out.ProductID)
		if err != nil {
			return err
		}
		if err := tx.First(&models.Branch{}, "id = ?", out.DestinationID).Error; err != nil {
			return apperr.Wrap(err, "Tujuan tidak ditemukan")
		}
		if err := tx.First(&models.OutboundCategory{}, "id = ?", out.OutboundCategoryID).Error; err != nil {
			return apperr.Wrap(err, "Jenis stok keluar tidak ditemukan")
		}

		out.Variant = eventVariant(out.Variant, product)
		out.OwnerID = actor.ID
		if out.Date.IsZero() {
			out.Date = time.Now()
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityStockOut,
			EntityID:    out.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok keluar %s (%s) %d", product.Name, product.VariantLabel(), out.Quantity),
			After:       out,
		})
	})
	if err != nil {
		return out, apperr.Wrap(err, "Gagal menyimpan stok keluar")
	}
	return out, nil
}

// ListStockIns returns the actor's stock-in rows, newest first, with product,
// source, category and return branch embedded.
func ListStockIns(ctx context.Context, db *gorm.DB, actor scope.Actor, f EventFilter) ([]models.StockIn, error) {
	var rows []models.StockIn
	q := scope.Apply(db.WithContext(ctx), actor, "owner_id").
		Preload("Product").
		Preload("Source").
		Preload("InboundCategory").
		Preload("ReturnBranch").
		Order("date DESC").
		Order("created_at DESC")
	err := f.apply(q).Find(&rows).Error
	return rows, err
}

// ListStockOuts returns the actor's stock-out rows, newest first.
func ListStockOuts(ctx context.Context, db *gorm.DB, actor scope.Actor, f EventFilter) ([]models.StockOut, error) {
	var rows []models.StockOut
	q := scope.Apply(db.WithContext(ctx), actor, "owner_id").
		Preload("Product").
		Preload("Destination").
		Preload("OutboundCategory").
		Order("date DESC").
		Order("created_at DESC")
	err := f.apply(q).Find(&rows).Error
	return rows, err
}

// LoadEvents reads both streams concurrently.
func LoadEvents(ctx context.Context, db *gorm.DB, actor scope.Actor, f EventFilter) ([]models.StockIn, []models.StockOut, error) {
	var (
		ins  []models.StockIn
		outs []models.StockOut
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ins, err = ListStockIns(gctx, db, actor, f)
		return err
	})
	g.Go(func() error {
		var err error
		outs, err = ListStockOuts(gctx, db, actor, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return ins, outs, nil
}

// StockInEntry flattens a stock-in row for the ledger. Missing embeds leave
// names blank, which the ledger turns into placeholders.
func StockInEntry(in models.StockIn) ledger.Entry {
	e := ledger.Entry{
		ID:           in.ID,
		ProductID:    in.ProductID,
		ProductName:  in.Product.Name,
		Variant:      in.Variant,
		Quantity:     in.Quantity,
		Counterparty: in.Source.Name,
		OwnerID:      in.OwnerID,
		Date:         in.Date,
	}
	if in.InboundCategory != nil {
		e.Category = in.InboundCategory.Name
	}
	return e
}

// StockOutEntry flattens a stock-out row for the ledger.
func StockOutEntry(out models.StockOut) ledger.Entry {
	return ledger.Entry{
		ID:           out.ID,
		ProductID:    out.ProductID,
		ProductName:  out.Product.Name,
		Variant:      out.Variant,
		Quantity:     out.Quantity,
		Counterparty: out.Destination.Name,
		Category:     out.OutboundCategory.Name,
		OwnerID:      out.OwnerID,
		Date:         out.Date,
	}
}

// Entries converts both streams in one call.
func Entries(ins []models.StockIn, outs []models.StockOut) (inEntries, outEntries []ledger.Entry) {
	inEntries = make([]ledger.Entry, 0, len(ins))
	for _, in := range ins {
		inEntries = append(inEntries, StockInEntry(in))
	}
	outEntries = make([]ledger.Entry, 0, len(outs))
	for _, out := range outs {
		outEntries = append(outEntries, StockOutEntry(out))
	}
	return inEntries, outEntries
}

// ProductIDsByName resolves a product name to the in-scope row ids.
func ProductIDsByName(ctx context.Context, db *gorm.DB, actor scope.Actor, name string) ([]string, error) {
	var ids []string
	err := scope.Apply(db.WithContext(ctx).Model(&models.Product{}), actor, "owner_id").
		Where("name = ?", name).
		Pluck("id", &ids).Error
	return ids, err
}

// FormOptions is everything the stock entry forms offer for selection.
type FormOptions struct {
	Products           []ProductGroupResponse    `json:"products"`
	Branches           []models.Branch           `json:"branches"`
	InboundCategories  []models.InboundCategory  `json:"inbound_categories"`
	OutboundCategories []models.OutboundCategory `json:"outbound_categories"`
}

// LoadFormOptions runs the four reads concurrently; any failure fails the
// whole load.
func LoadFormOptions(ctx context.Context, db *gorm.DB, actor scope.Actor) (FormOptions, error) {
	var (
		opts     FormOptions
		products []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = ListProducts(gctx, db, actor)
		return err
	})
	g.Go(func() error {
		return db.WithContext(gctx).Order("name asc").Find(&opts.Branches).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Order("name asc").Find(&opts.InboundCategories).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Order("name asc").Find(&opts.OutboundCategories).Error
	})
	if err := g.Wait(); err != nil {
		return FormOptions{}, err
	}

	groups := GroupProducts(products)
	opts.Products = make([]ProductGroupResponse, 0, len(groups))
	for _, grp := range groups {
		opts.Products = append(opts.Products, toGroupResponse(grp, nil))
	}
	return opts, nil
}
