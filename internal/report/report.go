// Package report builds the summary, movement and dashboard views and their
// spreadsheet exports. All reads honor the caller's ownership scope.
package report

import (
	"context"

	"gudang-backend/internal/inventory"
	"gudang-backend/internal/ledger"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const recentLimit = 5

// Summary is the per-(product, variant) stock position over the filtered
// events.
func Summary(ctx context.Context, db *gorm.DB, actor scope.Actor, f inventory.EventFilter) ([]ledger.Balance, error) {
	ins, outs, err := inventory.LoadEvents(ctx, db, actor, f)
	if err != nil {
		return nil, err
	}
	inEntries, outEntries := inventory.Entries(ins, outs)
	return ledger.Summarize(inEntries, outEntries).Rows(), nil
}

// StockInReport lists stock-in rows with their related names resolved.
func StockInReport(ctx context.Context, db *gorm.DB, actor scope.Actor, f inventory.EventFilter) ([]inventory.StockInResponse, error) {
	rows, err := inventory.ListStockIns(ctx, db, actor, f)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		ownerIDs = append(ownerIDs, r.OwnerID)
	}
	owners := scope.OwnerEmails(ctx, db, actor, ownerIDs)

	res := make([]inventory.StockInResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, inventory.NewStockInResponse(r, owners))
	}
	return res, nil
}

// StockOutReport lists stock-out rows with their related names resolved.
func StockOutReport(ctx context.Context, db *gorm.DB, actor scope.Actor, f inventory.EventFilter) ([]inventory.StockOutResponse, error) {
	rows, err := inventory.ListStockOuts(ctx, db, actor, f)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]string, 0, len(rows))
	for _, r := range rows {
		ownerIDs = append(ownerIDs, r.OwnerID)
	}
	owners := scope.OwnerEmails(ctx, db, actor, ownerIDs)

	res := make([]inventory.StockOutResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, inventory.NewStockOutResponse(r, owners))
	}
	return res, nil
}

type Dashboard struct {
	TotalProducts  int64                        `json:"total_products"`
	TotalStockIn   int64                        `json:"total_stock_in"`
	TotalStockOut  int64                        `json:"total_stock_out"`
	RecentStockIn  []inventory.StockInResponse  `json:"recent_stock_in"`
	RecentStockOut []inventory.StockOutResponse `json:"recent_stock_out"`
}

func sumQuantity(ctx context.Context, db *gorm.DB, actor scope.Actor, model any) (int64, error) {
	var total int64
	err := scope.Apply(db.WithContext(ctx).Model(model), actor, "owner_id").
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// LoadDashboard runs its five reads concurrently; the first failure fails
// the whole dashboard.
func LoadDashboard(ctx context.Context, db *gorm.DB, actor scope.Actor) (Dashboard, error) {
	var (
		d    Dashboard
		ins  []models.StockIn
		outs []models.StockOut
	)
	recent := inventory.EventFilter{Limit: recentLimit}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scope.Apply(db.WithContext(gctx).Model(&models.Product{}), actor, "owner_id").
			Count(&d.TotalProducts).Error
	})
	g.Go(func() error {
		var err error
		d.TotalStockIn, err = sumQuantity(gctx, db, actor, &models.StockIn{})
		return err
	})
	g.Go(func() error {
		var err error
		d.TotalStockOut, err = sumQuantity(gctx, db, actor, &models.StockOut{})
		return err
	})
	g.Go(func() error {
		var err error
		ins, err = inventory.ListStockIns(gctx, db, actor, recent)
		return err
	})
	g.Go(func() error {
		var err error
		outs, err = inventory.ListStockOuts(gctx, db, actor, recent)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	ownerIDs := make([]string, 0, len(ins)+len(outs))
	for _, r := range ins {
		ownerIDs = append(ownerIDs, r.OwnerID)
	}
	for _, r := range outs {
		ownerIDs = append(ownerIDs, r.OwnerID)
	}
	owners := scope.OwnerEmails(ctx, db, actor, ownerIDs)

	d.RecentStockIn = make([]inventory.StockInResponse, 0, len(ins))
	for _, r := range ins {
		d.RecentStockIn = append(d.RecentStockIn, inventory.NewStockInResponse(r, owners))
	}
	d.RecentStockOut = make([]inventory.StockOutResponse, 0, len(outs))
	for _, r := range outs {
		d.RecentStockOut = append(d.RecentStockOut, inventory.NewStockOutResponse(r, owners))
	}
	return d, nil
}
