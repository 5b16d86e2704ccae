package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/inventory"
	"gudang-backend/internal/ledger"
	"gudang-backend/internal/models"
	"gudang-backend/internal/report"
	"gudang-backend/internal/scope"
	"gudang-backend/internal/testkit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	alice scope.Actor
	bob   scope.Actor
	admin scope.Actor
}

func at(d int) time.Time {
	return time.Date(2024, time.April, d, 10, 0, 0, 0, time.Local)
}

// seed books, for alice: Kayu/A +10 -4, Kayu/B -2; for bob: Besi +7.
func seed(t *testing.T) fixture {
	t.Helper()
	db := testkit.Open(t)
	testkit.Use(t, db)
	ctx := context.Background()
	f := fixture{
		db:    db,
		alice: testkit.Profile(t, db, "alice@saj.id", models.RoleUser),
		bob:   testkit.Profile(t, db, "bob@saj.id", models.RoleUser),
		admin: testkit.Profile(t, db, "admin@saj.id", models.RoleSuperAdmin),
	}

	var supplier models.Branch
	require.NoError(t, db.First(&supplier, "name = ?", models.SupplierBranchName).Error)
	cabang := models.Branch{Name: "Cabang Bekasi"}
	require.NoError(t, db.Create(&cabang).Error)
	jual := models.OutboundCategory{Name: "Penjualan"}
	require.NoError(t, db.Create(&jual).Error)

	kayu, err := inventory.CreateProductGroup(ctx, db, f.alice, "Kayu", []string{"A", "B"})
	require.NoError(t, err)
	besi, err := inventory.CreateProductGroup(ctx, db, f.bob, "Besi", nil)
	require.NoError(t, err)

	in := func(actor scope.Actor, p models.Product, qty, d int) {
		_, err := inventory.CreateStockIn(ctx, db, actor, models.StockIn{ProductID: p.ID, Quantity: qty, SourceID: supplier.ID, Date: at(d)})
		require.NoError(t, err)
	}
	out := func(actor scope.Actor, p models.Product, qty, d int) {
		_, err := inventory.CreateStockOut(ctx, db, actor, models.StockOut{
			ProductID: p.ID, Quantity: qty, DestinationID: cabang.ID, OutboundCategoryID: jual.ID, Date: at(d),
		})
		require.NoError(t, err)
	}

	in(f.alice, kayu[0], 10, 1)
	out(f.alice, kayu[0], 4, 2)
	out(f.alice, kayu[1], 2, 3)
	in(f.bob, besi[0], 7, 4)
	return f
}

func TestSummaryScopedByActor(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	rows, err := report.Summary(ctx, f.db, f.alice, inventory.EventFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kayu", rows[0].ProductName)
	assert.Equal(t, "A", *rows[0].Variant)
	assert.Equal(t, 6, rows[0].CurrentStock)
	assert.Equal(t, -2, rows[1].CurrentStock)

	all, err := report.Summary(ctx, f.db, f.admin, inventory.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Besi", all[0].ProductName)
	assert.Equal(t, 7, all[0].CurrentStock)
}

func TestStockReportsCarryOwnerEmailForSuperadmin(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	ins, err := report.StockInReport(ctx, f.db, f.admin, inventory.EventFilter{})
	require.NoError(t, err)
	require.Len(t, ins, 2)
	assert.Equal(t, "bob@saj.id", ins[0].OwnerEmail)
	assert.Equal(t, "alice@saj.id", ins[1].OwnerEmail)

	own, err := report.StockOutReport(ctx, f.db, f.alice, inventory.EventFilter{})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Empty(t, own[0].OwnerEmail)
	assert.Equal(t, "Cabang Bekasi", own[0].DestinationName)
}

func TestLoadDashboard(t *testing.T) {
	f := seed(t)

	d, err := report.LoadDashboard(context.Background(), f.db, f.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalProducts)
	assert.EqualValues(t, 10, d.TotalStockIn)
	assert.EqualValues(t, 6, d.TotalStockOut)
	assert.Len(t, d.RecentStockIn, 1)
	require.Len(t, d.RecentStockOut, 2)
	assert.Equal(t, 2, d.RecentStockOut[0].Quantity)
	assert.Empty(t, d.RecentStockIn[0].OwnerEmail)

	all, err := report.LoadDashboard(context.Background(), f.db, f.admin)
	require.NoError(t, err)
	require.Len(t, all.RecentStockIn, 2)
	assert.Equal(t, "bob@saj.id", all.RecentStockIn[0].OwnerEmail)
	assert.Equal(t, "alice@saj.id", all.RecentStockIn[1].OwnerEmail)
	require.Len(t, all.RecentStockOut, 2)
	assert.Equal(t, "alice@saj.id", all.RecentStockOut[0].OwnerEmail)

	empty, err := report.LoadDashboard(context.Background(), f.db, testkit.Profile(t, f.db, "new@saj.id", models.RoleUser))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalStockIn)
	assert.Empty(t, empty.RecentStockIn)
}

func TestSummaryWorkbookRoundTrip(t *testing.T) {
	variant := "A"
	buf, err := report.SummaryWorkbook([]ledger.Balance{
		{ProductID: "p1", ProductName: "Kayu", Variant: &variant, TotalIn: 10, TotalOut: 4, CurrentStock: 6},
		{ProductID: "p2", ProductName: "Semen", TotalOut: 3, CurrentStock: -3},
	}, "01/04/2024 - 30/04/2024")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Ringkasan")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Laporan Ringkasan Stok", rows[0][0])
	assert.Equal(t, "Periode: 01/04/2024 - 30/04/2024", rows[1][0])
	assert.Equal(t, []string{"1", "Kayu", "A", "10", "4", "6"}, rows[4])
	assert.Equal(t, []string{"2", "Semen", "-", "0", "3", "-3"}, rows[5])
}

func TestExportEndpoint(t *testing.T) {
	f := seed(t)
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	api := app.Group("/api", testkit.AsActor(f.alice))
	api.Get("/reports/summary", report.SummaryHandler())
	api.Get("/reports/export", report.ExportHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/export?type=stockout&start_date=2024-04-03", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, report.XLSXContentType, resp.Header.Get(fiber.HeaderContentType))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	wb, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Stok Keluar")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Kayu", rows[4][2])
	assert.Equal(t, "B", rows[4][3])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/export?type=pdf", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/summary?name=Kayu", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary []ledger.Balance
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Len(t, summary, 2)
}
