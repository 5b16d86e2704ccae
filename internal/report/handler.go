package report

import (
	"bytes"
	"fmt"
	"time"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/inventory"

	"github.com/gofiber/fiber/v2"
)

// reportFilter reads the shared query parameters. name widens product_id to
// every variant row of a logical product. Reports are never truncated.
func reportFilter(c *fiber.Ctx) (inventory.EventFilter, error) {
	f, err := inventory.EventFilterFromQuery(c)
	if err != nil {
		return f, err
	}
	f.Limit = 0

	if name := c.Query("name"); name != "" {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return f, err
		}
		ids, err := inventory.ProductIDsByName(c.UserContext(), database.DB, actor, name)
		if err != nil {
			return f, apperr.Wrap(err, "Gagal memuat produk")
		}
		if len(ids) == 0 {
			return f, apperr.NotFound("Produk tidak ditemukan")
		}
		f.ProductIDs = ids
	}
	return f, nil
}

func periodLabel(f inventory.EventFilter) string {
	const layout = "02/01/2006"
	switch {
	case !f.Start.IsZero() && !f.End.IsZero():
		return f.Start.Format(layout) + " - " + f.End.Format(layout)
	case !f.Start.IsZero():
		return "sejak " + f.Start.Format(layout)
	case !f.End.IsZero():
		return "sampai " + f.End.Format(layout)
	}
	return "semua"
}

// GET /api/reports/summary?start_date=&end_date=&product_id=&name=
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := reportFilter(c)
		if err != nil {
			return err
		}

		rows, err := Summary(c.UserContext(), database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat laporan")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/stock-in
func StockInReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := reportFilter(c)
		if err != nil {
			return err
		}

		rows, err := StockInReport(c.UserContext(), database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat laporan")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/stock-out
func StockOutReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := reportFilter(c)
		if err != nil {
			return err
		}

		rows, err := StockOutReport(c.UserContext(), database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat laporan")
		}
		return c.JSON(rows)
	}
}

// GET /api/reports/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		d, err := LoadDashboard(c.UserContext(), database.DB, actor)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat dashboard")
		}
		return c.JSON(d)
	}
}

// GET /api/reports/export?type=summary|stockin|stockout&start_date=&end_date=
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := reportFilter(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()
		period := periodLabel(f)
		kind := c.Query("type", ExportSummary)

		var buf *bytes.Buffer
		switch kind {
		case ExportSummary:
			rows, err := Summary(ctx, database.DB, actor, f)
			if err != nil {
				return apperr.Wrap(err, "Gagal memuat laporan")
			}
			buf, err = SummaryWorkbook(rows, period)
			if err != nil {
				return apperr.Wrap(err, "Gagal membuat file laporan")
			}
		case ExportStockIn:
			rows, err := StockInReport(ctx, database.DB, actor, f)
			if err != nil {
				return apperr.Wrap(err, "Gagal memuat laporan")
			}
			buf, err = StockInWorkbook(rows, period)
			if err != nil {
				return apperr.Wrap(err, "Gagal membuat file laporan")
			}
		case ExportStockOut:
			rows, err := StockOutReport(ctx, database.DB, actor, f)
			if err != nil {
				return apperr.Wrap(err, "Gagal memuat laporan")
			}
			buf, err = StockOutWorkbook(rows, period)
			if err != nil {
				return apperr.Wrap(err, "Gagal membuat file laporan")
			}
		default:
			return apperr.Validation("Jenis laporan tidak dikenal")
		}

		filename := fmt.Sprintf("laporan-%s-%s.xlsx", kind, time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, XLSXContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
