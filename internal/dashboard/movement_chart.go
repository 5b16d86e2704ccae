package dashboard

import (
	"context"
	"sort"
	"strconv"
	"time"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/inventory"
	"gudang-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

var defaultCount = map[Period]int{
	PeriodDaily:   7,
	PeriodWeekly:  8,
	PeriodMonthly: 12,
}

type ChartPoint struct {
	Label    string `json:"label"` // bucket start, YYYY-MM-DD
	StockIn  int    `json:"stock_in"`
	StockOut int    `json:"stock_out"`
	Net      int    `json:"net"`
}

type ChartTotals struct {
	StockIn  int `json:"stock_in"`
	StockOut int `json:"stock_out"`
	Net      int `json:"net"`
}

type MovementChart struct {
	Period      Period       `json:"period"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartTotals  `json:"grand_totals"`
}

// bucketStart truncates t to the start of its day, ISO week (Monday) or month.
func bucketStart(p Period, t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch p {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return day
}

func step(p Period, t time.Time, n int) time.Time {
	switch p {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonthly:
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(0, 0, n)
}

// Window returns the first bucket start and the exclusive end for count
// buckets ending with the one containing now.
func Window(p Period, count int, now time.Time) (start, end time.Time) {
	last := bucketStart(p, now)
	return step(p, last, -(count - 1)), step(p, last, 1)
}

// BuildMovementChart buckets the actor's stock movements. Every bucket in the
// window is present, empty ones with zeros.
func BuildMovementChart(ctx context.Context, db *gorm.DB, actor scope.Actor, p Period, count int, now time.Time) (MovementChart, error) {
	start, end := Window(p, count, now)

	// EventFilter.End is an inclusive day
	f := inventory.EventFilter{Start: start, End: end.AddDate(0, 0, -1)}
	ins, outs, err := inventory.LoadEvents(ctx, db, actor, f)
	if err != nil {
		return MovementChart{}, err
	}

	// keyed by label; labels sort chronologically
	buckets := make(map[string]*ChartPoint, count)
	keys := make([]string, 0, count)
	for b := start; b.Before(end); b = step(p, b, 1) {
		label := b.Format("2006-01-02")
		buckets[label] = &ChartPoint{Label: label}
		keys = append(keys, label)
	}
	labelOf := func(t time.Time) string {
		return bucketStart(p, t.In(now.Location())).Format("2006-01-02")
	}

	for _, in := range ins {
		if pt, ok := buckets[labelOf(in.Date)]; ok {
			pt.StockIn += in.Quantity
		}
	}
	for _, out := range outs {
		if pt, ok := buckets[labelOf(out.Date)]; ok {
			pt.StockOut += out.Quantity
		}
	}
	sort.Strings(keys)

	chart := MovementChart{
		Period: p,
		From:   start.Format("2006-01-02"),
		To:     end.AddDate(0, 0, -1).Format("2006-01-02"),
		Points: make([]ChartPoint, 0, len(keys)),
	}
	for _, k := range keys {
		pt := buckets[k]
		pt.Net = pt.StockIn - pt.StockOut
		chart.Points = append(chart.Points, *pt)

		chart.GrandTotals.StockIn += pt.StockIn
		chart.GrandTotals.StockOut += pt.StockOut
	}
	chart.GrandTotals.Net = chart.GrandTotals.StockIn - chart.GrandTotals.StockOut
	return chart, nil
}

// GET /api/dashboard/movement-chart?period=daily&count=7
func MovementChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		period := Period(c.Query("period", string(PeriodDaily)))
		count, ok := defaultCount[period]
		if !ok {
			period, count = PeriodDaily, defaultCount[PeriodDaily]
		}
		if v := c.Query("count"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 366 {
				return apperr.Validation("count tidak valid")
			}
			count = n
		}

		chart, err := BuildMovementChart(c.UserContext(), database.DB, actor, period, count, time.Now())
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat grafik")
		}
		return c.JSON(chart)
	}
}
