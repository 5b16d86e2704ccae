package inventory

import (
	"strconv"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/ledger"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"
	"gudang-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const maxEventRows = 1000

type CreateStockInRequest struct {
	ProductID         string  `json:"product_id" validate:"required"`
	Variant           *string `json:"variant"`
	Quantity          int     `json:"quantity" validate:"gt=0"`
	SourceID          string  `json:"source_id" validate:"required"`
	InboundCategoryID *string `json:"inbound_category_id"`
	PlateNumber       string  `json:"plate_number"`
	Driver            string  `json:"driver"`
	DeliveryNote      string  `json:"delivery_note"`
	ReturnBranchID    *string `json:"return_branch_id"`
	Date              string  `json:"date"`
}

type CreateStockOutRequest struct {
	ProductID          string  `json:"product_id" validate:"required"`
	Variant            *string `json:"variant"`
	Quantity           int     `json:"quantity" validate:"gt=0"`
	DestinationID      string  `json:"destination_id" validate:"required"`
	OutboundCategoryID string  `json:"outbound_category_id" validate:"required"`
	Date               string  `json:"date"`
}

type StockInResponse struct {
	ID                  string  `json:"id"`
	ProductID           string  `json:"product_id"`
	ProductName         string  `json:"product_name"`
	Variant             *string `json:"variant"`
	Quantity            int     `json:"quantity"`
	SourceID            string  `json:"source_id"`
	SourceName          string  `json:"source_name"`
	InboundCategoryID   *string `json:"inbound_category_id"`
	InboundCategoryName string  `json:"inbound_category_name"`
	PlateNumber         string  `json:"plate_number"`
	Driver              string  `json:"driver"`
	DeliveryNote        string  `json:"delivery_note"`
	ReturnBranchID      *string `json:"return_branch_id"`
	ReturnBranchName    string  `json:"return_branch_name,omitempty"`
	OwnerID             string  `json:"owner_id"`
	OwnerEmail          string  `json:"owner_email,omitempty"`
	Date                string  `json:"date"`
}

type StockOutResponse struct {
	ID                   string  `json:"id"`
	ProductID            string  `json:"product_id"`
	ProductName          string  `json:"product_name"`
	Variant              *string `json:"variant"`
	Quantity             int     `json:"quantity"`
	DestinationID        string  `json:"destination_id"`
	DestinationName      string  `json:"destination_name"`
	OutboundCategoryID   string  `json:"outbound_category_id"`
	OutboundCategoryName string  `json:"outbound_category_name"`
	OwnerID              string  `json:"owner_id"`
	OwnerEmail           string  `json:"owner_email,omitempty"`
	Date                 string  `json:"date"`
}

// NewStockInResponse renders in with placeholder names for missing embeds.
func NewStockInResponse(in models.StockIn, owners scope.Owners) StockInResponse {
	e := StockInEntry(in)
	res := StockInResponse{
		ID:                  in.ID,
		ProductID:           in.ProductID,
		ProductName:         ledger.Label(e.ProductName, ledger.Placeholder),
		Variant:             in.Variant,
		Quantity:            in.Quantity,
		SourceID:            in.SourceID,
		SourceName:          ledger.Label(e.Counterparty, ledger.UnknownSource),
		InboundCategoryID:   in.InboundCategoryID,
		InboundCategoryName: ledger.Label(e.Category, ledger.Placeholder),
		PlateNumber:         in.PlateNumber,
		Driver:              in.Driver,
		DeliveryNote:        in.DeliveryNote,
		ReturnBranchID:      in.ReturnBranchID,
		OwnerID:             in.OwnerID,
		Date:                in.Date.Format("2006-01-02 15:04:05"),
	}
	if in.ReturnBranch != nil {
		res.ReturnBranchName = in.ReturnBranch.Name
	}
	if owners != nil {
		res.OwnerEmail = owners.Email(in.OwnerID)
	}
	return res
}

// NewStockOutResponse renders out with placeholder names for missing embeds.
func NewStockOutResponse(out models.StockOut, owners scope.Owners) StockOutResponse {
	res := StockOutResponse{
		ID:                   out.ID,
		ProductID:            out.ProductID,
		ProductName:          ledger.Label(out.Product.Name, ledger.Placeholder),
		Variant:              out.Variant,
		Quantity:             out.Quantity,
		DestinationID:        out.DestinationID,
		DestinationName:      ledger.Label(out.Destination.Name, ledger.Placeholder),
		OutboundCategoryID:   out.OutboundCategoryID,
		OutboundCategoryName: ledger.Label(out.OutboundCategory.Name, ledger.Placeholder),
		OwnerID:              out.OwnerID,
		Date:                 out.Date.Format("2006-01-02 15:04:05"),
	}
	if owners != nil {
		res.OwnerEmail = owners.Email(out.OwnerID)
	}
	return res
}

// EventFilterFromQuery reads start_date, end_date, product_id and limit.
func EventFilterFromQuery(c *fiber.Ctx) (EventFilter, error) {
	var f EventFilter
	var err error

	if f.Start, err = ParseDay(c.Query("start_date")); err != nil {
		return f, err
	}
	if f.End, err = ParseDay(c.Query("end_date")); err != nil {
		return f, err
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.End.Before(f.Start) {
		return f, apperr.Validation("Tanggal akhir harus setelah tanggal awal")
	}
	if v := c.Query("product_id"); v != "" {
		f.ProductIDs = []string{v}
	}

	f.Limit = maxEventRows
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return f, apperr.Validation("limit tidak valid")
		}
		if n < f.Limit {
			f.Limit = n
		}
	}
	return f, nil
}

// POST /api/stock-in
func CreateStockInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body CreateStockInRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		if err := validate.Struct(body, "Produk, jumlah (lebih dari 0) dan sumber harus diisi"); err != nil {
			return err
		}
		date, err := ParseEventDate(body.Date)
		if err != nil {
			return err
		}

		in, err := CreateStockIn(c.UserContext(), database.DB, actor, models.StockIn{
			ProductID:         body.ProductID,
			Variant:           body.Variant,
			Quantity:          body.Quantity,
			SourceID:          body.SourceID,
			InboundCategoryID: body.InboundCategoryID,
			PlateNumber:       body.PlateNumber,
			Driver:            body.Driver,
			DeliveryNote:      body.DeliveryNote,
			ReturnBranchID:    body.ReturnBranchID,
			Date:              date,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(in)
	}
}

// POST /api/stock-out
func CreateStockOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body CreateStockOutRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		if err := validate.Struct(body, "Produk, jumlah (lebih dari 0), tujuan dan jenis harus diisi"); err != nil {
			return err
		}
		date, err := ParseEventDate(body.Date)
		if err != nil {
			return err
		}

		out, err := CreateStockOut(c.UserContext(), database.DB, actor, models.StockOut{
			ProductID:          body.ProductID,
			Variant:            body.Variant,
			Quantity:           body.Quantity,
			DestinationID:      body.DestinationID,
			OutboundCategoryID: body.OutboundCategoryID,
			Date:               date,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// GET /api/stock-in?start_date=2024-01-01&end_date=2024-01-31&product_id=...
func ListStockInHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := EventFilterFromQuery(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()

		rows, err := ListStockIns(ctx, database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat stok masuk")
		}

		ownerIDs := make([]string, 0, len(rows))
		for _, r := range rows {
			ownerIDs = append(ownerIDs, r.OwnerID)
		}
		owners := scope.OwnerEmails(ctx, database.DB, actor, ownerIDs)

		res := make([]StockInResponse, 0, len(rows))
		for _, r := range rows {
			res = append(res, NewStockInResponse(r, owners))
		}
		return c.JSON(res)
	}
}

// GET /api/stock-out
func ListStockOutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		f, err := EventFilterFromQuery(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()

		rows, err := ListStockOuts(ctx, database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat stok keluar")
		}

		ownerIDs := make([]string, 0, len(rows))
		for _, r := range rows {
			ownerIDs = append(ownerIDs, r.OwnerID)
		}
		owners := scope.OwnerEmails(ctx, database.DB, actor, ownerIDs)

		res := make([]StockOutResponse, 0, len(rows))
		for _, r := range rows {
			res = append(res, NewStockOutResponse(r, owners))
		}
		return c.JSON(res)
	}
}

// GET /api/stock/history?product_id=...  or  ?name=...
// Merged in/out movements, newest first. name covers every variant row.
func StockHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()

		var f EventFilter
		switch {
		case c.Query("product_id") != "":
			f.ProductIDs = []string{c.Query("product_id")}
		case c.Query("name") != "":
			ids, err := ProductIDsByName(ctx, database.DB, actor, c.Query("name"))
			if err != nil {
				return apperr.Wrap(err, "Gagal memuat riwayat stok")
			}
			if len(ids) == 0 {
				return apperr.NotFound("Produk tidak ditemukan")
			}
			f.ProductIDs = ids
		default:
			return apperr.Validation("product_id atau name harus diisi")
		}

		ins, outs, err := LoadEvents(ctx, database.DB, actor, f)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat riwayat stok")
		}
		inEntries, outEntries := Entries(ins, outs)
		moves := ledger.History(inEntries, outEntries)

		ownerIDs := make([]string, 0, len(moves))
		for _, m := range moves {
			ownerIDs = append(ownerIDs, m.OwnerID)
		}
		if owners := scope.OwnerEmails(ctx, database.DB, actor, ownerIDs); owners != nil {
			for i := range moves {
				moves[i].OwnerEmail = owners.Email(moves[i].OwnerID)
			}
		}
		return c.JSON(moves)
	}
}

// GET /api/stock/form-options
func StockFormOptionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		opts, err := LoadFormOptions(c.UserContext(), database.DB, actor)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat data form")
		}
		return c.JSON(opts)
	}
}
