package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportRow is one product read from a spreadsheet.
type ImportRow struct {
	Name     string
	Variants []string
}

type ImportResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
	Message string   `json:"message"`
}

// ParseProductSheet reads the first sheet: column A is the product name,
// column B an optional comma-separated variant list. A header row is
// recognized by "NAMA" or "PRODUK" in A1. Rows repeating a name merge.
func ParseProductSheet(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("File Excel tidak bisa dibaca")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("File Excel tidak memiliki sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Validation("Sheet tidak bisa dibaca")
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 {
		first := strings.ToUpper(strings.TrimSpace(rows[0][0]))
		if strings.Contains(first, "NAMA") || strings.Contains(first, "PRODUK") {
			start = 1
		}
	}

	index := make(map[string]int)
	out := make([]ImportRow, 0, len(rows))
	for _, row := range rows[start:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		var variants []string
		if len(row) > 1 {
			for _, v := range strings.Split(row[1], ",") {
				if v = strings.TrimSpace(v); v != "" {
					variants = append(variants, v)
				}
			}
		}

		if i, ok := index[name]; ok {
			out[i].Variants = append(out[i].Variants, variants...)
			continue
		}
		index[name] = len(out)
		out = append(out, ImportRow{Name: name, Variants: variants})
	}

	if len(out) == 0 {
		return nil, apperr.Validation("File Excel kosong")
	}
	return out, nil
}

// ImportProducts creates one product group per row. Names that already exist
// in the actor's scope are skipped.
func ImportProducts(ctx context.Context, db *gorm.DB, actor scope.Actor, rows []ImportRow) (ImportResult, error) {
	res := ImportResult{Created: []string{}, Skipped: []string{}}
	for _, r := range rows {
		var count int64
		if err := scope.Apply(db.WithContext(ctx).Model(&models.Product{}), actor, "owner_id").
			Where("name = ?", r.Name).
			Count(&count).Error; err != nil {
			return res, err
		}
		if count > 0 {
			res.Skipped = append(res.Skipped, r.Name)
			continue
		}
		if _, err := CreateProductGroup(ctx, db, actor, r.Name, r.Variants); err != nil {
			return res, err
		}
		res.Created = append(res.Created, r.Name)
	}
	res.Message = fmt.Sprintf("%d produk ditambahkan, %d dilewati", len(res.Created), len(res.Skipped))
	return res, nil
}

// POST /api/products/import (multipart, field "file")
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apperr.Validation("File harus diunggah")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return apperr.Validation("Hanya file .xlsx yang didukung")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return apperr.Wrap(err, "File tidak bisa dibuka")
		}
		defer file.Close()

		rows, err := ParseProductSheet(file)
		if err != nil {
			return err
		}

		res, err := ImportProducts(c.UserContext(), database.DB, actor, rows)
		if err != nil {
			return apperr.Wrap(err, "Gagal mengimpor produk")
		}
		return c.JSON(res)
	}
}
