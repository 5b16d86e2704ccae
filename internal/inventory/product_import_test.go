package inventory

import (
	"bytes"
	"context"
	"testing"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/models"
	"gudang-backend/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestParseProductSheet(t *testing.T) {
	rows, err := ParseProductSheet(sheetBytes(t, [][]any{
		{"Nama Produk", "Varian"},
		{"Kayu", "Merah, Biru"},
		{" Besi "},
		{""},
		{"Kayu", "Hijau"},
	}))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ImportRow{Name: "Kayu", Variants: []string{"Merah", "Biru", "Hijau"}}, rows[0])
	assert.Equal(t, "Besi", rows[1].Name)
	assert.Empty(t, rows[1].Variants)
}

func TestParseProductSheetRejectsEmptyAndGarbage(t *testing.T) {
	_, err := ParseProductSheet(sheetBytes(t, [][]any{{"Nama Produk"}}))
	assert.Equal(t, apperr.KindValidation, apperr.Classify(err).Kind)

	_, err = ParseProductSheet(bytes.NewReader([]byte("bukan excel")))
	assert.Equal(t, apperr.KindValidation, apperr.Classify(err).Kind)
}

func TestImportProductsSkipsExisting(t *testing.T) {
	db := testkit.Open(t)
	ctx := context.Background()
	alice := testkit.Profile(t, db, "alice@saj.id", models.RoleUser)

	_, err := CreateProductGroup(ctx, db, alice, "Besi", nil)
	require.NoError(t, err)

	res, err := ImportProducts(ctx, db, alice, []ImportRow{
		{Name: "Kayu", Variants: []string{"A", "B"}},
		{Name: "Besi"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kayu"}, res.Created)
	assert.Equal(t, []string{"Besi"}, res.Skipped)

	all, err := ListProducts(ctx, db, alice)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
