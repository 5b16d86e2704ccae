package inventory

import (
	"testing"

	"gudang-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestGroupProductsByName(t *testing.T) {
	rows := []models.Product{
		{ID: "1", Name: "Kayu", Variant: strp("Merah")},
		{ID: "2", Name: "Besi"},
		{ID: "3", Name: "Kayu", Variant: strp("Biru")},
	}

	groups := GroupProducts(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "Kayu", groups[0].Name)
	assert.Len(t, groups[0].Rows, 2)
	assert.Equal(t, []*string{strp("Merah"), strp("Biru")}, groups[0].Variants)
	assert.Equal(t, "Besi", groups[1].Name)
}

func TestGroupProductsNullVariantIsDistinct(t *testing.T) {
	groups := GroupProducts([]models.Product{
		{ID: "1", Name: "Kayu"},
		{ID: "2", Name: "Kayu", Variant: strp("Merah")},
	})
	require.Len(t, groups, 1)
	g := groups[0]
	require.Len(t, g.Variants, 2)
	assert.Nil(t, g.Variants[0])
	assert.Equal(t, "Merah", *g.Variants[1])
	assert.True(t, g.HasNullVariant())

	single := GroupProducts([]models.Product{{ID: "9", Name: "Semen"}})
	require.Len(t, single, 1)
	assert.Equal(t, []*string{nil}, single[0].Variants)
}

func TestGroupProductsIdempotent(t *testing.T) {
	rows := []models.Product{
		{ID: "1", Name: "Kayu", Variant: strp("Merah")},
		{ID: "2", Name: "Besi"},
		{ID: "3", Name: "Kayu"},
		{ID: "4", Name: "Besi", Variant: strp("10mm")},
	}
	once := GroupProducts(rows)
	twice := GroupProducts(FlattenGroups(once))
	assert.Equal(t, once, twice)
}

func TestNormalizeVariants(t *testing.T) {
	assert.Equal(t, []*string{nil}, NormalizeVariants(nil))
	assert.Equal(t, []*string{nil}, NormalizeVariants([]string{" ", ""}))
	assert.Equal(t, []*string{strp("Merah"), strp("Biru")}, NormalizeVariants([]string{" Merah", "Biru", "Merah "}))
	assert.Nil(t, NormalizeVariant(strp("  ")))
}
