package inventory

import (
	"strings"

	"gudang-backend/internal/models"
)

// ProductGroup is one logical product: every row sharing a name.
type ProductGroup struct {
	Name     string
	Variants []*string // distinct, input order; nil is a real entry
	Rows     []models.Product
}

// HasNullVariant reports whether the group holds a row without a variant.
func (g ProductGroup) HasNullVariant() bool {
	for _, v := range g.Variants {
		if v == nil {
			return true
		}
	}
	return false
}

// GroupProducts collapses rows by name. Groups come out in order of first
// appearance and keep their rows in input order.
func GroupProducts(rows []models.Product) []ProductGroup {
	index := make(map[string]int)
	groups := make([]ProductGroup, 0)

	for _, p := range rows {
		i, ok := index[p.Name]
		if !ok {
			i = len(groups)
			index[p.Name] = i
			groups = append(groups, ProductGroup{Name: p.Name})
		}
		g := &groups[i]
		if !containsVariant(g.Variants, p.Variant) {
			g.Variants = append(g.Variants, p.Variant)
		}
		g.Rows = append(g.Rows, p)
	}
	return groups
}

// FlattenGroups is the inverse of GroupProducts.
func FlattenGroups(groups []ProductGroup) []models.Product {
	n := 0
	for _, g := range groups {
		n += len(g.Rows)
	}
	rows := make([]models.Product, 0, n)
	for _, g := range groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

func containsVariant(vs []*string, v *string) bool {
	for _, x := range vs {
		if sameVariant(x, v) {
			return true
		}
	}
	return false
}

func sameVariant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NormalizeVariant trims v; blank means no variant.
func NormalizeVariant(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeVariants trims and de-duplicates the requested variants. An empty
// request yields the single "no variant" entry.
func NormalizeVariants(in []string) []*string {
	out := make([]*string, 0, len(in))
	for _, raw := range in {
		v := NormalizeVariant(&raw)
		if v == nil || containsVariant(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return []*string{nil}
	}
	return out
}
