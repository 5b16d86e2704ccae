// Package ledger derives stock balances and movement history from the two
// append-only event streams. Every function here is total: incomplete rows
// degrade to placeholder labels, nothing returns an error.
package ledger

import (
	"sort"
	"time"
)

const (
	// Placeholder labels a missing related name.
	Placeholder = "-"
	// UnknownSource labels a stock-in whose source branch is missing.
	UnknownSource = "SUPPLIER"
)

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Entry is one stock-in or stock-out row with its related names inlined.
type Entry struct {
	ID           string
	ProductID    string
	ProductName  string
	Variant      *string
	Quantity     int
	Counterparty string // source branch for in, destination branch for out
	Category     string
	OwnerID      string
	Date         time.Time
}

// Key identifies a sellable item. A nil and an empty variant are the same key.
type Key struct {
	ProductID string
	Variant   string
}

func KeyOf(productID string, variant *string) Key {
	k := Key{ProductID: productID}
	if variant != nil {
		k.Variant = *variant
	}
	return k
}

type Balance struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Variant      *string `json:"variant"`
	TotalIn      int     `json:"total_in"`
	TotalOut     int     `json:"total_out"`
	CurrentStock int     `json:"current_stock"`
}

// Ledger maps each key to its running balance.
type Ledger struct {
	balances map[Key]*Balance
}

// Summarize scans ins and outs once each. Keys seen only in outs end up with
// a negative CurrentStock; overdraft is reported, not rejected.
func Summarize(ins, outs []Entry) *Ledger {
	l := &Ledger{balances: make(map[Key]*Balance)}
	for _, e := range ins {
		b := l.balance(e)
		b.TotalIn += e.Quantity
		b.CurrentStock += e.Quantity
	}
	for _, e := range outs {
		b := l.balance(e)
		b.TotalOut += e.Quantity
		b.CurrentStock -= e.Quantity
	}
	return l
}

func (l *Ledger) balance(e Entry) *Balance {
	k := KeyOf(e.ProductID, e.Variant)
	b, ok := l.balances[k]
	if !ok {
		b = &Balance{ProductID: e.ProductID, ProductName: Label(e.ProductName, Placeholder), Variant: e.Variant}
		l.balances[k] = b
	} else if b.ProductName == Placeholder && e.ProductName != "" {
		b.ProductName = e.ProductName
	}
	return b
}

// Get returns the balance for k and whether any event touched it.
func (l *Ledger) Get(k Key) (Balance, bool) {
	b, ok := l.balances[k]
	if !ok {
		return Balance{ProductID: k.ProductID}, false
	}
	return *b, true
}

func (l *Ledger) Len() int { return len(l.balances) }

// Rows returns every balance ordered by product name, then variant (no
// variant first), then product id.
func (l *Ledger) Rows() []Balance {
	rows := make([]Balance, 0, len(l.balances))
	for _, b := range l.balances {
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		vi, vj := variantOf(rows[i].Variant), variantOf(rows[j].Variant)
		if vi != vj {
			return vi < vj
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	return rows
}

// Movement is one row of a product's history.
type Movement struct {
	ID           string       `json:"id"`
	Type         MovementType `json:"type"`
	ProductID    string       `json:"product_id"`
	ProductName  string       `json:"product_name"`
	Variant      *string      `json:"variant"`
	Quantity     int          `json:"quantity"`
	Counterparty string       `json:"counterparty"`
	Category     string       `json:"category"`
	OwnerID      string       `json:"owner_id"`
	OwnerEmail   string       `json:"owner_email,omitempty"`
	Date         time.Time    `json:"date"`
}

// History merges the raw ins and outs into one sequence, newest first. Rows
// with equal dates keep their input order, ins before outs.
func History(ins, outs []Entry) []Movement {
	moves := make([]Movement, 0, len(ins)+len(outs))
	for _, e := range ins {
		moves = append(moves, movement(MovementIn, e, UnknownSource))
	}
	for _, e := range outs {
		moves = append(moves, movement(MovementOut, e, Placeholder))
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Date.After(moves[j].Date)
	})
	return moves
}

func movement(t MovementType, e Entry, missingCounterparty string) Movement {
	return Movement{
		ID:           e.ID,
		Type:         t,
		ProductID:    e.ProductID,
		ProductName:  Label(e.ProductName, Placeholder),
		Variant:      e.Variant,
		Quantity:     e.Quantity,
		Counterparty: Label(e.Counterparty, missingCounterparty),
		Category:     Label(e.Category, Placeholder),
		OwnerID:      e.OwnerID,
		Date:         e.Date,
	}
}

// Totals sums quantities across both streams.
func Totals(ins, outs []Entry) (totalIn, totalOut int) {
	for _, e := range ins {
		totalIn += e.Quantity
	}
	for _, e := range outs {
		totalOut += e.Quantity
	}
	return totalIn, totalOut
}

// Label returns s, or fallback when s is blank.
func Label(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// VariantLabel renders a variant for display, Placeholder when there is none.
func VariantLabel(v *string) string {
	return Label(variantOf(v), Placeholder)
}

func variantOf(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
