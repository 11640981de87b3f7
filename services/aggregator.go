package services

import (
	"fmt"
	"math"

	"storefront/models"
)

type sizeQty struct {
	name string
	qty  int
}

// OrderLine holds the quantity state for one catalog item. Items with sizes
// keep one counter per size; all others keep a single counter.
type OrderLine struct {
	item   models.CatalogItem
	qty    int
	bySize []sizeQty // nil for unsized items
}

// Item returns the catalog entry this line was created for.
func (l *OrderLine) Item() models.CatalogItem {
	return l.item
}

// Sized reports whether quantities are tracked per size.
func (l *OrderLine) Sized() bool {
	return l.bySize != nil
}

// SizeNames returns the tracked size names in catalog order.
func (l *OrderLine) SizeNames() []string {
	names := make([]string, len(l.bySize))
	for i, s := range l.bySize {
		names[i] = s.name
	}
	return names
}

func (l *OrderLine) sizeIndex(name string) int {
	for i, s := range l.bySize {
		if s.name == name {
			return i
		}
	}
	return -1
}

// Aggregator owns the order lines of one session. It is not safe for
// concurrent use.
type Aggregator struct {
	lines []*OrderLine
}

// NewAggregator creates one zeroed OrderLine per item, in catalog order.
func NewAggregator(items []models.CatalogItem) *Aggregator {
	a := &Aggregator{lines: make([]*OrderLine, 0, len(items))}
	for _, it := range items {
		line := &OrderLine{item: it}
		if it.Sized() {
			line.bySize = make([]sizeQty, 0, len(it.Sizes))
			for _, s := range it.Sizes {
				if line.sizeIndex(s.Name) >= 0 {
					continue
				}
				line.bySize = append(line.bySize, sizeQty{name: s.Name})
			}
		}
		a.lines = append(a.lines, line)
	}
	return a
}

// Lines returns the order lines in creation order.
func (a *Aggregator) Lines() []*OrderLine {
	return a.lines
}

// Line returns the line at index i, or nil when out of range.
func (a *Aggregator) Line(i int) *OrderLine {
	if i < 0 || i >= len(a.lines) {
		return nil
	}
	return a.lines[i]
}

// LineByID returns the first line whose item id matches.
func (a *Aggregator) LineByID(id string) *OrderLine {
	for _, l := range a.lines {
		if l.item.ID == id {
			return l
		}
	}
	return nil
}

// Len is the number of order lines.
func (a *Aggregator) Len() int {
	return len(a.lines)
}

// AdjustQuantity adds delta to the line (or to the named size of a sized
// line), clamping at zero, and returns the new quantity. An unknown size on
// a sized line is a no-op returning 0. size is ignored for unsized lines.
func (a *Aggregator) AdjustQuantity(line *OrderLine, delta int, size string) int {
	if line == nil {
		return 0
	}
	if !line.Sized() {
		line.qty = clampAdd(line.qty, delta)
		return line.qty
	}
	i := line.sizeIndex(size)
	if i < 0 {
		return 0
	}
	line.bySize[i].qty = clampAdd(line.bySize[i].qty, delta)
	return line.bySize[i].qty
}

// Quantity returns the current quantity for the line (or its named size).
func (a *Aggregator) Quantity(line *OrderLine, size string) int {
	if line == nil {
		return 0
	}
	if !line.Sized() {
		return line.qty
	}
	if i := line.sizeIndex(size); i >= 0 {
		return line.bySize[i].qty
	}
	return 0
}

// PriceFor resolves the unit price. For sized lines the first size with an
// exact name match wins; with no match, or a match without a price, the item
// base price applies. Missing base price counts as 0.
func (a *Aggregator) PriceFor(line *OrderLine, size string) int64 {
	if line == nil {
		return 0
	}
	if line.Sized() {
		for _, s := range line.item.Sizes {
			if s.Name != size {
				continue
			}
			if s.Price != nil {
				return *s.Price
			}
			break
		}
	}
	return line.item.BasePrice()
}

// Reset zeroes every quantity.
func (a *Aggregator) Reset() {
	for _, l := range a.lines {
		l.qty = 0
		for i := range l.bySize {
			l.bySize[i].qty = 0
		}
	}
}

// BuildSummary prices every non-zero quantity. Lines follow creation order;
// sizes follow catalog order within a line. Subtotals and the total saturate
// at the int64 bounds instead of wrapping.
func (a *Aggregator) BuildSummary() models.OrderSummary {
	var sum models.OrderSummary
	emit := func(desc string, unit int64, qty int) {
		sub := mulSat(unit, int64(qty))
		sum.Lines = append(sum.Lines, models.OrderSummaryLine{
			Description: desc,
			UnitPrice:   unit,
			Quantity:    qty,
			Subtotal:    sub,
		})
		sum.Total = addSat(sum.Total, sub)
	}
	for _, l := range a.lines {
		if !l.Sized() {
			if l.qty > 0 {
				emit(l.item.Name, a.PriceFor(l, ""), l.qty)
			}
			continue
		}
		for _, s := range l.bySize {
			if s.qty > 0 {
				emit(fmt.Sprintf("%s (%s)", l.item.Name, s.name), a.PriceFor(l, s.name), s.qty)
			}
		}
	}
	sum.IsEmpty = len(sum.Lines) == 0
	return sum
}

// clampAdd is max(0, cur+delta) for cur >= 0, saturating at math.MaxInt.
func clampAdd(cur, delta int) int {
	if delta > 0 && cur > math.MaxInt-delta {
		return math.MaxInt
	}
	n := cur + delta
	if n < 0 {
		return 0
	}
	return n
}

func addSat(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

// mulSat multiplies a price by a positive quantity.
func mulSat(unit, qty int64) int64 {
	if unit == 0 || qty == 0 {
		return 0
	}
	p := unit * qty
	if p/qty == unit {
		return p
	}
	if unit > 0 {
		return math.MaxInt64
	}
	return math.MinInt64
}
