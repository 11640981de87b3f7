package services

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/lang"
	"storefront/models"
)

// OrderCardButton is one inline button (text + callback_data or url).
type OrderCardButton struct {
	Text         string
	CallbackData string
	URL          string // if set, use as URL button instead of callback
}

// OrderCardContent is the text and optional inline keyboard for a card.
type OrderCardContent struct {
	Text    string
	Buttons [][]OrderCardButton
}

// Callback data understood by the menu card.
const (
	CallbackPlaceOrder = "order"
	CallbackConfirm    = "confirm"
	CallbackClear      = "clear"
	CallbackNoop       = "noop"
	callbackQtyPrefix  = "q:"
	unsizedMarker      = "_"
)

// QtyCallback builds "q:<line>:<size>:<delta>". sizeIdx < 0 marks an unsized line.
func QtyCallback(line, sizeIdx, delta int) string {
	size := unsizedMarker
	if sizeIdx >= 0 {
		size = strconv.Itoa(sizeIdx)
	}
	return fmt.Sprintf("%s%d:%s:%+d", callbackQtyPrefix, line, size, delta)
}

// ParseQtyCallback is the inverse of QtyCallback. ok is false for any other data.
func ParseQtyCallback(data string) (line, sizeIdx, delta int, ok bool) {
	if !strings.HasPrefix(data, callbackQtyPrefix) {
		return 0, 0, 0, false
	}
	parts := strings.Split(strings.TrimPrefix(data, callbackQtyPrefix), ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	line, err := strconv.Atoi(parts[0])
	if err != nil || line < 0 {
		return 0, 0, 0, false
	}
	sizeIdx = -1
	if parts[1] != unsizedMarker {
		sizeIdx, err = strconv.Atoi(parts[1])
		if err != nil || sizeIdx < 0 {
			return 0, 0, 0, false
		}
	}
	delta, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, false
	}
	return line, sizeIdx, delta, true
}

func groupLabel(langCode, group string) string {
	switch group {
	case models.GroupMain:
		return lang.T(langCode, "group_main")
	case models.GroupSide:
		return lang.T(langCode, "group_side")
	case models.GroupDrink:
		return lang.T(langCode, "group_drink")
	default:
		return lang.T(langCode, "group_other")
	}
}

func itemName(langCode string, it models.CatalogItem) string {
	if it.Name == "" {
		return lang.T(langCode, "unknown_name")
	}
	return it.Name
}

// BuildMenuCard renders the catalog grouped by id prefix with a - qty + row
// per unsized line and per size of a sized line.
func BuildMenuCard(a *Aggregator, langCode, currency string) OrderCardContent {
	if a.Len() == 0 {
		return OrderCardContent{Text: lang.T(langCode, "catalog_empty")}
	}
	items := make([]models.CatalogItem, a.Len())
	for i, l := range a.Lines() {
		items[i] = l.Item()
	}

	var sb strings.Builder
	sb.WriteString(lang.T(langCode, "menu_header"))
	var buttons [][]OrderCardButton
	for _, g := range GroupItems(items) {
		sb.WriteString("\n\n" + groupLabel(langCode, g.Group))
		for _, i := range g.Indexes {
			l := a.Line(i)
			it := l.Item()
			name := itemName(langCode, it)
			if !l.Sized() {
				if it.Price != nil {
					fmt.Fprintf(&sb, "\n• %s %s%d", name, currency, *it.Price)
				} else {
					sb.WriteString("\n• " + name)
				}
				buttons = append(buttons, qtyRow(i, -1, name, a.Quantity(l, "")))
				continue
			}
			var sizes []string
			for j, s := range l.SizeNames() {
				sizes = append(sizes, fmt.Sprintf("%s %s%d", s, currency, a.PriceFor(l, s)))
				buttons = append(buttons, qtyRow(i, j, name+" "+s, a.Quantity(l, s)))
			}
			fmt.Fprintf(&sb, "\n• %s (%s)", name, strings.Join(sizes, " / "))
		}
	}
	buttons = append(buttons,
		[]OrderCardButton{{Text: lang.T(langCode, "place_order"), CallbackData: CallbackPlaceOrder}},
		[]OrderCardButton{{Text: lang.T(langCode, "clear_order"), CallbackData: CallbackClear}},
	)
	return OrderCardContent{Text: sb.String(), Buttons: buttons}
}

func qtyRow(line, sizeIdx int, label string, qty int) []OrderCardButton {
	return []OrderCardButton{
		{Text: "➖", CallbackData: QtyCallback(line, sizeIdx, -1)},
		{Text: fmt.Sprintf("%s ×%d", label, qty), CallbackData: CallbackNoop},
		{Text: "➕", CallbackData: QtyCallback(line, sizeIdx, 1)},
	}
}

// SummaryLines renders a summary as display strings: one per line (or the
// "no items selected" message) followed by a blank line and the total.
func SummaryLines(s models.OrderSummary, langCode, currency string) []string {
	var out []string
	for _, l := range s.Lines {
		out = append(out, lang.T(langCode, "order_line", l.Description, l.Quantity, currency, l.Subtotal))
	}
	if s.IsEmpty {
		out = append(out, lang.T(langCode, "no_items_selected"))
	}
	out = append(out, "", lang.T(langCode, "total", currency, s.Total))
	return out
}

// BuildSummaryCard is the confirmation shown after "place order". Without an
// orderRef a non-empty summary carries a confirm button; with one, the
// reference is appended instead.
func BuildSummaryCard(s models.OrderSummary, langCode, currency, orderRef string) OrderCardContent {
	text := lang.T(langCode, "order_title") + "\n\n" + strings.Join(SummaryLines(s, langCode, currency), "\n")
	if orderRef != "" {
		text += "\n" + lang.T(langCode, "order_ref", orderRef)
		return OrderCardContent{Text: text}
	}
	var buttons [][]OrderCardButton
	if !s.IsEmpty {
		buttons = [][]OrderCardButton{{{Text: lang.T(langCode, "confirm_order"), CallbackData: CallbackConfirm}}}
	}
	return OrderCardContent{Text: text, Buttons: buttons}
}
