package models

// CatalogItem is one product as read from products.json or the catalog tables.
// Price and Size.Price are pointers because either may be missing in the source.
type CatalogItem struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Price *int64 `json:"price,omitempty"`
	Image string `json:"image,omitempty"`
	Sizes []Size `json:"sizes,omitempty"`
}

type Size struct {
	Name  string `json:"name"`
	Price *int64 `json:"price,omitempty"`
}

// Catalog is the top-level shape of products.json.
type Catalog struct {
	Items []CatalogItem `json:"items"`
}

// BasePrice returns the item price, 0 when absent.
func (it CatalogItem) BasePrice() int64 {
	if it.Price == nil {
		return 0
	}
	return *it.Price
}

// Sized reports whether the item is ordered per size.
func (it CatalogItem) Sized() bool {
	return len(it.Sizes) > 0
}

// Display groups, keyed by the first letter of CatalogItem.ID.
const (
	GroupMain  = "main"
	GroupSide  = "side"
	GroupDrink = "drink"
	GroupOther = "other"
)
