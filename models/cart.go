package models

// CartItem is an ephemeral pre-checkout line. Title, price and image are
// copied from the catalog when the item is added; quantity is always >= 1
// and duplicate book ids are merged on add.
type CartItem struct {
	BookID   int     `json:"book_id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}
