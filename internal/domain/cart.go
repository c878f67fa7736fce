package domain

// CartLine is a single line in the shopping cart. The unit price is already
// adjusted for the selected variant or price option.
type CartLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Image          string `json:"image,omitempty"`
	Price          int64  `json:"price"`
	Amount         int    `json:"amount"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	SelectedOption string `json:"selected_option,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Category       string `json:"category,omitempty"`
	Subcategory    string `json:"subcategory,omitempty"`
}

// SameVariant reports whether two lines refer to the same product with the
// same color, size, and price option. Lines that match merge by amount
// instead of duplicating.
func (l CartLine) SameVariant(other CartLine) bool {
	return l.ProductID == other.ProductID &&
		l.Color == other.Color &&
		l.Size == other.Size &&
		l.SelectedOption == other.SelectedOption
}

// Cart is the session-scoped shopping cart.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// TotalPrice returns the sum of price multiplied by amount over all lines.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Price * int64(line.Amount)
	}
	return total
}

// TotalCount returns the sum of amounts over all lines.
func (c *Cart) TotalCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Amount
	}
	return count
}

// FindLine returns the index of the line matching the given line's variant,
// or -1 when no line matches.
func (c *Cart) FindLine(line CartLine) int {
	for i := range c.Lines {
		if c.Lines[i].SameVariant(line) {
			return i
		}
	}
	return -1
}
