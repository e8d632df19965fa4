package core

// TopItem is an (item, category) pair with its summed quantity and revenue.
type TopItem struct {
	ItemName      string `json:"item_name"`
	Category      string `json:"category"`
	TotalQuantity int64  `json:"total_quantity"`
	TotalRevenue  Money  `json:"total_revenue"`
}

// CategorySummary counts and totals the sales of one category.
type CategorySummary struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Total    Money  `json:"total"`
}

// PaymentSummary counts and totals the sales of one payment method.
type PaymentSummary struct {
	PaymentMethod string `json:"payment_method"`
	Count         int    `json:"count"`
	Total         Money  `json:"total"`
}

// CategoryAmount represents an amount aggregated by name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}
