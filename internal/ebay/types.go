package ebay

// ItemSummary is the subset of a Browse API search hit the pricer reads.
// Unlisted JSON fields are ignored on decode.
type ItemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           ItemPrice        `json:"price"`
	ItemWebURL      string           `json:"itemWebUrl,omitempty"`
	Condition       string           `json:"condition,omitempty"`
	ConditionID     string           `json:"conditionId,omitempty"`
	BuyingOptions   []string         `json:"buyingOptions,omitempty"`
	ShippingOptions []ShippingOption `json:"shippingOptions,omitempty"`
}

// ItemPrice is an eBay amount. Value is a decimal string such as "24.99".
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ShippingOption is one delivery service offered for a listing; the first
// is the one buyers see by default.
type ShippingOption struct {
	ShippingCost *ItemPrice `json:"shippingCost,omitempty"`
}
