package models

// UploadRow is one order row staged from an uploaded spreadsheet. It only
// lives for the duration of a single upload session and is never persisted
// as-is; accepted rows are converted to Orders on submission.
type UploadRow struct {
	RowNumber         int    `json:"row_number"` // 1-based spreadsheet row, header excluded
	SellerOrderNumber string `json:"seller_order_number"`
	BuyerName         string `json:"buyer_name"`
	BuyerPhone        string `json:"buyer_phone"`
	RecipientName     string `json:"recipient_name"`
	RecipientPhone    string `json:"recipient_phone"`
	RecipientAddress  string `json:"recipient_address"`
	DeliveryMessage   string `json:"delivery_message"`
	OptionName        string `json:"option_name"`
	OptionCode        string `json:"option_code"`
	Quantity          string `json:"quantity"`
	SpecialRequest    string `json:"special_request"`
}

// MappingResult summarizes one applied option-name rewrite: how many rows had
// OriginalName replaced with MappedName during a single upload session.
type MappingResult struct {
	OriginalName string `json:"original_name"`
	MappedName   string `json:"mapped_name"`
	Count        int    `json:"count"`
}

// OptionRef is the catalog snapshot attached to a resolved option name
type OptionRef struct {
	OptionCode        string `json:"option_code"`
	SellerSupplyPrice string `json:"seller_supply_price"`
}
