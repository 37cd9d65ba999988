package models

import (
	"time"

	"github.com/google/uuid"
)

// Order shipping status values as shown on the seller dashboard
const (
	ShippingStatusPending   = "발송대기"
	ShippingStatusPreparing = "상품준비중"
	ShippingStatusShipped   = "발송완료"
	ShippingStatusCanceled  = "취소"
)

// Order represents one order line as persisted by the bulk upload or manual
// entry. Buyer/recipient data is denormalized onto the row so the order
// survives later catalog and profile edits.
type Order struct {
	BaseOrgModel
	MarketName        string     `gorm:"column:market_name" json:"market_name"`
	SellerOrderNumber string     `gorm:"column:seller_order_number;index" json:"seller_order_number"`
	BuyerName         string     `gorm:"column:buyer_name" json:"buyer_name"`
	BuyerPhone        string     `gorm:"column:buyer_phone" json:"buyer_phone"`
	RecipientName     string     `gorm:"column:recipient_name;not null" json:"recipient_name"`
	RecipientPhone    string     `gorm:"column:recipient_phone;not null" json:"recipient_phone"`
	RecipientAddress  string     `gorm:"column:recipient_address;not null" json:"recipient_address"`
	DeliveryMessage   string     `gorm:"column:delivery_message" json:"delivery_message"`
	OptionName        string     `gorm:"column:option_name;index" json:"option_name"`
	OptionCode        string     `gorm:"column:option_code" json:"option_code"`
	Quantity          string     `gorm:"column:quantity;not null" json:"quantity"` // stringified integer
	SpecialRequest    string     `gorm:"column:special_request" json:"special_request"`
	SheetDate         string     `gorm:"column:sheet_date;index" json:"sheet_date"`
	PaymentDate       *time.Time `gorm:"column:payment_date" json:"payment_date"`
	ShippingStatus    string     `gorm:"column:shipping_status;default:'발송대기'" json:"shipping_status"`
	CreatedBy         uuid.UUID  `gorm:"column:created_by;type:uuid" json:"created_by"`
	SubAccountID      *uuid.UUID `gorm:"column:sub_account_id;type:uuid" json:"sub_account_id"`
	IsDeleted         bool       `gorm:"column:is_deleted;default:false;index" json:"is_deleted"`
}

// UploadBatch records one submitted spreadsheet upload for the dashboard's
// upload history. Nothing is written here before the batch is accepted.
type UploadBatch struct {
	BaseOrgModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FileName    string    `gorm:"not null" json:"file_name"`
	TotalRows   int       `gorm:"default:0" json:"total_rows"`
	MappedRows  int       `gorm:"default:0" json:"mapped_rows"`
	ArchiveURL  string    `gorm:"column:archive_url" json:"archive_url,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
