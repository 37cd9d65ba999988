package services

import (
	"strings"

	"farmhub/internal/utils"
	"farmhub/pkg/models"
)

// Standard order sheet column headers. Required columns must match exactly;
// the delivery message column appears with two spellings in the wild.
const (
	HeaderOrderNumber     = "주문번호"
	HeaderBuyerName       = "주문자"
	HeaderBuyerPhone      = "주문자전화번호"
	HeaderRecipientName   = "수령인"
	HeaderRecipientPhone  = "수령인전화번호"
	HeaderAddress         = "주소"
	HeaderDeliveryMessage = "배송메세지"
	HeaderDeliveryMsgAlt  = "배송메시지"
	HeaderOptionName      = "옵션상품"
	HeaderOptionCode      = "옵션코드"
	HeaderQuantity        = "수량"
	HeaderSpecialRequest  = "특이/요청사항"
)

// uploadRowFromRecord adapts one raw header-keyed record into the declared
// order fields. index is the zero-based position in the parsed row slice, so
// the spreadsheet row number is index+2 (header row plus 1-based numbering).
func uploadRowFromRecord(index int, record utils.RowRecord) models.UploadRow {
	deliveryMessage := record[HeaderDeliveryMessage]
	if deliveryMessage == "" {
		deliveryMessage = record[HeaderDeliveryMsgAlt]
	}

	return models.UploadRow{
		RowNumber:         index + 2,
		SellerOrderNumber: strings.TrimSpace(record[HeaderOrderNumber]),
		BuyerName:         strings.TrimSpace(record[HeaderBuyerName]),
		BuyerPhone:        strings.TrimSpace(record[HeaderBuyerPhone]),
		RecipientName:     strings.TrimSpace(record[HeaderRecipientName]),
		RecipientPhone:    strings.TrimSpace(record[HeaderRecipientPhone]),
		RecipientAddress:  strings.TrimSpace(record[HeaderAddress]),
		DeliveryMessage:   strings.TrimSpace(deliveryMessage),
		OptionName:        strings.TrimSpace(record[HeaderOptionName]),
		OptionCode:        strings.TrimSpace(record[HeaderOptionCode]),
		Quantity:          strings.TrimSpace(record[HeaderQuantity]),
		SpecialRequest:    strings.TrimSpace(record[HeaderSpecialRequest]),
	}
}

// uploadRowsFromRecords converts the whole parsed sheet in order
func uploadRowsFromRecords(records []utils.RowRecord) []models.UploadRow {
	rows := make([]models.UploadRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, uploadRowFromRecord(i, record))
	}
	return rows
}
