package payment

import (
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// Идентификаторы мерчантов провайдера.
const (
	MerchantLife       = 151
	MerchantHealthcare = 153
	MerchantMotor      = 155
	MerchantLegacyJPH  = 57
)

// Request описывает запрос платёжного кода для одной строки.
type Request struct {
	MerchantID    int      `validate:"required,gt=0"`
	Amount        *float64 `validate:"omitempty,gte=0"`
	BillNumber    string   `validate:"required"`
	MobileNo      string
	CustomerLabel string `validate:"max=24"`
	Purpose       string
}

// Payload is the exact body of the GetMerchantQR call. Field order and
// types follow the provider contract.
type Payload struct {
	MerchantID                           int    `json:"MerchantId"`
	SetTransactionAmount                 bool   `json:"SetTransactionAmount"`
	TransactionAmount                    any    `json:"TransactionAmount"`
	SetConvenienceIndicatorTip           bool   `json:"SetConvenienceIndicatorTip"`
	ConvenienceIndicatorTip              int    `json:"ConvenienceIndicatorTip"`
	SetConvenienceFeeFixed               bool   `json:"SetConvenienceFeeFixed"`
	ConvenienceFeeFixed                  int    `json:"ConvenienceFeeFixed"`
	SetConvenienceFeePercentage          bool   `json:"SetConvenienceFeePercentage"`
	ConvenienceFeePercentage             int    `json:"ConvenienceFeePercentage"`
	SetAdditionalBillNumber              bool   `json:"SetAdditionalBillNumber"`
	AdditionalRequiredBillNumber         bool   `json:"AdditionalRequiredBillNumber"`
	AdditionalBillNumber                 string `json:"AdditionalBillNumber"`
	SetAdditionalMobileNo                bool   `json:"SetAdditionalMobileNo"`
	AdditionalRequiredMobileNo           bool   `json:"AdditionalRequiredMobileNo"`
	AdditionalMobileNo                   string `json:"AdditionalMobileNo"`
	SetAdditionalStoreLabel              bool   `json:"SetAdditionalStoreLabel"`
	AdditionalRequiredStoreLabel         bool   `json:"AdditionalRequiredStoreLabel"`
	AdditionalStoreLabel                 string `json:"AdditionalStoreLabel"`
	SetAdditionalLoyaltyNumber           bool   `json:"SetAdditionalLoyaltyNumber"`
	AdditionalRequiredLoyaltyNumber      bool   `json:"AdditionalRequiredLoyaltyNumber"`
	AdditionalLoyaltyNumber              string `json:"AdditionalLoyaltyNumber"`
	SetAdditionalReferenceLabel          bool   `json:"SetAdditionalReferenceLabel"`
	AdditionalRequiredReferenceLabel     bool   `json:"AdditionalRequiredReferenceLabel"`
	AdditionalReferenceLabel             string `json:"AdditionalReferenceLabel"`
	SetAdditionalCustomerLabel           bool   `json:"SetAdditionalCustomerLabel"`
	AdditionalRequiredCustomerLabel      bool   `json:"AdditionalRequiredCustomerLabel"`
	AdditionalCustomerLabel              string `json:"AdditionalCustomerLabel"`
	SetAdditionalTerminalLabel           bool   `json:"SetAdditionalTerminalLabel"`
	AdditionalRequiredTerminalLabel      bool   `json:"AdditionalRequiredTerminalLabel"`
	AdditionalTerminalLabel              string `json:"AdditionalTerminalLabel"`
	SetAdditionalPurposeTransaction      bool   `json:"SetAdditionalPurposeTransaction"`
	AdditionalRequiredPurposeTransaction bool   `json:"AdditionalRequiredPurposeTransaction"`
	AdditionalPurposeTransaction         string `json:"AdditionalPurposeTransaction"`
}

// NewPayload переводит запрос в тело вызова провайдера.
func NewPayload(req Request) Payload {
	p := Payload{
		MerchantID:                      req.MerchantID,
		TransactionAmount:               0,
		SetAdditionalBillNumber:         true,
		AdditionalBillNumber:            req.BillNumber,
		SetAdditionalMobileNo:           true,
		AdditionalMobileNo:              req.MobileNo,
		SetAdditionalCustomerLabel:      true,
		AdditionalCustomerLabel:         req.CustomerLabel,
		SetAdditionalPurposeTransaction: true,
		AdditionalPurposeTransaction:    req.Purpose,
	}
	if req.Amount != nil {
		p.SetTransactionAmount = true
		p.TransactionAmount = util.FormatAmount(*req.Amount)
	}
	return p
}
