package model

import "time"

// PolicyDetails is the arrears table printed in the letter.
type PolicyDetails struct {
	PolicyNo      string  `json:"policyNo"`
	Premium       float64 `json:"premium"`
	Frequency     string  `json:"frequency"`
	ArrearsAmount float64 `json:"arrearsAmount"`
	Instalments   string  `json:"instalments,omitempty"`
}

// LetterContent is everything the web viewer needs to render a letter.
type LetterContent struct {
	CustomerName  string        `json:"customerName"`
	PolicyNo      string        `json:"policyNo"`
	MobileNo      string        `json:"mobileNo"`
	NIC           string        `json:"nic"`
	Date          string        `json:"date"`
	Address       []string      `json:"address"`
	Assignee      string        `json:"assignee,omitempty"`
	Salutation    string        `json:"salutation"`
	Subject       string        `json:"subject"`
	LetterType    string        `json:"letterType"`
	BodyIntro     string        `json:"bodyIntro"`
	Closing       []string      `json:"closing,omitempty"`
	PolicyDetails PolicyDetails `json:"policyDetails"`
	TemplateType  string        `json:"templateType"`
	QRCodeData    string        `json:"qrCodeData,omitempty"`
	PDFPath       string        `json:"pdfPath,omitempty"`
	RowIndex      int           `json:"rowIndex"`
}

// LetterRecord хранит письмо вместе с метаданными доступа.
// Поля содержимого сериализуются на верхнем уровне JSON.
type LetterRecord struct {
	LetterContent
	ID          string    `json:"id"`
	Scope       string    `json:"folder"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	AccessCount int       `json:"accessCount"`
	MaxAccess   int       `json:"maxAccess"`
	IsActive    bool      `json:"isActive"`
}

// Expired сообщает, истёк ли срок действия письма.
func (r *LetterRecord) Expired(now time.Time) bool {
	return !r.IsActive || now.After(r.ExpiresAt)
}

// Exhausted сообщает, исчерпан ли лимит просмотров.
func (r *LetterRecord) Exhausted() bool {
	return r.AccessCount >= r.MaxAccess
}
