package batch

import (
	"strings"
	"time"

	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/payment"
	"github.com/Totarae/ArrearsLetters/internal/sheet"
	"github.com/Totarae/ArrearsLetters/internal/templates"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// Значения повторного запроса кода, когда в строке нет данных.
const (
	fallbackMobile = "57000000"
	fallbackNIC    = "A0000000000000"
	fallbackName   = "Customer"
	missingName    = "Name_Missing"
)

// Prepared is a row that passed validation, ready for the payment call
// and rendering.
type Prepared struct {
	Seq     int
	Title   string
	Surname string
	Letter  model.LetterContent
	Request payment.Request
}

// PdfName returns the file name shared by the protected and unprotected copies.
func (p *Prepared) PdfName() string {
	return util.LetterFilename(p.Seq, p.Letter.PolicyNo, p.Letter.CustomerName)
}

// SMSName is the name used in the SMS greeting.
func (p *Prepared) SMSName() string {
	if p.Surname == "" {
		return p.Letter.CustomerName
	}
	return strings.TrimSpace(p.Title + " " + p.Surname)
}

// FallbackRequest is the second-attempt request with defaults in place of
// the missing mobile, NIC and name.
func (p *Prepared) FallbackRequest() payment.Request {
	req := p.Request
	if util.IsBlank(req.MobileNo) {
		req.MobileNo = fallbackMobile
	}
	if util.IsBlank(req.Purpose) {
		req.Purpose = fallbackNIC
	}
	if req.CustomerLabel == "" {
		req.CustomerLabel = fallbackName
	}
	return req
}

// Prepare turns a spreadsheet row into letter content and a payment
// request. Rows without a policy number are skipped.
func Prepare(row sheet.Row, tmpl templates.Template, fallback time.Time) (*Prepared, *Skip) {
	title := row.StringOr(ColTitle, "")
	first := row.StringOr(ColFirstName, "")
	surname := row.StringOr(ColSurname, "")
	name := joinNonEmpty(title, first, surname)
	if name == "" {
		name = missingName
	}

	policy, ok := row.String(ColPolicyNo)
	if !ok {
		return nil, &Skip{Row: row.Index + 1, Name: name, Reason: ReasonNoPolicy}
	}

	mobile := row.StringOr(ColMobile, "")
	nic := row.StringOr(ColNIC, "")
	arrears, _ := row.Float(ColArrears)
	premium, _ := row.Float(ColPremium)

	date := fallback
	if d, ok := row.Date(ColDate); ok {
		date = d
	}

	var address []string
	for _, col := range AddressColumns {
		if v, ok := row.String(col); ok {
			address = append(address, strings.ToUpper(v))
		}
	}

	salutation := "Dear Sir/Madam,"
	if surname != "" {
		salutation = "Dear " + joinNonEmpty(title, surname) + ","
	}

	req := payment.Request{
		MerchantID:    tmpl.MerchantID,
		BillNumber:    util.BillNumber(policy, tmpl.DashAsDoubleDot),
		MobileNo:      mobile,
		CustomerLabel: util.DeriveLabel(row.Value(ColFirstName), row.Value(ColSurname)),
		Purpose:       nic,
	}
	if tmpl.SendAmount {
		amount := arrears
		req.Amount = &amount
	}

	return &Prepared{
		Seq:     row.Index + 1,
		Title:   title,
		Surname: surname,
		Request: req,
		Letter: model.LetterContent{
			CustomerName: name,
			PolicyNo:     policy,
			MobileNo:     mobile,
			NIC:          nic,
			Date:         date.Format(LetterDateLayout),
			Address:      address,
			Assignee:     row.StringOr(ColAssignee, ""),
			Salutation:   salutation,
			Subject:      tmpl.Subject,
			LetterType:   tmpl.LetterType,
			BodyIntro:    tmpl.BodyIntro,
			Closing:      tmpl.Closing,
			PolicyDetails: model.PolicyDetails{
				PolicyNo:      policy,
				Premium:       premium,
				Frequency:     row.StringOr(ColFrequency, ""),
				ArrearsAmount: arrears,
				Instalments:   row.StringOr(ColInstalments, ""),
			},
			TemplateType: tmpl.Name,
			RowIndex:     row.Index,
		},
	}, nil
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
