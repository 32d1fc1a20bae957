package model

// SMS statuses written to the batch export.
const (
	SMSStatusReady      = "Ready"
	SMSStatusLinkFailed = "Link failed"
)

// SMSMessage представляет одну строку выгрузки sms_batch.
type SMSMessage struct {
	Mobile       string
	Message      string
	ShortURL     string
	Policy       string
	CustomerName string
	Status       string
}

// Columns возвращает заголовок выгрузки.
func (SMSMessage) Columns() []string {
	return []string{"Mobile", "Message", "ShortURL", "Policy", "CustomerName", "Status"}
}

// Record возвращает строку выгрузки в порядке Columns.
func (m SMSMessage) Record() []string {
	return []string{m.Mobile, m.Message, m.ShortURL, m.Policy, m.CustomerName, m.Status}
}
