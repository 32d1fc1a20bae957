// Package notify отправляет служебные письма через Brevo.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultURL адрес API транзакционных писем Brevo.
const DefaultURL = "https://api.brevo.com/v3/smtp/email"

// ErrDisabled ключ API не задан.
var ErrDisabled = errors.New("brevo api key is not configured")

// Attachment вложение письма.
type Attachment struct {
	Name    string
	Content []byte
}

// Email одно письмо.
type Email struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Brevo клиент транзакционных писем.
type Brevo struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	URL         string
	HTTP        *http.Client
	Logger      *zap.Logger
}

// NewBrevo создаёт клиента с таймаутом 30 секунд.
func NewBrevo(apiKey, senderEmail, senderName string, logger *zap.Logger) *Brevo {
	return &Brevo{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		URL:         DefaultURL,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		Logger:      logger,
	}
}

// Enabled сообщает, настроен ли клиент.
func (b *Brevo) Enabled() bool {
	return b != nil && b.APIKey != ""
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type attachment struct {
	Content string `json:"content"`
	Name    string `json:"name"`
}

type sendRequest struct {
	Sender      address      `json:"sender"`
	To          []address    `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	Attachment  []attachment `json:"attachment,omitempty"`
}

// Send posts the email. Brevo answers 201 on success.
func (b *Brevo) Send(ctx context.Context, e Email) error {
	if !b.Enabled() {
		return ErrDisabled
	}
	if e.To == "" {
		return errors.New("recipient is empty")
	}

	req := sendRequest{
		Sender:      address{Email: b.SenderEmail, Name: b.SenderName},
		To:          []address{{Email: e.To, Name: e.ToName}},
		Subject:     e.Subject,
		HTMLContent: e.HTML,
	}
	for _, a := range e.Attachments {
		req.Attachment = append(req.Attachment, attachment{
			Content: base64.StdEncoding.EncodeToString(a.Content),
			Name:    a.Name,
		})
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", b.APIKey)

	resp, err := b.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	b.Logger.Info("Email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// SummaryEmail формирует письмо о завершении пакетной задачи.
func SummaryEmail(to, toName, subject string, lines []string) Email {
	var sb strings.Builder
	sb.WriteString("<html><body><p>")
	if toName != "" {
		sb.WriteString("Dear " + html.EscapeString(toName) + ",")
	} else {
		sb.WriteString("Hello,")
	}
	sb.WriteString("</p><ul>")
	for _, l := range lines {
		sb.WriteString("<li>" + html.EscapeString(l) + "</li>")
	}
	sb.WriteString("</ul></body></html>")
	return Email{To: to, ToName: toName, Subject: subject, HTML: sb.String()}
}
