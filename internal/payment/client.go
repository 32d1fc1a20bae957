package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Totarae/ArrearsLetters/internal/metrics"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

// DefaultTimeout таймаут одного вызова провайдера.
const DefaultTimeout = 20 * time.Second

// maxBody ограничивает чтение ответа провайдера.
const maxBody = 64 << 10

//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks

// Coder получает платёжный код для запроса.
type Coder interface {
	RequestCode(ctx context.Context, req Request) Result
}

// Client calls the merchant QR endpoint. It never retries.
type Client struct {
	URL      string
	HTTP     *http.Client
	Timeout  time.Duration
	Limiter  *rate.Limiter
	Logger   *zap.Logger
	validate *validator.Validate
}

// NewClient создаёт клиента. rps <= 0 отключает ограничение частоты.
func NewClient(url string, timeout time.Duration, rps float64, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		URL:      url,
		HTTP:     &http.Client{},
		Timeout:  timeout,
		Logger:   logger,
		validate: validator.New(),
	}
	if rps > 0 {
		c.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// RequestCode performs one POST and classifies the outcome.
func (c *Client) RequestCode(ctx context.Context, req Request) Result {
	res := c.requestCode(ctx, req)
	outcome := "ok"
	if res.Failure != nil {
		outcome = res.Failure.Kind.String()
	}
	metrics.PaymentRequests.WithLabelValues(outcome).Inc()
	return res
}

func (c *Client) requestCode(ctx context.Context, req Request) Result {
	if err := c.validate.Struct(req); err != nil {
		return Result{Failure: &Failure{Kind: InvalidRequest, Err: err}}
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewPayload(req)); err != nil {
		return Result{Failure: &Failure{Kind: InvalidRequest, Err: err}}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return Result{Failure: &Failure{Kind: NetworkError, Err: err}}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(bytes.TrimRight(body.Bytes(), "\n")))
	if err != nil {
		return Result{Failure: &Failure{Kind: NetworkError, Err: err}}
	}
	httpReq.Header.Set("Accept", "text/plain")
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	metrics.PaymentDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{Failure: &Failure{Kind: NetworkError, Err: err}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{Failure: &Failure{Kind: NetworkError, Status: resp.StatusCode, Err: err}}
	}
	text := string(raw)

	if resp.StatusCode != http.StatusOK {
		return Result{Failure: &Failure{Kind: HTTPError, Status: resp.StatusCode, Body: text}}
	}
	if util.IsBlank(text) {
		return Result{Failure: &Failure{
			Kind:   EmptyOrSentinelPayload,
			Status: resp.StatusCode,
			Body:   text,
			Err:    errors.New("no payment code in response"),
		}}
	}

	c.Logger.Debug("Payment code received",
		zap.String("bill", req.BillNumber),
		zap.Int("merchant", req.MerchantID),
		zap.Int("length", len(strings.TrimSpace(text))),
	)
	return Result{Payload: strings.TrimSpace(text)}
}
