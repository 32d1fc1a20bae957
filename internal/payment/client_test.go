package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/util"
)

func amount(v float64) *float64 { return &v }

func TestNewPayload_FieldOrder(t *testing.T) {
	data, err := json.Marshal(NewPayload(Request{MerchantID: MerchantLife, BillNumber: "1.2"}))
	require.NoError(t, err)

	keys := []string{
		"MerchantId", "SetTransactionAmount", "TransactionAmount",
		"SetConvenienceIndicatorTip", "ConvenienceIndicatorTip",
		"SetConvenienceFeeFixed", "ConvenienceFeeFixed",
		"SetConvenienceFeePercentage", "ConvenienceFeePercentage",
		"SetAdditionalBillNumber", "AdditionalRequiredBillNumber", "AdditionalBillNumber",
		"SetAdditionalMobileNo", "AdditionalRequiredMobileNo", "AdditionalMobileNo",
		"SetAdditionalStoreLabel", "AdditionalRequiredStoreLabel", "AdditionalStoreLabel",
		"SetAdditionalLoyaltyNumber", "AdditionalRequiredLoyaltyNumber", "AdditionalLoyaltyNumber",
		"SetAdditionalReferenceLabel", "AdditionalRequiredReferenceLabel", "AdditionalReferenceLabel",
		"SetAdditionalCustomerLabel", "AdditionalRequiredCustomerLabel", "AdditionalCustomerLabel",
		"SetAdditionalTerminalLabel", "AdditionalRequiredTerminalLabel", "AdditionalTerminalLabel",
		"SetAdditionalPurposeTransaction", "AdditionalRequiredPurposeTransaction", "AdditionalPurposeTransaction",
	}
	pos := -1
	for _, k := range keys {
		i := strings.Index(string(data), `"`+k+`"`)
		require.Greater(t, i, pos, k)
		pos = i
	}
	assert.Contains(t, string(data), `"SetTransactionAmount":false,"TransactionAmount":0,`)
}

func TestClient_RequestCode_EndToEndRow(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte("  00020101021226580014mu.zwennpay  \n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 0, zap.NewNop())
	res := c.RequestCode(context.Background(), Request{
		MerchantID:    MerchantLife,
		Amount:        amount(1500),
		BillNumber:    util.BillNumber("00520/0001149", false),
		MobileNo:      "57123456",
		CustomerLabel: util.DeriveLabel("Jean", "Dupont"),
		Purpose:       "A123456789012B",
	})

	require.True(t, res.OK(), res.Failure)
	assert.Equal(t, "00020101021226580014mu.zwennpay", res.Payload)
	assert.Equal(t, "00520.0001149", got["AdditionalBillNumber"])
	assert.Equal(t, "J Dupont", got["AdditionalCustomerLabel"])
	assert.Equal(t, "A123456789012B", got["AdditionalPurposeTransaction"])
	assert.Equal(t, "1500.0", got["TransactionAmount"])
	assert.Equal(t, true, got["SetTransactionAmount"])
	assert.Equal(t, float64(151), got["MerchantId"])
}

func TestClient_RequestCode_Sentinels(t *testing.T) {
	for _, body := range []string{"", "   ", "NULL", " none ", "nan\n"} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewClient(srv.URL, time.Second, 0, zap.NewNop())
		res := c.RequestCode(context.Background(), Request{MerchantID: 151, BillNumber: "1"})
		srv.Close()

		require.NotNil(t, res.Failure, "body %q", body)
		assert.Equal(t, EmptyOrSentinelPayload, res.Failure.Kind, "body %q", body)
	}
}

func TestClient_RequestCode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant disabled", http.StatusBadRequest)
	}))
	defer srv.Close()

	res := NewClient(srv.URL, time.Second, 0, zap.NewNop()).
		RequestCode(context.Background(), Request{MerchantID: 151, BillNumber: "1"})

	require.NotNil(t, res.Failure)
	assert.Equal(t, HTTPError, res.Failure.Kind)
	assert.Equal(t, http.StatusBadRequest, res.Failure.Status)
	assert.Contains(t, res.Failure.Body, "merchant disabled")
}

func TestClient_RequestCode_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	calls := 0
	c := NewClient(srv.URL, 50*time.Millisecond, 0, zap.NewNop())
	c.HTTP.Transport = roundTripCounter{next: http.DefaultTransport, calls: &calls}
	res := c.RequestCode(context.Background(), Request{MerchantID: 151, BillNumber: "1"})

	require.NotNil(t, res.Failure)
	assert.Equal(t, NetworkError, res.Failure.Kind)
	assert.Equal(t, 1, calls)
}

func TestClient_RequestCode_InvalidLabel(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second, 0, zap.NewNop())
	res := c.RequestCode(context.Background(), Request{
		MerchantID:    151,
		BillNumber:    "1",
		CustomerLabel: strings.Repeat("x", 25),
	})
	require.NotNil(t, res.Failure)
	assert.Equal(t, InvalidRequest, res.Failure.Kind)
}

type roundTripCounter struct {
	next  http.RoundTripper
	calls *int
}

func (r roundTripCounter) RoundTrip(req *http.Request) (*http.Response, error) {
	*r.calls++
	return r.next.RoundTrip(req)
}
