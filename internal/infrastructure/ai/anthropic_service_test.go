package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *AnthropicService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	svc := NewAnthropicService("test-key", "test-model")
	svc.baseURL = srv.URL
	return svc
}

func completionWith(text string) []byte {
	resp := map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	}
	b, _ := json.Marshal(resp)
	return b
}

func TestExtractInvoiceSuccess(t *testing.T) {
	var gotReq anthropicRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write(completionWith(`{
			"invoiceNumber": "FV/2024/001",
			"date": "2024-01-15",
			"vendor": "Tartak Podlaski",
			"items": [{"name": "Deska", "quantity": 10, "unit": "szt", "percentage": 23, "netPrice": 20, "grossPrice": 24.6}],
			"totalNet": 200,
			"totalGross": 246
		}`))
	})

	out, err := svc.ExtractInvoice(context.Background(), "raw invoice text")
	require.NoError(t, err)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.Zero(t, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content, "raw invoice text")

	assert.Equal(t, "FV/2024/001", out.InvoiceNumber)
	assert.Equal(t, "2024-01-15", out.Date)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Quantity.Equal(decimal.NewFromInt(10)))
	// Totals come from recomputation, not from the model.
	assert.True(t, out.TotalNet.Equal(decimal.NewFromInt(200)))
	assert.True(t, out.TotalGross.Equal(decimal.NewFromInt(246)))
}

func TestExtractInvoiceStripsMarkdownFences(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionWith("Here is the result:\n```json\n{\"invoiceNumber\":\"FV/1\",\"date\":\"2024-02-01\",\"vendor\":\"X Sp. z o.o.\",\"items\":[{\"name\":\"Deska\",\"quantity\":1,\"unit\":\"szt\",\"percentage\":23,\"netPrice\":20}]}\n```\n"))
	})

	out, err := svc.ExtractInvoice(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "FV/1", out.InvoiceNumber)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Deska", out.Items[0].Name)
}

func TestExtractInvoiceEmptyItemsIsAFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionWith(`{"invoiceNumber":"FV/1","date":"2024-02-01","vendor":"X Sp. z o.o.","items":[]}`))
	})

	// No items means the model found nothing; the caller falls back to the
	// heuristic extractor instead of persisting a repaired placeholder.
	_, err := svc.ExtractInvoice(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no invoice items")
}

func TestExtractInvoiceCoercesLooseTypes(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionWith(`{
			"invoiceNumber": "FV/2",
			"date": "2024-02-01",
			"vendor": "Y",
			"items": [{"name": "Klej", "quantity": "2,5", "unit": "paleta", "percentage": "8", "netPrice": "10,00"}]
		}`))
	})

	out, err := svc.ExtractInvoice(context.Background(), "text")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	it := out.Items[0]
	assert.True(t, it.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 8, it.Percentage)
	// Unknown unit is repaired to the default.
	assert.Equal(t, entity.UnitPiece, it.Unit)
	// Gross derived from net at the item's VAT rate.
	assert.True(t, it.GrossPrice.Equal(decimal.RequireFromString("10.8")))
}

func TestExtractInvoiceNon200(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := svc.ExtractInvoice(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestExtractInvoiceNoJSONInCompletion(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionWith("I cannot extract any data from this document."))
	})

	_, err := svc.ExtractInvoice(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestExtractInvoiceMissingAPIKey(t *testing.T) {
	svc := NewAnthropicService("", "model")
	_, err := svc.ExtractInvoice(context.Background(), "text")
	require.Error(t, err)
}

func TestCanonicalizeValidatesDate(t *testing.T) {
	out := canonicalize(aiInvoicePayload{
		InvoiceNumber: "FV/3",
		Date:          "2024-02-31",
		Vendor:        "Z",
	})
	// An impossible date is replaced rather than passed through.
	assert.NotEqual(t, "2024-02-31", out.Date)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, out.Date)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("{\"a\":1}"))
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("prose before {\"a\":1} prose after"))
	assert.Equal(t, "", extractJSON("no braces here"))
}
