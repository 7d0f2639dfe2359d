package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/extraction"
	"github.com/magazynpro/magazyn-api/internal/application/ports"
)

// Compile-time check that AnthropicService implements the extractor port.
var _ ports.InvoiceExtractor = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	extractionSystemPrompt = `You extract structured data from vendor invoice text.
Return ONLY one valid JSON object (no markdown, no code fences, no commentary) with exactly this structure:
{
  "invoiceNumber": "<string>",
  "date": "<YYYY-MM-DD>",
  "vendor": "<string>",
  "items": [
    {"name": "<string>", "quantity": <number>, "unit": "<szt|kg|m|l|godz>", "percentage": <integer VAT percent>, "netPrice": <number>, "grossPrice": <number>}
  ],
  "totalNet": <number>,
  "totalGross": <number>
}

Rules:
- invoiceNumber: the invoice identifier as printed; if absent use "UNKNOWN".
- date: issue date converted to ISO YYYY-MM-DD.
- vendor: the selling company name; if absent use "UNKNOWN VENDOR".
- items: one entry per billed line. quantity defaults to 1, percentage to 23.
- Prices are net of VAT unless the document says otherwise; grossPrice = netPrice * (1 + percentage/100).
- Use '.' as the decimal separator. No text outside the JSON object.`
)

// AnthropicService implements the extractor port against the Anthropic
// messages REST API using plain net/http; no SDK required.
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService builds the adapter. With an empty apiKey every call
// returns a descriptive error, which the parsing facade treats like any
// other AI failure.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicMessagesURL,
		// Network timeout; callers additionally impose a context timeout.
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

// ── Anthropic messages API wire structures ────────────────────────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// jsonBlockRe captures the first '{' through the last '}' so the payload is
// recovered even when the model wraps it in prose.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// aiInvoicePayload mirrors the requested schema but with loosely typed
// fields: the model occasionally returns numbers as strings (or with a comma
// separator), so everything numeric goes through coercion.
type aiInvoicePayload struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	Vendor        string          `json:"vendor"`
	Items         []aiItemPayload `json:"items"`
	TotalNet      any             `json:"totalNet"`
	TotalGross    any             `json:"totalGross"`
}

type aiItemPayload struct {
	Name       string `json:"name"`
	Quantity   any    `json:"quantity"`
	Unit       string `json:"unit"`
	Percentage any    `json:"percentage"`
	NetPrice   any    `json:"netPrice"`
	GrossPrice any    `json:"grossPrice"`
}

// ExtractInvoice sends the raw invoice text to the completion service and
// parses the returned JSON into the canonical shape. Any failure at any
// stage is returned as an error; the caller falls back to the heuristic
// extractor.
func (s *AnthropicService) ExtractInvoice(ctx context.Context, text string) (*dto.ParsedInvoiceData, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("ai: API key not configured")
	}

	payload := anthropicRequest{
		Model:       s.model,
		MaxTokens:   2048,
		Temperature: 0,
		System:      extractionSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: "Invoice text:\n\n" + text},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: build HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ai: timeout or cancellation: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ai: HTTP call failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("ai: anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("ai: anthropic HTTP %d", resp.StatusCode)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("ai: decode anthropic response: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return nil, fmt.Errorf("ai: empty completion")
	}

	cleanJSON := extractJSON(anthResp.Content[0].Text)
	if cleanJSON == "" {
		return nil, fmt.Errorf("ai: no JSON object found in completion")
	}

	var parsed aiInvoicePayload
	if err := json.Unmarshal([]byte(cleanJSON), &parsed); err != nil {
		return nil, fmt.Errorf("ai: parse extracted JSON: %w", err)
	}
	// A completion with no line items is an extraction failure, not a
	// payload to repair; the heuristic extractor may still find real items.
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("ai: completion contains no invoice items")
	}

	return canonicalize(parsed), nil
}

// canonicalize coerces the loose payload into the validated canonical shape.
// Numeric fields default to 0 (quantity to 1, VAT to 23), the date goes
// through the same ISO validation as the heuristic extractor, and missing
// identifiers get the UNKNOWN defaults.
func canonicalize(p aiInvoicePayload) *dto.ParsedInvoiceData {
	data := &dto.ParsedInvoiceData{
		InvoiceNumber: p.InvoiceNumber,
		Date:          p.Date,
		Vendor:        p.Vendor,
	}
	for _, raw := range p.Items {
		it := dto.ParsedInvoiceItem{
			Name:       raw.Name,
			Quantity:   toDecimal(raw.Quantity, decimal.NewFromInt(1)),
			Unit:       strings.TrimSpace(raw.Unit),
			Percentage: toInt(raw.Percentage, extraction.DefaultVATPercent),
			NetPrice:   toDecimal(raw.NetPrice, decimal.Zero),
			GrossPrice: toDecimal(raw.GrossPrice, decimal.Zero),
		}
		data.Items = append(data.Items, it)
	}
	extraction.Sanitize(data)
	return data
}

// extractJSON recovers the first well-formed JSON object from free text.
// Markdown fences are stripped first, then the brace-block regex applies.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if close := strings.LastIndex(after, "```"); close != -1 {
			after = after[:close]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// toDecimal coerces a loosely typed numeric value; def applies when the
// value is absent or unparseable.
func toDecimal(v any, def decimal.Decimal) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	}
	return def
}

func toInt(v any, def int) int {
	return int(toDecimal(v, decimal.NewFromInt(int64(def))).IntPart())
}
