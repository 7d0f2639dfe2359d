package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

// Heuristic extractor: an ordered regex cascade over raw invoice text.
// It never fails: every field has a conservative default, and the item list
// is never empty. This is the fallback arm of the parsing subsystem.

const (
	UnknownInvoiceNumber = "UNKNOWN"
	UnknownVendor        = "UNKNOWN VENDOR"

	// DefaultVATPercent applies when a line carries no VAT rate.
	DefaultVATPercent = 23
)

// timeNow is stubbed in tests that exercise the current-date fallback.
var timeNow = time.Now

// invoiceNumberPatterns in priority order; the first capture group of the
// first matching pattern wins.
var invoiceNumberPatterns = []*regexp.Regexp{
	// "Faktura VAT nr FV/2024/001", "Invoice number INV-2024-17"
	regexp.MustCompile(`(?i)(?:faktura|invoice)(?:\s+vat)?(?:\s+(?:nr|no|number))?[.:\s]+([A-Za-z0-9][A-Za-z0-9/\-]{2,})`),
	// bare "nr: 123/05/2024"
	regexp.MustCompile(`(?i)\b(?:nr|number)[.:\s]+([A-Za-z0-9][A-Za-z0-9/\-]{2,})`),
	// FV/INV-prefixed token anywhere
	regexp.MustCompile(`(?i)\b((?:FV|INV)[/\-][A-Za-z0-9/\-]+)`),
	// generic AAA/000/000-shaped token
	regexp.MustCompile(`\b([A-Z]{2,4}/\d{1,6}/\d{2,6})\b`),
}

// Date shapes. Separators '.', '-' and '/' are interchangeable.
var (
	dayFirstDateRe  = regexp.MustCompile(`\b(\d{1,2})[./\-](\d{1,2})[./\-](\d{4})\b`)
	yearFirstDateRe = regexp.MustCompile(`\b(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})\b`)
	isoDateRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Item line shapes.
var (
	// name qty unit net_price vat% gross_price
	itemFullRe = regexp.MustCompile(`^(.{2,}?)\s+(\d+(?:[.,]\d+)?)\s+(szt|kg|m|l|godz)\.?\s+(\d+(?:[.,]\d+)?)\s+(\d{1,2})%?\s+(\d+(?:[.,]\d+)?)\s*$`)
	// looser fallback: name qty price total
	itemLooseRe = regexp.MustCompile(`^(.{2,}?)\s+(\d+(?:[.,]\d+)?)\s+(\d+(?:[.,]\d+)?)\s+(\d+(?:[.,]\d+)?)\s*$`)

	hasLetterRe  = regexp.MustCompile(`\p{L}`)
	nonContentRe = regexp.MustCompile(`^[\d\s\p{P}\p{S}]+$`)
	vendorSkipRe = regexp.MustCompile(`(?i)faktura|invoice`)
)

// ExtractFromText pulls invoice number, date, vendor and line items out of
// raw text. Fails soft: unknown fields get defaults and totals are always
// computed over at least one item.
func ExtractFromText(text string) *dto.ParsedInvoiceData {
	lines := strings.Split(text, "\n")

	data := &dto.ParsedInvoiceData{
		InvoiceNumber: extractInvoiceNumber(text),
		Date:          extractDate(text),
		Vendor:        extractVendor(lines),
		Items:         extractItems(lines),
	}
	RecomputeTotals(data)
	return data
}

func extractInvoiceNumber(text string) string {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return UnknownInvoiceNumber
}

func extractDate(text string) string {
	if m := dayFirstDateRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISODate(m[3], m[2], m[1]); ok {
			return iso
		}
	}
	if m := yearFirstDateRe.FindStringSubmatch(text); m != nil {
		if iso, ok := buildISODate(m[1], m[2], m[3]); ok {
			return iso
		}
	}
	return timeNow().Format("2006-01-02")
}

// buildISODate validates the triple by round-tripping it through time.Date:
// an impossible calendar date such as 31.02.2024 rolls over and no longer
// reconstructs to the same day/month/year, so it is rejected.
func buildISODate(year, month, day string) (string, bool) {
	y, m, d := atoi(year), atoi(month), atoi(day)
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// NormalizeDate coerces an arbitrary date string to ISO YYYY-MM-DD, falling
// back to the current date. Already-valid ISO input is returned unchanged
// (idempotent), which is what the AI-path validation relies on.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		if iso, ok := buildISODate(m[1], m[2], m[3]); ok {
			return iso
		}
		return timeNow().Format("2006-01-02")
	}
	return extractDate(raw)
}

// extractVendor scans the first 10 lines and returns the first plausible
// company line: length strictly between 5 and 100, not a date, not an
// invoice keyword line, not purely numeric/punctuation.
func extractVendor(lines []string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		candidate := strings.TrimSpace(line)
		if len(candidate) <= 5 || len(candidate) >= 100 {
			continue
		}
		if vendorSkipRe.MatchString(candidate) {
			continue
		}
		if dayFirstDateRe.MatchString(candidate) || yearFirstDateRe.MatchString(candidate) {
			continue
		}
		if nonContentRe.MatchString(candidate) {
			continue
		}
		return candidate
	}
	return UnknownVendor
}

// extractItems matches every line against the two item shapes, strict one
// first. If nothing matches across the whole text, a single placeholder item
// is emitted so downstream totals never run over an empty set.
func extractItems(lines []string) []dto.ParsedInvoiceItem {
	var items []dto.ParsedInvoiceItem
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if it, ok := parseItemLine(line); ok {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		items = append(items, placeholderItem())
	}
	return items
}

func parseItemLine(line string) (dto.ParsedInvoiceItem, bool) {
	if m := itemFullRe.FindStringSubmatch(line); m != nil {
		it := dto.ParsedInvoiceItem{
			Name:       strings.TrimSpace(m[1]),
			Quantity:   parseAmount(m[2]),
			Unit:       m[3],
			Percentage: atoi(m[5]),
			NetPrice:   parseAmount(m[4]),
			GrossPrice: parseAmount(m[6]),
		}
		RecomputeItem(&it)
		return it, true
	}
	if m := itemLooseRe.FindStringSubmatch(line); m != nil {
		name := strings.TrimSpace(m[1])
		if !hasLetterRe.MatchString(name) {
			return dto.ParsedInvoiceItem{}, false
		}
		net := parseAmount(m[3])
		it := dto.ParsedInvoiceItem{
			Name:       name,
			Quantity:   parseAmount(m[2]),
			Unit:       entity.UnitPiece,
			Percentage: DefaultVATPercent,
			NetPrice:   net,
			GrossPrice: grossFromNet(net, DefaultVATPercent),
		}
		RecomputeItem(&it)
		return it, true
	}
	return dto.ParsedInvoiceItem{}, false
}

// placeholderItem is the never-empty guarantee: one fixed item so the
// confirmation flow always has something to show and sum.
func placeholderItem() dto.ParsedInvoiceItem {
	it := dto.ParsedInvoiceItem{
		Name:       "Extracted item from PDF",
		Quantity:   decimal.NewFromInt(1),
		Unit:       entity.UnitPiece,
		Percentage: DefaultVATPercent,
		NetPrice:   decimal.NewFromInt(100),
		GrossPrice: decimal.NewFromInt(123),
	}
	RecomputeItem(&it)
	return it
}

// parseAmount parses a numeric token with either '.' or ',' as the decimal
// separator. Unparseable input yields zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// grossFromNet computes net × (1 + percent/100).
func grossFromNet(net decimal.Decimal, percent int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(100 + percent)).Div(decimal.NewFromInt(100))
	return net.Mul(factor)
}
