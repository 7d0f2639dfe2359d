package extraction

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/domain/entity"
)

func stubNow(t *testing.T, fixed time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = orig })
}

func TestExtractInvoiceNumber(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"polish header", "Faktura VAT nr FV/2024/001\n", "FV/2024/001"},
		{"english header", "Invoice number INV-2024-17\n", "INV-2024-17"},
		{"bare nr", "Dokument\nnr: 123/05/2024\n", "123/05/2024"},
		{"prefixed token", "tu i tam FV/99/2023 w środku", "FV/99/2023"},
		{"slash shaped", "ABC/123/2024 na początku", "ABC/123/2024"},
		{"nothing", "zwykły tekst bez numeru", UnknownInvoiceNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractInvoiceNumber(tc.text))
		})
	}
}

func TestExtractDate(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	cases := []struct {
		name string
		text string
		want string
	}{
		{"day first dots", "Data wystawienia: 15.01.2024", "2024-01-15"},
		{"day first slashes", "z dnia 7/3/2024", "2024-03-07"},
		{"year first", "wystawiono 2024-01-15", "2024-01-15"},
		{"impossible date", "Data: 31.02.2024", "2024-06-01"},
		{"no date", "brak daty", "2024-06-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractDate(tc.text))
		})
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	once := NormalizeDate("15.01.2024")
	assert.Equal(t, "2024-01-15", once)
	assert.Equal(t, once, NormalizeDate(once))

	// Valid ISO goes through untouched, invalid ISO falls back to today.
	assert.Equal(t, "2023-12-31", NormalizeDate("2023-12-31"))
	assert.Equal(t, "2024-06-01", NormalizeDate("2024-02-31"))
	assert.Equal(t, "2024-06-01", NormalizeDate("garbage"))
}

func TestExtractVendor(t *testing.T) {
	text := "Faktura VAT nr FV/1/2024\n" +
		"15.01.2024\n" +
		"---\n" +
		"Tartak Podlaski Sp. z o.o.\n" +
		"ul. Leśna 5, Białystok\n"
	got := extractVendor(strings.Split(text, "\n"))
	assert.Equal(t, "Tartak Podlaski Sp. z o.o.", got)

	assert.Equal(t, UnknownVendor, extractVendor([]string{"", "123", "ab"}))
}

func TestParseItemLineFullShape(t *testing.T) {
	it, ok := parseItemLine("Deska sosnowa 25x150 10 szt. 20,50 23% 25,22")
	require.True(t, ok)
	assert.Equal(t, "Deska sosnowa 25x150", it.Name)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, entity.UnitPiece, it.Unit)
	assert.Equal(t, 23, it.Percentage)
	assert.True(t, it.NetPrice.Equal(decimal.RequireFromString("20.5")))
	assert.True(t, it.GrossPrice.Equal(decimal.RequireFromString("25.22")))
	assert.True(t, it.TotalNet.Equal(decimal.RequireFromString("205")))
}

func TestParseItemLineLooseShape(t *testing.T) {
	it, ok := parseItemLine("Lakier bezbarwny 2 45,50 91,00")
	require.True(t, ok)
	assert.Equal(t, "Lakier bezbarwny", it.Name)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, entity.UnitPiece, it.Unit)
	assert.Equal(t, DefaultVATPercent, it.Percentage)
	// Gross is derived from net with the default rate.
	assert.True(t, it.GrossPrice.Equal(decimal.RequireFromString("55.965")))
}

func TestParseItemLineRejectsNumericNoise(t *testing.T) {
	_, ok := parseItemLine("123 456 789 000")
	assert.False(t, ok)
	_, ok = parseItemLine("Razem do zapłaty")
	assert.False(t, ok)
}

func TestExtractFromTextNeverEmpty(t *testing.T) {
	stubNow(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	data := ExtractFromText("nic ciekawego")
	require.NotNil(t, data)
	assert.Equal(t, UnknownInvoiceNumber, data.InvoiceNumber)
	assert.Equal(t, UnknownVendor, data.Vendor)
	assert.Equal(t, "2024-06-01", data.Date)
	require.Len(t, data.Items, 1)

	// The placeholder keeps the totals pipeline meaningful.
	it := data.Items[0]
	assert.Equal(t, "Extracted item from PDF", it.Name)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(1)))
	assert.True(t, data.TotalNet.Equal(decimal.NewFromInt(100)))
	assert.True(t, data.TotalGross.Equal(decimal.NewFromInt(123)))
}

func TestExtractFromTextFullInvoice(t *testing.T) {
	text := "Faktura VAT nr FV/2024/001\n" +
		"Data wystawienia: 15.01.2024\n" +
		"Tartak Podlaski Sp. z o.o.\n" +
		"\n" +
		"Deska sosnowa 25x150 10 szt 20,00 23 24,60\n" +
		"Lakier bezbarwny 2 l 45,50 23 55,97\n"

	data := ExtractFromText(text)
	assert.Equal(t, "FV/2024/001", data.InvoiceNumber)
	assert.Equal(t, "2024-01-15", data.Date)
	assert.Equal(t, "Tartak Podlaski Sp. z o.o.", data.Vendor)
	require.Len(t, data.Items, 2)

	// Invoice totals are the exact sums over the items.
	net, gross := decimal.Zero, decimal.Zero
	for _, it := range data.Items {
		net = net.Add(it.TotalNet)
		gross = gross.Add(it.TotalGross)
	}
	assert.True(t, data.TotalNet.Equal(net))
	assert.True(t, data.TotalGross.Equal(gross))
}

func TestParseAmount(t *testing.T) {
	assert.True(t, parseAmount("20,50").Equal(decimal.RequireFromString("20.5")))
	assert.True(t, parseAmount(" 100 ").Equal(decimal.NewFromInt(100)))
	assert.True(t, parseAmount("abc").IsZero())
}
