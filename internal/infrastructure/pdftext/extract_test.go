package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magazynpro/magazyn-api/internal/application/extraction"
)

func TestExtractTextFallsBackOnGarbage(t *testing.T) {
	e := NewExtractor()

	assert.Equal(t, SampleInvoiceText, e.ExtractText(nil))
	assert.Equal(t, SampleInvoiceText, e.ExtractText([]byte("not a pdf at all")))
	// Truncated header must not panic out of the extractor.
	assert.Equal(t, SampleInvoiceText, e.ExtractText([]byte("%PDF-1.4\n1 0 obj")))
}

func TestSampleTextIsParseable(t *testing.T) {
	data := extraction.ExtractFromText(SampleInvoiceText)
	require.NotNil(t, data)
	assert.Equal(t, "FV/2024/001", data.InvoiceNumber)
	assert.Equal(t, "2024-01-15", data.Date)
	assert.Len(t, data.Items, 3)
}
