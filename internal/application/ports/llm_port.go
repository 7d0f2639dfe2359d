package ports

import (
	"context"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
)

// InvoiceExtractor is the outbound port for AI-assisted invoice parsing.
// Any adapter (Anthropic, OpenAI, mock) must implement this contract; the
// application layer only knows the interface. The context must carry a
// timeout so an external call can never block a request indefinitely.
type InvoiceExtractor interface {
	// ExtractInvoice turns raw invoice text into the canonical parsed shape.
	// Errors mean the AI path failed as a whole; callers are expected to fall
	// back to the heuristic extractor.
	ExtractInvoice(ctx context.Context, text string) (*dto.ParsedInvoiceData, error)
}
