package extraction

import (
	"context"
	"time"

	"github.com/magazynpro/magazyn-api/internal/application/dto"
	"github.com/magazynpro/magazyn-api/internal/application/ports"
	"github.com/magazynpro/magazyn-api/pkg/logger"
)

// Service is the parsing facade: AI-assisted extraction first, transparent
// fallback to the heuristic regex extractor on any failure. Parse never
// returns an error; that is the reliability contract of the subsystem.
type Service struct {
	llm     ports.InvoiceExtractor // nil disables the AI path
	timeout time.Duration
	log     *logger.Logger
}

// NewService builds the parsing facade. llm may be nil when no API key is
// configured; timeout bounds one completion round-trip.
func NewService(llm ports.InvoiceExtractor, timeout time.Duration, log *logger.Logger) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{llm: llm, timeout: timeout, log: log}
}

// Parse extracts structured invoice data from raw text. A failing AI call
// (network error, non-2xx, missing or malformed JSON, timeout) is logged as
// a warning and silently downgraded to the heuristic extractor.
func (s *Service) Parse(ctx context.Context, text string) *dto.ParsedInvoiceData {
	if s.llm != nil {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		parsed, err := s.llm.ExtractInvoice(cctx, text)
		if err == nil {
			return parsed
		}
		s.log.Warn().Err(err).Msg("AI extraction failed, falling back to heuristic parser")
	}
	return ExtractFromText(text)
}
