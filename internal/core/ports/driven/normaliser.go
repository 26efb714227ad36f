package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/sanctrack/internal/core/domain"
)

// DocumentNormaliser transforms a published sanctions document into entries.
type DocumentNormaliser interface {
	// Format names the document format handled (e.g. "un-consolidated-xml").
	Format() string

	// Normalise parses r and returns its entries in document order.
	// A document without the individuals container yields an empty snapshot.
	// Unparsable input returns an error wrapping domain.ErrMalformedDocument.
	Normalise(ctx context.Context, r io.Reader) (domain.Snapshot, error)
}
