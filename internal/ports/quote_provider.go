package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// QuoteProvider produce el batch de quotes del día.
type QuoteProvider interface {
	// FetchQuotes devuelve las filas parseadas de la tabla fuente para la
	// fecha dada. Las filas malformadas se saltan con warning, no abortan
	// el batch.
	FetchQuotes(ctx context.Context, date time.Time) ([]domain.QuoteRecord, error)
}
