package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// Storage persiste el histórico diario: el batch crudo y los tres reportes
// derivados. Cada Save* reemplaza las filas de esa fecha de forma atómica —
// repetir un run para la misma fecha deja exactamente las mismas filas.
type Storage interface {
	SaveQuotes(ctx context.Context, date time.Time, records []domain.QuoteRecord) error
	SaveRankings(ctx context.Context, date time.Time, entries []domain.RankedEntry) error
	SaveStrongLeads(ctx context.Context, date time.Time, leads []domain.StrongLead) error
	SaveOpportunities(ctx context.Context, date time.Time, opps []domain.InvestmentOpportunity) error

	// StrongLeads devuelve el snapshot persistido para una fecha exacta
	// (vacío si no existe).
	StrongLeads(ctx context.Context, date time.Time) ([]domain.StrongLead, error)

	// PreviousStrongLeadDate devuelve la fecha del snapshot más reciente
	// estrictamente anterior a before, u ok=false si no hay ninguno.
	// "Anterior" es por fecha calendario, no por orden de ejecución: si un
	// día se saltó, se usa el último disponible.
	PreviousStrongLeadDate(ctx context.Context, before time.Time) (time.Time, bool, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
