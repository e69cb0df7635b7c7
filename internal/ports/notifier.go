package ports

import (
	"context"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// AlertSink entrega un alert a un destinatario por un canal concreto
// (email, SMS, consola). Los fallos se devuelven al caller, que los loguea
// sin abortar el run.
type AlertSink interface {
	Send(ctx context.Context, alert domain.AlertEvent, recipient string) error
}

// Reporter presenta el reporte diario completo al usuario.
type Reporter interface {
	Report(ctx context.Context, report domain.DailyReport) error
}
