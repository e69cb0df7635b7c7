package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription es el interés de un destinatario en los movimientos de un
// commodity concreto. Email y SMSNumber pueden coexistir; cada uno activa
// su canal correspondiente.
type Subscription struct {
	Name             string  // nombre del commodity (case-insensitive)
	Email            string  // destinatario email, vacío = sin email
	SMSNumber        string  // número@gateway del carrier, vacío = sin SMS
	MinPercentChange float64 // dispara si |PctDaily| >= este umbral
}

// AlertEvent es el evento emitido cuando una suscripción se dispara.
type AlertEvent struct {
	ID         string
	Name       string
	Category   Category
	Price      float64
	PctDaily   float64
	PctWeekly  *float64
	Subscriber string // destinatario concreto (email o número SMS)
	Date       time.Time
}

// NewAlertEvent construye el evento para una suscripción disparada.
func NewAlertEvent(q QuoteRecord, pctDaily float64, subscriber string) AlertEvent {
	return AlertEvent{
		ID:         uuid.NewString(),
		Name:       q.Name,
		Category:   q.Category,
		Price:      q.Price,
		PctDaily:   pctDaily,
		PctWeekly:  q.PctWeekly,
		Subscriber: subscriber,
		Date:       q.Date,
	}
}
