package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// SMS implementa ports.AlertSink vía gateway email-to-SMS del carrier:
// el destinatario es número@gateway (p.ej. 5551234567@vtext.com) y el
// mensaje viaja por el mismo servidor SMTP que los emails.
type SMS struct {
	host     string
	port     int
	sender   string
	password string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMS crea el canal SMS con las credenciales SMTP dadas.
func NewSMS(host string, port int, sender, password string) *SMS {
	return &SMS{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
		sendMail: smtp.SendMail,
	}
}

// Send envía el alert al número@gateway del destinatario.
func (s *SMS) Send(_ context.Context, alert domain.AlertEvent, recipient string) error {
	msg := buildSMSMessage(s.sender, recipient, alert)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.sender, s.password, s.host)

	if err := s.sendMail(addr, auth, s.sender, []string{recipient}, msg); err != nil {
		return fmt.Errorf("notify.SMS.Send: %s to %s: %w", alert.Name, recipient, err)
	}
	return nil
}

// buildSMSMessage construye un mensaje corto (los gateways cortan a ~160
// caracteres, así que solo lo esencial).
func buildSMSMessage(sender, recipient string, alert domain.AlertEvent) []byte {
	body := fmt.Sprintf("%s Alert: %.2f (%+.2f%% daily)", alert.Name, alert.Price, alert.PctDaily)
	if alert.PctWeekly != nil {
		body += fmt.Sprintf(" %+.2f%% weekly", *alert.PctWeekly)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", sender)
	fmt.Fprintf(&sb, "To: %s\r\n", recipient)
	sb.WriteString("\r\n")
	sb.WriteString(body)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}
