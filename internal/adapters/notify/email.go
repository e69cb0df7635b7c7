package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/alejandrodnm/comexbot/internal/domain"
)

// Email implementa ports.AlertSink enviando el alert por SMTP.
type Email struct {
	host     string
	port     int
	sender   string
	password string

	// sendMail es inyectable para tests (por defecto smtp.SendMail).
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmail crea el canal de email con las credenciales SMTP dadas.
func NewEmail(host string, port int, sender, password string) *Email {
	return &Email{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
		sendMail: smtp.SendMail,
	}
}

// Send envía el alert al destinatario. net/smtp no acepta context: el
// timeout lo impone el servidor; un fallo se devuelve para que el caller
// lo loguee sin abortar el run.
func (e *Email) Send(_ context.Context, alert domain.AlertEvent, recipient string) error {
	msg := buildEmailMessage(e.sender, recipient, alert)
	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.sender, e.password, e.host)

	if err := e.sendMail(addr, auth, e.sender, []string{recipient}, msg); err != nil {
		return fmt.Errorf("notify.Email.Send: %s to %s: %w", alert.Name, recipient, err)
	}
	return nil
}

// buildEmailMessage construye el mensaje RFC 822 completo del alert.
func buildEmailMessage(sender, recipient string, alert domain.AlertEvent) []byte {
	subject := fmt.Sprintf("Price Alert: %s %+.2f%%", alert.Name, alert.PctDaily)

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", sender)
	fmt.Fprintf(&sb, "To: %s\r\n", recipient)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")

	fmt.Fprintf(&sb, "Commodity Price Alert\r\n")
	fmt.Fprintf(&sb, "=====================\r\n\r\n")
	fmt.Fprintf(&sb, "Commodity: %s\r\n", alert.Name)
	fmt.Fprintf(&sb, "Category:  %s\r\n\r\n", alert.Category)
	fmt.Fprintf(&sb, "Price:     %.2f\r\n", alert.Price)
	fmt.Fprintf(&sb, "Daily:     %+.2f%%\r\n", alert.PctDaily)
	if alert.PctWeekly != nil {
		fmt.Fprintf(&sb, "Weekly:    %+.2f%%\r\n", *alert.PctWeekly)
	}
	fmt.Fprintf(&sb, "\r\nDate: %s\r\n", alert.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, "\r\nThis is an automated alert from your commodities tracker.\r\n")

	return []byte(sb.String())
}
