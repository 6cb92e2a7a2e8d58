package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Mailer sends operational notifications. Sends are fire-and-forget: a
// failing SMTP server must never fail the request that triggered the mail.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	log  *zap.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(host string, port int, user, pass, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		host: host, port: port, user: user, pass: pass, from: from,
		log:  log,
		send: smtp.SendMail,
	}
}

// Enabled reports whether an SMTP host was configured at all.
func (m *Mailer) Enabled() bool { return m != nil && m.host != "" }

// SendAsync dispatches the message on a goroutine and only logs failures.
func (m *Mailer) SendAsync(to, subject, body string) {
	if !m.Enabled() {
		return
	}
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			m.log.Warn("mail send failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

func (m *Mailer) Send(to, subject, body string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(body)

	var a smtp.Auth
	if m.user != "" {
		a = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return m.send(addr, a, m.from, []string{to}, []byte(sb.String()))
}
