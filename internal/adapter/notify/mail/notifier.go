package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"strings"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/pkg/log"

	"golang.org/x/oauth2"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	// Password is used when no OAuth token source is configured.
	Password string
	From     string
}

// DialFunc opens an SMTP session; *gomail.Dialer.Dial satisfies it.
type DialFunc func() (gomail.SendCloser, error)

// NewDialer builds the SMTP dialer. With src set it authenticates through XOAUTH2.
func NewDialer(cfg Config, src oauth2.TokenSource) *gomail.Dialer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if src != nil {
		d.Auth = XOAuth2(cfg.Username, src)
	}
	return d
}

// Notifier mails a user, looked up in the employee directory.
type Notifier struct {
	employees employee.Repository
	dial      DialFunc
	from      string
	logger    log.Logger
}

func NewNotifier(employees employee.Repository, dial DialFunc, from string, l log.Logger) *Notifier {
	return &Notifier{employees: employees, dial: dial, from: from, logger: l}
}

var htmlBody = template.Must(template.New("body").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif">
<h3>{{.Subject}}</h3>
{{range .Lines}}<p>{{.}}</p>
{{end}}<p style="color:#888;font-size:12px">This message was sent automatically, please do not reply.</p>
</body></html>`))

func (n *Notifier) Notify(ctx context.Context, userID uint64, subject, message string, attachments []string) error {
	emp, err := n.employees.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if emp.Email == "" {
		return apperr.Validation("employee %d has no email address", userID)
	}
	m, err := n.compose(emp.Email, subject, message, attachments)
	if err != nil {
		return err
	}

	s, err := n.dial()
	if err != nil {
		return apperr.External(err, "smtp dial")
	}
	defer s.Close()
	if err := gomail.Send(s, m); err != nil {
		return apperr.External(err, "smtp send to %s", emp.Email)
	}
	n.logger.Debug(ctx, "mail sent", "user_id", userID, "subject", subject, "attachments", len(attachments))
	return nil
}

func (n *Notifier) compose(to, subject, message string, attachments []string) (*gomail.Message, error) {
	var html bytes.Buffer
	err := htmlBody.Execute(&html, struct {
		Subject string
		Lines   []string
	}{subject, strings.Split(strings.TrimSpace(message), "\n")})
	if err != nil {
		return nil, fmt.Errorf("render mail: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", message)
	m.AddAlternative("text/html", html.String())
	for _, f := range attachments {
		if _, err := os.Stat(f); err != nil {
			return nil, apperr.Validation("attachment %s: %v", f, err)
		}
		m.Attach(f)
	}
	return m, nil
}
