package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"gymcore/internal/config"
)

const (
	MailTemplateWelcome = "welcome"
	MailTemplateReset   = "password_reset"
	MailTemplateInvite  = "invite"
)

// MailMessage is the unit of work on the mail queue.
type MailMessage struct {
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

// MailPublisher enqueues a message for asynchronous delivery. Enqueue
// failures are logged by callers and never fail the originating request.
type MailPublisher interface {
	Publish(ctx context.Context, msg MailMessage) error
}

var mailTemplates = map[string]*template.Template{
	MailTemplateWelcome: template.Must(template.New(MailTemplateWelcome).Parse(
		"Hi {{.FirstName}},\n\nYour GymCore account is ready. You can sign in with your email and password.\n\n— The GymCore team\n")),
	MailTemplateReset: template.Must(template.New(MailTemplateReset).Parse(
		"Hi {{.FirstName}},\n\nUse the token below to reset your password. It expires in one hour.\n\n{{.Token}}\n\nIf you did not request this, you can ignore this message.\n")),
	MailTemplateInvite: template.Must(template.New(MailTemplateInvite).Parse(
		"Hi {{.FirstName}},\n\nAn account was created for you on GymCore. Use the token below to set your password. It expires in one hour.\n\n{{.Token}}\n\n— The GymCore team\n")),
}

// MailerService renders templates and delivers them over SMTP. It sits at
// the consuming end of the mail queue.
type MailerService struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailerService(cfg config.SMTPConfig) *MailerService {
	return &MailerService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   cfg.From,
	}
}

func (m *MailerService) Send(msg MailMessage) error {
	tmpl, ok := mailTemplates[msg.Template]
	if !ok {
		return fmt.Errorf("unknown mail template %q", msg.Template)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg.Data); err != nil {
		return fmt.Errorf("failed to render mail template %s: %v", msg.Template, err)
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send mail to %s: %v", msg.To, err)
	}
	return nil
}
