package mailer

import (
	"fmt"

	"carhub/config"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an error when SMTP is not configured; callers treat a nil
// mailer as "mail disabled".
func New() (*Mailer, error) {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &Mailer{dialer: dialer, from: cfg.SMTPFrom}, nil
}

func (m *Mailer) SendWelcome(toEmail, name string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Welcome to Carhub")

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
        <h2 style="color: #1d4ed8;">Carhub</h2>
        <p>Hi %s,</p>
        <p>Your account is ready. Sign in to start managing your fleet.</p>
        <p style="color: #666; font-size: 12px;">If you did not create this account, you can ignore this email.</p>
    </div>
</body>
</html>`, name)

	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}
