package mailer

import (
	"fmt"
	"net/smtp"

	"attira/config"
	"attira/logger"

	"go.uber.org/zap"
)

var cfg config.SMTPConfig

// Init stores the SMTP settings. When SMTP is disabled (local development),
// Send logs the message instead of dialing out.
func Init(c config.SMTPConfig) {
	cfg = c
}

// Send delivers one message with an HTML body. The SMTP dial honours the
// transport's own timeout; callers on the order path run Send off the
// request goroutine.
func Send(toEmail, subject, htmlBody string) error {
	if !cfg.Enabled {
		logger.L().Info("mailer disabled, dropping message",
			zap.String("to", toEmail), zap.String("subject", subject))
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		cfg.From, toEmail, subject, htmlBody,
	))

	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)
	return smtp.SendMail(cfg.Host+":"+cfg.Port, auth, cfg.From, []string{toEmail}, msg)
}

// SendAsync fires Send on its own goroutine and logs a failure. Used after
// an order is persisted, where a mail failure must not fail the request.
func SendAsync(toEmail, subject, htmlBody string) {
	go func() {
		if err := Send(toEmail, subject, htmlBody); err != nil {
			logger.L().Warn("order confirmation email failed",
				zap.String("to", toEmail), zap.Error(err))
		}
	}()
}
