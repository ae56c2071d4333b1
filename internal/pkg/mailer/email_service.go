// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendFeedbackReceipt(toEmail, username, typeLabel string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// FeedbackReceiptBody renders the HTML body of the receipt email.
func FeedbackReceiptBody(username, typeLabel string) string {
	if username == "" {
		username = "用户"
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>感谢您的反馈</h2>
			<p>%s，您好：</p>
			<p>我们已收到您提交的「%s」反馈，工作人员会尽快处理。</p>
			<p>AI Rice Pest</p>
		</div>
	`, html.EscapeString(username), html.EscapeString(typeLabel))
}

func (s *emailService) SendFeedbackReceipt(toEmail, username, typeLabel string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "我们已收到您的反馈")
	m.SetBody("text/html", FeedbackReceiptBody(username, typeLabel))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send feedback receipt to %s: %w", toEmail, err)
	}
	return nil
}
