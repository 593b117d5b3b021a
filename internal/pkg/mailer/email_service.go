package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTakeoverAlert(toEmail, userId string) error
	SendTakeoverClosed(toEmail, userId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendTakeoverAlert notifies the on-duty operator that a LINE user asked
// for a human and the bot went silent for them.
func (s *emailService) SendTakeoverAlert(toEmail, userId string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "客戶要求真人客服")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>真人客服請求</h2>
			<p>LINE 使用者 <strong>%s</strong> 已進入人工客服模式。</p>
			<p>機器人已停止回覆，請盡快到後台接手對話。</p>
		</div>
	`, userId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send takeover alert for %s: %v\n", userId, err)
		return err
	}

	fmt.Printf("[MAILER] Takeover alert sent for %s\n", userId)
	return nil
}

// SendTakeoverClosed notifies the operator that the user switched the
// bot back on.
func (s *emailService) SendTakeoverClosed(toEmail, userId string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "人工客服已結束")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>人工客服結束</h2>
			<p>LINE 使用者 <strong>%s</strong> 已結束人工客服模式。</p>
			<p>機器人恢復自動回覆。</p>
		</div>
	`, userId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send takeover closed for %s: %v\n", userId, err)
		return err
	}

	fmt.Printf("[MAILER] Takeover closed notice sent for %s\n", userId)
	return nil
}
