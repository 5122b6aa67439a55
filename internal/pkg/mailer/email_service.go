package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendResetToken(toEmail, token string) error
	SendTicketStatusUpdate(toEmail, subject, status string) error
	SendAccountRequestUpdate(toEmail, requestType, status string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderEmail, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		clientURL:   clientURL,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}
	return nil
}

func (s *emailService) SendResetToken(toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, token)
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Đặt lại mật khẩu</h2>
			<p>Bạn đã yêu cầu đặt lại mật khẩu. Nhấn vào liên kết bên dưới để tiếp tục:</p>
			<p><a href="%s">%s</a></p>
			<p>Liên kết hết hạn sau 1 giờ. Nếu không phải bạn yêu cầu, hãy bỏ qua email này.</p>
		</div>
	`, resetLink, resetLink)
	return s.send(toEmail, "Đặt lại mật khẩu", body)
}

func (s *emailService) SendTicketStatusUpdate(toEmail, subject, status string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Cập nhật yêu cầu hỗ trợ</h2>
			<p>Yêu cầu hỗ trợ "%s" của bạn đã chuyển sang trạng thái: <b>%s</b>.</p>
			<p>Đăng nhập vào cổng thông tin để xem chi tiết.</p>
		</div>
	`, subject, status)
	return s.send(toEmail, "Cập nhật yêu cầu hỗ trợ", body)
}

func (s *emailService) SendAccountRequestUpdate(toEmail, requestType, status string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Cập nhật yêu cầu tài khoản</h2>
			<p>Yêu cầu "%s" của bạn đã chuyển sang trạng thái: <b>%s</b>.</p>
		</div>
	`, requestType, status)
	return s.send(toEmail, "Cập nhật yêu cầu tài khoản", body)
}
