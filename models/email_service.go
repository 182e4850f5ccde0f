package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
}

func NewEmailService() (*EmailService, error) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		port = 587
	}

	dialer := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return &EmailService{dialer: dialer}, nil
}

// send builds a multipart message with a plain-text body and an HTML
// alternative. Every mail the store sends carries both.
func (s *EmailService) send(to, subject, text, html string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	text, html := welcomeBody(name)
	return s.send(toEmail, "Welcome to BookNest", text, html)
}

func (s *EmailService) SendPasswordResetEmail(toEmail, name, token string) error {
	resetURL := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/") + "/reset-password?token=" + token
	text, html := passwordResetBody(name, resetURL)
	return s.send(toEmail, "Password Reset - BookNest", text, html)
}

func (s *EmailService) SendOrderConfirmation(toEmail, name string, order *Order) error {
	text, html := orderConfirmationBody(name, order)
	return s.send(toEmail, fmt.Sprintf("Order Confirmation #%d - BookNest", order.ID), text, html)
}

func (s *EmailService) SendOrderCancellation(toEmail, name string, order *Order) error {
	text, html := orderCancellationBody(name, order)
	return s.send(toEmail, fmt.Sprintf("Order #%d Cancelled - BookNest", order.ID), text, html)
}

func welcomeBody(name string) (string, string) {
	text := fmt.Sprintf(`Hello %s,

Your BookNest account is ready. Browse the catalog, fill your cart and your
next read will be on its way in days.

Happy reading!
The BookNest Team`, name)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #1d4ed8; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">BookNest</div>
        </div>
        <h2 style="color: #333;">Welcome, %s!</h2>
        <p>Your BookNest account is ready. Browse the catalog, fill your cart and your next read will be on its way in days.</p>

        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #666; font-size: 14px;">Happy reading!<br>The BookNest Team</p>
        </div>

        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
            <p>&copy; 2026 BookNest. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
	`, name)

	return text, html
}

func passwordResetBody(name, resetURL string) (string, string) {
	text := fmt.Sprintf(`Hello %s,

You have requested to reset your password. Open the link below to choose a
new one:

%s

This link will expire in 15 minutes.

If you did not request a password reset, please ignore this email.

Best regards,
The BookNest Team`, name, resetURL)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #1d4ed8; }
        .button { display: inline-block; background-color: #1d4ed8; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">BookNest</div>
        </div>
        <h2 style="color: #333;">Password Reset Request</h2>
        <p>Hello %s,</p>
        <p>You have requested to reset your password. Click the button below to choose a new one:</p>

        <div style="text-align: center;">
            <a href="%s" class="button">Reset Password</a>
        </div>

        <p><strong>This link will expire in 15 minutes.</strong></p>
        <p>If you did not request a password reset, please ignore this email or contact support if you have concerns.</p>

        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #666; font-size: 14px;">Best regards,<br>The BookNest Team</p>
        </div>

        <div class="footer">
            <p>This is an automated email. Please do not reply.</p>
            <p>&copy; 2026 BookNest. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
	`, name, resetURL)

	return text, html
}

func orderConfirmationBody(name string, order *Order) (string, string) {
	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "- %s x%d (Rs. %.2f)\n", item.Title, item.Quantity, item.Price)
	}

	text := fmt.Sprintf(`Hello %s,

Thank you for your order!

Order Summary:
%s
Total: Rs. %s

Delivery Details:
Address: %s
Phone: %s
Partner: %s
Expected Delivery: %s

Payment Method: %s

Thanks for shopping with us!
The BookNest Team`,
		name, lines.String(), order.GrandTotal, order.Address, order.Phone,
		order.DeliveryPartner, order.DeliveryDate, order.PaymentMethod)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #1d4ed8; }
        .order-box { background-color: #eff6ff; padding: 20px; margin: 20px 0; border-radius: 8px; }
        table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #eee; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">BookNest</div>
        </div>
        <h2 style="color: #333;">Order Confirmation</h2>
        <p>Hello %s, thank you for your order!</p>

        %s

        <div class="order-box">
            <p><strong>Order Number:</strong> #%d</p>
            <p><strong>Grand Total:</strong> Rs. %s</p>
            <p><strong>Deliver To:</strong> %s (%s)</p>
            <p><strong>Estimated Delivery:</strong> %s via %s</p>
        </div>

        <p>Your order has been received and is being processed. We'll deliver it to your doorstep.</p>

        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #666; font-size: 14px;">Happy reading!<br>The BookNest Team</p>
        </div>

        <div class="footer">
            <p>&copy; 2026 BookNest. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
	`, name, itemsTable(order.Items), order.ID, order.GrandTotal,
		order.Address, order.Phone, order.DeliveryDate, order.DeliveryPartner)

	return text, html
}

func orderCancellationBody(name string, order *Order) (string, string) {
	refundNote := "No payment was captured for this order."
	if order.PaymentStatus == PaymentRefunded {
		refundNote = fmt.Sprintf("Your refund of Rs. %s has been initiated and should reach you within 5-7 business days.", order.GrandTotal)
	}

	text := fmt.Sprintf(`Hello %s,

Your order placed on %s with Order ID %d has been cancelled successfully.

%s

The BookNest Team`, name, order.OrderDate, order.ID, refundNote)

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #1d4ed8; }
        .order-box { background-color: #fef2f2; padding: 20px; margin: 20px 0; border-radius: 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">BookNest</div>
        </div>
        <h2 style="color: #333;">Order Cancelled</h2>
        <p>Hello %s,</p>
        <p>Your order placed on %s has been cancelled as requested.</p>

        <div class="order-box">
            <p><strong>Order Number:</strong> #%d</p>
            <p><strong>Amount:</strong> Rs. %s</p>
        </div>

        <p>%s</p>

        <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eee;">
            <p style="color: #666; font-size: 14px;">We hope to see you again,<br>The BookNest Team</p>
        </div>

        <div class="footer">
            <p>&copy; 2026 BookNest. All rights reserved.</p>
        </div>
    </div>
</body>
</html>
	`, name, order.OrderDate, order.ID, order.GrandTotal, refundNote)

	return text, html
}

func itemsTable(items []OrderItem) string {
	var b strings.Builder
	b.WriteString(`<table><tr><th>Book</th><th>Qty</th><th>Price</th></tr>`)
	for _, item := range items {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%d</td><td>Rs. %.2f</td></tr>`,
			item.Title, item.Quantity, item.Price)
	}
	b.WriteString(`</table>`)
	return b.String()
}
