package notification

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPEmailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPEmailSender(host, port, user, pass string) *SMTPEmailSender {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &SMTPEmailSender{
		dialer: gomail.NewDialer(host, p, user, pass),
		from:   fmt.Sprintf("\"LabDash\" <%s>", user),
	}
}

func (s *SMTPEmailSender) SendOrderConfirmation(_ context.Context, to string, summary OrderSummary) error {
	var items strings.Builder
	for _, it := range summary.Items {
		price := ""
		if it.Price > 0 {
			price = fmt.Sprintf(" — ₹%.0f", it.Price)
		}
		fmt.Fprintf(&items, "<li>%s%s</li>", it.Name, price)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("LabDash — Payment received for order %s", summary.OrderID))
	m.SetBody("text/html", fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Thank you for your order!</h2>
			<p>Your payment for order <strong>%s</strong> has been received.</p>
			<ul>%s</ul>
			<p>Total paid: <strong>₹%.2f</strong></p>
			<p>Our phlebotomist will reach out to confirm your sample collection slot.</p>
		</div>`, summary.OrderID, items.String(), summary.Total))

	return s.dialer.DialAndSend(m)
}
