package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// EmailService sends order notifications through an SMTP relay (Gmail app
// password). All sends are best-effort from the caller's point of view:
// handlers log failures but never roll back the triggering write.
type EmailService struct {
	host       string
	port       string
	fromEmail  string
	password   string
	adminEmail string
}

// NewEmailService creates an email service from environment configuration
func NewEmailService() *EmailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		host:       host,
		port:       port,
		fromEmail:  os.Getenv("SMTP_FROM_EMAIL"),
		password:   os.Getenv("SMTP_APP_PASSWORD"),
		adminEmail: os.Getenv("ADMIN_NOTIFY_EMAIL"),
	}
}

// Configured reports whether outbound email is set up. When false, callers
// skip sends silently (local development).
func (e *EmailService) Configured() bool {
	return e.fromEmail != "" && e.password != ""
}

// SendOrderConfirmation emails the customer that the order was received
func (e *EmailService) SendOrderConfirmation(order *models.Order) error {
	subject := "ModaBox - Order Received"
	if order.Language == models.LanguageBulgarian {
		subject = "ModaBox - Получена поръчка"
	}
	return e.sendEmail(order.CustomerEmail, subject, e.orderConfirmationHTML(order))
}

// SendAdminOrderNotification emails the shop operator about a new order
func (e *EmailService) SendAdminOrderNotification(order *models.Order) error {
	if e.adminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("New order %s - EUR %.2f", order.ID, order.TotalAmount)
	return e.sendEmail(e.adminEmail, subject, e.adminNotificationHTML(order))
}

// SendStatusChange emails the customer that the order status changed, in the
// language captured on the order.
func (e *EmailService) SendStatusChange(order *models.Order) error {
	subject := fmt.Sprintf("ModaBox - Order %s", statusLabel(order.Status, models.LanguageEnglish))
	if order.Language == models.LanguageBulgarian {
		subject = fmt.Sprintf("ModaBox - Поръчка %s", statusLabel(order.Status, models.LanguageBulgarian))
	}
	return e.sendEmail(order.CustomerEmail, subject, e.statusChangeHTML(order))
}

// sendEmail delivers one HTML message over SMTP. Gmail rejects bad app
// passwords with a "BadCredentials" response; that case is rewrapped with
// operator guidance since it is the most common misconfiguration.
func (e *EmailService) sendEmail(toEmail, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + e.fromEmail,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	addr := e.host + ":" + e.port
	auth := smtp.PlainAuth("", e.fromEmail, e.password, e.host)
	err := smtp.SendMail(addr, auth, e.fromEmail, []string{toEmail}, []byte(msg))
	if err != nil {
		if strings.Contains(err.Error(), "BadCredentials") {
			return fmt.Errorf("SMTP authentication rejected for %s: generate a Gmail app password "+
				"and set SMTP_APP_PASSWORD (regular account passwords do not work): %w", e.fromEmail, err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}
	return nil
}

// statusLabel returns the human label for a status in the given language
func statusLabel(status models.OrderStatus, lang models.Language) string {
	labels := map[models.OrderStatus][2]string{
		models.OrderStatusPending:   {"Pending", "В обработка"},
		models.OrderStatusConfirmed: {"Confirmed", "Потвърдена"},
		models.OrderStatusShipped:   {"Shipped", "Изпратена"},
		models.OrderStatusDelivered: {"Delivered", "Доставена"},
		models.OrderStatusCancelled: {"Cancelled", "Отказана"},
	}
	pair, ok := labels[status]
	if !ok {
		return string(status)
	}
	if lang == models.LanguageBulgarian {
		return pair[1]
	}
	return pair[0]
}

func (e *EmailService) orderConfirmationHTML(order *models.Order) string {
	if order.Language == models.LanguageBulgarian {
		return fmt.Sprintf(emailShell,
			"Благодарим за поръчката!",
			fmt.Sprintf(`Здравейте, %s,<br><br>
Получихме вашата поръчка <strong>%s</strong> на обща стойност <strong>%.2f EUR</strong>.<br>
Ще ви уведомим по имейл при всяка промяна на статуса.`,
				order.CustomerName, order.ID, order.TotalAmount),
		)
	}
	return fmt.Sprintf(emailShell,
		"Thank you for your order!",
		fmt.Sprintf(`Hi %s,<br><br>
We received your order <strong>%s</strong> for a total of <strong>EUR %.2f</strong>.<br>
We will email you whenever its status changes.`,
			order.CustomerName, order.ID, order.TotalAmount),
	)
}

func (e *EmailService) adminNotificationHTML(order *models.Order) string {
	var lines []string
	for _, item := range order.Items {
		ref := "product"
		if item.ProductVariantID != nil {
			ref = "variant " + *item.ProductVariantID
		} else if item.ProductID != nil {
			ref = fmt.Sprintf("product %d", *item.ProductID)
		}
		lines = append(lines, fmt.Sprintf("<li>%d × %s @ EUR %.2f</li>", item.Quantity, ref, item.Price))
	}
	return fmt.Sprintf(emailShell,
		"New order received",
		fmt.Sprintf(`Order <strong>%s</strong> from %s (%s)<br>
Total: <strong>EUR %.2f</strong><ul>%s</ul>`,
			order.ID, order.CustomerName, order.CustomerEmail,
			order.TotalAmount, strings.Join(lines, "")),
	)
}

func (e *EmailService) statusChangeHTML(order *models.Order) string {
	if order.Language == models.LanguageBulgarian {
		return fmt.Sprintf(emailShell,
			"Статусът на поръчката е променен",
			fmt.Sprintf(`Здравейте, %s,<br><br>
Вашата поръчка <strong>%s</strong> вече е със статус: <strong>%s</strong>.`,
				order.CustomerName, order.ID, statusLabel(order.Status, models.LanguageBulgarian)),
		)
	}
	return fmt.Sprintf(emailShell,
		"Your order status changed",
		fmt.Sprintf(`Hi %s,<br><br>
Your order <strong>%s</strong> is now: <strong>%s</strong>.`,
			order.CustomerName, order.ID, statusLabel(order.Status, models.LanguageEnglish)),
	)
}

// emailShell is the shared HTML frame: %s heading, %s body
const emailShell = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: white;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #b5854b;
            margin-bottom: 10px;
            text-align: center;
        }
        h2 {
            color: #b5854b;
        }
        .footer {
            margin-top: 30px;
            color: #999;
            font-size: 12px;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">ModaBox</div>
        <h2>%s</h2>
        <p>%s</p>
        <div class="footer">ModaBox · modabox.example</div>
    </div>
</body>
</html>
`
