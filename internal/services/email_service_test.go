package services

import (
	"strings"
	"testing"

	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

func testOrder(lang models.Language, status models.OrderStatus) *models.Order {
	return &models.Order{
		ID:            "ord-123",
		CustomerEmail: "ivan@example.com",
		CustomerName:  "Ivan Petrov",
		Language:      lang,
		TotalAmount:   120.50,
		Status:        status,
	}
}

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(models.OrderStatusShipped, models.LanguageEnglish); got != "Shipped" {
		t.Errorf("got %q", got)
	}
	if got := statusLabel(models.OrderStatusShipped, models.LanguageBulgarian); got != "Изпратена" {
		t.Errorf("got %q", got)
	}
	// Unknown status falls back to the raw value
	if got := statusLabel(models.OrderStatus("weird"), models.LanguageEnglish); got != "weird" {
		t.Errorf("got %q", got)
	}
}

func TestOrderConfirmationHTML_Bilingual(t *testing.T) {
	svc := &EmailService{}

	en := svc.orderConfirmationHTML(testOrder(models.LanguageEnglish, models.OrderStatusPending))
	if !strings.Contains(en, "Thank you for your order") || !strings.Contains(en, "ord-123") {
		t.Errorf("english template missing content:\n%s", en)
	}

	bg := svc.orderConfirmationHTML(testOrder(models.LanguageBulgarian, models.OrderStatusPending))
	if !strings.Contains(bg, "Благодарим за поръчката") || !strings.Contains(bg, "120.50") {
		t.Errorf("bulgarian template missing content:\n%s", bg)
	}
}

func TestStatusChangeHTML_UsesOrderLanguage(t *testing.T) {
	svc := &EmailService{}

	bg := svc.statusChangeHTML(testOrder(models.LanguageBulgarian, models.OrderStatusDelivered))
	if !strings.Contains(bg, "Доставена") {
		t.Errorf("expected Bulgarian status label:\n%s", bg)
	}

	en := svc.statusChangeHTML(testOrder(models.LanguageEnglish, models.OrderStatusDelivered))
	if !strings.Contains(en, "Delivered") {
		t.Errorf("expected English status label:\n%s", en)
	}
}

func TestAdminNotificationHTML_ListsItems(t *testing.T) {
	svc := &EmailService{}
	order := testOrder(models.LanguageEnglish, models.OrderStatusPending)
	variantID := "var-1"
	productID := 7
	order.Items = []models.OrderItem{
		{ProductVariantID: &variantID, Quantity: 2, Price: 10},
		{ProductID: &productID, Quantity: 1, Price: 100.50},
	}

	html := svc.adminNotificationHTML(order)
	if !strings.Contains(html, "2 × variant var-1") {
		t.Errorf("missing variant line:\n%s", html)
	}
	if !strings.Contains(html, "1 × product 7") {
		t.Errorf("missing product line:\n%s", html)
	}
}

func TestConfigured(t *testing.T) {
	if (&EmailService{}).Configured() {
		t.Error("unconfigured service reported as configured")
	}
	svc := &EmailService{fromEmail: "shop@example.com", password: "app-pass"}
	if !svc.Configured() {
		t.Error("configured service reported as unconfigured")
	}
}
