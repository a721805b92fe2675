package models

import (
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Language represents the customer's notification language
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageBulgarian Language = "bg"
)

// Order represents a completed order. Orders are immutable once created
// except for the status field; price and quantity are captured at order time
// so later product edits never change historical records.
type Order struct {
	ID            string      `json:"id" db:"id"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	CustomerName  string      `json:"customer_name" db:"customer_name"`
	Language      Language    `json:"language" db:"language"`
	TotalAmount   float64     `json:"total_amount" db:"total_amount"`
	Status        OrderStatus `json:"status" db:"status"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem represents an item in an order. It references a specific variant
// when available and falls back to a product-level reference otherwise.
type OrderItem struct {
	ID               string  `json:"id" db:"id"`
	OrderID          string  `json:"order_id" db:"order_id"`
	ProductID        *int    `json:"product_id,omitempty" db:"product_id"`
	ProductVariantID *string `json:"product_variant_id,omitempty" db:"product_variant_id"`
	Quantity         int     `json:"quantity" db:"quantity"`
	Price            float64 `json:"price" db:"price"`
}

// OrderStatusChange represents a status change record
type OrderStatusChange struct {
	ID        string      `json:"id" db:"id"`
	OrderID   string      `json:"order_id" db:"order_id"`
	OldStatus OrderStatus `json:"old_status" db:"old_status"`
	NewStatus OrderStatus `json:"new_status" db:"new_status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	Reason    string      `json:"reason,omitempty" db:"reason"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerEmail string                   `json:"customer_email" binding:"required,email"`
	CustomerName  string                   `json:"customer_name" binding:"required"`
	Language      Language                 `json:"language"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest represents one line of an order submission
type CreateOrderItemRequest struct {
	ProductID        *int    `json:"product_id"`
	ProductVariantID *string `json:"product_variant_id"`
	Quantity         int     `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderStatusRequest represents a request to update order status
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
	Reason string      `json:"reason,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
