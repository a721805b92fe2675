package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modabox/modabox/backend/catalog-service/internal/db"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// CreateOrder handles POST /orders. Prices are captured at creation time.
// Confirmation and admin notification emails are best-effort: failures are
// logged and never fail the order.
func (h *Handler) CreateOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	for _, item := range req.Items {
		if item.ProductID == nil && item.ProductVariantID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each item must reference a product or a variant"})
			return
		}
	}

	order, err := h.db.CreateOrder(ctx, req)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order references an unknown or unavailable product"})
			return
		}
		log.Printf("Failed to create order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create order"})
		return
	}

	if h.email != nil && h.email.Configured() {
		if err := h.email.SendOrderConfirmation(order); err != nil {
			log.Printf("Failed to send order confirmation for %s: %v", order.ID, err)
		}
		if err := h.email.SendAdminOrderNotification(order); err != nil {
			log.Printf("Failed to send admin notification for %s: %v", order.ID, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// GetOrder handles GET /admin/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.db.GetOrder(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to get order %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GetOrders handles GET /admin/orders
func (h *Handler) GetOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: must be 1-500"})
			return
		}
		limit = n
	}

	orders, err := h.db.ListRecentOrders(ctx, limit)
	if err != nil {
		log.Printf("Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status. Every change is
// recorded in the history table; the customer is notified in the language
// captured on the order.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: must be pending, confirmed, shipped, delivered or cancelled"})
		return
	}

	changedBy := "admin"
	if email, ok := GetUserEmail(c); ok {
		changedBy = email
	}

	order, err := h.db.UpdateOrderStatus(ctx, c.Param("id"), req.Status, req.Reason, changedBy)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Failed to update order %s status: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update order status"})
		return
	}

	if h.email != nil && h.email.Configured() {
		if err := h.email.SendStatusChange(order); err != nil {
			log.Printf("Failed to send status change email for %s: %v", order.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
