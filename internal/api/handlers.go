package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modabox/modabox/backend/catalog-service/internal/db"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
	"github.com/modabox/modabox/backend/catalog-service/internal/search"
	"github.com/modabox/modabox/backend/catalog-service/internal/services"
)

// Handler holds the service dependencies and provides HTTP handlers
type Handler struct {
	db      *db.Database
	email   *services.EmailService
	index   *search.Index
	recents search.RecentStore
}

// NewHandler creates a new handler instance
func NewHandler(database *db.Database, email *services.EmailService, index *search.Index, recents search.RecentStore) *Handler {
	return &Handler{db: database, email: email, index: index, recents: recents}
}

// Health handles the readiness probe
func (h *Handler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()
	if err := h.db.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// =================================================================================
// PRODUCT HANDLERS
// =================================================================================

// GetProducts handles GET /products (storefront list)
func (h *Handler) GetProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	featuredOnly := c.Query("featured") == "true"
	products, err := h.db.ListProducts(ctx, featuredOnly)
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list products"})
		return
	}
	if products == nil {
		products = []models.ProductDetail{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// GetProduct handles GET /products/:id. Soft-deleted products are reported
// as missing.
func (h *Handler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	product, err := h.db.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("Failed to get product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	productID, err := h.db.CreateProduct(ctx, req)
	if err != nil {
		log.Printf("Failed to create product: %v", err)
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			c.JSON(http.StatusConflict, gin.H{
				"error":      "A product or variant with this SKU already exists",
				"error_code": "DUPLICATE_SKU",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product_id": productID})
}

// UpdateProduct handles PUT /products/:id. Supplying variants reconciles the
// stored set against the submitted one; an empty array only updates scalar
// fields.
func (h *Handler) UpdateProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.db.UpdateProduct(ctx, productID, req); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("Failed to update product %d: %v", productID, err)
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			c.JSON(http.StatusConflict, gin.H{
				"error":      "A variant with this SKU already exists",
				"error_code": "DUPLICATE_SKU",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated"})
}

// DeleteProduct handles DELETE /products/:id with soft-delete semantics
func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if err := h.db.SoftDeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found or already deleted"})
			return
		}
		log.Printf("Failed to delete product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

// =================================================================================
// CATALOG HANDLERS (properties and product types)
// =================================================================================

// GetProperties handles GET /properties
func (h *Handler) GetProperties(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	properties, err := h.db.ListProperties(ctx)
	if err != nil {
		log.Printf("Failed to list properties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list properties"})
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "properties": properties})
}

// GetPropertyValues handles GET /properties/:id/values
func (h *Handler) GetPropertyValues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	values, err := h.db.ListPropertyValues(ctx, propertyID)
	if err != nil {
		log.Printf("Failed to list values for property %d: %v", propertyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list property values"})
		return
	}
	if values == nil {
		values = []models.PropertyValue{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "values": values})
}

// CreateProperty handles POST /properties
func (h *Handler) CreateProperty(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !req.DataType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data_type: must be text, number or select"})
		return
	}

	propertyID, err := h.db.CreateProperty(ctx, req)
	if err != nil {
		log.Printf("Failed to create property: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "property_id": propertyID})
}

// UpdateProperty handles PUT /properties/:id
func (h *Handler) UpdateProperty(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.db.UpdateProperty(ctx, propertyID, req); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		log.Printf("Failed to update property %d: %v", propertyID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property updated"})
}

// DeleteProperty handles DELETE /properties/:id. Deletion is refused while
// any variant assignment references the property.
func (h *Handler) DeleteProperty(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	if err := h.db.DeleteProperty(ctx, propertyID); err != nil {
		switch {
		case errors.Is(err, db.ErrValueInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Property is referenced by existing variants"})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		default:
			log.Printf("Failed to delete property %d: %v", propertyID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete property"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property deleted"})
}

// CreatePropertyValue handles POST /properties/:id/values
func (h *Handler) CreatePropertyValue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}

	var req models.CreatePropertyValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	valueID, err := h.db.CreatePropertyValue(ctx, propertyID, req)
	if err != nil {
		log.Printf("Failed to create property value: %v", err)
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			c.JSON(http.StatusConflict, gin.H{"error": "An active value with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create property value"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "value_id": valueID})
}

// DeletePropertyValue handles DELETE /properties/:id/values/:value_id
func (h *Handler) DeletePropertyValue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID format"})
		return
	}
	valueID, err := strconv.Atoi(c.Param("value_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid value ID format"})
		return
	}

	if err := h.db.DeletePropertyValue(ctx, propertyID, valueID); err != nil {
		switch {
		case errors.Is(err, db.ErrValueInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Value is referenced by existing variants"})
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Property value not found"})
		default:
			log.Printf("Failed to delete property value %d: %v", valueID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete property value"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property value deleted"})
}

// GetProductTypes handles GET /product-types
func (h *Handler) GetProductTypes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	types, err := h.db.ListProductTypes(ctx)
	if err != nil {
		log.Printf("Failed to list product types: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list product types"})
		return
	}
	if types == nil {
		types = []models.ProductType{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product_types": types})
}

// CreateProductType handles POST /product-types
func (h *Handler) CreateProductType(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var req models.CreateProductTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	typeID, err := h.db.CreateProductType(ctx, req)
	if err != nil {
		log.Printf("Failed to create product type: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create product type"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product_type_id": typeID})
}

// GetProductTypeProperties handles GET /product-types/:id/properties
func (h *Handler) GetProductTypeProperties(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	typeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product type ID format"})
		return
	}

	properties, err := h.db.GetPropertiesForProductType(ctx, typeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}
		log.Printf("Failed to get properties for type %d: %v", typeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get type properties"})
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "properties": properties})
}

// SetProductTypeProperties handles PUT /product-types/:id/properties
func (h *Handler) SetProductTypeProperties(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	typeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product type ID format"})
		return
	}

	var req models.SetTypePropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.db.SetProductTypeProperties(ctx, typeID, req.PropertyIDs); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}
		log.Printf("Failed to set properties for type %d: %v", typeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to set type properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product type properties updated"})
}
