package models

import (
	"strings"
	"time"
)

// Product represents a sellable item in the catalog
type Product struct {
	ID            int       `json:"id" db:"product_id"`
	Name          string    `json:"name" db:"name"`
	SKU           *string   `json:"sku,omitempty" db:"sku"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Subtitle      *string   `json:"subtitle,omitempty" db:"subtitle"`
	ProductTypeID int       `json:"product_type_id" db:"product_type_id"`
	IsFeatured    bool      `json:"is_featured" db:"is_featured"`
	IsDeleted     bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProductVariant represents a concrete purchasable SKU of a product.
// Identity is the UUID, not the SKU; the SKU may be edited without the
// variant losing its assignments or image.
type ProductVariant struct {
	ID                            string                    `json:"id" db:"variant_id"`
	ProductID                     int                       `json:"product_id" db:"product_id"`
	SKU                           string                    `json:"sku" db:"sku"`
	Price                         float64                   `json:"price" db:"price"`
	CompareAtPrice                *float64                  `json:"compare_at_price,omitempty" db:"compare_at_price"`
	Cost                          *float64                  `json:"cost,omitempty" db:"cost"`
	Quantity                      int                       `json:"quantity" db:"quantity"`
	Weight                        *float64                  `json:"weight,omitempty" db:"weight"`
	WeightUnit                    string                    `json:"weight_unit" db:"weight_unit"`
	Barcode                       *string                   `json:"barcode,omitempty" db:"barcode"`
	TrackQuantity                 bool                      `json:"track_quantity" db:"track_quantity"`
	ContinueSellingWhenOutOfStock bool                      `json:"continue_selling_when_out_of_stock" db:"continue_selling_when_out_of_stock"`
	IsVisible                     bool                      `json:"is_visible" db:"is_visible"`
	PropertyValues                []PropertyValueAssignment `json:"property_values,omitempty"`
	Image                         *ProductImage             `json:"image,omitempty"`
	CreatedAt                     time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt                     time.Time                 `json:"updated_at" db:"updated_at"`
}

// PropertyValueAssignment binds one property value to a variant.
// At most one value per (variant, property) pair.
type PropertyValueAssignment struct {
	VariantID    string `json:"variant_id" db:"variant_id"`
	PropertyID   int    `json:"property_id" db:"property_id"`
	PropertyName string `json:"property_name,omitempty"`
	Value        string `json:"value" db:"value"`
}

// ProductImage represents an image attached to a product or to one of its variants
type ProductImage struct {
	ID           int       `json:"id" db:"image_id"`
	ProductID    int       `json:"product_id" db:"product_id"`
	VariantID    *string   `json:"variant_id,omitempty" db:"variant_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ProductDetail is the full read shape: product, its type, variants with
// assignments and images, general images, and the legacy flat projection.
type ProductDetail struct {
	Product
	ProductTypeName string           `json:"product_type_name"`
	ProductTypeCode string           `json:"product_type_code"`
	Variants        []ProductVariant `json:"variants"`
	Images          []ProductImage   `json:"images"`
	LegacyProjection
}

// LegacyProjection is the flat shape an older consumer expects. Brand and
// model are derived from the product name at read time; color and size come
// from the first variant's assignments.
type LegacyProjection struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Category string `json:"category"`
}

// SplitLegacyName derives brand/model from a product name: the first word is
// the brand, the remainder the model. Fragile for multi-word brands.
func SplitLegacyName(name string) (brand, model string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	brand = parts[0]
	if len(parts) == 2 {
		model = strings.TrimSpace(parts[1])
	}
	return brand, model
}

// BuildLegacyProjection assembles the flat legacy shape for a product detail
func BuildLegacyProjection(name, typeName string, variants []ProductVariant) LegacyProjection {
	proj := LegacyProjection{Category: typeName}
	proj.Brand, proj.Model = SplitLegacyName(name)
	if len(variants) == 0 {
		return proj
	}
	for _, pv := range variants[0].PropertyValues {
		switch strings.ToLower(pv.PropertyName) {
		case "color", "colour":
			proj.Color = pv.Value
		case "size":
			proj.Size = pv.Value
		}
	}
	return proj
}

// VariantInput represents a variant as submitted by the admin editor.
// An empty ID marks a new variant; a non-empty ID must match a stored one.
type VariantInput struct {
	ID                            string                 `json:"id"`
	SKU                           string                 `json:"sku" binding:"required"`
	Price                         float64                `json:"price"`
	CompareAtPrice                *float64               `json:"compare_at_price"`
	Cost                          *float64               `json:"cost"`
	Quantity                      int                    `json:"quantity"`
	Weight                        *float64               `json:"weight"`
	WeightUnit                    string                 `json:"weight_unit"`
	Barcode                       *string                `json:"barcode"`
	TrackQuantity                 bool                   `json:"track_quantity"`
	ContinueSellingWhenOutOfStock bool                   `json:"continue_selling_when_out_of_stock"`
	IsVisible                     bool                   `json:"is_visible"`
	PropertyValues                []VariantPropertyInput `json:"property_values"`
	ImageURL                      *string                `json:"image_url"`
}

// VariantPropertyInput binds a property to a value in a variant submission
type VariantPropertyInput struct {
	PropertyID int    `json:"property_id" binding:"required"`
	Value      string `json:"value" binding:"required"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name          string         `json:"name" binding:"required"`
	SKU           *string        `json:"sku"`
	Description   *string        `json:"description"`
	Subtitle      *string        `json:"subtitle"`
	ProductTypeID int            `json:"product_type_id" binding:"required"`
	IsFeatured    bool           `json:"is_featured"`
	Variants      []VariantInput `json:"variants"`
}

// UpdateProductRequest represents a request to update a product. Nil pointer
// fields are left unchanged; a nil or empty Variants slice leaves the stored
// variant set untouched.
type UpdateProductRequest struct {
	Name          *string        `json:"name"`
	SKU           *string        `json:"sku"`
	Description   *string        `json:"description"`
	Subtitle      *string        `json:"subtitle"`
	ProductTypeID *int           `json:"product_type_id"`
	IsFeatured    *bool          `json:"is_featured"`
	Variants      []VariantInput `json:"variants"`
}
