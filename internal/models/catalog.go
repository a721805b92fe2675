package models

import (
	"time"
)

// PropertyDataType represents the data type of a catalog property
type PropertyDataType string

const (
	PropertyDataTypeText   PropertyDataType = "text"
	PropertyDataTypeNumber PropertyDataType = "number"
	PropertyDataTypeSelect PropertyDataType = "select"
)

// IsValid checks if the property data type is valid
func (t PropertyDataType) IsValid() bool {
	switch t {
	case PropertyDataTypeText, PropertyDataTypeNumber, PropertyDataTypeSelect:
		return true
	default:
		return false
	}
}

// Property represents a named product attribute such as "Color" or "Size"
type Property struct {
	ID           int              `json:"id" db:"property_id"`
	Name         string           `json:"name" db:"name"`
	Description  *string          `json:"description,omitempty" db:"description"`
	DataType     PropertyDataType `json:"data_type" db:"data_type"`
	DisplayOrder int              `json:"display_order" db:"display_order"`
	Values       []PropertyValue  `json:"values,omitempty"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" db:"updated_at"`
}

// PropertyValue represents one allowed value of a select property
type PropertyValue struct {
	ID           int       `json:"id" db:"value_id"`
	PropertyID   int       `json:"property_id" db:"property_id"`
	Value        string    `json:"value" db:"value"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ProductType represents a category of products (e.g. "T-Shirts")
type ProductType struct {
	ID         int        `json:"id" db:"product_type_id"`
	Name       string     `json:"name" db:"name"`
	Code       string     `json:"code" db:"code"`
	Properties []Property `json:"properties,omitempty"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// CreatePropertyRequest represents a request to create a property
type CreatePropertyRequest struct {
	Name         string           `json:"name" binding:"required"`
	Description  *string          `json:"description"`
	DataType     PropertyDataType `json:"data_type" binding:"required"`
	DisplayOrder int              `json:"display_order"`
	Values       []string         `json:"values"`
}

// UpdatePropertyRequest represents a request to update a property's metadata
type UpdatePropertyRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order"`
}

// CreatePropertyValueRequest represents a request to add a value to a select property
type CreatePropertyValueRequest struct {
	Value        string `json:"value" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

// CreateProductTypeRequest represents a request to create a product type
type CreateProductTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	PropertyIDs []int  `json:"property_ids"`
}

// SetTypePropertiesRequest replaces the set of properties applicable to a type
type SetTypePropertiesRequest struct {
	PropertyIDs []int `json:"property_ids" binding:"required"`
}
