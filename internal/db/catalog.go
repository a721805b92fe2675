package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// ErrValueInUse is returned when a property or value deletion would orphan
// existing variant assignments.
var ErrValueInUse = errors.New("referenced by variant property assignments")

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ListProperties returns all properties ordered by display_order, with active
// values nested for select properties.
func (db *Database) ListProperties(ctx context.Context) ([]models.Property, error) {
	query := `
        SELECT property_id, name, description, data_type, display_order, created_at, updated_at
        FROM properties
        ORDER BY display_order, name
    `
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DataType, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	for i := range properties {
		if properties[i].DataType != models.PropertyDataTypeSelect {
			continue
		}
		values, err := db.ListPropertyValues(ctx, properties[i].ID)
		if err != nil {
			return nil, err
		}
		properties[i].Values = values
	}

	return properties, nil
}

// ListPropertyValues returns the active values of a property, ordered by
// display_order with the value string as tiebreak.
func (db *Database) ListPropertyValues(ctx context.Context, propertyID int) ([]models.PropertyValue, error) {
	query := `
        SELECT value_id, property_id, value, is_active, display_order, created_at
        FROM property_values
        WHERE property_id = $1 AND is_active = true
        ORDER BY display_order, value
    `
	rows, err := db.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property values: %w", err)
	}
	defer rows.Close()

	var values []models.PropertyValue
	for rows.Next() {
		var v models.PropertyValue
		if err := rows.Scan(&v.ID, &v.PropertyID, &v.Value, &v.IsActive, &v.DisplayOrder, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property values: %w", err)
	}

	return values, nil
}

// CreateProperty inserts a property and, for select properties, its initial values
func (db *Database) CreateProperty(ctx context.Context, req models.CreatePropertyRequest) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var propertyID int
	err = tx.QueryRow(ctx, `
        INSERT INTO properties (name, description, data_type, display_order)
        VALUES ($1, $2, $3, $4)
        RETURNING property_id
    `, req.Name, req.Description, req.DataType, req.DisplayOrder).Scan(&propertyID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property: %w", err)
	}

	if req.DataType == models.PropertyDataTypeSelect {
		for i, value := range req.Values {
			_, err = tx.Exec(ctx, `
                INSERT INTO property_values (property_id, value, is_active, display_order)
                VALUES ($1, $2, true, $3)
            `, propertyID, value, i+1)
			if err != nil {
				return 0, fmt.Errorf("failed to insert property value: %w", err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return propertyID, nil
}

// UpdateProperty updates a property's scalar fields
func (db *Database) UpdateProperty(ctx context.Context, propertyID int, req models.UpdatePropertyRequest) error {
	result, err := db.Pool.Exec(ctx, `
        UPDATE properties
        SET
            name = COALESCE($2, name),
            description = COALESCE($3, description),
            display_order = COALESCE($4, display_order),
            updated_at = CURRENT_TIMESTAMP
        WHERE property_id = $1
    `, propertyID, req.Name, req.Description, req.DisplayOrder)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePropertyValue adds a value to a select property. Active values must be
// unique by value string; the partial unique index surfaces duplicates as a
// constraint violation.
func (db *Database) CreatePropertyValue(ctx context.Context, propertyID int, req models.CreatePropertyValueRequest) (int, error) {
	var valueID int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO property_values (property_id, value, is_active, display_order)
        VALUES ($1, $2, true, $3)
        RETURNING value_id
    `, propertyID, req.Value, req.DisplayOrder).Scan(&valueID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property value: %w", err)
	}
	return valueID, nil
}

// DeletePropertyValue deactivates a value after checking no variant assignment
// references it. Deactivation rather than deletion keeps historical
// assignments displayable.
func (db *Database) DeletePropertyValue(ctx context.Context, propertyID, valueID int) error {
	var refs int
	err := db.Pool.QueryRow(ctx, `
        SELECT COUNT(1)
        FROM variant_property_values vpv
        JOIN property_values pv ON pv.property_id = vpv.property_id AND pv.value = vpv.value
        WHERE pv.value_id = $1
    `, valueID).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to check value references: %w", err)
	}
	if refs > 0 {
		return ErrValueInUse
	}

	result, err := db.Pool.Exec(ctx, `
        UPDATE property_values SET is_active = false
        WHERE property_id = $1 AND value_id = $2
    `, propertyID, valueID)
	if err != nil {
		return fmt.Errorf("failed to deactivate property value: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProperty removes a property after checking no variant assignment
// references it.
func (db *Database) DeleteProperty(ctx context.Context, propertyID int) error {
	var refs int
	err := db.Pool.QueryRow(ctx,
		"SELECT COUNT(1) FROM variant_property_values WHERE property_id = $1", propertyID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to check property references: %w", err)
	}
	if refs > 0 {
		return ErrValueInUse
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM property_values WHERE property_id = $1", propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property values: %w", err)
	}
	_, err = tx.Exec(ctx, "DELETE FROM product_type_properties WHERE property_id = $1", propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete type associations: %w", err)
	}
	result, err := tx.Exec(ctx, "DELETE FROM properties WHERE property_id = $1", propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListProductTypes returns all product types
func (db *Database) ListProductTypes(ctx context.Context) ([]models.ProductType, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT product_type_id, name, code, created_at, updated_at
        FROM product_types
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query product types: %w", err)
	}
	defer rows.Close()

	var types []models.ProductType
	for rows.Next() {
		var t models.ProductType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product types: %w", err)
	}

	return types, nil
}

// CreateProductType inserts a product type and its property associations
func (db *Database) CreateProductType(ctx context.Context, req models.CreateProductTypeRequest) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var typeID int
	err = tx.QueryRow(ctx, `
        INSERT INTO product_types (name, code)
        VALUES ($1, $2)
        RETURNING product_type_id
    `, req.Name, req.Code).Scan(&typeID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product type: %w", err)
	}

	for _, propertyID := range req.PropertyIDs {
		_, err = tx.Exec(ctx,
			"INSERT INTO product_type_properties (product_type_id, property_id) VALUES ($1, $2)",
			typeID, propertyID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert type property association: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return typeID, nil
}

// GetPropertiesForProductType returns the properties associated with a product
// type, with active values nested for select properties.
func (db *Database) GetPropertiesForProductType(ctx context.Context, productTypeID int) ([]models.Property, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM product_types WHERE product_type_id = $1)", productTypeID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check product type: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	query := `
        SELECT p.property_id, p.name, p.description, p.data_type, p.display_order, p.created_at, p.updated_at
        FROM properties p
        JOIN product_type_properties ptp ON ptp.property_id = p.property_id
        WHERE ptp.product_type_id = $1
        ORDER BY p.display_order, p.name
    `
	rows, err := db.Pool.Query(ctx, query, productTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query type properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.DataType, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type properties: %w", err)
	}

	for i := range properties {
		if properties[i].DataType != models.PropertyDataTypeSelect {
			continue
		}
		values, err := db.ListPropertyValues(ctx, properties[i].ID)
		if err != nil {
			return nil, err
		}
		properties[i].Values = values
	}

	return properties, nil
}

// SetProductTypeProperties replaces a type's property associations
func (db *Database) SetProductTypeProperties(ctx context.Context, productTypeID int, propertyIDs []int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM product_types WHERE product_type_id = $1)", productTypeID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product type: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, "DELETE FROM product_type_properties WHERE product_type_id = $1", productTypeID)
	if err != nil {
		return fmt.Errorf("failed to clear type associations: %w", err)
	}
	for _, propertyID := range propertyIDs {
		_, err = tx.Exec(ctx,
			"INSERT INTO product_type_properties (product_type_id, property_id) VALUES ($1, $2)",
			productTypeID, propertyID)
		if err != nil {
			return fmt.Errorf("failed to insert type property association: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// scanOne is a small helper for single-row lookups that maps pgx.ErrNoRows to ErrNotFound
func scanOne(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
