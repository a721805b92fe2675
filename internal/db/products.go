package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/modabox/modabox/backend/catalog-service/internal/models"
)

// GetProduct fetches a product with its type, variants (including property
// value assignments and variant image), and general images. Soft-deleted
// products are treated as absent.
func (db *Database) GetProduct(ctx context.Context, productID int) (*models.ProductDetail, error) {
	var detail models.ProductDetail
	err := db.Pool.QueryRow(ctx, `
        SELECT
            p.product_id, p.name, p.sku, p.description, p.subtitle,
            p.product_type_id, p.is_featured, p.is_deleted, p.created_at, p.updated_at,
            pt.name, pt.code
        FROM products p
        JOIN product_types pt ON pt.product_type_id = p.product_type_id
        WHERE p.product_id = $1 AND p.is_deleted = false
    `, productID).Scan(
		&detail.ID, &detail.Name, &detail.SKU, &detail.Description, &detail.Subtitle,
		&detail.ProductTypeID, &detail.IsFeatured, &detail.IsDeleted, &detail.CreatedAt, &detail.UpdatedAt,
		&detail.ProductTypeName, &detail.ProductTypeCode,
	)
	if err := scanOne(err, "product"); err != nil {
		return nil, err
	}

	variants, err := db.getProductVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	detail.Variants = variants

	images, err := db.getGeneralImages(ctx, productID)
	if err != nil {
		return nil, err
	}
	detail.Images = images

	detail.LegacyProjection = models.BuildLegacyProjection(detail.Name, detail.ProductTypeName, variants)

	return &detail, nil
}

// getProductVariants loads all variants of a product with their property
// value assignments (joined to the property for its display name) and image.
func (db *Database) getProductVariants(ctx context.Context, productID int) ([]models.ProductVariant, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT
            variant_id, product_id, sku, price, compare_at_price, cost, quantity,
            weight, weight_unit, barcode, track_quantity,
            continue_selling_when_out_of_stock, is_visible, created_at, updated_at
        FROM product_variants
        WHERE product_id = $1
        ORDER BY created_at, variant_id
    `, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	var variants []models.ProductVariant
	for rows.Next() {
		var v models.ProductVariant
		err := rows.Scan(
			&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.CompareAtPrice, &v.Cost, &v.Quantity,
			&v.Weight, &v.WeightUnit, &v.Barcode, &v.TrackQuantity,
			&v.ContinueSellingWhenOutOfStock, &v.IsVisible, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	for i := range variants {
		assignments, err := db.getVariantAssignments(ctx, variants[i].ID)
		if err != nil {
			return nil, err
		}
		variants[i].PropertyValues = assignments

		image, err := db.getVariantImage(ctx, variants[i].ID)
		if err != nil {
			return nil, err
		}
		variants[i].Image = image
	}

	return variants, nil
}

func (db *Database) getVariantAssignments(ctx context.Context, variantID string) ([]models.PropertyValueAssignment, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT vpv.variant_id, vpv.property_id, p.name, vpv.value
        FROM variant_property_values vpv
        JOIN properties p ON p.property_id = vpv.property_id
        WHERE vpv.variant_id = $1
        ORDER BY p.display_order, p.name
    `, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variant assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.PropertyValueAssignment
	for rows.Next() {
		var a models.PropertyValueAssignment
		if err := rows.Scan(&a.VariantID, &a.PropertyID, &a.PropertyName, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan variant assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variant assignments: %w", err)
	}

	return assignments, nil
}

func (db *Database) getVariantImage(ctx context.Context, variantID string) (*models.ProductImage, error) {
	var img models.ProductImage
	err := db.Pool.QueryRow(ctx, `
        SELECT image_id, product_id, variant_id, image_url, display_order, is_primary, created_at
        FROM product_images
        WHERE variant_id = $1
        ORDER BY is_primary DESC, display_order
        LIMIT 1
    `, variantID).Scan(&img.ID, &img.ProductID, &img.VariantID, &img.ImageURL, &img.DisplayOrder, &img.IsPrimary, &img.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get variant image: %w", err)
	}
	return &img, nil
}

func (db *Database) getGeneralImages(ctx context.Context, productID int) ([]models.ProductImage, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT image_id, product_id, variant_id, image_url, display_order, is_primary, created_at
        FROM product_images
        WHERE product_id = $1 AND variant_id IS NULL
        ORDER BY display_order, image_id
    `, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	var images []models.ProductImage
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.VariantID, &img.ImageURL, &img.DisplayOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}

	return images, nil
}

// ListProducts returns non-deleted products for the storefront, optionally
// filtered to featured ones. Variants are restricted to visible ones.
func (db *Database) ListProducts(ctx context.Context, featuredOnly bool) ([]models.ProductDetail, error) {
	query := `
        SELECT
            p.product_id, p.name, p.sku, p.description, p.subtitle,
            p.product_type_id, p.is_featured, p.is_deleted, p.created_at, p.updated_at,
            pt.name, pt.code
        FROM products p
        JOIN product_types pt ON pt.product_type_id = p.product_type_id
        WHERE p.is_deleted = false
    `
	if featuredOnly {
		query += " AND p.is_featured = true"
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductDetail
	for rows.Next() {
		var d models.ProductDetail
		err := rows.Scan(
			&d.ID, &d.Name, &d.SKU, &d.Description, &d.Subtitle,
			&d.ProductTypeID, &d.IsFeatured, &d.IsDeleted, &d.CreatedAt, &d.UpdatedAt,
			&d.ProductTypeName, &d.ProductTypeCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	for i := range products {
		variants, err := db.getProductVariants(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		visible := variants[:0]
		for _, v := range variants {
			if v.IsVisible {
				visible = append(visible, v)
			}
		}
		products[i].Variants = visible

		images, err := db.getGeneralImages(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Images = images

		products[i].LegacyProjection = models.BuildLegacyProjection(products[i].Name, products[i].ProductTypeName, visible)
	}

	return products, nil
}

// CreateProduct inserts a product and its initial variants in one transaction
func (db *Database) CreateProduct(ctx context.Context, req models.CreateProductRequest) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID int
	err = tx.QueryRow(ctx, `
        INSERT INTO products (name, sku, description, subtitle, product_type_id, is_featured, is_deleted)
        VALUES ($1, $2, $3, $4, $5, $6, false)
        RETURNING product_id
    `, req.Name, req.SKU, req.Description, req.Subtitle, req.ProductTypeID, req.IsFeatured).Scan(&productID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product: %w", err)
	}

	for _, input := range req.Variants {
		if _, err := insertVariant(ctx, tx, productID, input); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return productID, nil
}

// UpdateProduct updates a product's scalar fields and, when variants are
// supplied, reconciles the stored variant set against the submitted one by
// stable variant id inside the same transaction: matched variants are updated
// in place (keeping their identity), new ones inserted, unmatched ones
// deleted along with their assignments and images. An empty or absent
// variants slice leaves the stored set untouched.
func (db *Database) UpdateProduct(ctx context.Context, productID int, req models.UpdateProductRequest) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
        UPDATE products
        SET
            name = COALESCE($2, name),
            sku = COALESCE($3, sku),
            description = COALESCE($4, description),
            subtitle = COALESCE($5, subtitle),
            product_type_id = COALESCE($6, product_type_id),
            is_featured = COALESCE($7, is_featured),
            updated_at = CURRENT_TIMESTAMP
        WHERE product_id = $1 AND is_deleted = false
    `, productID, req.Name, req.SKU, req.Description, req.Subtitle, req.ProductTypeID, req.IsFeatured)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	if touchesVariants(req) {
		if err := reconcileVariants(ctx, tx, productID, req.Variants); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// touchesVariants reports whether an update submission carries a variant set.
// A nil or empty slice leaves the stored variants untouched; reconciliation
// runs only for a non-empty submission.
func touchesVariants(req models.UpdateProductRequest) bool {
	return len(req.Variants) > 0
}

// reconcileVariants diffs the submitted variant set against the stored one
// within an open transaction.
func reconcileVariants(ctx context.Context, tx pgx.Tx, productID int, inputs []models.VariantInput) error {
	rows, err := tx.Query(ctx, "SELECT variant_id FROM product_variants WHERE product_id = $1", productID)
	if err != nil {
		return fmt.Errorf("failed to query stored variants: %w", err)
	}
	var stored []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan variant id: %w", err)
		}
		stored = append(stored, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating variant ids: %w", err)
	}

	updates, inserts, deletes := variantReconcilePlan(stored, inputs)
	for _, input := range updates {
		if err := updateVariant(ctx, tx, input); err != nil {
			return err
		}
	}
	for _, input := range inserts {
		if _, err := insertVariant(ctx, tx, productID, input); err != nil {
			return err
		}
	}
	for _, id := range deletes {
		if err := deleteVariant(ctx, tx, id); err != nil {
			return err
		}
	}

	return nil
}

// variantReconcilePlan classifies a submitted variant set against the stored
// variant ids: a submission whose id matches a stored variant updates it in
// place, anything else is inserted, and stored variants absent from the
// submission are deleted. Applying the plan leaves the stored set exactly
// equal to the submitted one.
func variantReconcilePlan(stored []string, inputs []models.VariantInput) (updates, inserts []models.VariantInput, deletes []string) {
	storedSet := make(map[string]bool, len(stored))
	for _, id := range stored {
		storedSet[id] = true
	}

	matched := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		if input.ID != "" && storedSet[input.ID] {
			matched[input.ID] = true
			updates = append(updates, input)
		} else {
			inserts = append(inserts, input)
		}
	}

	for _, id := range stored {
		if !matched[id] {
			deletes = append(deletes, id)
		}
	}
	return updates, inserts, deletes
}

func insertVariant(ctx context.Context, tx pgx.Tx, productID int, input models.VariantInput) (string, error) {
	variantID := input.ID
	if variantID == "" {
		variantID = uuid.New().String()
	}
	weightUnit := input.WeightUnit
	if weightUnit == "" {
		weightUnit = "kg"
	}

	_, err := tx.Exec(ctx, `
        INSERT INTO product_variants (
            variant_id, product_id, sku, price, compare_at_price, cost, quantity,
            weight, weight_unit, barcode, track_quantity,
            continue_selling_when_out_of_stock, is_visible
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `, variantID, productID, input.SKU, input.Price, input.CompareAtPrice, input.Cost, input.Quantity,
		input.Weight, weightUnit, input.Barcode, input.TrackQuantity,
		input.ContinueSellingWhenOutOfStock, input.IsVisible)
	if err != nil {
		return "", fmt.Errorf("failed to insert variant: %w", err)
	}

	if err := replaceVariantAssignments(ctx, tx, variantID, input.PropertyValues); err != nil {
		return "", err
	}
	if err := setVariantImage(ctx, tx, productID, variantID, input.ImageURL); err != nil {
		return "", err
	}

	return variantID, nil
}

func updateVariant(ctx context.Context, tx pgx.Tx, input models.VariantInput) error {
	weightUnit := input.WeightUnit
	if weightUnit == "" {
		weightUnit = "kg"
	}

	var productID int
	err := tx.QueryRow(ctx, `
        UPDATE product_variants
        SET
            sku = $2, price = $3, compare_at_price = $4, cost = $5, quantity = $6,
            weight = $7, weight_unit = $8, barcode = $9, track_quantity = $10,
            continue_selling_when_out_of_stock = $11, is_visible = $12,
            updated_at = CURRENT_TIMESTAMP
        WHERE variant_id = $1
        RETURNING product_id
    `, input.ID, input.SKU, input.Price, input.CompareAtPrice, input.Cost, input.Quantity,
		input.Weight, weightUnit, input.Barcode, input.TrackQuantity,
		input.ContinueSellingWhenOutOfStock, input.IsVisible).Scan(&productID)
	if err != nil {
		return fmt.Errorf("failed to update variant: %w", err)
	}

	if err := replaceVariantAssignments(ctx, tx, input.ID, input.PropertyValues); err != nil {
		return err
	}
	return setVariantImage(ctx, tx, productID, input.ID, input.ImageURL)
}

func deleteVariant(ctx context.Context, tx pgx.Tx, variantID string) error {
	_, err := tx.Exec(ctx, "DELETE FROM product_images WHERE variant_id = $1", variantID)
	if err != nil {
		return fmt.Errorf("failed to delete variant images: %w", err)
	}
	_, err = tx.Exec(ctx, "DELETE FROM variant_property_values WHERE variant_id = $1", variantID)
	if err != nil {
		return fmt.Errorf("failed to delete variant assignments: %w", err)
	}
	_, err = tx.Exec(ctx, "DELETE FROM product_variants WHERE variant_id = $1", variantID)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}
	return nil
}

// replaceVariantAssignments rewrites a variant's property value set. The
// unique constraint on (variant_id, property_id) keeps at most one value per
// property.
func replaceVariantAssignments(ctx context.Context, tx pgx.Tx, variantID string, values []models.VariantPropertyInput) error {
	_, err := tx.Exec(ctx, "DELETE FROM variant_property_values WHERE variant_id = $1", variantID)
	if err != nil {
		return fmt.Errorf("failed to clear variant assignments: %w", err)
	}
	for _, pv := range values {
		_, err = tx.Exec(ctx, `
            INSERT INTO variant_property_values (variant_id, property_id, value)
            VALUES ($1, $2, $3)
            ON CONFLICT (variant_id, property_id) DO UPDATE SET value = EXCLUDED.value
        `, variantID, pv.PropertyID, pv.Value)
		if err != nil {
			return fmt.Errorf("failed to insert variant assignment: %w", err)
		}
	}
	return nil
}

// setVariantImage replaces the variant's image when a URL is supplied; a nil
// URL leaves the existing image alone.
func setVariantImage(ctx context.Context, tx pgx.Tx, productID int, variantID string, imageURL *string) error {
	if imageURL == nil {
		return nil
	}
	_, err := tx.Exec(ctx, "DELETE FROM product_images WHERE variant_id = $1", variantID)
	if err != nil {
		return fmt.Errorf("failed to delete existing variant image: %w", err)
	}
	if *imageURL == "" {
		return nil
	}
	_, err = tx.Exec(ctx, `
        INSERT INTO product_images (product_id, variant_id, image_url, display_order, is_primary)
        VALUES ($1, $2, $3, 1, true)
    `, productID, variantID, *imageURL)
	if err != nil {
		return fmt.Errorf("failed to insert variant image: %w", err)
	}
	return nil
}

// SoftDeleteProduct marks a product deleted. Rows are never physically
// removed once they have sales history; order items keep their captured
// price and quantity.
func (db *Database) SoftDeleteProduct(ctx context.Context, productID int) error {
	result, err := db.Pool.Exec(ctx, `
        UPDATE products
        SET is_deleted = true, updated_at = CURRENT_TIMESTAMP
        WHERE product_id = $1 AND is_deleted = false
    `, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProducts returns the number of non-deleted products
func (db *Database) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM products WHERE is_deleted = false").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// AddProductImage attaches a general (non-variant) image to a product
func (db *Database) AddProductImage(ctx context.Context, productID int, imageURL string, isPrimary bool) (int, error) {
	var imageID int
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO product_images (product_id, image_url, display_order, is_primary)
        VALUES ($1, $2, (
            SELECT COALESCE(MAX(display_order), 0) + 1
            FROM product_images
            WHERE product_id = $1 AND variant_id IS NULL
        ), $3)
        RETURNING image_id
    `, productID, imageURL, isPrimary).Scan(&imageID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product image: %w", err)
	}
	return imageID, nil
}

// SetVariantImage replaces a variant's image outside of a product update
func (db *Database) SetVariantImage(ctx context.Context, variantID, imageURL string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID int
	err = tx.QueryRow(ctx,
		"SELECT product_id FROM product_variants WHERE variant_id = $1", variantID,
	).Scan(&productID)
	if err := scanOne(err, "variant"); err != nil {
		return err
	}

	if err := setVariantImage(ctx, tx, productID, variantID, &imageURL); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
