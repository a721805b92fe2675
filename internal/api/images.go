package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/modabox/modabox/backend/catalog-service/internal/db"
)

const maxImageSize = 10 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// openImageUpload extracts and validates the "image" form field: size cap and
// sniffed content type. The returned file is positioned at the start.
func openImageUpload(c *gin.Context) (*multipart.FileHeader, multipart.File, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'image' form field"})
		return nil, nil, false
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 10MB limit"})
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return nil, nil, false
	}

	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		file.Close()
		log.Printf("Failed to read file content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file content"})
		return nil, nil, false
	}
	file.Seek(0, 0)

	contentType := http.DetectContentType(buffer)
	if !allowedImageTypes[contentType] {
		file.Close()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only images are allowed"})
		return nil, nil, false
	}
	return fileHeader, file, true
}

// UploadProductImage handles POST /products/:id/images. S3 is tried first;
// local disk is the development fallback.
func (h *Handler) UploadProductImage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second) // Longer timeout for uploads
	defer cancel()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	fileHeader, file, ok := openImageUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("products/%d/%d%s", productID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	imageURL, err := uploadToS3(ctx, objectKey, file)
	if err != nil {
		log.Printf("S3 upload failed, falling back to local storage: %v", err)
		imageURL, err = uploadToLocal(objectKey, file)
		if err != nil {
			log.Printf("Local upload also failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
			return
		}
	}

	isPrimary := c.PostForm("is_primary") == "true"
	imageID, err := h.db.AddProductImage(ctx, productID, imageURL, isPrimary)
	if err != nil {
		log.Printf("Failed to save image URL to DB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File uploaded but failed to update product record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "image_id": imageID, "image_url": imageURL})
}

// UploadVariantImage handles POST /products/:id/variants/:variant_id/image.
// Each variant keeps at most one image; a new upload replaces it.
func (h *Handler) UploadVariantImage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}
	variantID := c.Param("variant_id")

	fileHeader, file, ok := openImageUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("products/%d/variants/%s/%d%s",
		productID, variantID, time.Now().UnixNano(), filepath.Ext(fileHeader.Filename))
	imageURL, err := uploadToS3(ctx, objectKey, file)
	if err != nil {
		log.Printf("S3 upload failed, falling back to local storage: %v", err)
		imageURL, err = uploadToLocal(objectKey, file)
		if err != nil {
			log.Printf("Local upload also failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
			return
		}
	}

	if err := h.db.SetVariantImage(ctx, variantID, imageURL); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
			return
		}
		log.Printf("Failed to save variant image URL to DB: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File uploaded but failed to update variant record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "image_url": imageURL})
}

// uploadToS3 uploads a file stream to the configured S3 bucket and returns
// the public CDN URL
func uploadToS3(ctx context.Context, objectKey string, file multipart.File) (string, error) {
	file.Seek(0, 0)

	bucketName := os.Getenv("S3_IMAGE_BUCKET")
	if bucketName == "" {
		return "", fmt.Errorf("S3_IMAGE_BUCKET not configured")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "eu-central-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("failed to load AWS default config: %w", err)
	}
	s3Client := s3.NewFromConfig(cfg)

	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucketName,
		Key:    &objectKey,
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	cdnBase := os.Getenv("ASSETS_CDN_BASE_URL")
	if cdnBase == "" {
		cdnBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, region)
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(cdnBase, "/"), objectKey), nil
}

// uploadToLocal writes the file under ./uploads for development
func uploadToLocal(objectKey string, file multipart.File) (string, error) {
	file.Seek(0, 0)

	filePath := filepath.Join("./uploads", filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	baseURL := os.Getenv("SERVICE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/uploads/%s", baseURL, objectKey), nil
}
