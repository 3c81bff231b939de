// Package storage handles the two object buckets the platform exposes: a
// private one for CV documents and a public one for product images. All
// size and MIME validation happens here, synchronously, before any network
// call is made.
package storage

import (
	"errors"
	"time"
)

// Bucket names on the platform.
const (
	BucketCVs           = "cvs"
	BucketProductImages = "product-images"
)

// Upload ceilings and the signed-URL lifetime for private documents.
const (
	MaxProductImageSize = 5 * 1024 * 1024  // 5MB
	MaxCVSize           = 10 * 1024 * 1024 // 10MB

	SignedURLTTL = 60 * time.Second
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var allowedCVTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var (
	ErrCVTooLarge    = errors.New("file size must be less than 10MB")
	ErrCVType        = errors.New("please upload a PDF, DOC, or DOCX file")
	ErrImageTooLarge = errors.New("image size must be less than 5MB")
	ErrImageType     = errors.New("please upload a JPEG, PNG, or WebP image")
)

// ValidateCV checks a document against the CV bucket's limits.
func ValidateCV(size int64, contentType string) error {
	if size > MaxCVSize {
		return ErrCVTooLarge
	}
	if !allowedCVTypes[contentType] {
		return ErrCVType
	}
	return nil
}

// ValidateProductImage checks an image against the image bucket's limits.
func ValidateProductImage(size int64, contentType string) error {
	if size > MaxProductImageSize {
		return ErrImageTooLarge
	}
	if !allowedImageTypes[contentType] {
		return ErrImageType
	}
	return nil
}
