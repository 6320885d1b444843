package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decode uploaded PNG mockups
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
	// MaxMockupWidth bounds the stored mockup; taller images keep aspect
	MaxMockupWidth = 800
	// MockupJPEGQuality is the re-encode quality for stored mockups
	MockupJPEGQuality = 70
)

// allowedExtensions are the mockup formats the dashboard accepts
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	// Check file extension
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only PNG and JPEG files are allowed",
		}
	}

	return nil
}

// CompressMockup decodes an uploaded image, downscales it to at most
// MaxMockupWidth pixels wide keeping aspect ratio, and re-encodes it as
// JPEG at MockupJPEGQuality. Images already narrow enough are only
// re-encoded.
func CompressMockup(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, &FileUploadError{
			Code:    "INVALID_IMAGE",
			Message: "Uploaded file is not a decodable image",
		}
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > MaxMockupWidth {
		height = height * MaxMockupWidth / width
		width = MaxMockupWidth
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: MockupJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode mockup: %w", err)
	}
	return buf.Bytes(), nil
}
