package services

import (
	"fmt"
	"mime/multipart"

	"github.com/gee-graphics/gee-graphics-api/utils"
)

// MockupService handles the mockup attachment pipeline: validate,
// compress to a bounded width, store, and serve back by URL. The whole
// pipeline is a single awaitable call from the caller's point of view.
type MockupService interface {
	// ProcessAndStore compresses and stores the uploaded mockup,
	// returning its storage key.
	ProcessAndStore(fileHeader *multipart.FileHeader) (string, error)

	// GetMockupURL generates a URL for accessing a stored mockup
	GetMockupURL(key string) (string, error)

	// DeleteMockup removes a mockup from storage
	DeleteMockup(key string) error
}

// S3MockupService implements MockupService using S3 for storage
type S3MockupService struct {
	s3Service S3Interface
}

var mockupServiceInstance MockupService

// InitMockupService initializes the mockup service with S3 backend
func InitMockupService(s3Service S3Interface) MockupService {
	mockupServiceInstance = &S3MockupService{
		s3Service: s3Service,
	}
	return mockupServiceInstance
}

// GetMockupService returns the initialized mockup service instance
func GetMockupService() MockupService {
	return mockupServiceInstance
}

// SetMockupService sets the mockup service instance (primarily for testing)
func SetMockupService(service MockupService) {
	mockupServiceInstance = service
}

// ProcessAndStore validates, compresses and uploads a mockup image
func (s *S3MockupService) ProcessAndStore(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			_ = closeErr // not critical enough to fail the upload
		}
	}()

	compressed, err := utils.CompressMockup(file)
	if err != nil {
		return "", err
	}

	key := NewMockupKey()
	if err := s.s3Service.UploadObject(key, compressed, "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload mockup: %w", err)
	}

	return key, nil
}

// GetMockupURL generates a presigned URL for accessing a mockup
func (s *S3MockupService) GetMockupURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(key)
	if err != nil {
		return "", fmt.Errorf("failed to generate mockup URL: %w", err)
	}

	return url, nil
}

// DeleteMockup deletes a mockup from S3
func (s *S3MockupService) DeleteMockup(key string) error {
	if key == "" {
		return nil
	}

	if err := s.s3Service.DeleteObject(key); err != nil {
		return fmt.Errorf("failed to delete mockup: %w", err)
	}

	return nil
}
