package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/gee-graphics/gee-graphics-api/utils"
)

// MockMockupService is a mock implementation of MockupService for testing
type MockMockupService struct {
	storedMockups map[string][]byte // map of key to (uncompressed) file content
	mu            sync.RWMutex
	nextKey       int
}

// NewMockMockupService creates a new mock mockup service
func NewMockMockupService() *MockMockupService {
	return &MockMockupService{
		storedMockups: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global mockup service instance for testing
func (m *MockMockupService) SetAsMockForTesting() {
	SetMockupService(m)
}

// ProcessAndStore simulates compressing and storing a mockup
func (m *MockMockupService) ProcessAndStore(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.nextKey++
	key := fmt.Sprintf("mockups/mock_%d.jpg", m.nextKey)
	m.storedMockups[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetMockupURL simulates generating a URL for a mockup
func (m *MockMockupService) GetMockupURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.storedMockups[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("mockup not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteMockup simulates deleting a mockup
func (m *MockMockupService) DeleteMockup(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.storedMockups, key)
	m.mu.Unlock()

	return nil
}

// MockupExists checks if a mockup exists in mock storage
func (m *MockMockupService) MockupExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.storedMockups[key]
	return exists
}

// Clear removes all mockups from mock storage
func (m *MockMockupService) Clear() {
	m.mu.Lock()
	m.storedMockups = make(map[string][]byte)
	m.mu.Unlock()
}
