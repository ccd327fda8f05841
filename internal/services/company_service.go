package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caja/internal/core"
	"caja/internal/storage"

	"github.com/google/uuid"
)

// CompanyService maintains the business profile and its logo file.
type CompanyService struct {
	storage   *storage.SQLiteRepository
	uploadDir string
}

func NewCompanyService(storage *storage.SQLiteRepository, uploadDir string) *CompanyService {
	return &CompanyService{storage: storage, uploadDir: uploadDir}
}

func (s *CompanyService) Get(ctx context.Context, userID string) (core.Company, error) {
	return s.storage.GetCompany(ctx, userID)
}

// Save creates or updates the user's single company profile.
func (s *CompanyService) Save(ctx context.Context, c core.Company) (core.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return core.Company{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.storage.UpsertCompany(ctx, c)
}

func (s *CompanyService) Delete(ctx context.Context, userID string) error {
	c, err := s.storage.GetCompany(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteCompany(ctx, userID); err != nil {
		return err
	}
	if c.LogoPath != "" {
		// Best effort; a stale file is not worth failing the delete.
		os.Remove(c.LogoPath)
	}
	return nil
}

// SetLogo stores the image bytes under the upload dir and records the
// path on the profile. ext carries the sniffed image extension.
func (s *CompanyService) SetLogo(ctx context.Context, userID string, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.uploadDir, fmt.Sprintf("logo_%s%s", userID, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write logo file: %w", err)
	}

	if err := s.storage.UpdateCompanyLogo(ctx, userID, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// RemoveLogo clears the logo path and deletes the file.
func (s *CompanyService) RemoveLogo(ctx context.Context, userID string) error {
	c, err := s.storage.GetCompany(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.storage.UpdateCompanyLogo(ctx, userID, ""); err != nil {
		return err
	}
	if c.LogoPath != "" {
		os.Remove(c.LogoPath)
	}
	return nil
}
