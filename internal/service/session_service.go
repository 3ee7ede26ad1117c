package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"invogen/internal/config"
	"invogen/internal/domain"
	"invogen/internal/port"
	"invogen/internal/session"
)

// CreateSessionInput is the DTO for starting a billing session.
type CreateSessionInput struct {
	Name           string
	LogoURL        string
	Email          string
	Phone          string
	Address        string
	GSTRatePercent *float64
	RangeLower     *int64
	RangeUpper     *int64
}

// LogoUploadInput is the DTO for uploading a company logo.
type LogoUploadInput struct {
	SessionID uuid.UUID
	File      multipart.File
	Header    *multipart.FileHeader
}

// SessionService manages billing sessions and their company profiles.
type SessionService interface {
	Create(ctx context.Context, input *CreateSessionInput) (*domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadLogo(ctx context.Context, input *LogoUploadInput) (string, error)
}

type sessionService struct {
	store      *session.Store
	storage    port.ObjectStorage // nil when logo storage is not configured
	s3Cfg      *config.S3Config
	invoiceCfg *config.InvoiceConfig
}

// NewSessionService creates a SessionService. storage may be nil when object
// storage is not configured; logo uploads then fail with ErrStorageUnavailable.
func NewSessionService(store *session.Store, storage port.ObjectStorage, s3Cfg *config.S3Config, invoiceCfg *config.InvoiceConfig) SessionService {
	return &sessionService{
		store:      store,
		storage:    storage,
		s3Cfg:      s3Cfg,
		invoiceCfg: invoiceCfg,
	}
}

func (s *sessionService) Create(_ context.Context, input *CreateSessionInput) (*domain.Session, error) {
	profile := domain.CompanyProfile{
		Name:           strings.TrimSpace(input.Name),
		LogoURL:        strings.TrimSpace(input.LogoURL),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		GSTRatePercent: s.invoiceCfg.DefaultGSTRate,
		InvoiceRange: domain.InvoiceIDRange{
			Lower: s.invoiceCfg.RangeLower,
			Upper: s.invoiceCfg.RangeUpper,
		},
	}
	if input.GSTRatePercent != nil {
		profile.GSTRatePercent = *input.GSTRatePercent
	}
	// The range is accepted as supplied; lower <= upper is deliberately not
	// enforced here. An inverted range routes invoice IDs to the timestamp
	// fallback in the computer.
	if input.RangeLower != nil {
		profile.InvoiceRange.Lower = *input.RangeLower
	}
	if input.RangeUpper != nil {
		profile.InvoiceRange.Upper = *input.RangeUpper
	}

	return s.store.Create(profile), nil
}

func (s *sessionService) Get(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.store.Get(id)
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if sess.LogoKey != "" && s.storage != nil {
		// Best effort: a stranded object must not block session teardown.
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, sess.LogoKey); err != nil {
			log.Printf("deleting logo object %s: %v", sess.LogoKey, err)
		}
	}
	s.store.Delete(id)
	return nil
}

var logoContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
}

func (s *sessionService) UploadLogo(ctx context.Context, input *LogoUploadInput) (string, error) {
	if s.storage == nil {
		return "", domain.ErrStorageUnavailable
	}
	if _, err := s.store.Get(input.SessionID); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(input.Header.Filename))
	contentType, ok := logoContentTypes[ext]
	if !ok {
		return "", domain.ErrUnsupportedLogo
	}
	if input.Header.Size > s.s3Cfg.MaxFileSizeMB*1024*1024 {
		return "", domain.ErrLogoTooLarge
	}

	key := fmt.Sprintf("logos/%s/%s%s", input.SessionID, uuid.New(), ext)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		return "", fmt.Errorf("uploading logo: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.s3Cfg.Bucket, key, s.s3Cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning logo URL: %w", err)
	}

	if old, err := s.store.SetLogoKey(input.SessionID, key); err == nil && old != "" {
		// Re-uploads replace the previous logo; drop the orphaned object.
		if err := s.storage.Delete(ctx, s.s3Cfg.Bucket, old); err != nil {
			log.Printf("deleting replaced logo object %s: %v", old, err)
		}
	}
	return url, nil
}
