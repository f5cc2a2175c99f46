package service

import (
	"context"
	"errors"
	"io"

	"github.com/norvik-group/facility-api/internal/domain"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoreOptions constrains a single upload. Zero values fall back to the
// service defaults.
type StoreOptions struct {
	MaxSize      int64
	AllowedTypes []string
}

// FileService stores uploads against module records and tracks their
// metadata.
type FileService struct {
	files            *repository.FileRepository
	store            storage.Storage
	perms            *PermissionService
	logger           *zap.Logger
	maxSize          int64
	contentWhitelist []string
}

// NewFileService creates a new file service instance
func NewFileService(
	files *repository.FileRepository,
	store storage.Storage,
	perms *PermissionService,
	logger *zap.Logger,
	maxSize int64,
	allowedTypes []string,
) *FileService {
	return &FileService{
		files:            files,
		store:            store,
		perms:            perms,
		logger:           logger,
		maxSize:          maxSize,
		contentWhitelist: allowedTypes,
	}
}

// Store uploads a file and records it against a module record and field.
func (s *FileService) Store(ctx context.Context, module domain.Module, field string, recordID uint, filename, contentType string, size int64, data io.Reader, opts *StoreOptions) (*domain.FileAttachment, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleFiles, domain.CapabilityCreate); err != nil {
		return nil, err
	}

	maxSize := s.maxSize
	allowed := s.contentWhitelist
	if opts != nil {
		if opts.MaxSize > 0 {
			maxSize = opts.MaxSize
		}
		if len(opts.AllowedTypes) > 0 {
			allowed = opts.AllowedTypes
		}
	}

	if maxSize > 0 && size > maxSize {
		return nil, ErrFileTooLarge
	}
	if len(allowed) > 0 && !containsType(allowed, contentType) {
		return nil, ErrFileTypeNotAllowed
	}

	storagePath, written, err := s.store.Upload(ctx, string(module), filename, contentType, data)
	if err != nil {
		s.logger.Error("file upload failed",
			zap.String("module", string(module)),
			zap.String("filename", filename),
			zap.Error(err))
		return nil, err
	}

	file := &domain.FileAttachment{
		RecordType:  string(module),
		RecordID:    recordID,
		Field:       field,
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		StoragePath: storagePath,
	}
	stampCreate(ctx, &file.OwnedModel)

	if err := s.files.Create(ctx, file); err != nil {
		// drop the orphaned object so a failed insert leaves nothing behind
		_ = s.store.Delete(ctx, storagePath)
		return nil, err
	}

	s.logger.Info("file stored",
		zap.Uint("id", file.ID),
		zap.String("module", string(module)),
		zap.Uint("recordId", recordID),
		zap.Int64("size", written))
	return file, nil
}

// Open returns the file metadata and a reader over its content
func (s *FileService) Open(ctx context.Context, id uint) (*domain.FileAttachment, io.ReadCloser, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleFiles, domain.CapabilityView); err != nil {
		return nil, nil, err
	}

	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return file, reader, nil
}

// ListForRecord returns the attachments on a module record
func (s *FileService) ListForRecord(ctx context.Context, module domain.Module, recordID uint) ([]domain.FileAttachment, error) {
	if err := s.perms.Authorize(ctx, domain.ModuleFiles, domain.CapabilityView); err != nil {
		return nil, err
	}
	return s.files.ListForRecord(ctx, string(module), recordID)
}

// Delete removes a file's metadata and its stored content
func (s *FileService) Delete(ctx context.Context, id uint) error {
	if err := s.perms.Authorize(ctx, domain.ModuleFiles, domain.CapabilityDelete); err != nil {
		return err
	}

	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("stored object removal failed",
			zap.String("storagePath", file.StoragePath),
			zap.Error(err))
	}

	s.logger.Info("file deleted", zap.Uint("id", id))
	return nil
}

func containsType(allowed []string, contentType string) bool {
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}
