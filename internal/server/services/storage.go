package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudstore/internal/common"
	"github.com/dmitrijs2005/cloudstore/internal/dbx"
	"github.com/dmitrijs2005/cloudstore/internal/logging"
	"github.com/dmitrijs2005/cloudstore/internal/server/auth"
	"github.com/dmitrijs2005/cloudstore/internal/server/models"
	"github.com/dmitrijs2005/cloudstore/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	maxFilenameLength  = 255
	defaultContentType = "application/octet-stream"
)

// ContentStore keeps file bytes addressed by storage key.
// Get returns common.ErrorNotFound for an unknown key.
type ContentStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// StorageService exposes a user's files. Every method takes an already
// authenticated identity and only ever touches files owned by it.
type StorageService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	content       ContentStore
	logger        logging.Logger
	maxUploadSize int64
}

// NewStorageService constructs a StorageService. maxUploadSize <= 0 disables
// the size check.
func NewStorageService(db *sql.DB, m repomanager.RepositoryManager, content ContentStore, logger logging.Logger, maxUploadSize int64) *StorageService {
	return &StorageService{
		db:            db,
		repomanager:   m,
		content:       content,
		logger:        logger.With("module", "storage"),
		maxUploadSize: maxUploadSize,
	}
}

// List returns up to limit files of id in the order they were stored.
func (s *StorageService) List(ctx context.Context, id auth.Identity, limit int) ([]models.FileInfo, error) {
	if id.IsZero() {
		return nil, common.ErrInvalidToken
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", common.ErrorValidation)
	}
	if limit == 0 {
		return []models.FileInfo{}, nil
	}

	items, err := s.repomanager.Files(s.db).FindAllByOwner(ctx, id.Name(), limit)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

// Upload stores data as filename of id. An existing file with that name is
// replaced.
func (s *StorageService) Upload(ctx context.Context, id auth.Identity, filename, contentType string, data []byte) error {
	key, err := s.authorize(id, filename)
	if err != nil {
		return err
	}
	if s.maxUploadSize > 0 && int64(len(data)) > s.maxUploadSize {
		return fmt.Errorf("%w: file larger than %d bytes", common.ErrorValidation, s.maxUploadSize)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	storageKey := newStorageKey()
	if err := s.content.Put(ctx, storageKey, data); err != nil {
		return classify(err)
	}

	file := &models.File{
		Owner:       key.Owner,
		Filename:    key.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		StorageKey:  storageKey,
	}

	replaced, err := s.replace(ctx, key, file)
	// a concurrent upload of the same name may win the insert; go again so
	// that this one replaces it
	if errors.Is(err, common.ErrorAlreadyExists) {
		replaced, err = s.replace(ctx, key, file)
	}
	if err != nil {
		s.dropContent(ctx, storageKey)
		return classify(err)
	}

	if replaced != nil {
		s.dropContent(ctx, replaced.StorageKey)
	}
	s.logger.Info(ctx, "file stored", "owner", key.Owner, "filename", key.Filename, "size", file.Size, "replaced", replaced != nil)
	return nil
}

func (s *StorageService) replace(ctx context.Context, key models.FileKey, file *models.File) (*models.File, error) {
	var replaced *models.File
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Files(tx)

		old, err := repo.DeleteByFilenameAndOwner(ctx, key)
		if err != nil {
			return err
		}
		file.CreatedAt = time.Time{}
		if old != nil {
			file.CreatedAt = old.CreatedAt
		}
		if _, err := repo.Create(ctx, file); err != nil {
			return err
		}
		replaced = old
		return nil
	})
	return replaced, err
}

// Rename renames filename of id to newFilename. A missing file is not an
// error; a taken newFilename is common.ErrorAlreadyExists.
func (s *StorageService) Rename(ctx context.Context, id auth.Identity, filename, newFilename string) error {
	key, err := s.authorize(id, filename)
	if err != nil {
		return err
	}
	if err := validateFilename(newFilename); err != nil {
		return err
	}

	n, err := s.repomanager.Files(s.db).RenameByFilenameAndOwner(ctx, key, newFilename)
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		s.logger.Debug(ctx, "rename of missing file ignored", "owner", key.Owner, "filename", key.Filename)
	}
	return nil
}

// Delete removes filename of id. A missing file is not an error.
func (s *StorageService) Delete(ctx context.Context, id auth.Identity, filename string) error {
	key, err := s.authorize(id, filename)
	if err != nil {
		return err
	}

	removed, err := s.repomanager.Files(s.db).DeleteByFilenameAndOwner(ctx, key)
	if err != nil {
		return classify(err)
	}
	if removed == nil {
		return nil
	}

	s.dropContent(ctx, removed.StorageKey)
	s.logger.Info(ctx, "file deleted", "owner", key.Owner, "filename", key.Filename)
	return nil
}

// Download returns metadata and bytes of filename of id, or
// common.ErrorNotFound.
func (s *StorageService) Download(ctx context.Context, id auth.Identity, filename string) (*models.File, error) {
	key, err := s.authorize(id, filename)
	if err != nil {
		return nil, err
	}

	file, err := s.repomanager.Files(s.db).FindByFilenameAndOwner(ctx, key)
	if err != nil {
		return nil, classify(err)
	}

	data, err := s.content.Get(ctx, file.StorageKey)
	if err != nil {
		// metadata without content is a broken store, not a missing file
		s.logger.Error(ctx, "file content unavailable", "owner", key.Owner, "filename", key.Filename, "storage_key", file.StorageKey, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
	}
	file.Content = data
	return file, nil
}

// authorize is the single place that turns an identity and a client
// supplied filename into a repository key.
func (s *StorageService) authorize(id auth.Identity, filename string) (models.FileKey, error) {
	if id.IsZero() {
		return models.FileKey{}, common.ErrInvalidToken
	}
	if err := validateFilename(filename); err != nil {
		return models.FileKey{}, err
	}
	return models.FileKey{Owner: id.Name(), Filename: filename}, nil
}

func (s *StorageService) dropContent(ctx context.Context, storageKey string) {
	if err := s.content.Delete(ctx, storageKey); err != nil {
		s.logger.Warn(ctx, "orphaned content not deleted", "storage_key", storageKey, "error", err)
	}
}

func validateFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty filename", common.ErrorValidation)
	case len(name) > maxFilenameLength:
		return fmt.Errorf("%w: filename longer than %d bytes", common.ErrorValidation, maxFilenameLength)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: filename contains NUL", common.ErrorValidation)
	}
	return nil
}

func newStorageKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("files/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.NewString())
}

// classify keeps domain errors and turns everything else into
// common.ErrorBackendUnavailable.
func classify(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrorBackendUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorBackendUnavailable, err)
}
