package services

import (
	"context"
	"errors"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/pkg/storage"
)

type UploadService struct {
	store storage.Store
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store}
}

// Upload checks the file against the size limit and the type allow-list and stores it.
func (s *UploadService) Upload(ctx context.Context, file *FileUpload) (*storage.Object, error) {
	if file == nil {
		return nil, apperrors.Validation(storage.ErrEmpty.Error())
	}
	if err := storage.Check(file.Size, file.ContentType); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	obj, err := s.store.Put(ctx, file.Name, file.ContentType, file.Body, file.Size)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperrors.Validation(err.Error())
		}
		return nil, apperrors.Internal(err)
	}
	return obj, nil
}
