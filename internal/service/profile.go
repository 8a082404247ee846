package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/trackmyexpense/backend/internal/apperr"
	"github.com/trackmyexpense/backend/internal/repository"
)

// MediaSigner issues time-limited URLs against the media bucket.
type MediaSigner interface {
	UploadURL(object, contentType string, expires time.Duration) (string, error)
	DownloadURL(object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, object string) error
}

const (
	uploadURLExpiry   = 5 * time.Minute
	downloadURLExpiry = time.Hour
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ProfileService manages the per-user profile picture: one record in the
// store pointing at an object in the media bucket, served via signed URLs.
type ProfileService struct {
	profiles repository.ProfileRepository
	signer   MediaSigner
	log      zerolog.Logger
}

// NewProfileService creates the profile service.
func NewProfileService(profiles repository.ProfileRepository, signer MediaSigner, log zerolog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, signer: signer, log: log}
}

// UploadURLResult carries the signed PUT URL and the object key the client
// must confirm once the upload finishes.
type UploadURLResult struct {
	UploadURL  string `json:"uploadUrl"`
	PictureKey string `json:"pictureKey"`
}

// PictureResult is the signed GET URL for the current picture.
type PictureResult struct {
	PictureURL string `json:"pictureUrl"`
}

// RequestUploadURL validates the content type and returns a signed PUT URL
// for a freshly minted object key. The record is not written until Confirm.
func (s *ProfileService) RequestUploadURL(ctx context.Context, userID, contentType string) (*UploadURLResult, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, apperr.Newf(apperr.InvalidInput, "unsupported image content type %q", contentType)
	}
	key := fmt.Sprintf("public/profile-pictures/%s-%d.%s", userID, time.Now().UnixMilli(), ext)
	url, err := s.signer.UploadURL(key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing upload url: %w", err)
	}
	return &UploadURLResult{UploadURL: url, PictureKey: key}, nil
}

// Confirm records the uploaded object as the user's current picture. A
// previous picture's object is deleted best-effort.
func (s *ProfileService) Confirm(ctx context.Context, userID, pictureKey string) (*PictureResult, error) {
	if pictureKey == "" {
		return nil, apperr.New(apperr.InvalidInput, "pictureKey is required")
	}
	previous, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.Put(ctx, userID, pictureKey); err != nil {
		return nil, err
	}
	if previous != nil && previous.PictureKey != pictureKey {
		if err := s.signer.DeleteObject(ctx, previous.PictureKey); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to delete previous profile picture object")
		}
	}
	return s.signedPicture(pictureKey)
}

// Get returns a signed download URL for the current picture, or NotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (*PictureResult, error) {
	record, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.New(apperr.NotFound, "profile picture not set")
	}
	return s.signedPicture(record.PictureKey)
}

// Delete removes the record and the stored object.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	record, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return apperr.New(apperr.NotFound, "profile picture not set")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.signer.DeleteObject(ctx, record.PictureKey); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to delete profile picture object")
	}
	return nil
}

func (s *ProfileService) signedPicture(key string) (*PictureResult, error) {
	url, err := s.signer.DownloadURL(key, downloadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("signing download url: %w", err)
	}
	return &PictureResult{PictureURL: url}, nil
}
