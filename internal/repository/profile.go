package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/store"
)

// Profiles is the store-backed ProfileRepository. Each owner has at most one
// profile-picture record under the fixed "PROFILE_PICTURE" sort key.
type Profiles struct {
	db store.Store
}

// NewProfiles creates a profile repository on the given store.
func NewProfiles(db store.Store) *Profiles {
	return &Profiles{db: db}
}

// Get returns the owner's picture record, or nil when none is set.
func (r *Profiles) Get(ctx context.Context, userID string) (*domain.ProfilePicture, error) {
	item, err := r.db.Get(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.ProfilePictureSortKey})
	if err != nil {
		return nil, fmt.Errorf("getting profile picture: %w", err)
	}
	if item == nil {
		return nil, nil
	}
	var p domain.ProfilePicture
	if err := attributevalue.UnmarshalMap(item, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling profile picture: %w", err)
	}
	return &p, nil
}

// Put upserts the picture record with the given object key.
func (r *Profiles) Put(ctx context.Context, userID, pictureKey string) (*domain.ProfilePicture, error) {
	now := domain.NowISO()
	picture := domain.ProfilePicture{
		Entity: domain.Entity{
			UserID:    domain.UserKey(userID),
			SortKey:   domain.ProfilePictureSortKey,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PictureKey: pictureKey,
	}

	item, err := attributevalue.MarshalMap(picture)
	if err != nil {
		return nil, fmt.Errorf("marshaling profile picture: %w", err)
	}
	if err := r.db.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("storing profile picture: %w", err)
	}
	return &picture, nil
}

// Delete removes the picture record.
func (r *Profiles) Delete(ctx context.Context, userID string) error {
	if err := r.db.Delete(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.ProfilePictureSortKey}); err != nil {
		return fmt.Errorf("deleting profile picture: %w", err)
	}
	return nil
}

var _ ProfileRepository = (*Profiles)(nil)
