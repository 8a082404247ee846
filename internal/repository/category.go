package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/trackmyexpense/backend/internal/domain"
	"github.com/trackmyexpense/backend/internal/store"
)

// CreateCategoryInput carries the caller-supplied fields of a new category.
type CreateCategoryInput struct {
	Name      string
	Type      domain.TransactionType
	Icon      string
	Color     string
	IsDefault bool
}

// CategoryUpdate enumerates the mutable category fields; nil leaves a field
// unchanged.
type CategoryUpdate struct {
	Name      *string
	Type      *domain.TransactionType
	Icon      *string
	Color     *string
	IsDefault *bool
}

func (u CategoryUpdate) fields() []store.Field {
	var fields []store.Field
	if u.Name != nil {
		fields = append(fields, store.Field{Name: "name", Value: &types.AttributeValueMemberS{Value: *u.Name}})
	}
	if u.Type != nil {
		fields = append(fields, store.Field{Name: "type", Value: &types.AttributeValueMemberS{Value: string(*u.Type)}})
	}
	if u.Icon != nil {
		fields = append(fields, store.Field{Name: "icon", Value: &types.AttributeValueMemberS{Value: *u.Icon}})
	}
	if u.Color != nil {
		fields = append(fields, store.Field{Name: "color", Value: &types.AttributeValueMemberS{Value: *u.Color}})
	}
	if u.IsDefault != nil {
		fields = append(fields, store.Field{Name: "isDefault", Value: &types.AttributeValueMemberBOOL{Value: *u.IsDefault}})
	}
	return fields
}

// Categories is the store-backed CategoryRepository.
type Categories struct {
	db store.Store
}

// NewCategories creates a category repository on the given store.
func NewCategories(db store.Store) *Categories {
	return &Categories{db: db}
}

// List returns every category under the owner.
func (r *Categories) List(ctx context.Context, userID string) ([]domain.Category, error) {
	page, err := r.db.Query(ctx, store.Query{
		Owner:     domain.UserKey(userID),
		Sort:      store.SortCondition{Prefix: domain.CategoryPrefix},
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(page.Items))
	for _, item := range page.Items {
		var c domain.Category
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// Get returns the category, or nil when absent or owned by someone else.
func (r *Categories) Get(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	item, err := r.db.Get(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.CategoryKey(categoryID)})
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", categoryID, err)
	}
	if item == nil {
		return nil, nil
	}
	var c domain.Category
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling category %s: %w", categoryID, err)
	}
	return &c, nil
}

// Create stores a new category with a fresh id and timestamps.
func (r *Categories) Create(ctx context.Context, userID string, in CreateCategoryInput) (*domain.Category, error) {
	now := domain.NowISO()
	category := domain.Category{
		Entity: domain.Entity{
			UserID:    domain.UserKey(userID),
			SortKey:   domain.CategoryKey(uuid.NewString()),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      in.Name,
		Type:      in.Type,
		Icon:      in.Icon,
		Color:     in.Color,
		IsDefault: in.IsDefault,
	}

	item, err := attributevalue.MarshalMap(category)
	if err != nil {
		return nil, fmt.Errorf("marshaling category: %w", err)
	}
	if err := r.db.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}
	return &category, nil
}

// Update merges the provided fields and refreshes updatedAt.
func (r *Categories) Update(ctx context.Context, userID, categoryID string, upd CategoryUpdate) (*domain.Category, error) {
	fields := append(upd.fields(), store.Field{
		Name:  store.UpdatedAtAttr,
		Value: &types.AttributeValueMemberS{Value: domain.NowISO()},
	})

	item, err := r.db.Update(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.CategoryKey(categoryID)}, fields)
	if err != nil {
		return nil, fmt.Errorf("updating category %s: %w", categoryID, err)
	}
	var c domain.Category
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling updated category %s: %w", categoryID, err)
	}
	return &c, nil
}

// Delete removes the category.
func (r *Categories) Delete(ctx context.Context, userID, categoryID string) error {
	if err := r.db.Delete(ctx, store.Key{Owner: domain.UserKey(userID), Sort: domain.CategoryKey(categoryID)}); err != nil {
		return fmt.Errorf("deleting category %s: %w", categoryID, err)
	}
	return nil
}

var _ CategoryRepository = (*Categories)(nil)
