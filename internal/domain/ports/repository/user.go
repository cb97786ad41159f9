package repository

import (
	"context"

	"institute-backend/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	// SetCurrentSubscription updates the user's pointer to their current
	// subscription; nil clears it.
	SetCurrentSubscription(ctx context.Context, tx Tx, userID string, subscriptionID *string) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.User, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
