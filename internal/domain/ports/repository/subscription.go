package repository

import (
	"context"

	"institute-backend/internal/domain/model"
)

type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	// FindLatestByUser returns the most recently created subscription row
	// for the user, regardless of status.
	FindLatestByUser(ctx context.Context, tx Tx, userID string) (*model.Subscription, error)
	FindByOrder(ctx context.Context, tx Tx, orderID string) (*model.Subscription, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.SubscriptionStatus) error
	// FindActiveExpiringWithin lists active subscriptions whose expiry falls
	// inside the next withinDays days, soonest first.
	FindActiveExpiringWithin(ctx context.Context, tx Tx, withinDays int) ([]*model.Subscription, error)
	CountActive(ctx context.Context, tx Tx) (int, error)
}
