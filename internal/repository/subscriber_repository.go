package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/outage-service/internal/domain"
)

// SubscriberRepository resolves subscribers from their CPE attachment.
type SubscriberRepository interface {
	GetByCPEDevice(ctx context.Context, deviceID string) (*domain.Subscriber, error)
	Create(ctx context.Context, subscriber *domain.Subscriber) error
}

type subscriberRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriberRepository instantiates repository.
func NewSubscriberRepository(pool *pgxpool.Pool) SubscriberRepository {
	return &subscriberRepository{pool: pool}
}

func (r *subscriberRepository) GetByCPEDevice(ctx context.Context, deviceID string) (*domain.Subscriber, error) {
	const query = `
        SELECT id, name, cpe_device_id, organization_id, created_at
        FROM subscribers WHERE cpe_device_id=$1
        LIMIT 1`
	var sub domain.Subscriber
	if err := r.pool.QueryRow(ctx, query, deviceID).Scan(
		&sub.ID,
		&sub.Name,
		&sub.CPEDeviceID,
		&sub.OrganizationID,
		&sub.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	const query = `
        INSERT INTO subscribers (id, name, cpe_device_id, organization_id)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		subscriber.ID,
		subscriber.Name,
		subscriber.CPEDeviceID,
		subscriber.OrganizationID,
	).Scan(&subscriber.CreatedAt)
}
