package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/outage-service/internal/domain"
)

// CrisisEventFilter captures operator listing parameters.
type CrisisEventFilter struct {
	Status       *domain.CrisisStatus
	RootDeviceID *string
	Limit        int
	Offset       int
}

// CrisisEventRepository encapsulates crisis event persistence.
type CrisisEventRepository interface {
	Create(ctx context.Context, event *domain.CrisisEvent) error
	GetByID(ctx context.Context, id string) (*domain.CrisisEvent, error)
	List(ctx context.Context, filter CrisisEventFilter) ([]domain.CrisisEvent, error)
	HasOngoingForRoot(ctx context.Context, rootDeviceID string) (bool, error)
	Resolve(ctx context.Context, id string, at time.Time) (*domain.CrisisEvent, error)
}

type crisisEventRepository struct {
	pool *pgxpool.Pool
}

// NewCrisisEventRepository instantiates repository.
func NewCrisisEventRepository(pool *pgxpool.Pool) CrisisEventRepository {
	return &crisisEventRepository{pool: pool}
}

const crisisColumns = `id, root_device_id, status, description, affected_subscriber_ids, organization_id, started_at, resolved_at`

func (r *crisisEventRepository) Create(ctx context.Context, event *domain.CrisisEvent) error {
	const query = `
        INSERT INTO crisis_events (root_device_id, status, description, affected_subscriber_ids, organization_id, started_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	ids := event.AffectedSubscriberIDs
	if ids == nil {
		ids = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		event.RootDeviceID,
		event.Status,
		event.Description,
		ids,
		event.OrganizationID,
		event.StartedAt,
	).Scan(&event.ID)
}

func (r *crisisEventRepository) GetByID(ctx context.Context, id string) (*domain.CrisisEvent, error) {
	const query = `SELECT ` + crisisColumns + ` FROM crisis_events WHERE id=$1`
	return scanCrisisEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *crisisEventRepository) List(ctx context.Context, filter CrisisEventFilter) ([]domain.CrisisEvent, error) {
	base := `SELECT ` + crisisColumns + ` FROM crisis_events`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.RootDeviceID != nil {
		args = append(args, *filter.RootDeviceID)
		clauses = append(clauses, fmt.Sprintf("root_device_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY started_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CrisisEvent
	for rows.Next() {
		event, err := scanCrisisEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

func (r *crisisEventRepository) HasOngoingForRoot(ctx context.Context, rootDeviceID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM crisis_events WHERE root_device_id=$1 AND status=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, rootDeviceID, domain.CrisisStatusOngoing).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *crisisEventRepository) Resolve(ctx context.Context, id string, at time.Time) (*domain.CrisisEvent, error) {
	const query = `
        UPDATE crisis_events SET status=$1, resolved_at=$2
        WHERE id=$3 AND status=$4
        RETURNING ` + crisisColumns
	return scanCrisisEvent(r.pool.QueryRow(ctx, query, domain.CrisisStatusResolved, at, id, domain.CrisisStatusOngoing))
}

func scanCrisisEvent(row pgx.Row) (*domain.CrisisEvent, error) {
	var event domain.CrisisEvent
	if err := row.Scan(
		&event.ID,
		&event.RootDeviceID,
		&event.Status,
		&event.Description,
		&event.AffectedSubscriberIDs,
		&event.OrganizationID,
		&event.StartedAt,
		&event.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}
