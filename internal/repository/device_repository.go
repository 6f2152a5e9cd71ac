package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/outage-service/internal/domain"
)

// DeviceRepository is the topology store surface the traversal consumes.
type DeviceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Device, error)
	GetByAssignedIP(ctx context.Context, address string) (*domain.Device, error)
	Create(ctx context.Context, device *domain.Device) error
	AssignIP(ctx context.Context, assignment domain.IPAssignment) error
}

type deviceRepository struct {
	pool *pgxpool.Pool
}

// NewDeviceRepository instantiates repository.
func NewDeviceRepository(pool *pgxpool.Pool) DeviceRepository {
	return &deviceRepository{pool: pool}
}

const deviceColumns = `id, name, device_type, parent_device_id, organization_id, created_at, updated_at`

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	const query = `SELECT ` + deviceColumns + ` FROM devices WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *deviceRepository) ListByParent(ctx context.Context, parentID string) ([]domain.Device, error) {
	const query = `SELECT ` + deviceColumns + ` FROM devices WHERE parent_device_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDevices(rows)
}

func (r *deviceRepository) GetByAssignedIP(ctx context.Context, address string) (*domain.Device, error) {
	const query = `
        SELECT d.id, d.name, d.device_type, d.parent_device_id, d.organization_id, d.created_at, d.updated_at
        FROM devices d
        JOIN ip_assignments ip ON ip.device_id = d.id
        WHERE ip.address=$1`
	return r.fetchSingle(ctx, query, address)
}

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO devices (id, name, device_type, parent_device_id, organization_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		device.ID,
		device.Name,
		device.Type,
		device.ParentID,
		device.OrganizationID,
	).Scan(&device.CreatedAt, &device.UpdatedAt)
}

func (r *deviceRepository) AssignIP(ctx context.Context, assignment domain.IPAssignment) error {
	const query = `
        INSERT INTO ip_assignments (address, device_id)
        VALUES ($1,$2)
        ON CONFLICT (address) DO UPDATE SET device_id=EXCLUDED.device_id`
	_, err := r.pool.Exec(ctx, query, assignment.Address, assignment.DeviceID)
	return err
}

func (r *deviceRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Device, error) {
	var device domain.Device
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&device.ID,
		&device.Name,
		&device.Type,
		&device.ParentID,
		&device.OrganizationID,
		&device.CreatedAt,
		&device.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &device, nil
}

func scanDevices(rows pgx.Rows) ([]domain.Device, error) {
	var result []domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.Scan(
			&device.ID,
			&device.Name,
			&device.Type,
			&device.ParentID,
			&device.OrganizationID,
			&device.CreatedAt,
			&device.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, device)
	}
	return result, rows.Err()
}
