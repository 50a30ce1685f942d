package repository

import (
	"context"
	"errors"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SpaceRepository interface {
	List(ctx context.Context) ([]domain.Space, error)
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	Create(ctx context.Context, space *domain.Space) error
	Update(ctx context.Context, space *domain.Space) error
	Delete(ctx context.Context, id int64) error
}

type PGSpaceRepository struct {
	db *pgxpool.Pool
}

func NewSpaceRepository(db *pgxpool.Pool) SpaceRepository {
	return &PGSpaceRepository{db: db}
}

func (r *PGSpaceRepository) List(ctx context.Context) ([]domain.Space, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, location, capacity, description, created_at, updated_at FROM spaces ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := make([]domain.Space, 0)
	for rows.Next() {
		var s domain.Space
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.Capacity, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		spaces = append(spaces, s)
	}
	return spaces, rows.Err()
}

func (r *PGSpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, location, capacity, description, created_at, updated_at FROM spaces WHERE id=$1`, id)
	var s domain.Space
	if err := row.Scan(&s.ID, &s.Name, &s.Location, &s.Capacity, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSpaceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSpaceRepository) Create(ctx context.Context, space *domain.Space) error {
	return r.db.QueryRow(ctx, `INSERT INTO spaces (name, location, capacity, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`, space.Name, space.Location, space.Capacity, space.Description).
		Scan(&space.ID, &space.CreatedAt, &space.UpdatedAt)
}

func (r *PGSpaceRepository) Update(ctx context.Context, space *domain.Space) error {
	row := r.db.QueryRow(ctx, `UPDATE spaces SET name=$1, location=$2, capacity=$3, description=$4, updated_at=now()
		WHERE id=$5
		RETURNING created_at, updated_at`, space.Name, space.Location, space.Capacity, space.Description, space.ID)
	if err := row.Scan(&space.CreatedAt, &space.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSpaceNotFound
		}
		return err
	}
	return nil
}

func (r *PGSpaceRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM spaces WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrSpaceNotFound
	}
	return nil
}

var _ SpaceRepository = (*PGSpaceRepository)(nil)
