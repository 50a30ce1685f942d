package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjmgdev/darien-technology-test/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// exclusionViolation is raised by the reservations overlap exclusion
// constraint when two inserts race past the policy's read-time check.
const exclusionViolation = "23P01"

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]domain.Reservation, int, error)
	FindOverlapping(ctx context.Context, spaceID int64, start, end time.Time, excludeID int64) ([]domain.Reservation, error)
	CountInDateRange(ctx context.Context, userEmail string, from, to time.Time, excludeID int64) (int, error)
	CountBySpace(ctx context.Context, spaceID int64) (int, error)
	Insert(ctx context.Context, reservation *domain.Reservation) error
	Update(ctx context.Context, reservation *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT id, space_id, user_email, reservation_date, start_time, end_time, created_at, updated_at FROM reservations WHERE id=$1`, id)
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.SpaceID, &res.UserEmail, &res.ReservationDate, &res.StartTime, &res.EndTime, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) ListByUser(ctx context.Context, userEmail string, limit, offset int) ([]domain.Reservation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM reservations WHERE user_email=$1`, userEmail).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, space_id, user_email, reservation_date, start_time, end_time, created_at, updated_at
		FROM reservations WHERE user_email=$1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3`, userEmail, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reservations, err := scanReservations(rows)
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// FindOverlapping selects reservations whose [start_time, end_time) interval
// intersects [start, end). Strict comparisons keep back-to-back bookings out
// of the result. excludeID 0 excludes nothing.
func (r *PGReservationRepository) FindOverlapping(ctx context.Context, spaceID int64, start, end time.Time, excludeID int64) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, space_id, user_email, reservation_date, start_time, end_time, created_at, updated_at
		FROM reservations
		WHERE space_id=$1 AND start_time < $3 AND end_time > $2 AND ($4 = 0 OR id <> $4)
		ORDER BY start_time`, spaceID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *PGReservationRepository) CountInDateRange(ctx context.Context, userEmail string, from, to time.Time, excludeID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM reservations
		WHERE user_email=$1 AND reservation_date >= $2 AND reservation_date < $3 AND ($4 = 0 OR id <> $4)`,
		userEmail, from, to, excludeID).Scan(&count)
	return count, err
}

func (r *PGReservationRepository) CountBySpace(ctx context.Context, spaceID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM reservations WHERE space_id=$1`, spaceID).Scan(&count)
	return count, err
}

func (r *PGReservationRepository) Insert(ctx context.Context, reservation *domain.Reservation) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reservations (space_id, user_email, reservation_date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		reservation.SpaceID, reservation.UserEmail, reservation.ReservationDate, reservation.StartTime, reservation.EndTime).
		Scan(&reservation.ID, &reservation.CreatedAt)
	return mapConstraintError(err)
}

func (r *PGReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	row := r.db.QueryRow(ctx, `UPDATE reservations SET reservation_date=$1, start_time=$2, end_time=$3, updated_at=now()
		WHERE id=$4
		RETURNING created_at, updated_at`,
		reservation.ReservationDate, reservation.StartTime, reservation.EndTime, reservation.ID)
	if err := row.Scan(&reservation.CreatedAt, &reservation.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		return mapConstraintError(err)
	}
	return nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.SpaceID, &res.UserEmail, &res.ReservationDate, &res.StartTime, &res.EndTime, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return domain.ErrOverlapConstraint
	}
	return err
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
