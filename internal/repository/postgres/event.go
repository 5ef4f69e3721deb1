package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"

	"github.com/lib/pq"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, description, event_date, event_time, location, category, COALESCE(image_url, ''),
	max_participants, current_participants, price_cents, status, registration_deadline, created_by, created_on, updated_on`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime, &e.Location, &e.Category, &e.ImageURL,
		&e.MaxParticipants, &e.CurrentParticipants, &e.PriceCents, &e.Status, &e.RegistrationDeadline,
		&e.CreatedBy, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	logger.DatabaseCall("INSERT", "events", "title", e.Title, "createdBy", e.CreatedBy)
	query := `INSERT INTO events (title, description, event_date, event_time, location, category, image_url,
	          max_participants, current_participants, price_cents, status, registration_deadline, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	now := time.Now()
	e.CreatedOn = now
	e.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.EventTime, e.Location, e.Category, e.ImageURL,
		e.MaxParticipants, e.CurrentParticipants, e.PriceCents, e.Status, e.RegistrationDeadline,
		e.CreatedBy, e.CreatedOn, e.UpdatedOn,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, int32, error) {
	where := `WHERE 1=1`
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n)
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.UpcomingOnly {
		args = append(args, time.Now())
		where += fmt.Sprintf(" AND event_date > $%d AND status = 'active'", len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM events `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sortBy := "event_date"
	switch f.SortBy {
	case "created_on", "title", "event_date":
		sortBy = f.SortBy
	}
	order := "ASC"
	if f.SortOrder == "desc" {
		order = "DESC"
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + eventColumns + ` FROM events ` + where +
		fmt.Sprintf(` ORDER BY %s %s LIMIT $%d OFFSET $%d`, sortBy, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, *e)
	}
	return events, count, rows.Err()
}

// Update deliberately omits status and current_participants. The guard on
// max_participants keeps the counter invariant intact when capacity is
// lowered.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title=$1, description=$2, event_date=$3, event_time=$4, location=$5, category=$6,
	          image_url=$7, max_participants=$8, price_cents=$9, registration_deadline=$10, updated_on=$11
	          WHERE id=$12 AND current_participants <= $8`
	e.UpdatedOn = time.Now()
	res, err := r.db.ExecContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.EventTime, e.Location, e.Category,
		e.ImageURL, e.MaxParticipants, e.PriceCents, e.RegistrationDeadline, e.UpdatedOn, e.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
		return fmt.Errorf("%w: max_participants cannot be lower than the current participant count", domain.ErrValidation)
	}
	return nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int32, status domain.EventStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status=$1, updated_on=$2 WHERE id=$3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE event_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return tx.Commit()
}

func (r *eventRepository) ParticipationStatuses(ctx context.Context, eventIDs []int32, userID int32) (map[int32]domain.ParticipantStatus, error) {
	statuses := make(map[int32]domain.ParticipantStatus, len(eventIDs))
	if len(eventIDs) == 0 {
		return statuses, nil
	}
	query := `SELECT event_id, status FROM participants WHERE event_id = ANY($1) AND user_id = $2`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(eventIDs), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int32
		var status domain.ParticipantStatus
		if err := rows.Scan(&eventID, &status); err != nil {
			return nil, err
		}
		statuses[eventID] = status
	}
	return statuses, rows.Err()
}

func (r *eventRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = 'completed', updated_on = $1 WHERE status = 'active' AND event_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *eventRepository) ReconcileParticipantCounts(ctx context.Context) (int64, error) {
	query := `UPDATE events e SET current_participants = a.approved
	          FROM (SELECT e2.id, count(p.id) FILTER (WHERE p.status = 'approved') AS approved
	                FROM events e2 LEFT JOIN participants p ON p.event_id = e2.id
	                GROUP BY e2.id) a
	          WHERE a.id = e.id AND e.current_participants <> a.approved`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *eventRepository) Stats(ctx context.Context, now time.Time) (*domain.EventStats, error) {
	s := &domain.EventStats{}
	query := `SELECT count(*),
		count(*) FILTER (WHERE status = 'active'),
		count(*) FILTER (WHERE status = 'cancelled'),
		count(*) FILTER (WHERE status = 'completed'),
		count(*) FILTER (WHERE status = 'active' AND event_date > $1)
		FROM events`
	err := r.db.QueryRowContext(ctx, query, now).Scan(
		&s.TotalEvents, &s.ActiveEvents, &s.CancelledEvents, &s.CompletedEvents, &s.UpcomingEvents)
	if err != nil {
		return nil, err
	}
	return s, nil
}
