package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"

	"github.com/lib/pq"
)

type participantRepository struct {
	db *sql.DB
}

func NewParticipantRepository(db *sql.DB) repository.ParticipantRepository {
	return &participantRepository{db: db}
}

const participantColumns = `id, event_id, user_id, status, applied_at, reviewed_at, reviewed_by,
	COALESCE(rejection_reason, ''), COALESCE(notes, ''),
	COALESCE(emergency_contact, ''), COALESCE(dietary_requirements, ''), COALESCE(accessibility_needs, '')`

func scanParticipant(row interface{ Scan(...any) error }) (*domain.Participant, error) {
	p := &domain.Participant{}
	err := row.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.AppliedAt, &p.ReviewedAt, &p.ReviewedBy,
		&p.RejectionReason, &p.Notes,
		&p.AttendeeDetails.EmergencyContact, &p.AttendeeDetails.DietaryRequirements, &p.AttendeeDetails.AccessibilityNeeds)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	logger.DatabaseCall("INSERT", "participants", "eventID", p.EventID, "userID", p.UserID)
	query := `INSERT INTO participants (event_id, user_id, status, applied_at, emergency_contact, dietary_requirements, accessibility_needs)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.EventID, p.UserID, p.Status, p.AppliedAt,
		p.AttendeeDetails.EmergencyContact, p.AttendeeDetails.DietaryRequirements, p.AttendeeDetails.AccessibilityNeeds,
	).Scan(&p.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		// unique (event_id, user_id): the storage-level backstop for the
		// one-application-per-pair invariant
		return domain.ErrAlreadyApplied
	}
	return err
}

func (r *participantRepository) GetByID(ctx context.Context, id int32) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) GetByEventAndUser(ctx context.Context, eventID, userID int32) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1 AND user_id = $2`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, eventID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Approve runs the status flip and the guarded counter increment in one
// transaction. Two approvals racing for the last seat both reach the UPDATE on
// events; the capacity predicate lets exactly one through.
func (r *participantRepository) Approve(ctx context.Context, id, reviewerID int32, notes string, at time.Time) (*domain.Participant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE participants
	          SET status = 'approved', reviewed_by = $2, reviewed_at = $3, notes = COALESCE(NULLIF($4, ''), notes)
	          WHERE id = $1 AND status = 'pending'
	          RETURNING ` + participantColumns
	p, err := scanParticipant(tx.QueryRowContext(ctx, query, id, reviewerID, at, notes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotPending
	}
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE events SET current_participants = current_participants + 1, updated_on = $2
		 WHERE id = $1 AND current_participants < max_participants`,
		p.EventID, at)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrEventFull
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) Reject(ctx context.Context, id, reviewerID int32, reason, notes string, at time.Time) (*domain.Participant, error) {
	query := `UPDATE participants
	          SET status = 'rejected', reviewed_by = $2, reviewed_at = $3, rejection_reason = $4, notes = COALESCE(NULLIF($5, ''), notes)
	          WHERE id = $1 AND status = 'pending'
	          RETURNING ` + participantColumns
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id, reviewerID, at, reason, notes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotPending
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// BulkApprove treats the whole batch as one atomic unit per affected event:
// every touched event must absorb its full share or the batch rolls back.
func (r *participantRepository) BulkApprove(ctx context.Context, ids []int32, reviewerID int32, at time.Time) ([]domain.Participant, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE participants SET status = 'approved', reviewed_by = $2, reviewed_at = $3
	          WHERE id = ANY($1) AND status = 'pending'
	          RETURNING ` + participantColumns
	rows, err := tx.QueryContext(ctx, query, pq.Array(ids), reviewerID, at)
	if err != nil {
		return nil, err
	}

	var approved []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		approved = append(approved, *p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(approved) == 0 {
		return nil, domain.ErrNoPendingInBatch
	}

	perEvent := make(map[int32]int32)
	for _, p := range approved {
		perEvent[p.EventID]++
	}
	eventIDs := make([]int32, 0, len(perEvent))
	for id := range perEvent {
		eventIDs = append(eventIDs, id)
	}
	sort.Slice(eventIDs, func(i, j int) bool { return eventIDs[i] < eventIDs[j] })

	var full []int32
	for _, eventID := range eventIDs {
		n := perEvent[eventID]
		res, err := tx.ExecContext(ctx,
			`UPDATE events SET current_participants = current_participants + $2, updated_on = $3
			 WHERE id = $1 AND current_participants + $2 <= max_participants`,
			eventID, n, at)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			full = append(full, eventID)
		}
	}
	if len(full) > 0 {
		return nil, &domain.BatchCapacityError{EventIDs: full}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return approved, nil
}

// Delete removes an application unconditionally. An approved row gives its
// seat back in the same transaction.
func (r *participantRepository) Delete(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var eventID int32
	var status domain.ParticipantStatus
	err = tx.QueryRowContext(ctx, `SELECT event_id, status FROM participants WHERE id = $1 FOR UPDATE`, id).Scan(&eventID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrApplicationNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id); err != nil {
		return err
	}

	if status == domain.ParticipantStatusApproved {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET current_participants = GREATEST(current_participants - 1, 0), updated_on = $2 WHERE id = $1`,
			eventID, time.Now())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *participantRepository) DeleteOwn(ctx context.Context, eventID, userID int32) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM participants WHERE event_id = $1 AND user_id = $2 AND status <> 'approved'`,
		eventID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var status domain.ParticipantStatus
	err = r.db.QueryRowContext(ctx, `SELECT status FROM participants WHERE event_id = $1 AND user_id = $2`, eventID, userID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotRegistered
	}
	if err != nil {
		return err
	}
	if status == domain.ParticipantStatusApproved {
		return domain.ErrCannotLeaveApproved
	}
	return domain.ErrNotRegistered
}

func (r *participantRepository) ListByEvent(ctx context.Context, eventID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	where := `WHERE p.event_id = $1`
	args := []any{eventID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n)
	}

	var count int32
	countQuery := `SELECT count(*) FROM participants p JOIN users u ON u.id = p.user_id ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT p.id, p.event_id, p.user_id, p.status, p.applied_at, p.reviewed_at, p.reviewed_by,
		COALESCE(p.rejection_reason, ''), COALESCE(p.notes, ''),
		COALESCE(p.emergency_contact, ''), COALESCE(p.dietary_requirements, ''), COALESCE(p.accessibility_needs, ''),
		u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, '')
		FROM participants p JOIN users u ON u.id = p.user_id ` + where +
		fmt.Sprintf(` ORDER BY p.applied_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		var u domain.UserSummary
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.AppliedAt, &p.ReviewedAt, &p.ReviewedBy,
			&p.RejectionReason, &p.Notes,
			&p.AttendeeDetails.EmergencyContact, &p.AttendeeDetails.DietaryRequirements, &p.AttendeeDetails.AccessibilityNeeds,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone); err != nil {
			return nil, 0, err
		}
		p.Applicant = &u
		participants = append(participants, p)
	}
	return participants, count, rows.Err()
}

func (r *participantRepository) ListByUser(ctx context.Context, userID int32, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	where := `WHERE p.user_id = $1`
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var count int32
	countQuery := `SELECT count(*) FROM participants p ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT p.id, p.event_id, p.user_id, p.status, p.applied_at, p.reviewed_at, p.reviewed_by,
		COALESCE(p.rejection_reason, ''), COALESCE(p.notes, ''),
		COALESCE(p.emergency_contact, ''), COALESCE(p.dietary_requirements, ''), COALESCE(p.accessibility_needs, ''),
		e.id, e.title, e.event_date, e.event_time, e.location, e.status
		FROM participants p JOIN events e ON e.id = p.event_id ` + where +
		fmt.Sprintf(` ORDER BY p.applied_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		var e domain.EventSummary
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.AppliedAt, &p.ReviewedAt, &p.ReviewedBy,
			&p.RejectionReason, &p.Notes,
			&p.AttendeeDetails.EmergencyContact, &p.AttendeeDetails.DietaryRequirements, &p.AttendeeDetails.AccessibilityNeeds,
			&e.ID, &e.Title, &e.EventDate, &e.EventTime, &e.Location, &e.Status); err != nil {
			return nil, 0, err
		}
		p.Event = &e
		participants = append(participants, p)
	}
	return participants, count, rows.Err()
}

func (r *participantRepository) ListPending(ctx context.Context, f repository.ParticipantFilter) ([]domain.Participant, int32, error) {
	where := `WHERE p.status = 'pending'`
	var args []any
	if f.EventID != 0 {
		args = append(args, f.EventID)
		where += fmt.Sprintf(" AND p.event_id = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n)
	}

	var count int32
	countQuery := `SELECT count(*) FROM participants p JOIN users u ON u.id = p.user_id ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if f.SortOrder == "asc" {
		order = "ASC"
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT p.id, p.event_id, p.user_id, p.status, p.applied_at, p.reviewed_at, p.reviewed_by,
		COALESCE(p.rejection_reason, ''), COALESCE(p.notes, ''),
		COALESCE(p.emergency_contact, ''), COALESCE(p.dietary_requirements, ''), COALESCE(p.accessibility_needs, ''),
		u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''),
		e.id, e.title, e.event_date, e.event_time, e.location, e.status
		FROM participants p JOIN users u ON u.id = p.user_id JOIN events e ON e.id = p.event_id ` + where +
		fmt.Sprintf(` ORDER BY p.applied_at %s LIMIT $%d OFFSET $%d`, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		var u domain.UserSummary
		var e domain.EventSummary
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.Status, &p.AppliedAt, &p.ReviewedAt, &p.ReviewedBy,
			&p.RejectionReason, &p.Notes,
			&p.AttendeeDetails.EmergencyContact, &p.AttendeeDetails.DietaryRequirements, &p.AttendeeDetails.AccessibilityNeeds,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
			&e.ID, &e.Title, &e.EventDate, &e.EventTime, &e.Location, &e.Status); err != nil {
			return nil, 0, err
		}
		p.Applicant = &u
		p.Event = &e
		participants = append(participants, p)
	}
	return participants, count, rows.Err()
}

func (r *participantRepository) Stats(ctx context.Context) (*domain.ParticipantStats, error) {
	s := &domain.ParticipantStats{}
	query := `SELECT count(*),
		count(*) FILTER (WHERE status = 'pending'),
		count(*) FILTER (WHERE status = 'approved'),
		count(*) FILTER (WHERE status = 'rejected')
		FROM participants`
	err := r.db.QueryRowContext(ctx, query).Scan(
		&s.TotalParticipants, &s.PendingParticipants, &s.ApprovedParticipants, &s.RejectedParticipants)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}
