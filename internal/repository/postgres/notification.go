package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/logger"
	"eventhub-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, title, message, is_read, read_at, event_id, participant_id, priority, created_on`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID, "type", n.Type)
	query := `INSERT INTO notifications (user_id, type, title, message, is_read, event_id, participant_id, priority, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if n.CreatedOn.IsZero() {
		n.CreatedOn = time.Now()
	}
	return r.db.QueryRowContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.EventID, n.ParticipantID, n.Priority, n.CreatedOn,
	).Scan(&n.ID)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID int32, f repository.NotificationFilter) ([]domain.Notification, int32, error) {
	where := `WHERE user_id = $1`
	args := []any{userID}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.IsRead != nil {
		args = append(args, *f.IsRead)
		where += fmt.Sprintf(" AND is_read = $%d", len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + notificationColumns + ` FROM notifications ` + where +
		fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.ReadAt,
			&n.EventID, &n.ParticipantID, &n.Priority, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int32, at time.Time) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $3 WHERE id = $1 AND user_id = $2 AND is_read = FALSE`
	res, err := r.db.ExecContext(ctx, query, id, userID, at)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// already read is fine; absent is not
		var exists bool
		err := r.db.QueryRowContext(ctx, `SELECT TRUE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int32, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = $2 WHERE user_id = $1 AND is_read = FALSE`, userID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
