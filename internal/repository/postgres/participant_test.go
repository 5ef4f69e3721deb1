package postgres

import (
	"context"
	"testing"
	"time"

	"eventhub-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var participantTestColumns = []string{
	"id", "event_id", "user_id", "status", "applied_at", "reviewed_at", "reviewed_by",
	"rejection_reason", "notes", "emergency_contact", "dietary_requirements", "accessibility_needs",
}

func pendingRow(id, eventID, userID int32) *sqlmock.Rows {
	return sqlmock.NewRows(participantTestColumns).
		AddRow(id, eventID, userID, "pending", time.Now(), nil, nil, "", "", "", "", "")
}

func approvedRow(id, eventID, userID int32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(participantTestColumns).
		AddRow(id, eventID, userID, "approved", now, now, int32(99), "", "", "", "", "")
}

func TestParticipantRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := &domain.Participant{EventID: 1, UserID: 7, Status: domain.ParticipantStatusPending, AppliedAt: time.Now()}

		mock.ExpectQuery("INSERT INTO participants").
			WithArgs(p.EventID, p.UserID, p.Status, p.AppliedAt, "", "", "").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		err := repo.Create(ctx, p)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), p.ID)
	})

	t.Run("UniqueViolationMeansAlreadyApplied", func(t *testing.T) {
		p := &domain.Participant{EventID: 1, UserID: 7, Status: domain.ParticipantStatusPending, AppliedAt: time.Now()}

		mock.ExpectQuery("INSERT INTO participants").
			WithArgs(p.EventID, p.UserID, p.Status, p.AppliedAt, "", "", "").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, p)
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)
	})
}

func TestParticipantRepository_Approve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(int32(5), int32(99), sqlmock.AnyArg(), "looks good").
			WillReturnRows(approvedRow(5, 1, 7))
		mock.ExpectExec("UPDATE events SET current_participants = current_participants \\+ 1").
			WithArgs(int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		p, err := repo.Approve(ctx, 5, 99, "looks good", time.Now())
		assert.NoError(t, err)
		assert.Equal(t, domain.ParticipantStatusApproved, p.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FullEventRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(int32(5), int32(99), sqlmock.AnyArg(), "").
			WillReturnRows(approvedRow(5, 1, 7))
		// the guarded increment finds no row with spare capacity
		mock.ExpectExec("UPDATE events SET current_participants = current_participants \\+ 1").
			WithArgs(int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Approve(ctx, 5, 99, "", time.Now())
		assert.ErrorIs(t, err, domain.ErrEventFull)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotPendingAnymore", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(int32(5), int32(99), sqlmock.AnyArg(), "").
			WillReturnRows(sqlmock.NewRows(participantTestColumns))
		mock.ExpectRollback()

		_, err := repo.Approve(ctx, 5, 99, "", time.Now())
		assert.ErrorIs(t, err, domain.ErrNotPending)
	})
}

func TestParticipantRepository_BulkApprove(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(participantTestColumns).
			AddRow(5, 1, 7, "approved", now, now, int32(99), "", "", "", "", "").
			AddRow(6, 1, 8, "approved", now, now, int32(99), "", "", "", "", "")

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(pq.Array([]int32{5, 6}), int32(99), sqlmock.AnyArg()).
			WillReturnRows(rows)
		mock.ExpectExec("UPDATE events").
			WithArgs(int32(1), int32(2), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		approved, err := repo.BulkApprove(ctx, []int32{5, 6}, 99, now)
		assert.NoError(t, err)
		assert.Len(t, approved, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CapacityShortfallRollsBackWholeBatch", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(participantTestColumns).
			AddRow(5, 1, 7, "approved", now, now, int32(99), "", "", "", "", "").
			AddRow(6, 1, 8, "approved", now, now, int32(99), "", "", "", "", "")

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(pq.Array([]int32{5, 6}), int32(99), sqlmock.AnyArg()).
			WillReturnRows(rows)
		// event 1 cannot absorb both approvals
		mock.ExpectExec("UPDATE events").
			WithArgs(int32(1), int32(2), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.BulkApprove(ctx, []int32{5, 6}, 99, now)
		var batchErr *domain.BatchCapacityError
		assert.ErrorAs(t, err, &batchErr)
		assert.Equal(t, []int32{1}, batchErr.EventIDs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NothingPending", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE participants").
			WithArgs(pq.Array([]int32{5}), int32(99), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(participantTestColumns))
		mock.ExpectRollback()

		_, err := repo.BulkApprove(ctx, []int32{5}, 99, time.Now())
		assert.ErrorIs(t, err, domain.ErrNoPendingInBatch)
	})
}

func TestParticipantRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("ApprovedGivesSeatBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT event_id, status FROM participants").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "status"}).AddRow(1, "approved"))
		mock.ExpectExec("DELETE FROM participants").
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE events SET current_participants = GREATEST").
			WithArgs(int32(1), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PendingLeavesCounterAlone", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT event_id, status FROM participants").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "status"}).AddRow(1, "pending"))
		mock.ExpectExec("DELETE FROM participants").
			WithArgs(int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestParticipantRepository_DeleteOwn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("WithdrawsPending", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM participants").
			WithArgs(int32(1), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteOwn(ctx, 1, 7))
	})

	t.Run("ApprovedIsRefused", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM participants").
			WithArgs(int32(1), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM participants").
			WithArgs(int32(1), int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))

		err := repo.DeleteOwn(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrCannotLeaveApproved)
	})

	t.Run("NeverApplied", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM participants").
			WithArgs(int32(1), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT status FROM participants").
			WithArgs(int32(1), int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}))

		err := repo.DeleteOwn(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrNotRegistered)
	})
}

func TestParticipantRepository_GetByEventAndUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewParticipantRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM participants WHERE event_id = \\$1 AND user_id = \\$2").
			WithArgs(int32(1), int32(7)).
			WillReturnRows(pendingRow(5, 1, 7))

		p, err := repo.GetByEventAndUser(ctx, 1, 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), p.ID)
	})

	t.Run("Absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM participants WHERE event_id = \\$1 AND user_id = \\$2").
			WithArgs(int32(1), int32(7)).
			WillReturnRows(sqlmock.NewRows(participantTestColumns))

		_, err := repo.GetByEventAndUser(ctx, 1, 7)
		assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
	})
}
