package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

// ScheduleRepository implements the Schedule Store port against PostgreSQL.
// CommitSchedule replaces a whole (academic_year[, department]) scope inside
// one transaction, so a generated week lands all-or-nothing.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, academic_year, week_number, department, class_id, day_of_week, slot, subject_code, staff_id, room_id, is_lab, is_elective, start_time, end_time, original_staff_id, created_at, updated_at`

// ListSchedule returns the committed records for one academic year,
// optionally scoped to a department.
func (r *ScheduleRepository) ListSchedule(ctx context.Context, academicYear string, department *string) ([]model.ScheduleRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_records WHERE academic_year = $1", scheduleColumns)
	args := []interface{}{academicYear}
	if department != nil {
		query += " AND department = $2"
		args = append(args, *department)
	}
	query += " ORDER BY class_id ASC, day_of_week ASC, slot ASC"

	var records []model.ScheduleRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return records, nil
}

// CommitSchedule atomically replaces the records in the given scope.
func (r *ScheduleRepository) CommitSchedule(ctx context.Context, academicYear string, department *string, records []model.ScheduleRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if department != nil {
		_, err = tx.ExecContext(ctx, `DELETE FROM schedule_records WHERE academic_year = $1 AND department = $2`, academicYear, *department)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM schedule_records WHERE academic_year = $1`, academicYear)
	}
	if err != nil {
		return fmt.Errorf("clear schedule scope: %w", err)
	}

	now := time.Now().UTC()
	for i := range records {
		payload := records[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		payload.AcademicYear = academicYear
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO schedule_records (id, academic_year, week_number, department, class_id, day_of_week, slot, subject_code, staff_id, room_id, is_lab, is_elective, start_time, end_time, original_staff_id, created_at, updated_at) VALUES (:id, :academic_year, :week_number, :department, :class_id, :day_of_week, :slot, :subject_code, :staff_id, :room_id, :is_lab, :is_elective, :start_time, :end_time, :original_staff_id, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("insert schedule record: %w", err)
		}
		records[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule: %w", err)
	}
	return nil
}

// Relocate moves a single record to a new (day, slot) with the matching
// wall-clock times.
func (r *ScheduleRepository) Relocate(ctx context.Context, recordID string, day, slot int, start, end model.ClockTime) error {
	const query = `UPDATE schedule_records SET day_of_week = $2, slot = $3, start_time = $4, end_time = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, recordID, day, slot, start.String(), end.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("relocate schedule record: %w", err)
	}
	return requireRow(res, recordID)
}

// RelocateRoom moves a single record to a different room.
func (r *ScheduleRepository) RelocateRoom(ctx context.Context, recordID, roomID string) error {
	const query = `UPDATE schedule_records SET room_id = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, recordID, roomID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("relocate schedule record room: %w", err)
	}
	return requireRow(res, recordID)
}

// AppendSubstitution inserts a pending substitution for a schedule record.
func (r *ScheduleRepository) AppendSubstitution(ctx context.Context, recordID, staffID string, date time.Time, reason string, score float64) (*model.SubstitutionRecord, error) {
	var originalStaffID string
	if err := r.db.GetContext(ctx, &originalStaffID, `SELECT staff_id FROM schedule_records WHERE id = $1`, recordID); err != nil {
		return nil, fmt.Errorf("load schedule record %s: %w", recordID, err)
	}

	now := time.Now().UTC()
	sub := model.SubstitutionRecord{
		ID:               uuid.NewString(),
		ScheduleRecordID: recordID,
		OriginalStaffID:  originalStaffID,
		ReplacementID:    staffID,
		Date:             date.Format("2006-01-02"),
		Reason:           reason,
		Score:            score,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	const query = `INSERT INTO substitution_records (id, schedule_record_id, original_staff_id, replacement_staff_id, substitution_date, reason, score, approved, approved_by, created_at, updated_at) VALUES (:id, :schedule_record_id, :original_staff_id, :replacement_staff_id, :substitution_date, :reason, :score, :approved, :approved_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, &sub); err != nil {
		return nil, fmt.Errorf("append substitution: %w", err)
	}
	return &sub, nil
}

// ApproveSubstitution sets the approval flag on a pending substitution.
func (r *ScheduleRepository) ApproveSubstitution(ctx context.Context, substitutionID, approver string) error {
	const query = `UPDATE substitution_records SET approved = TRUE, approved_by = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, substitutionID, approver, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("approve substitution: %w", err)
	}
	return requireRow(res, substitutionID)
}

// ListSubstitutions returns substitutions involving staffID as replacement or
// original; an empty staffID returns everything.
func (r *ScheduleRepository) ListSubstitutions(ctx context.Context, staffID string) ([]model.SubstitutionRecord, error) {
	const columns = `id, schedule_record_id, original_staff_id, replacement_staff_id, substitution_date, reason, score, approved, approved_by, created_at, updated_at`
	var subs []model.SubstitutionRecord
	if staffID == "" {
		query := fmt.Sprintf("SELECT %s FROM substitution_records ORDER BY created_at ASC", columns)
		if err := r.db.SelectContext(ctx, &subs, query); err != nil {
			return nil, fmt.Errorf("list substitutions: %w", err)
		}
		return subs, nil
	}
	query := fmt.Sprintf("SELECT %s FROM substitution_records WHERE replacement_staff_id = $1 OR original_staff_id = $1 ORDER BY created_at ASC", columns)
	if err := r.db.SelectContext(ctx, &subs, query, staffID); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}
	return subs, nil
}

func requireRow(res interface{ RowsAffected() (int64, error) }, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}
