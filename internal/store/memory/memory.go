// Package memory provides in-memory implementations of the Catalog Read and
// Schedule Store ports, used by tests and the CLI's offline demo mode.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

// Catalog is a fixed, in-memory Catalog Read port.
type Catalog struct {
	Staff     []model.StaffProfile
	Subjects  []model.SubjectSpec
	Classes   []model.ClassSection
	Rooms     []model.Room
	Electives []model.ElectiveSpec
}

func (c *Catalog) ListStaff(ctx context.Context) ([]model.StaffProfile, error) {
	return c.Staff, nil
}

func (c *Catalog) ListSubjects(ctx context.Context) ([]model.SubjectSpec, error) {
	return c.Subjects, nil
}

func (c *Catalog) ListClasses(ctx context.Context) ([]model.ClassSection, error) {
	return c.Classes, nil
}

func (c *Catalog) ListRooms(ctx context.Context) ([]model.Room, error) {
	return c.Rooms, nil
}

func (c *Catalog) ListElectives(ctx context.Context) ([]model.ElectiveSpec, error) {
	return c.Electives, nil
}

// Store is a mutex-guarded in-memory Schedule Store. Every mutation holds the
// lock for its whole duration, so each operation observes a consistent
// snapshot and CommitSchedule's replace-then-insert is atomic.
type Store struct {
	mu            sync.Mutex
	records       []model.ScheduleRecord
	substitutions []model.SubstitutionRecord
}

// NewStore builds an empty Store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) ListSchedule(ctx context.Context, academicYear string, department *string) ([]model.ScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ScheduleRecord
	for _, r := range s.records {
		if !inScope(r, academicYear, department) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) CommitSchedule(ctx context.Context, academicYear string, department *string, records []model.ScheduleRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if !inScope(r, academicYear, department) {
			kept = append(kept, r)
		}
	}
	s.records = kept

	now := time.Now().UTC()
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.AcademicYear = academicYear
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		r.UpdatedAt = now
		s.records = append(s.records, r)
	}
	return nil
}

func (s *Store) Relocate(ctx context.Context, recordID string, day, slot int, start, end model.ClockTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == recordID {
			s.records[i].Day = day
			s.records[i].Slot = slot
			s.records[i].StartTime = start.String()
			s.records[i].EndTime = end.String()
			s.records[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("schedule record %s not found", recordID)
}

func (s *Store) RelocateRoom(ctx context.Context, recordID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == recordID {
			s.records[i].RoomID = roomID
			s.records[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("schedule record %s not found", recordID)
}

func (s *Store) AppendSubstitution(ctx context.Context, recordID, staffID string, date time.Time, reason string, score float64) (*model.SubstitutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	originalStaffID := ""
	found := false
	for _, r := range s.records {
		if r.ID == recordID {
			originalStaffID = r.StaffID
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("schedule record %s not found", recordID)
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
	s.substitutions = append(s.substitutions, sub)
	return &sub, nil
}

func (s *Store) ApproveSubstitution(ctx context.Context, substitutionID, approver string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.substitutions {
		if s.substitutions[i].ID == substitutionID {
			s.substitutions[i].Approved = true
			s.substitutions[i].ApprovedBy = &approver
			s.substitutions[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("substitution %s not found", substitutionID)
}

// ListSubstitutions returns substitutions involving staffID as either the
// replacement or the original; an empty staffID returns everything.
func (s *Store) ListSubstitutions(ctx context.Context, staffID string) ([]model.SubstitutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SubstitutionRecord
	for _, sub := range s.substitutions {
		if staffID == "" || sub.ReplacementID == staffID || sub.OriginalStaffID == staffID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func inScope(r model.ScheduleRecord, academicYear string, department *string) bool {
	if r.AcademicYear != academicYear {
		return false
	}
	if department != nil && r.Department != *department {
		return false
	}
	return true
}
