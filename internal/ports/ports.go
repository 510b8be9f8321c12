// Package ports defines the two narrow collaborator interfaces the core
// depends on: a read-only catalog port and a schedule store port. Concrete
// implementations live under internal/store.
package ports

import (
	"context"
	"time"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

// CatalogReader lists every catalog entity kind. Pure reads; the snapshot
// is the only caller.
type CatalogReader interface {
	ListStaff(ctx context.Context) ([]model.StaffProfile, error)
	ListSubjects(ctx context.Context) ([]model.SubjectSpec, error)
	ListClasses(ctx context.Context) ([]model.ClassSection, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	ListElectives(ctx context.Context) ([]model.ElectiveSpec, error)
}

// ScheduleStore is the persistence port for committed schedules. Atomicity
// of CommitSchedule and Relocate/RelocateRoom is the store's responsibility.
type ScheduleStore interface {
	ListSchedule(ctx context.Context, academicYear string, department *string) ([]model.ScheduleRecord, error)
	CommitSchedule(ctx context.Context, academicYear string, department *string, records []model.ScheduleRecord) error
	Relocate(ctx context.Context, recordID string, day, slot int, start, end model.ClockTime) error
	RelocateRoom(ctx context.Context, recordID, roomID string) error
	AppendSubstitution(ctx context.Context, recordID, staffID string, date time.Time, reason string, score float64) (*model.SubstitutionRecord, error)
	ApproveSubstitution(ctx context.Context, substitutionID, approver string) error
	ListSubstitutions(ctx context.Context, staffID string) ([]model.SubstitutionRecord, error)
}
