// Package repair detects residual double-bookings in a committed schedule
// and resolves them by relocating a session to an alternative slot or room.
package repair

import (
	"context"

	"github.com/academic-sched/ga-scheduler/internal/apperrors"
	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/conflict"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/ports"
)

// Outcome describes the resolution of one detected conflict.
type Outcome struct {
	Conflict model.Conflict
	Resolved bool
	MovedID  string
	Strategy string
}

const (
	StrategyRelocateSlot = "RELOCATE_SLOT"
	StrategyRelocateRoom = "RELOCATE_ROOM"
)

// Engine resolves conflicts in one (academic_year, department) scope against
// a Catalog Snapshot and Schedule Store.
type Engine struct {
	snapshot *catalog.Snapshot
	store    ports.ScheduleStore
}

// New builds a repair Engine.
func New(snapshot *catalog.Snapshot, store ports.ScheduleStore) *Engine {
	return &Engine{snapshot: snapshot, store: store}
}

// Run detects and attempts to resolve every conflict in the given scope.
// Repair tries each involved record in turn; it does not attempt multi-step
// rearrangements.
func (e *Engine) Run(ctx context.Context, academicYear string, department *string) ([]Outcome, error) {
	records, err := e.store.ListSchedule(ctx, academicYear, department)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list schedule")
	}

	conflicts := e.detect(records)
	outcomes := make([]Outcome, 0, len(conflicts))
	for _, c := range conflicts {
		outcome := e.resolveOne(ctx, c, records)
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (e *Engine) detect(records []model.ScheduleRecord) []model.Conflict {
	items := make([]conflict.Keyed, len(records))
	for i, r := range records {
		roomIsLab := false
		if room, ok := e.snapshot.RoomByID(r.RoomID); ok {
			roomIsLab = room.Kind == model.RoomLab
		}
		items[i] = conflict.Keyed{
			ClassID: r.ClassID, StaffID: r.StaffID, RoomID: r.RoomID,
			Day: r.Day, Slot: r.Slot, IsLab: r.IsLab,
			RoomIsLab: roomIsLab,
		}
	}
	return conflict.Detect(items)
}

// resolveOne tries, for each record index involved in the conflict, to find
// an alternative placement. The first record for which a move succeeds wins.
// A successful move is written back into records so later conflicts in the
// same pass search against the post-move state and never re-collide.
func (e *Engine) resolveOne(ctx context.Context, c model.Conflict, records []model.ScheduleRecord) Outcome {
	if c.Kind == model.ConflictRoomDoubleBooking {
		for _, idx := range c.Indices {
			if idx >= len(records) {
				continue
			}
			record := records[idx]
			if roomID, ok := e.findAlternativeRoom(record, records); ok {
				if err := e.store.RelocateRoom(ctx, record.ID, roomID); err == nil {
					records[idx].RoomID = roomID
					return Outcome{Conflict: c, Resolved: true, MovedID: record.ID, Strategy: StrategyRelocateRoom}
				}
			}
		}
		return Outcome{Conflict: c, Resolved: false}
	}

	for _, idx := range c.Indices {
		if idx >= len(records) {
			continue
		}
		record := records[idx]
		if day, slot, ok := e.findAlternativeSlot(record, records); ok {
			st := model.SlotTimes[slot]
			if err := e.store.Relocate(ctx, record.ID, day, slot, st.Start, st.End); err == nil {
				records[idx].Day = day
				records[idx].Slot = slot
				records[idx].StartTime = st.Start.String()
				records[idx].EndTime = st.End.String()
				return Outcome{Conflict: c, Resolved: true, MovedID: record.ID, Strategy: StrategyRelocateSlot}
			}
		}
	}
	return Outcome{Conflict: c, Resolved: false}
}

// findAlternativeSlot searches the class's window for a (day, slot) where
// the record's class, staff, and room are all free.
func (e *Engine) findAlternativeSlot(record model.ScheduleRecord, records []model.ScheduleRecord) (int, int, bool) {
	class, ok := e.snapshot.ClassByID(record.ClassID)
	if !ok {
		return 0, 0, false
	}
	workingDays := class.WorkingDays
	slotsPerDay := class.SlotsPerDay
	if slotsPerDay > model.MaxSlot {
		slotsPerDay = model.MaxSlot
	}

	for day := 1; day <= workingDays; day++ {
		for slot := 1; slot <= slotsPerDay; slot++ {
			if day == record.Day && slot == record.Slot {
				continue
			}
			if e.isSlotAvailable(record, day, slot, records) {
				return day, slot, true
			}
		}
	}
	return 0, 0, false
}

func (e *Engine) isSlotAvailable(record model.ScheduleRecord, day, slot int, records []model.ScheduleRecord) bool {
	for _, other := range records {
		if other.ID == record.ID {
			continue
		}
		if other.Day != day || other.Slot != slot || other.WeekNumber != record.WeekNumber {
			continue
		}
		if other.ClassID == record.ClassID || other.StaffID == record.StaffID || other.RoomID == record.RoomID {
			return false
		}
	}
	return true
}

// findAlternativeRoom searches rooms of compatible kind and sufficient
// capacity that are free at the record's (day, slot, week).
func (e *Engine) findAlternativeRoom(record model.ScheduleRecord, records []model.ScheduleRecord) (string, bool) {
	class, ok := e.snapshot.ClassByID(record.ClassID)
	if !ok {
		return "", false
	}
	candidates := e.snapshot.EligibleRooms(record.IsLab, class.Headcount)
	for _, room := range candidates {
		if room.ID == record.RoomID {
			continue
		}
		free := true
		for _, other := range records {
			if other.ID == record.ID {
				continue
			}
			if other.RoomID == room.ID && other.Day == record.Day && other.Slot == record.Slot && other.WeekNumber == record.WeekNumber {
				free = false
				break
			}
		}
		if free {
			return room.ID, true
		}
	}
	return "", false
}
