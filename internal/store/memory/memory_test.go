package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

const year = "2025-2026"

func sampleRecord(classID, dept string, day, slot int) model.ScheduleRecord {
	r := model.ScheduleRecord{
		AcademicYear: year, WeekNumber: 1, Department: dept,
		ClassID: classID, Day: day, Slot: slot, SubjectCode: "CS101",
		StaffID: "s1", RoomID: "cr1",
	}
	r.ApplySlotTimes()
	return r
}

func TestCommitMintsIDsAndLists(t *testing.T) {
	store := NewStore()
	err := store.CommitSchedule(context.Background(), year, nil, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 1, 1),
		sampleRecord("c1", "cse", 1, 2),
	})
	require.NoError(t, err)

	records, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestCommitReplacesScope(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 1, 1),
		sampleRecord("c2", "ece", 1, 1),
	}))

	// Department-scoped commit only replaces that department's records.
	dept := "cse"
	require.NoError(t, store.CommitSchedule(context.Background(), year, &dept, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 2, 2),
	}))

	all, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	cseOnly, err := store.ListSchedule(context.Background(), year, &dept)
	require.NoError(t, err)
	require.Len(t, cseOnly, 1)
	assert.Equal(t, 2, cseOnly[0].Day)

	// Unscoped commit wipes the whole year.
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, nil))
	empty, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCommitRoundTripIsStable(t *testing.T) {
	// Re-committing what list returned leaves the (class, day, slot) ->
	// (subject, staff, room) mapping unchanged.
	store := NewStore()
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 1, 1),
		sampleRecord("c2", "cse", 2, 3),
	}))

	first, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, first))

	second, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)

	view := func(records []model.ScheduleRecord) map[model.ClassKey][3]string {
		m := make(map[model.ClassKey][3]string)
		for _, r := range records {
			m[model.ClassKey{ClassID: r.ClassID, Day: r.Day, Slot: r.Slot}] = [3]string{r.SubjectCode, r.StaffID, r.RoomID}
		}
		return m
	}
	assert.Equal(t, view(first), view(second))
}

func TestRelocateUpdatesRecord(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 1, 1),
	}))
	records, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)

	st := model.SlotTimes[5]
	require.NoError(t, store.Relocate(context.Background(), records[0].ID, 3, 5, st.Start, st.End))

	moved, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, moved[0].Day)
	assert.Equal(t, 5, moved[0].Slot)
	assert.Equal(t, "14:00", moved[0].StartTime)
	assert.Equal(t, "15:00", moved[0].EndTime)

	require.NoError(t, store.RelocateRoom(context.Background(), records[0].ID, "lab9"))
	moved, err = store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)
	assert.Equal(t, "lab9", moved[0].RoomID)

	assert.Error(t, store.Relocate(context.Background(), "ghost", 1, 1, st.Start, st.End))
	assert.Error(t, store.RelocateRoom(context.Background(), "ghost", "r"))
}

func TestSubstitutionLifecycle(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.CommitSchedule(context.Background(), year, nil, []model.ScheduleRecord{
		sampleRecord("c1", "cse", 1, 1),
	}))
	records, err := store.ListSchedule(context.Background(), year, nil)
	require.NoError(t, err)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sub, err := store.AppendSubstitution(context.Background(), records[0].ID, "s2", date, "sick", 120)
	require.NoError(t, err)
	assert.Equal(t, "s1", sub.OriginalStaffID)
	assert.Equal(t, "2026-03-02", sub.Date)
	assert.False(t, sub.Approved)

	require.NoError(t, store.ApproveSubstitution(context.Background(), sub.ID, "dean"))

	subs, err := store.ListSubstitutions(context.Background(), "s2")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].Approved)
	require.NotNil(t, subs[0].ApprovedBy)
	assert.Equal(t, "dean", *subs[0].ApprovedBy)

	none, err := store.ListSubstitutions(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.AppendSubstitution(context.Background(), "ghost", "s2", date, "sick", 0)
	assert.Error(t, err)
	assert.Error(t, store.ApproveSubstitution(context.Background(), "ghost", "dean"))
}
