package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academic-sched/ga-scheduler/internal/apperrors"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/store/memory"
)

func validCatalog() *memory.Catalog {
	return &memory.Catalog{
		Staff: []model.StaffProfile{
			{ID: "s1", Department: "cse", Lecture: map[string]bool{"CS101": true}, Lab: map[string]bool{"CS101L": true}},
			{ID: "s2", Department: "cse", Lecture: map[string]bool{"CS101": true, "CS102": true}},
		},
		Subjects: []model.SubjectSpec{
			{Code: "CS101", HoursPerWeek: 4},
			{Code: "CS102", HoursPerWeek: 3},
			{Code: "CS101L", IsLab: true, LabBlockLength: 2},
		},
		Classes: []model.ClassSection{
			{
				ID: "c1", Headcount: 60, WorkingDays: 5, SlotsPerDay: 8,
				RequiredLectures: []model.RequiredLecture{{SubjectCode: "CS101", HoursPerWeek: 4}},
				RequiredLabs:     []model.RequiredLab{{LabCode: "CS101L", SessionsPerWeek: 1}},
			},
		},
		Rooms: []model.Room{
			{ID: "cr1", Kind: model.RoomClassroom, Capacity: 70, Active: true},
			{ID: "cr2", Kind: model.RoomClassroom, Capacity: 40, Active: true},
			{ID: "sh1", Kind: model.RoomSeminarHall, Capacity: 120, Active: true},
			{ID: "lab1", Kind: model.RoomLab, Capacity: 30, Active: true},
			{ID: "cr3", Kind: model.RoomClassroom, Capacity: 80, Active: false},
		},
	}
}

func TestNewSnapshotBuildsIndexes(t *testing.T) {
	snapshot, err := NewSnapshot(context.Background(), validCatalog())
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2"}, snapshot.EligibleStaff("lecture", "CS101"))
	assert.Equal(t, []string{"s2"}, snapshot.EligibleStaff("lecture", "CS102"))
	assert.Equal(t, []string{"s1"}, snapshot.EligibleStaff("lab", "CS101L"))
	assert.Empty(t, snapshot.EligibleStaff("elective", "CS101"))
	assert.Empty(t, snapshot.EligibleStaff("lecture", "NOPE"))
}

func TestRoomsOfKindWithCapacity(t *testing.T) {
	snapshot, err := NewSnapshot(context.Background(), validCatalog())
	require.NoError(t, err)

	rooms := snapshot.RoomsOfKindWithCapacity(model.RoomClassroom, 50)
	require.Len(t, rooms, 1)
	assert.Equal(t, "cr1", rooms[0].ID, "inactive cr3 is excluded, cr2 is under capacity")

	assert.Empty(t, snapshot.RoomsOfKindWithCapacity(model.RoomClassroom, 200))
}

func TestEligibleRoomsCombinesKinds(t *testing.T) {
	snapshot, err := NewSnapshot(context.Background(), validCatalog())
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, room := range snapshot.EligibleRooms(false, 60) {
		ids[room.ID] = true
	}
	assert.True(t, ids["cr1"])
	assert.True(t, ids["sh1"])
	assert.False(t, ids["lab1"], "non-lab sessions never land in lab rooms")

	labRooms := snapshot.EligibleRooms(true, 60)
	assert.Empty(t, labRooms, "capacity-gated lab search excludes the 30-seat lab")
	require.Len(t, snapshot.LabRooms(), 1)
	assert.Equal(t, "lab1", snapshot.LabRooms()[0].ID, "kind-only lab search includes it")
}

func TestSnapshotRejectsDanglingElectiveStaff(t *testing.T) {
	cat := validCatalog()
	cat.Electives = []model.ElectiveSpec{{ID: "e1", StaffID: "ghost", HoursPerWeek: 2}}
	_, err := NewSnapshot(context.Background(), cat)
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrCatalogConsistency.Code, appErr.Code)
}

func TestSnapshotRejectsDanglingClassSubject(t *testing.T) {
	cat := validCatalog()
	cat.Classes[0].RequiredLectures = append(cat.Classes[0].RequiredLectures,
		model.RequiredLecture{SubjectCode: "GHOST", HoursPerWeek: 1})
	_, err := NewSnapshot(context.Background(), cat)
	require.Error(t, err)
	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.ErrCatalogConsistency.Code, appErr.Code)
}

func TestSnapshotLookups(t *testing.T) {
	snapshot, err := NewSnapshot(context.Background(), validCatalog())
	require.NoError(t, err)

	staff, ok := snapshot.StaffByID("s1")
	require.True(t, ok)
	assert.Equal(t, "cse", staff.Department)

	_, ok = snapshot.StaffByID("missing")
	assert.False(t, ok)

	subj, ok := snapshot.SubjectByCode("CS101L")
	require.True(t, ok)
	assert.True(t, subj.IsLab)

	assert.Len(t, snapshot.AllStaff(), 2)
	assert.Len(t, snapshot.AllClasses(), 1)
}
