package evaluator

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/store/memory"
)

func newTestSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	cat := &memory.Catalog{
		Staff: []model.StaffProfile{
			{ID: "s1", MaxPerDay: 2, MaxPerWeek: 4, Lecture: map[string]bool{"CS101": true, "CS102": true}, Lab: map[string]bool{"CS101L": true}},
			{ID: "s2", MaxPerDay: 8, MaxPerWeek: 30, Lecture: map[string]bool{"CS101": true}},
		},
		Subjects: []model.SubjectSpec{
			{Code: "CS101", HoursPerWeek: 4},
			{Code: "CS102", HoursPerWeek: 3},
			{Code: "CS101L", IsLab: true, LabBlockLength: 2},
		},
		Classes: []model.ClassSection{
			{ID: "c1", Headcount: 60, WorkingDays: 5, SlotsPerDay: 8},
			{ID: "c2", Headcount: 60, WorkingDays: 5, SlotsPerDay: 8},
		},
		Rooms: []model.Room{
			{ID: "cr1", Kind: model.RoomClassroom, Capacity: 70, Active: true},
			{ID: "lab1", Kind: model.RoomLab, Capacity: 60, Active: true},
		},
	}
	snapshot, err := catalog.NewSnapshot(context.Background(), cat)
	require.NoError(t, err)
	return snapshot
}

func TestEvaluatePerfectCandidate(t *testing.T) {
	snapshot := newTestSnapshot(t)
	candidate := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
		{ClassID: "c1", Day: 2, Slot: 1, SubjectCode: "CS102", StaffID: "s1", RoomID: "cr1"},
	})

	fitness, conflicts, penalties := Evaluate(snapshot, candidate, nil)
	assert.Equal(t, 100.0, fitness)
	assert.Empty(t, conflicts)
	assert.Zero(t, penalties.Sum())
}

func TestEvaluateLabInClassroomCostsExactlyTen(t *testing.T) {
	snapshot := newTestSnapshot(t)
	inLabRoom := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101L", StaffID: "s1", RoomID: "lab1", IsLab: true},
	})
	inClassroom := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101L", StaffID: "s1", RoomID: "cr1", IsLab: true},
	})

	good, goodConflicts, _ := Evaluate(snapshot, inLabRoom, nil)
	bad, badConflicts, _ := Evaluate(snapshot, inClassroom, nil)

	assert.Empty(t, goodConflicts)
	require.Len(t, badConflicts, 1)
	assert.Equal(t, model.ConflictLabRoomMismatch, badConflicts[0].Kind)
	assert.Equal(t, 10.0, good-bad, "identical candidates apart from the lab room differ by exactly one conflict penalty")
}

func TestEvaluateWorkloadPenalty(t *testing.T) {
	snapshot := newTestSnapshot(t)
	// s1 caps at 2/day and 4/week; five sessions on one day exceed the
	// daily cap by 3 and the weekly cap by 1, counted independently.
	var assignments []model.Assignment
	for slot := 1; slot <= 5; slot++ {
		assignments = append(assignments, model.Assignment{
			ClassID: "c1", Day: 1, Slot: slot, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1",
		})
	}
	candidate := model.NewCandidate(assignments)

	_, conflicts, penalties := Evaluate(snapshot, candidate, nil)
	assert.Empty(t, conflicts)
	assert.Equal(t, 5.0*(3+1), penalties.Workload)
}

func TestEvaluateDistributionPenalty(t *testing.T) {
	snapshot := newTestSnapshot(t)
	candidate := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
		{ClassID: "c1", Day: 1, Slot: 2, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
		{ClassID: "c1", Day: 2, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
	})

	_, _, penalties := Evaluate(snapshot, candidate, nil)
	assert.Equal(t, 3.0, penalties.Distribution, "one consecutive same-subject pair")
}

func TestEvaluateLabBlockIsNotADistributionViolation(t *testing.T) {
	snapshot := newTestSnapshot(t)
	candidate := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101L", StaffID: "s1", RoomID: "lab1", IsLab: true},
		{ClassID: "c1", Day: 1, Slot: 2, SubjectCode: "CS101L", StaffID: "s1", RoomID: "lab1", IsLab: true},
	})

	fitness, conflicts, penalties := Evaluate(snapshot, candidate, nil)
	assert.Empty(t, conflicts)
	assert.Zero(t, penalties.Distribution, "a required consecutive lab block is not penalized")
	assert.Equal(t, 100.0, fitness)
}

func TestEvaluatePreferenceHook(t *testing.T) {
	snapshot := newTestSnapshot(t)
	candidate := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
	})

	fitness, _, penalties := Evaluate(snapshot, candidate, func(*catalog.Snapshot, *model.Candidate) int { return 4 })
	assert.Equal(t, 8.0, penalties.Preference)
	assert.Equal(t, 92.0, fitness)
}

func TestEvaluateIsPure(t *testing.T) {
	snapshot := newTestSnapshot(t)
	candidate := model.NewCandidate([]model.Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
		{ClassID: "c2", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
		{ClassID: "c1", Day: 1, Slot: 2, SubjectCode: "CS101", StaffID: "s1", RoomID: "cr1"},
	})

	f1, c1, p1 := Evaluate(snapshot, candidate, nil)
	f2, c2, p2 := Evaluate(snapshot, candidate, nil)
	assert.Equal(t, f1, f2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, p1, p2)
}

func TestEvaluateFitnessBounds(t *testing.T) {
	snapshot := newTestSnapshot(t)
	rng := rand.New(rand.NewSource(7))

	// Adversarial candidates: random assignments piled onto a handful of
	// slots so conflicts dominate.
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(60)
		assignments := make([]model.Assignment, n)
		for i := range assignments {
			assignments[i] = model.Assignment{
				ClassID:     []string{"c1", "c2"}[rng.Intn(2)],
				Day:         rng.Intn(2) + 1,
				Slot:        rng.Intn(2) + 1,
				SubjectCode: []string{"CS101", "CS102", "CS101L"}[rng.Intn(3)],
				StaffID:     []string{"s1", "s2"}[rng.Intn(2)],
				RoomID:      []string{"cr1", "lab1"}[rng.Intn(2)],
				IsLab:       rng.Intn(2) == 0,
			}
		}
		fitness, _, _ := Evaluate(snapshot, model.NewCandidate(assignments), nil)
		assert.GreaterOrEqual(t, fitness, 0.0)
		assert.LessOrEqual(t, fitness, 100.0)
	}
}
