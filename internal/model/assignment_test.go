package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateCacheLifecycle(t *testing.T) {
	c := NewCandidate([]Assignment{{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101"}})

	_, _, _, ok := c.Cached()
	assert.False(t, ok, "fresh candidate must not report a cache")

	c.SetCache(97.0, nil, PenaltyBreakdown{Distribution: 3})
	fitness, _, penalties, ok := c.Cached()
	require.True(t, ok)
	assert.Equal(t, 97.0, fitness)
	assert.Equal(t, 3.0, penalties.Distribution)

	c.Add(Assignment{ClassID: "c1", Day: 1, Slot: 2, SubjectCode: "CS102"})
	_, _, _, ok = c.Cached()
	assert.False(t, ok, "Add must invalidate the cache")

	c.SetCache(100, nil, PenaltyBreakdown{})
	c.Replace(0, Assignment{ClassID: "c1", Day: 2, Slot: 1, SubjectCode: "CS101"})
	_, _, _, ok = c.Cached()
	assert.False(t, ok, "Replace must invalidate the cache")
}

func TestCandidateCloneIsIndependent(t *testing.T) {
	original := NewCandidate([]Assignment{
		{ClassID: "c1", Day: 1, Slot: 1, SubjectCode: "CS101", StaffID: "s1"},
	})
	original.SetCache(100, nil, PenaltyBreakdown{})

	clone := original.Clone()
	_, _, _, ok := clone.Cached()
	assert.False(t, ok, "clone starts uncached")

	clone.Replace(0, Assignment{ClassID: "c1", Day: 3, Slot: 4, SubjectCode: "CS101", StaffID: "s2"})
	assert.Equal(t, 1, original.Assignments[0].Day, "mutating the clone must not touch the original")
	assert.Equal(t, "s1", original.Assignments[0].StaffID)
}

func TestClassAssignments(t *testing.T) {
	c := NewCandidate([]Assignment{
		{ClassID: "c1", Day: 1, Slot: 1},
		{ClassID: "c2", Day: 1, Slot: 1},
		{ClassID: "c1", Day: 1, Slot: 2},
	})
	assert.Equal(t, []int{0, 2}, c.ClassAssignments("c1"))
	assert.Equal(t, []int{1}, c.ClassAssignments("c2"))
	assert.Nil(t, c.ClassAssignments("c3"))
}

func TestStructuralKeys(t *testing.T) {
	a := Assignment{ClassID: "c1", Day: 2, Slot: 5, StaffID: "s1", RoomID: "r1"}
	b := Assignment{ClassID: "c1", Day: 2, Slot: 5, StaffID: "s9", RoomID: "r9", SubjectCode: "other"}
	assert.Equal(t, a.ClassKey(), b.ClassKey(), "class key is structural over (class, day, slot) only")
	assert.NotEqual(t, a.StaffKey(), b.StaffKey())
}

func TestStaffCapabilities(t *testing.T) {
	staff := StaffProfile{
		Lecture:     map[string]bool{"CS101": true},
		Lab:         map[string]bool{"CS101L": true},
		Elective:    map[string]bool{"EL_ML": true},
		AbsentDates: map[string]bool{"2026-03-02": true},
	}
	assert.True(t, staff.CanTeach("CS101", false, false))
	assert.False(t, staff.CanTeach("CS101", true, false), "lecture capability does not imply lab capability")
	assert.True(t, staff.CanTeach("CS101L", true, false))
	assert.True(t, staff.CanTeach("EL_ML", false, true))
	assert.True(t, staff.IsAbsent("2026-03-02"))
	assert.False(t, staff.IsAbsent("2026-03-03"))
}

func TestRankBonusTable(t *testing.T) {
	assert.Equal(t, 25.0, RankBonus("professor"))
	assert.Equal(t, 20.0, RankBonus("associate_professor"))
	assert.Equal(t, 15.0, RankBonus("assistant_professor"))
	assert.Equal(t, 10.0, RankBonus("lecturer"))
	assert.Equal(t, 5.0, RankBonus("visiting_faculty"))
	assert.Equal(t, 0.0, RankBonus("unknown"))
}
