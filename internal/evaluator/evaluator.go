// Package evaluator scores candidate schedules: a pure, deterministic
// function of (Snapshot, Candidate) producing a fitness score in [0, 100],
// a conflict list, and a penalty breakdown.
package evaluator

import (
	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/conflict"
	"github.com/academic-sched/ga-scheduler/internal/model"
)

// PreferenceFunc is the reserved preference-penalty hook: zero in the
// baseline, k preference violations once a preference module is plugged in.
// A nil PreferenceFunc contributes 0.
type PreferenceFunc func(snapshot *catalog.Snapshot, candidate *model.Candidate) int

const (
	conflictWeight     = 10.0
	workloadWeight     = 5.0
	preferenceWeight   = 2.0
	distributionWeight = 3.0
)

// Evaluate scores candidate against snapshot. It is a pure function that
// consumes no randomness: called twice on equal inputs it returns equal
// outputs, and it is safe to run concurrently across candidates.
func Evaluate(snapshot *catalog.Snapshot, candidate *model.Candidate, preference PreferenceFunc) (float64, []model.Conflict, model.PenaltyBreakdown) {
	items := make([]conflict.Keyed, len(candidate.Assignments))
	for i, a := range candidate.Assignments {
		roomIsLab := false
		if room, ok := snapshot.RoomByID(a.RoomID); ok {
			roomIsLab = room.Kind == model.RoomLab
		}
		items[i] = conflict.Keyed{
			ClassID: a.ClassID, StaffID: a.StaffID, RoomID: a.RoomID,
			Day: a.Day, Slot: a.Slot, IsLab: a.IsLab,
			RoomIsLab: roomIsLab,
		}
	}
	conflicts := conflict.Detect(items)

	workloadExcess := workloadPenaltyUnits(snapshot, candidate)
	distributionPairs := distributionPenaltyUnits(candidate)

	k := 0
	if preference != nil {
		k = preference(snapshot, candidate)
	}

	penalties := model.PenaltyBreakdown{
		Conflict:     conflictWeight * float64(len(conflicts)),
		Workload:     workloadWeight * float64(workloadExcess),
		Preference:   preferenceWeight * float64(k),
		Distribution: distributionWeight * float64(distributionPairs),
	}

	fitness := 100 - penalties.Sum()
	if fitness < 0 {
		fitness = 0
	}
	return fitness, conflicts, penalties
}

// workloadPenaltyUnits sums the excess over per-staff daily and weekly
// caps, daily and weekly counted independently.
func workloadPenaltyUnits(snapshot *catalog.Snapshot, candidate *model.Candidate) int {
	type dayKey struct {
		staffID string
		day     int
	}
	dailyCount := make(map[dayKey]int)
	weeklyCount := make(map[string]int)

	for _, a := range candidate.Assignments {
		if a.StaffID == "" {
			continue
		}
		dailyCount[dayKey{a.StaffID, a.Day}]++
		weeklyCount[a.StaffID]++
	}

	excess := 0
	seenStaff := make(map[string]bool)
	for key, count := range dailyCount {
		staff, ok := snapshot.StaffByID(key.staffID)
		if !ok {
			continue
		}
		if staff.MaxPerDay > 0 && count > staff.MaxPerDay {
			excess += count - staff.MaxPerDay
		}
		seenStaff[key.staffID] = true
	}
	for staffID, count := range weeklyCount {
		staff, ok := snapshot.StaffByID(staffID)
		if !ok {
			continue
		}
		if staff.MaxPerWeek > 0 && count > staff.MaxPerWeek {
			excess += count - staff.MaxPerWeek
		}
	}
	return excess
}

// distributionPenaltyUnits counts, per class, pairs of immediately
// consecutive same-subject assignments on the same day (slot and slot+1
// with identical subject code). Pairs where both sessions are labs are
// exempt: a lab block is required to be consecutive, so a correctly placed
// lab must not be penalized for it.
func distributionPenaltyUnits(candidate *model.Candidate) int {
	type classDaySlot struct {
		classID string
		day     int
		slot    int
	}
	type session struct {
		subjectCode string
		isLab       bool
	}
	bySlot := make(map[classDaySlot]session)
	for _, a := range candidate.Assignments {
		bySlot[classDaySlot{a.ClassID, a.Day, a.Slot}] = session{a.SubjectCode, a.IsLab}
	}

	pairs := 0
	for key, cur := range bySlot {
		next, ok := bySlot[classDaySlot{key.classID, key.day, key.slot + 1}]
		if !ok || next.subjectCode != cur.subjectCode {
			continue
		}
		if cur.isLab && next.isLab {
			continue
		}
		pairs++
	}
	return pairs
}
