// Package gaops implements the genetic operators: tournament selection,
// class-partitioned crossover, and three-way mutation.
package gaops

import (
	"math/rand"

	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/model"
)

// Scored pairs a Candidate with its already-evaluated fitness, so selection
// never re-evaluates.
type Scored struct {
	Candidate *model.Candidate
	Fitness   float64
}

// TournamentSelect samples tournament_size candidates without replacement
// from pool and returns the highest-fitness one. Ties are broken by sample
// order: the earlier-sampled candidate wins.
func TournamentSelect(pool []Scored, k int, rng *rand.Rand) *model.Candidate {
	if len(pool) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(pool) {
		k = len(pool)
	}
	perm := rng.Perm(len(pool))
	best := pool[perm[0]]
	for _, idx := range perm[1:k] {
		if c := pool[idx]; c.Fitness > best.Fitness {
			best = c
		}
	}
	return best.Candidate
}

// Crossover produces two children by partitioning the class identifiers into
// two halves: a random sample of ⌊N/2⌋ classes is exchanged, so child A
// inherits parent A's assignments for the kept classes and parent B's for the
// exchanged ones, and child B gets the complement. The unit of exchange is a
// class's full assignment set, which keeps each parent's per-class solution
// internally consistent and localizes disruption to cross-class resource
// conflicts.
func Crossover(a, b *model.Candidate, rng *rand.Rand) (*model.Candidate, *model.Candidate) {
	classIDs := classOrder(a, b)
	exchanged := make(map[string]bool, len(classIDs)/2)
	for _, idx := range rng.Perm(len(classIDs))[:len(classIDs)/2] {
		exchanged[classIDs[idx]] = true
	}
	childA := combine(a, b, classIDs, exchanged)
	childB := combine(b, a, classIDs, exchanged)
	return childA, childB
}

// combine assembles one child: classes in exchanged come from donor, the rest
// from keeper.
func combine(keeper, donor *model.Candidate, classIDs []string, exchanged map[string]bool) *model.Candidate {
	var out []model.Assignment
	for _, classID := range classIDs {
		source := keeper
		if exchanged[classID] {
			source = donor
		}
		for _, idx := range source.ClassAssignments(classID) {
			out = append(out, source.Assignments[idx])
		}
	}
	return model.NewCandidate(out)
}

func classOrder(a, b *model.Candidate) []string {
	seen := make(map[string]bool)
	var order []string
	for _, c := range []*model.Candidate{a, b} {
		for _, asn := range c.Assignments {
			if !seen[asn.ClassID] {
				seen[asn.ClassID] = true
				order = append(order, asn.ClassID)
			}
		}
	}
	return order
}

// MutationKind names one of the three mutation operators.
type MutationKind string

const (
	MutateReStaff MutationKind = "RE_STAFF"
	MutateReRoom  MutationKind = "RE_ROOM"
	MutateReSlot  MutationKind = "RE_SLOT"
)

var mutationKinds = []MutationKind{MutateReStaff, MutateReRoom, MutateReSlot}

// Mutate applies, with probability rate, exactly one mutation to one
// uniformly random assignment in candidate:
//   - re-staff: replace staff_id with another staff from the eligible set for
//     the assignment's capability kind
//   - re-room: replace room_id with another room of matching kind and capacity
//   - re-slot: replace (day, slot) with another slot within the class's
//     working_days/slots_per_day window; there is no consecutive-block
//     re-check, so lab blocks may fragment and the evaluator penalizes the
//     resulting conflict
//
// If no eligible alternative exists, the assignment is left unchanged.
func Mutate(snapshot *catalog.Snapshot, candidate *model.Candidate, rate float64, rng *rand.Rand) {
	if len(candidate.Assignments) == 0 {
		return
	}
	if rng.Float64() >= rate {
		return
	}
	i := rng.Intn(len(candidate.Assignments))
	a := candidate.Assignments[i]
	class, ok := snapshot.ClassByID(a.ClassID)
	if !ok {
		return
	}

	switch mutationKinds[rng.Intn(len(mutationKinds))] {
	case MutateReStaff:
		eligible := snapshot.EligibleStaff(capabilityKind(a), a.SubjectCode)
		if len(eligible) == 0 {
			return
		}
		a.StaffID = eligible[rng.Intn(len(eligible))]
	case MutateReRoom:
		rooms := snapshot.EligibleRooms(a.IsLab, class.Headcount)
		if len(rooms) == 0 {
			return
		}
		a.RoomID = rooms[rng.Intn(len(rooms))].ID
	case MutateReSlot:
		workingDays := class.WorkingDays
		if workingDays > len(model.WeekdayOrder) {
			workingDays = len(model.WeekdayOrder)
		}
		slotsPerDay := class.SlotsPerDay
		if slotsPerDay > model.MaxSlot {
			slotsPerDay = model.MaxSlot
		}
		if workingDays < 1 || slotsPerDay < 1 {
			return
		}
		a.Day = rng.Intn(workingDays) + 1
		a.Slot = rng.Intn(slotsPerDay) + 1
	}
	candidate.Replace(i, a)
}

func capabilityKind(a model.Assignment) string {
	switch {
	case a.IsElective:
		return "elective"
	case a.IsLab:
		return "lab"
	default:
		return "lecture"
	}
}
