// Package builder produces initial candidate schedules: a randomized,
// per-class greedy placement of lectures, labs, and electives over the
// snapshot's eligible-staff and room indexes.
package builder

import (
	"math/rand"

	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/model"
)

// NoteKind classifies a non-fatal builder finding.
type NoteKind string

const (
	NoteInfeasibleRequirement NoteKind = "INFEASIBLE_REQUIREMENT"
	NoteUnplaceableSession    NoteKind = "UNPLACEABLE_SESSION"
)

// Note is one non-fatal builder finding, carried as data rather than
// thrown; generation continues with what fits.
type Note struct {
	Kind        NoteKind
	ClassID     string
	SubjectCode string
	Detail      string
}

type slotKey struct{ day, slot int }

// Build produces one Candidate for the whole snapshot: every class is
// built independently and the resulting assignments are concatenated.
// rng is a child PRNG stream from prngstream.Master, so repeated Build
// calls with the same stream id are reproducible.
func Build(snapshot *catalog.Snapshot, rng *rand.Rand) (*model.Candidate, []Note) {
	var assignments []model.Assignment
	var notes []Note

	for _, class := range snapshot.AllClasses() {
		classAssignments, classNotes := buildClass(snapshot, class, rng)
		assignments = append(assignments, classAssignments...)
		notes = append(notes, classNotes...)
	}

	return model.NewCandidate(assignments), notes
}

func buildClass(snapshot *catalog.Snapshot, class model.ClassSection, rng *rand.Rand) ([]model.Assignment, []Note) {
	var assignments []model.Assignment
	var notes []Note

	workingDays := class.WorkingDays
	if workingDays > len(model.WeekdayOrder) {
		workingDays = len(model.WeekdayOrder)
	}
	slotsPerDay := class.SlotsPerDay
	if slotsPerDay > model.MaxSlot {
		slotsPerDay = model.MaxSlot
	}

	if class.TotalRequiredHours(snapshot) > class.Capacity() {
		notes = append(notes, Note{
			Kind: NoteInfeasibleRequirement, ClassID: class.ID,
			Detail: "required hours exceed working_days * slots_per_day",
		})
	}

	allocated := make(map[slotKey]bool)
	allSlots := make([]slotKey, 0, workingDays*slotsPerDay)
	for day := 1; day <= workingDays; day++ {
		for slot := 1; slot <= slotsPerDay; slot++ {
			allSlots = append(allSlots, slotKey{day, slot})
		}
	}

	// Lectures.
	for _, lec := range class.RequiredLectures {
		for h := 0; h < lec.HoursPerWeek; h++ {
			free := freeSlots(allSlots, allocated)
			if len(free) == 0 {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lec.SubjectCode, Detail: "no free slot"})
				continue
			}
			chosen := free[rng.Intn(len(free))]
			staffID, ok := pickStaff(snapshot, "lecture", lec.SubjectCode, rng)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lec.SubjectCode, Detail: "no eligible staff"})
				continue
			}
			roomID, ok := pickRoom(snapshot, false, class.Headcount, rng)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lec.SubjectCode, Detail: "no eligible room"})
				continue
			}
			allocated[chosen] = true
			assignments = append(assignments, model.Assignment{
				ClassID: class.ID, Day: chosen.day, Slot: chosen.slot,
				SubjectCode: lec.SubjectCode, StaffID: staffID, RoomID: roomID,
			})
		}
	}

	// Labs: scan for lab_block_length consecutive free slots on the same day.
	for _, lab := range class.RequiredLabs {
		blockLen := 2
		if subj, ok := snapshot.SubjectByCode(lab.LabCode); ok && subj.LabBlockLength > 0 {
			blockLen = subj.LabBlockLength
		}
		for sessionIdx := 0; sessionIdx < lab.SessionsPerWeek; sessionIdx++ {
			block, ok := findConsecutiveBlock(workingDays, slotsPerDay, blockLen, allocated)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lab.LabCode, Detail: "no consecutive block"})
				continue
			}
			staffID, ok := pickStaff(snapshot, "lab", lab.LabCode, rng)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lab.LabCode, Detail: "no eligible lab staff"})
				continue
			}
			roomID, ok := pickRoom(snapshot, true, class.Headcount, rng)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: lab.LabCode, Detail: "no eligible lab room"})
				continue
			}
			for _, sk := range block {
				allocated[sk] = true
				assignments = append(assignments, model.Assignment{
					ClassID: class.ID, Day: sk.day, Slot: sk.slot,
					SubjectCode: lab.LabCode, StaffID: staffID, RoomID: roomID, IsLab: true,
				})
			}
		}
	}

	// Electives: staff is pre-assigned, only a room is searched.
	for _, electiveID := range class.ElectiveIDs {
		elective, ok := snapshot.ElectiveByID(electiveID)
		if !ok {
			continue
		}
		for h := 0; h < elective.HoursPerWeek; h++ {
			free := freeSlots(allSlots, allocated)
			if len(free) == 0 {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: electiveID, Detail: "no free slot"})
				continue
			}
			chosen := free[rng.Intn(len(free))]
			roomID, ok := pickRoom(snapshot, false, class.Headcount, rng)
			if !ok {
				notes = append(notes, Note{Kind: NoteUnplaceableSession, ClassID: class.ID, SubjectCode: electiveID, Detail: "no eligible room"})
				continue
			}
			allocated[chosen] = true
			assignments = append(assignments, model.Assignment{
				ClassID: class.ID, Day: chosen.day, Slot: chosen.slot,
				SubjectCode: electiveID, StaffID: elective.StaffID, RoomID: roomID, IsElective: true,
			})
		}
	}

	return assignments, notes
}

func freeSlots(all []slotKey, allocated map[slotKey]bool) []slotKey {
	free := make([]slotKey, 0, len(all))
	for _, sk := range all {
		if !allocated[sk] {
			free = append(free, sk)
		}
	}
	return free
}

// findConsecutiveBlock scans (day, slot) pairs in order looking for
// blockLen consecutive free slots on the same day.
func findConsecutiveBlock(workingDays, slotsPerDay, blockLen int, allocated map[slotKey]bool) ([]slotKey, bool) {
	for day := 1; day <= workingDays; day++ {
		for start := 1; start+blockLen-1 <= slotsPerDay; start++ {
			block := make([]slotKey, blockLen)
			ok := true
			for i := 0; i < blockLen; i++ {
				sk := slotKey{day, start + i}
				if allocated[sk] {
					ok = false
					break
				}
				block[i] = sk
			}
			if ok {
				return block, true
			}
		}
	}
	return nil, false
}

func pickStaff(snapshot *catalog.Snapshot, kind, subjectCode string, rng *rand.Rand) (string, bool) {
	eligible := snapshot.EligibleStaff(kind, subjectCode)
	if len(eligible) == 0 {
		return "", false
	}
	return eligible[rng.Intn(len(eligible))], true
}

func pickRoom(snapshot *catalog.Snapshot, isLab bool, headcount int, rng *rand.Rand) (string, bool) {
	var rooms []model.Room
	if isLab {
		rooms = snapshot.LabRooms()
	} else {
		rooms = snapshot.EligibleRooms(false, headcount)
	}
	if len(rooms) == 0 {
		return "", false
	}
	return rooms[rng.Intn(len(rooms))].ID, true
}
