// Package catalog builds the immutable catalog snapshot and the
// precomputed hot-path indexes (eligible staff per subject, rooms sorted by
// kind and capacity) the scheduler reads during evolution.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/academic-sched/ga-scheduler/internal/apperrors"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/ports"
)

// Snapshot is the read-only catalog view every other core component depends
// on. Construction is the only place the collaborator store is read.
type Snapshot struct {
	staff     map[string]model.StaffProfile
	subjects  map[string]model.SubjectSpec
	classes   map[string]model.ClassSection
	rooms     map[string]model.Room
	electives map[string]model.ElectiveSpec

	staffOrder    []string
	classOrder    []string
	subjectOrder  []string
	electiveOrder []string
	roomOrder     []string

	// eligibleStaff[kind][subjectCode] -> sorted staff IDs, kind in {lecture,lab,elective}
	eligibleStaff map[string]map[string][]string
	// roomsByKind[kind] -> rooms sorted ascending by capacity
	roomsByKind map[model.RoomKind][]model.Room
}

// NewSnapshot reads every entity kind from reader and validates structural
// consistency before anything else runs: electives referencing nonexistent
// staff, classes referencing nonexistent subjects.
func NewSnapshot(ctx context.Context, reader ports.CatalogReader) (*Snapshot, error) {
	staffList, err := reader.ListStaff(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list staff")
	}
	subjectList, err := reader.ListSubjects(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list subjects")
	}
	classList, err := reader.ListClasses(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list classes")
	}
	roomList, err := reader.ListRooms(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list rooms")
	}
	electiveList, err := reader.ListElectives(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list electives")
	}

	s := &Snapshot{
		staff:         make(map[string]model.StaffProfile, len(staffList)),
		subjects:      make(map[string]model.SubjectSpec, len(subjectList)),
		classes:       make(map[string]model.ClassSection, len(classList)),
		rooms:         make(map[string]model.Room, len(roomList)),
		electives:     make(map[string]model.ElectiveSpec, len(electiveList)),
		eligibleStaff: map[string]map[string][]string{"lecture": {}, "lab": {}, "elective": {}},
		roomsByKind:   make(map[model.RoomKind][]model.Room),
	}

	for _, st := range staffList {
		s.staff[st.ID] = st
		s.staffOrder = append(s.staffOrder, st.ID)
	}
	for _, subj := range subjectList {
		s.subjects[subj.Code] = subj
		s.subjectOrder = append(s.subjectOrder, subj.Code)
	}
	for _, cls := range classList {
		s.classes[cls.ID] = cls
		s.classOrder = append(s.classOrder, cls.ID)
	}
	for _, room := range roomList {
		s.rooms[room.ID] = room
		s.roomOrder = append(s.roomOrder, room.ID)
	}
	for _, el := range electiveList {
		s.electives[el.ID] = el
		s.electiveOrder = append(s.electiveOrder, el.ID)
	}

	if err := s.validateConsistency(); err != nil {
		return nil, err
	}

	s.buildIndexes()
	return s, nil
}

func (s *Snapshot) validateConsistency() error {
	for _, el := range s.electives {
		if _, ok := s.staff[el.StaffID]; !ok {
			return apperrors.Clone(apperrors.ErrCatalogConsistency,
				fmt.Sprintf("elective %s references nonexistent staff %s", el.ID, el.StaffID))
		}
	}
	for _, cls := range s.classes {
		for _, lec := range cls.RequiredLectures {
			if _, ok := s.subjects[lec.SubjectCode]; !ok {
				return apperrors.Clone(apperrors.ErrCatalogConsistency,
					fmt.Sprintf("class %s references nonexistent subject %s", cls.ID, lec.SubjectCode))
			}
		}
		for _, lab := range cls.RequiredLabs {
			if _, ok := s.subjects[lab.LabCode]; !ok {
				return apperrors.Clone(apperrors.ErrCatalogConsistency,
					fmt.Sprintf("class %s references nonexistent lab subject %s", cls.ID, lab.LabCode))
			}
		}
		for _, electiveID := range cls.ElectiveIDs {
			if _, ok := s.electives[electiveID]; !ok {
				return apperrors.Clone(apperrors.ErrCatalogConsistency,
					fmt.Sprintf("class %s references nonexistent elective %s", cls.ID, electiveID))
			}
		}
	}
	return nil
}

func (s *Snapshot) buildIndexes() {
	for _, staffID := range s.staffOrder {
		st := s.staff[staffID]
		for subjectCode := range st.Lecture {
			s.eligibleStaff["lecture"][subjectCode] = append(s.eligibleStaff["lecture"][subjectCode], staffID)
		}
		for subjectCode := range st.Lab {
			s.eligibleStaff["lab"][subjectCode] = append(s.eligibleStaff["lab"][subjectCode], staffID)
		}
		for subjectCode := range st.Elective {
			s.eligibleStaff["elective"][subjectCode] = append(s.eligibleStaff["elective"][subjectCode], staffID)
		}
	}
	for _, kind := range s.eligibleStaff {
		for code := range kind {
			sort.Strings(kind[code])
		}
	}

	for _, roomID := range s.roomOrder {
		room := s.rooms[roomID]
		if !room.Active {
			continue
		}
		s.roomsByKind[room.Kind] = append(s.roomsByKind[room.Kind], room)
	}
	for kind := range s.roomsByKind {
		rooms := s.roomsByKind[kind]
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].Capacity < rooms[j].Capacity })
		s.roomsByKind[kind] = rooms
	}
}

// StaffByID looks up a staff profile.
func (s *Snapshot) StaffByID(id string) (model.StaffProfile, bool) { st, ok := s.staff[id]; return st, ok }

// SubjectByCode looks up a subject spec.
func (s *Snapshot) SubjectByCode(code string) (model.SubjectSpec, bool) {
	subj, ok := s.subjects[code]
	return subj, ok
}

// ClassByID looks up a class section.
func (s *Snapshot) ClassByID(id string) (model.ClassSection, bool) { c, ok := s.classes[id]; return c, ok }

// RoomByID looks up a room.
func (s *Snapshot) RoomByID(id string) (model.Room, bool) { r, ok := s.rooms[id]; return r, ok }

// ElectiveByID looks up an elective spec.
func (s *Snapshot) ElectiveByID(id string) (model.ElectiveSpec, bool) {
	e, ok := s.electives[id]
	return e, ok
}

// AllStaff returns every staff profile, in stable load order.
func (s *Snapshot) AllStaff() []model.StaffProfile {
	out := make([]model.StaffProfile, 0, len(s.staffOrder))
	for _, id := range s.staffOrder {
		out = append(out, s.staff[id])
	}
	return out
}

// AllClasses returns every class section, in stable load order.
func (s *Snapshot) AllClasses() []model.ClassSection {
	out := make([]model.ClassSection, 0, len(s.classOrder))
	for _, id := range s.classOrder {
		out = append(out, s.classes[id])
	}
	return out
}

// EligibleStaff returns the precomputed, sorted list of staff IDs eligible
// to teach subjectCode under the given capability kind ("lecture", "lab",
// "elective").
func (s *Snapshot) EligibleStaff(kind, subjectCode string) []string {
	return s.eligibleStaff[kind][subjectCode]
}

// RoomsOfKindWithCapacity returns rooms of the given kind with capacity >=
// minCapacity, from the precomputed capacity-sorted index.
func (s *Snapshot) RoomsOfKindWithCapacity(kind model.RoomKind, minCapacity int) []model.Room {
	rooms := s.roomsByKind[kind]
	idx := sort.Search(len(rooms), func(i int) bool { return rooms[i].Capacity >= minCapacity })
	if idx >= len(rooms) {
		return nil
	}
	return rooms[idx:]
}

// LabRooms returns every active lab room. Lab placement is kind-only: lab
// sections run in batches, so room capacity does not gate the initial pick.
func (s *Snapshot) LabRooms() []model.Room {
	return s.roomsByKind[model.RoomLab]
}

// EligibleRooms returns rooms valid for a session of the given kind (lab
// sessions require lab rooms, everything else takes classrooms or seminar
// halls) with sufficient capacity.
func (s *Snapshot) EligibleRooms(isLab bool, minCapacity int) []model.Room {
	if isLab {
		return s.RoomsOfKindWithCapacity(model.RoomLab, minCapacity)
	}
	classrooms := s.RoomsOfKindWithCapacity(model.RoomClassroom, minCapacity)
	seminar := s.RoomsOfKindWithCapacity(model.RoomSeminarHall, minCapacity)
	out := make([]model.Room, 0, len(classrooms)+len(seminar))
	out = append(out, classrooms...)
	out = append(out, seminar...)
	return out
}
