// Package conflict implements the first-seen collision detection shared by
// candidate scoring and committed-schedule repair.
package conflict

import "github.com/academic-sched/ga-scheduler/internal/model"

// Keyed is the minimal shape conflict detection needs from a placed session,
// whether it comes from an in-memory Candidate's Assignments or committed
// ScheduleRecords.
type Keyed struct {
	ClassID   string
	StaffID   string
	RoomID    string
	Day       int
	Slot      int
	IsLab     bool
	RoomIsLab bool
}

// Detect runs the three (resource, day, slot) hash tables plus the
// lab-in-non-lab-room check over items, returning one Conflict per collision
// pair and one per lab-room violation. First-seen wins: the first item at a
// key is never flagged, only subsequent collisions are.
func Detect(items []Keyed) []model.Conflict {
	var conflicts []model.Conflict

	classFirst := make(map[model.ClassKey]int)
	staffFirst := make(map[model.StaffKey]int)
	roomFirst := make(map[model.RoomKey]int)

	for i, item := range items {
		ck := model.ClassKey{ClassID: item.ClassID, Day: item.Day, Slot: item.Slot}
		if first, seen := classFirst[ck]; seen {
			conflicts = append(conflicts, model.Conflict{
				Kind: model.ConflictClassDoubleBooking, Day: item.Day, Slot: item.Slot,
				ResourceID: item.ClassID, Indices: []int{first, i},
			})
		} else {
			classFirst[ck] = i
		}

		if item.StaffID != "" {
			sk := model.StaffKey{StaffID: item.StaffID, Day: item.Day, Slot: item.Slot}
			if first, seen := staffFirst[sk]; seen {
				conflicts = append(conflicts, model.Conflict{
					Kind: model.ConflictStaffDoubleBooking, Day: item.Day, Slot: item.Slot,
					ResourceID: item.StaffID, Indices: []int{first, i},
				})
			} else {
				staffFirst[sk] = i
			}
		}

		if item.RoomID != "" {
			rk := model.RoomKey{RoomID: item.RoomID, Day: item.Day, Slot: item.Slot}
			if first, seen := roomFirst[rk]; seen {
				conflicts = append(conflicts, model.Conflict{
					Kind: model.ConflictRoomDoubleBooking, Day: item.Day, Slot: item.Slot,
					ResourceID: item.RoomID, Indices: []int{first, i},
				})
			} else {
				roomFirst[rk] = i
			}
		}

		if item.IsLab && !item.RoomIsLab {
			conflicts = append(conflicts, model.Conflict{
				Kind: model.ConflictLabRoomMismatch, Day: item.Day, Slot: item.Slot,
				ResourceID: item.RoomID, Indices: []int{i},
			})
		}
	}

	return conflicts
}
