package ga

import (
	"sort"

	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/model"
)

// Serialize converts the chosen Candidate into persistent ScheduleRecords
// for one (academic_year, week), resolving start/end times from the fixed
// slot-time table and the owning department from the class section. Record
// IDs are left empty; the store mints them at commit.
func Serialize(snapshot *catalog.Snapshot, candidate *model.Candidate, academicYear string, weekNumber int) []model.ScheduleRecord {
	records := make([]model.ScheduleRecord, 0, len(candidate.Assignments))
	for _, a := range candidate.Assignments {
		department := ""
		if class, ok := snapshot.ClassByID(a.ClassID); ok {
			department = class.Department
		}
		record := model.ScheduleRecord{
			AcademicYear: academicYear,
			WeekNumber:   weekNumber,
			Department:   department,
			ClassID:      a.ClassID,
			Day:          a.Day,
			Slot:         a.Slot,
			SubjectCode:  a.SubjectCode,
			StaffID:      a.StaffID,
			RoomID:       a.RoomID,
			IsLab:        a.IsLab,
			IsElective:   a.IsElective,
		}
		record.ApplySlotTimes()
		records = append(records, record)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ClassID != records[j].ClassID {
			return records[i].ClassID < records[j].ClassID
		}
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].Slot < records[j].Slot
	})
	return records
}
