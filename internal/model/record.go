package model

import "time"

// ScheduleRecord is the persistent form of an Assignment: the gene tuple
// plus week/year scoping and the resolved wall-clock times.
type ScheduleRecord struct {
	ID              string    `db:"id" json:"id"`
	AcademicYear    string    `db:"academic_year" json:"academic_year"`
	WeekNumber      int       `db:"week_number" json:"week_number"`
	Department      string    `db:"department" json:"department"`
	ClassID         string    `db:"class_id" json:"class_id"`
	Day             int       `db:"day_of_week" json:"day_of_week"`
	Slot            int       `db:"slot" json:"slot"`
	SubjectCode     string    `db:"subject_code" json:"subject_code"`
	StaffID         string    `db:"staff_id" json:"staff_id"`
	RoomID          string    `db:"room_id" json:"room_id"`
	IsLab           bool      `db:"is_lab" json:"is_lab"`
	IsElective      bool      `db:"is_elective" json:"is_elective"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EndTime         string    `db:"end_time" json:"end_time"`
	OriginalStaffID *string   `db:"original_staff_id" json:"original_staff_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Assignment extracts the GA-gene view of a persistent record.
func (r ScheduleRecord) Assignment() Assignment {
	return Assignment{
		ClassID:     r.ClassID,
		Day:         r.Day,
		Slot:        r.Slot,
		SubjectCode: r.SubjectCode,
		StaffID:     r.StaffID,
		RoomID:      r.RoomID,
		IsLab:       r.IsLab,
		IsElective:  r.IsElective,
	}
}

// ApplySlotTimes sets StartTime/EndTime from the fixed slot-time table.
func (r *ScheduleRecord) ApplySlotTimes() {
	if r.Slot < 1 || r.Slot > MaxSlot {
		return
	}
	st := SlotTimes[r.Slot]
	r.StartTime = st.Start.String()
	r.EndTime = st.End.String()
}

// SubstitutionRecord is an appended, rarely-mutated substitution request.
// Only the Approved flag is ever updated after creation.
type SubstitutionRecord struct {
	ID               string    `db:"id" json:"id"`
	ScheduleRecordID string    `db:"schedule_record_id" json:"schedule_record_id"`
	OriginalStaffID  string    `db:"original_staff_id" json:"original_staff_id"`
	ReplacementID    string    `db:"replacement_staff_id" json:"replacement_staff_id"`
	Date             string    `db:"substitution_date" json:"substitution_date"`
	Reason           string    `db:"reason" json:"reason"`
	Score            float64   `db:"score" json:"score"`
	Approved         bool      `db:"approved" json:"approved"`
	ApprovedBy       *string   `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
