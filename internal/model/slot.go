package model

// Weekday is a 1-indexed day within the fixed Monday..Sunday order.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOrder is the fixed weekday order a class's working_days is a prefix of.
var WeekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ClockTime is a wall-clock time of day, formatted HH:MM.
type ClockTime struct {
	Hour   int
	Minute int
}

// String renders "HH:MM".
func (t ClockTime) String() string {
	const digits = "0123456789"
	h := [2]byte{digits[t.Hour/10], digits[t.Hour%10]}
	m := [2]byte{digits[t.Minute/10], digits[t.Minute%10]}
	return string(h[:]) + ":" + string(m[:])
}

// SlotTime is the fixed start/end pair for one slot index.
type SlotTime struct {
	Start ClockTime
	End   ClockTime
}

// SlotTimes is the fixed slot-time table every committed record's start and
// end times come from. Slots are 1-indexed; index 0 is unused so
// SlotTimes[slot] reads naturally.
var SlotTimes = [9]SlotTime{
	{}, // unused
	1:  {ClockTime{9, 0}, ClockTime{10, 0}},
	2:  {ClockTime{10, 0}, ClockTime{11, 0}},
	3:  {ClockTime{11, 15}, ClockTime{12, 15}},
	4:  {ClockTime{12, 15}, ClockTime{13, 15}},
	5:  {ClockTime{14, 0}, ClockTime{15, 0}},
	6:  {ClockTime{15, 0}, ClockTime{16, 0}},
	7:  {ClockTime{16, 15}, ClockTime{17, 15}},
	8:  {ClockTime{17, 15}, ClockTime{18, 15}},
}

// MaxSlot is the highest slot index carried by the fixed table.
const MaxSlot = 8
