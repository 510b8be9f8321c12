package main

import (
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/store/memory"
)

// demoCatalog is a small two-department catalog for offline runs: enough
// classes, staff, and rooms to produce contention without a database.
func demoCatalog() *memory.Catalog {
	set := func(codes ...string) map[string]bool {
		m := make(map[string]bool, len(codes))
		for _, c := range codes {
			m[c] = true
		}
		return m
	}

	return &memory.Catalog{
		Staff: []model.StaffProfile{
			{
				ID: "CSE001", Name: "R. Iyer", Department: "cse", Rank: "professor",
				Email: "r.iyer@example.edu", MaxPerDay: 5, MaxPerWeek: 20,
				Lecture: set("CS101", "CS201"), Lab: set("CS101L"),
			},
			{
				ID: "CSE002", Name: "M. Rao", Department: "cse", Rank: "assistant_professor",
				Email: "m.rao@example.edu", MaxPerDay: 5, MaxPerWeek: 18,
				Lecture: set("CS101", "CS102"), Lab: set("CS101L"), Elective: set("EL_ML"),
			},
			{
				ID: "ECE001", Name: "S. Das", Department: "ece", Rank: "associate_professor",
				Email: "s.das@example.edu", MaxPerDay: 4, MaxPerWeek: 16,
				Lecture: set("EC101", "EC102"), Lab: set("EC101L"),
			},
		},
		Subjects: []model.SubjectSpec{
			{Code: "CS101", Name: "Programming Fundamentals", Kind: model.SubjectCore, Department: "cse", Semester: 2, Credits: 4, HoursPerWeek: 4},
			{Code: "CS102", Name: "Discrete Mathematics", Kind: model.SubjectCore, Department: "cse", Semester: 2, Credits: 3, HoursPerWeek: 3},
			{Code: "CS201", Name: "Data Structures", Kind: model.SubjectCore, Department: "cse", Semester: 3, Credits: 4, HoursPerWeek: 4},
			{Code: "CS101L", Name: "Programming Lab", Kind: model.SubjectLab, Department: "cse", Semester: 2, Credits: 1, IsLab: true, LabBlockLength: 2},
			{Code: "EC101", Name: "Circuit Theory", Kind: model.SubjectCore, Department: "ece", Semester: 2, Credits: 4, HoursPerWeek: 4},
			{Code: "EC102", Name: "Signals and Systems", Kind: model.SubjectCore, Department: "ece", Semester: 2, Credits: 3, HoursPerWeek: 3},
			{Code: "EC101L", Name: "Circuits Lab", Kind: model.SubjectLab, Department: "ece", Semester: 2, Credits: 1, IsLab: true, LabBlockLength: 2},
		},
		Classes: []model.ClassSection{
			{
				ID: "CSE_2A", Year: 2, Section: "A", Department: "cse", Headcount: 60,
				RequiredLectures: []model.RequiredLecture{{SubjectCode: "CS101", HoursPerWeek: 4}, {SubjectCode: "CS102", HoursPerWeek: 3}},
				RequiredLabs:     []model.RequiredLab{{LabCode: "CS101L", SessionsPerWeek: 1}},
				ElectiveIDs:      []string{"EL_ML"},
				WorkingDays:      5, SlotsPerDay: 8,
			},
			{
				ID: "ECE_2A", Year: 2, Section: "A", Department: "ece", Headcount: 55,
				RequiredLectures: []model.RequiredLecture{{SubjectCode: "EC101", HoursPerWeek: 4}, {SubjectCode: "EC102", HoursPerWeek: 3}},
				RequiredLabs:     []model.RequiredLab{{LabCode: "EC101L", SessionsPerWeek: 1}},
				WorkingDays:      5, SlotsPerDay: 8,
			},
		},
		Rooms: []model.Room{
			{ID: "CR-101", Kind: model.RoomClassroom, Capacity: 70, Active: true},
			{ID: "CR-102", Kind: model.RoomClassroom, Capacity: 65, Active: true},
			{ID: "SH-1", Kind: model.RoomSeminarHall, Capacity: 120, Active: true},
			{ID: "LAB-1", Kind: model.RoomLab, Capacity: 60, Active: true},
			{ID: "LAB-2", Kind: model.RoomLab, Capacity: 60, Active: true},
		},
		Electives: []model.ElectiveSpec{
			{ID: "EL_ML", Department: "cse", StaffID: "CSE002", HoursPerWeek: 2, ClassIDs: []string{"CSE_2A"}, Capacity: 60},
		},
	}
}
