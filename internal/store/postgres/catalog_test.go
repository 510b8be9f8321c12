package postgres

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

func TestCatalogRepositoryListStaffDecodesSets(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "department", "rank", "email",
		"max_sessions_per_day", "max_sessions_per_week",
		"teaches_lecture", "teaches_lab", "teaches_elective", "absent_dates",
	}).AddRow("s1", "R. Iyer", "cse", "professor", "r@example.edu", 5, 20,
		[]byte(`["CS101","CS102"]`), []byte(`["CS101L"]`), []byte(`[]`), []byte(`["2026-03-02"]`))
	mock.ExpectQuery("FROM staff_profiles").WillReturnRows(rows)

	staff, err := repo.ListStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.True(t, staff[0].Lecture["CS101"])
	assert.True(t, staff[0].Lab["CS101L"])
	assert.Empty(t, staff[0].Elective)
	assert.True(t, staff[0].IsAbsent("2026-03-02"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListStaffRejectsMalformedJSON(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "department", "rank", "email",
		"max_sessions_per_day", "max_sessions_per_week",
		"teaches_lecture", "teaches_lab", "teaches_elective", "absent_dates",
	}).AddRow("s1", "X", "cse", "lecturer", "x@example.edu", 5, 20,
		[]byte(`{broken`), []byte(`[]`), []byte(`[]`), []byte(`[]`))
	mock.ExpectQuery("FROM staff_profiles").WillReturnRows(rows)

	_, err := repo.ListStaff(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teaches_lecture")
}

func TestCatalogRepositoryListClasses(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "year", "section", "department", "headcount",
		"required_lectures", "required_labs", "elective_ids", "working_days", "slots_per_day",
	}).AddRow("CSE_2A", 2, "A", "cse", 60,
		[]byte(`[{"subject_code":"CS101","hours_per_week":4}]`),
		[]byte(`[{"lab_code":"CS101L","sessions_per_week":1}]`),
		[]byte(`["EL_ML"]`), 5, 8)
	mock.ExpectQuery("FROM class_sections").WillReturnRows(rows)

	classes, err := repo.ListClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, []model.RequiredLecture{{SubjectCode: "CS101", HoursPerWeek: 4}}, classes[0].RequiredLectures)
	assert.Equal(t, []model.RequiredLab{{LabCode: "CS101L", SessionsPerWeek: 1}}, classes[0].RequiredLabs)
	assert.Equal(t, []string{"EL_ML"}, classes[0].ElectiveIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryListRoomsAndElectives(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery("FROM rooms").WillReturnRows(sqlmock.NewRows([]string{
		"id", "kind", "capacity", "department", "active", "availability",
	}).AddRow("lab1", "lab", 30, "cse", true, true))

	rooms, err := repo.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, model.RoomLab, rooms[0].Kind)

	mock.ExpectQuery("FROM electives").WillReturnRows(sqlmock.NewRows([]string{
		"id", "department", "staff_id", "hours_per_week", "class_ids", "capacity",
	}).AddRow("EL_ML", "cse", "s1", 2, []byte(`["CSE_2A"]`), 60))

	electives, err := repo.ListElectives(context.Background())
	require.NoError(t, err)
	require.Len(t, electives, 1)
	assert.Equal(t, []string{"CSE_2A"}, electives[0].ClassIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
