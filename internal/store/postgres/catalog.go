package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/academic-sched/ga-scheduler/internal/model"
)

// CatalogRepository implements the Catalog Read port against PostgreSQL.
// Capability sets, requirement lists, and absent dates are stored as JSONB
// columns and decoded on read.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type staffRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Department  string         `db:"department"`
	Rank        string         `db:"rank"`
	Email       string         `db:"email"`
	MaxPerDay   int            `db:"max_sessions_per_day"`
	MaxPerWeek  int            `db:"max_sessions_per_week"`
	Lecture     types.JSONText `db:"teaches_lecture"`
	Lab         types.JSONText `db:"teaches_lab"`
	Elective    types.JSONText `db:"teaches_elective"`
	AbsentDates types.JSONText `db:"absent_dates"`
}

// ListStaff returns every staff profile.
func (r *CatalogRepository) ListStaff(ctx context.Context) ([]model.StaffProfile, error) {
	const query = `SELECT id, name, department, rank, email, max_sessions_per_day, max_sessions_per_week, teaches_lecture, teaches_lab, teaches_elective, absent_dates FROM staff_profiles ORDER BY id ASC`
	var rows []staffRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	out := make([]model.StaffProfile, 0, len(rows))
	for _, row := range rows {
		lecture, err := decodeStringSet(row.Lecture)
		if err != nil {
			return nil, fmt.Errorf("staff %s teaches_lecture: %w", row.ID, err)
		}
		lab, err := decodeStringSet(row.Lab)
		if err != nil {
			return nil, fmt.Errorf("staff %s teaches_lab: %w", row.ID, err)
		}
		elective, err := decodeStringSet(row.Elective)
		if err != nil {
			return nil, fmt.Errorf("staff %s teaches_elective: %w", row.ID, err)
		}
		absent, err := decodeStringSet(row.AbsentDates)
		if err != nil {
			return nil, fmt.Errorf("staff %s absent_dates: %w", row.ID, err)
		}
		out = append(out, model.StaffProfile{
			ID:          row.ID,
			Name:        row.Name,
			Department:  row.Department,
			Rank:        row.Rank,
			Email:       row.Email,
			MaxPerDay:   row.MaxPerDay,
			MaxPerWeek:  row.MaxPerWeek,
			Lecture:     lecture,
			Lab:         lab,
			Elective:    elective,
			AbsentDates: absent,
		})
	}
	return out, nil
}

// ListSubjects returns every subject spec.
func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]model.SubjectSpec, error) {
	const query = `SELECT code, name, kind, department, semester, credits, hours_per_week, is_lab, lab_block_length FROM subjects ORDER BY code ASC`
	var rows []struct {
		Code           string `db:"code"`
		Name           string `db:"name"`
		Kind           string `db:"kind"`
		Department     string `db:"department"`
		Semester       int    `db:"semester"`
		Credits        int    `db:"credits"`
		HoursPerWeek   int    `db:"hours_per_week"`
		IsLab          bool   `db:"is_lab"`
		LabBlockLength int    `db:"lab_block_length"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}

	out := make([]model.SubjectSpec, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SubjectSpec{
			Code:           row.Code,
			Name:           row.Name,
			Kind:           model.SubjectKind(row.Kind),
			Department:     row.Department,
			Semester:       row.Semester,
			Credits:        row.Credits,
			HoursPerWeek:   row.HoursPerWeek,
			IsLab:          row.IsLab,
			LabBlockLength: row.LabBlockLength,
		})
	}
	return out, nil
}

type classRow struct {
	ID               string         `db:"id"`
	Year             int            `db:"year"`
	Section          string         `db:"section"`
	Department       string         `db:"department"`
	Headcount        int            `db:"headcount"`
	RequiredLectures types.JSONText `db:"required_lectures"`
	RequiredLabs     types.JSONText `db:"required_labs"`
	ElectiveIDs      types.JSONText `db:"elective_ids"`
	WorkingDays      int            `db:"working_days"`
	SlotsPerDay      int            `db:"slots_per_day"`
}

// ListClasses returns every class section.
func (r *CatalogRepository) ListClasses(ctx context.Context) ([]model.ClassSection, error) {
	const query = `SELECT id, year, section, department, headcount, required_lectures, required_labs, elective_ids, working_days, slots_per_day FROM class_sections ORDER BY id ASC`
	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	out := make([]model.ClassSection, 0, len(rows))
	for _, row := range rows {
		var lectures []model.RequiredLecture
		if err := decodeJSON(row.RequiredLectures, &lectures); err != nil {
			return nil, fmt.Errorf("class %s required_lectures: %w", row.ID, err)
		}
		var labs []model.RequiredLab
		if err := decodeJSON(row.RequiredLabs, &labs); err != nil {
			return nil, fmt.Errorf("class %s required_labs: %w", row.ID, err)
		}
		var electiveIDs []string
		if err := decodeJSON(row.ElectiveIDs, &electiveIDs); err != nil {
			return nil, fmt.Errorf("class %s elective_ids: %w", row.ID, err)
		}
		out = append(out, model.ClassSection{
			ID:               row.ID,
			Year:             row.Year,
			Section:          row.Section,
			Department:       row.Department,
			Headcount:        row.Headcount,
			RequiredLectures: lectures,
			RequiredLabs:     labs,
			ElectiveIDs:      electiveIDs,
			WorkingDays:      row.WorkingDays,
			SlotsPerDay:      row.SlotsPerDay,
		})
	}
	return out, nil
}

// ListRooms returns every room.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]model.Room, error) {
	const query = `SELECT id, kind, capacity, department, active, availability FROM rooms ORDER BY id ASC`
	var rows []struct {
		ID           string `db:"id"`
		Kind         string `db:"kind"`
		Capacity     int    `db:"capacity"`
		Department   string `db:"department"`
		Active       bool   `db:"active"`
		Availability bool   `db:"availability"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	out := make([]model.Room, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Room{
			ID:           row.ID,
			Kind:         model.RoomKind(row.Kind),
			Capacity:     row.Capacity,
			Department:   row.Department,
			Active:       row.Active,
			Availability: row.Availability,
		})
	}
	return out, nil
}

// ListElectives returns every elective spec.
func (r *CatalogRepository) ListElectives(ctx context.Context) ([]model.ElectiveSpec, error) {
	const query = `SELECT id, department, staff_id, hours_per_week, class_ids, capacity FROM electives ORDER BY id ASC`
	var rows []struct {
		ID           string         `db:"id"`
		Department   string         `db:"department"`
		StaffID      string         `db:"staff_id"`
		HoursPerWeek int            `db:"hours_per_week"`
		ClassIDs     types.JSONText `db:"class_ids"`
		Capacity     int            `db:"capacity"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list electives: %w", err)
	}

	out := make([]model.ElectiveSpec, 0, len(rows))
	for _, row := range rows {
		var classIDs []string
		if err := decodeJSON(row.ClassIDs, &classIDs); err != nil {
			return nil, fmt.Errorf("elective %s class_ids: %w", row.ID, err)
		}
		out = append(out, model.ElectiveSpec{
			ID:           row.ID,
			Department:   row.Department,
			StaffID:      row.StaffID,
			HoursPerWeek: row.HoursPerWeek,
			ClassIDs:     classIDs,
			Capacity:     row.Capacity,
		})
	}
	return out, nil
}

// decodeStringSet unmarshals a JSONB string array into a membership set.
func decodeStringSet(raw types.JSONText) (map[string]bool, error) {
	var items []string
	if err := decodeJSON(raw, &items); err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set, nil
}

func decodeJSON(raw types.JSONText, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
