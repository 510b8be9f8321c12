// Package substitute ranks replacement instructors for a specific
// committed session and date.
package substitute

import (
	"context"
	"sort"
	"time"

	"github.com/academic-sched/ga-scheduler/internal/apperrors"
	"github.com/academic-sched/ga-scheduler/internal/catalog"
	"github.com/academic-sched/ga-scheduler/internal/model"
	"github.com/academic-sched/ga-scheduler/internal/ports"
)

const (
	bonusSameDepartment = 30
	bonusSameRank       = 20
	bonusLabMatch       = 40
	bonusElectiveMatch  = 35
	bonusLectureMatch   = 40
	maxWorkloadBonus    = 20.0
	maxAvailabilityBase = 15.0
	availabilityPenalty = 3.0
)

// Candidate is one scored replacement option.
type Candidate struct {
	StaffID string
	Score   float64
}

// Finder ranks replacement instructors against a Catalog Snapshot and the
// live Schedule Store state.
type Finder struct {
	snapshot *catalog.Snapshot
	store    ports.ScheduleStore
}

// New builds a Finder.
func New(snapshot *catalog.Snapshot, store ports.ScheduleStore) *Finder {
	return &Finder{snapshot: snapshot, store: store}
}

// Find locates the best-scoring replacement for the session on recordID for
// date, recording the chosen candidate as a pending SubstitutionRecord.
// Returns apperrors.ErrNoSubstituteFound if the filtered candidate set is
// empty.
func (f *Finder) Find(ctx context.Context, academicYear string, recordID string, date time.Time, reason string) (*model.SubstitutionRecord, error) {
	records, err := f.store.ListSchedule(ctx, academicYear, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list schedule")
	}

	var target *model.ScheduleRecord
	for i := range records {
		if records[i].ID == recordID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "schedule record not found")
	}

	candidates := f.rank(target, date, records)
	if len(candidates) == 0 {
		return nil, apperrors.Clone(apperrors.ErrNoSubstituteFound, "no qualified substitute available")
	}

	best := candidates[0]
	return f.store.AppendSubstitution(ctx, recordID, best.StaffID, date, reason, best.Score)
}

// rank returns every qualified candidate, scored and sorted best-first,
// ties broken by rank then identifier.
func (f *Finder) rank(target *model.ScheduleRecord, date time.Time, records []model.ScheduleRecord) []Candidate {
	original, hasOriginal := f.snapshot.StaffByID(target.StaffID)
	isoDate := date.Format("2006-01-02")

	dailyLoad := make(map[string]int)
	weeklyLoad := make(map[string]int)
	busyAt := make(map[string]bool) // staffID -> has an assignment at target's (day, slot, week)
	for _, r := range records {
		if r.StaffID == target.StaffID && r.ID == target.ID {
			continue
		}
		weeklyLoad[r.StaffID]++
		if r.Day == target.Day {
			dailyLoad[r.StaffID]++
		}
		if r.Day == target.Day && r.Slot == target.Slot && r.WeekNumber == target.WeekNumber {
			busyAt[r.StaffID] = true
		}
	}

	var candidates []Candidate
	for _, staff := range f.snapshot.AllStaff() {
		if staff.ID == target.StaffID {
			continue
		}
		if staff.IsAbsent(isoDate) {
			continue
		}
		if busyAt[staff.ID] {
			continue
		}
		if staff.MaxPerDay > 0 && dailyLoad[staff.ID] >= staff.MaxPerDay {
			continue
		}
		if staff.MaxPerWeek > 0 && weeklyLoad[staff.ID] >= staff.MaxPerWeek {
			continue
		}
		if !staff.CanTeach(target.SubjectCode, target.IsLab, target.IsElective) {
			continue
		}

		score := 0.0
		if hasOriginal && staff.Department == original.Department {
			score += bonusSameDepartment
		}
		if hasOriginal && staff.Rank == original.Rank {
			score += bonusSameRank
		}
		switch {
		case target.IsLab:
			score += bonusLabMatch
		case target.IsElective:
			score += bonusElectiveMatch
		default:
			score += bonusLectureMatch
		}
		if staff.MaxPerWeek > 0 {
			headroom := maxWorkloadBonus * (1 - float64(weeklyLoad[staff.ID])/float64(staff.MaxPerWeek))
			if headroom > 0 {
				score += headroom
			}
		}
		score += model.RankBonus(staff.Rank)
		availability := maxAvailabilityBase - availabilityPenalty*float64(dailyLoad[staff.ID])
		if availability > 0 {
			score += availability
		}

		candidates = append(candidates, Candidate{StaffID: staff.ID, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		rankI, _ := f.snapshot.StaffByID(candidates[i].StaffID)
		rankJ, _ := f.snapshot.StaffByID(candidates[j].StaffID)
		if rankI.Rank != rankJ.Rank {
			return rankI.Rank < rankJ.Rank
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})
	return candidates
}

// Stats aggregates substitution history for one staff member: how often
// they substituted and were substituted for.
type Stats struct {
	StaffID         string
	TimesSubstitute int
	TimesReplaced   int
	ApprovedCount   int
	PendingCount    int
}

// StatsFor computes Stats for staffID from the store's substitution history.
func (f *Finder) StatsFor(ctx context.Context, staffID string) (Stats, error) {
	records, err := f.store.ListSubstitutions(ctx, staffID)
	if err != nil {
		return Stats{}, apperrors.Wrap(err, apperrors.ErrStoreFailure.Code, apperrors.ErrStoreFailure.Status, "list substitutions")
	}
	stats := Stats{StaffID: staffID}
	for _, r := range records {
		if r.ReplacementID == staffID {
			stats.TimesSubstitute++
		}
		if r.OriginalStaffID == staffID {
			stats.TimesReplaced++
		}
		if r.Approved {
			stats.ApprovedCount++
		} else {
			stats.PendingCount++
		}
	}
	return stats, nil
}
