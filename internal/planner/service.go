package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/fitsphere/fitsphere/internal/workoutlog"
	"github.com/fitsphere/fitsphere/pkg"
)

// Week starts before this date are treated as "give me everything":
// an intentional backdoor the client uses to fetch the full schedule
// history through the weekly endpoint.
const allTimeCutoff = "2021-01-01"

type scheduleRepo interface {
	ListAll(ctx context.Context, userID int) ([]ScheduleEntry, error)
	ListWeek(ctx context.Context, userID int, weekStart, weekEnd string) ([]ScheduleEntry, error)
	FindSlotID(ctx context.Context, userID int, dayOfWeek *int, scheduledDate *string) (int, bool, error)
	UpdateSlot(ctx context.Context, id int, slot SlotUpdate) (*ScheduleEntry, error)
	InsertSlot(ctx context.Context, userID int, slot SlotUpdate) (*ScheduleEntry, error)
	SetCompleted(ctx context.Context, id, userID int, completed bool) (*ScheduleEntry, error)
	Delete(ctx context.Context, id, userID int) error
	FindToday(ctx context.Context, userID int, today string, weekday int) (*ScheduleEntry, error)
}

type daysWorkedRepo interface {
	ListCompleted(ctx context.Context, userID int, startDate, endDate string) ([]workoutlog.Log, error)
}

type Service struct {
	repo scheduleRepo
	logs daysWorkedRepo
	now  func() time.Time
}

func NewService(repo scheduleRepo, logs daysWorkedRepo) *Service {
	return &Service{
		repo: repo,
		logs: logs,
		now:  time.Now,
	}
}

// currentWeekMonday returns the Monday of the current week, local time.
func (s *Service) currentWeekMonday() string {
	now := s.now()
	return pkg.FormatDate(now.AddDate(0, 0, -MondayIndexedWeekday(now)))
}

// resolveWeekStart cleans the requested week start, defaulting to the
// current week's Monday when absent.
func (s *Service) resolveWeekStart(weekStart string) (string, error) {
	if weekStart == "" {
		return s.currentWeekMonday(), nil
	}
	weekStart = pkg.DateOnly(weekStart)
	if _, err := pkg.ParseDate(weekStart); err != nil {
		return "", pkg.NewValidationError("week start must be a valid YYYY-MM-DD date")
	}
	return weekStart, nil
}

// WeekSchedule returns the entries relevant to the week starting at
// weekStart: date-specific entries in the 7-day window plus all
// recurring entries. A weekStart before 2021-01-01 returns the user's
// entire schedule instead.
func (s *Service) WeekSchedule(ctx context.Context, userID int, weekStart string) ([]ScheduleEntry, error) {
	weekStart, err := s.resolveWeekStart(weekStart)
	if err != nil {
		return nil, err
	}

	if weekStart < allTimeCutoff {
		return s.repo.ListAll(ctx, userID)
	}

	start, err := pkg.ParseDate(weekStart)
	if err != nil {
		return nil, pkg.NewValidationError("week start must be a valid YYYY-MM-DD date")
	}
	weekEnd := pkg.FormatDate(start.AddDate(0, 0, 6))

	return s.repo.ListWeek(ctx, userID, weekStart, weekEnd)
}

// Schedule creates or updates the slot identified by the normalized
// (day_of_week, scheduled_date) pair. Updating keeps stored values for
// fields the caller left empty and always resets completion.
func (s *Service) Schedule(ctx context.Context, userID int, req UpsertRequest) (*ScheduleEntry, error) {
	slot, err := req.normalize()
	if err != nil {
		return nil, err
	}

	id, found, err := s.repo.FindSlotID(ctx, userID, slot.DayOfWeek, slot.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}

	if found {
		return s.repo.UpdateSlot(ctx, id, *slot)
	}
	return s.repo.InsertSlot(ctx, userID, *slot)
}

func (s *Service) Complete(ctx context.Context, id, userID int) (*ScheduleEntry, error) {
	return s.repo.SetCompleted(ctx, id, userID, true)
}

func (s *Service) Reset(ctx context.Context, id, userID int) (*ScheduleEntry, error) {
	return s.repo.SetCompleted(ctx, id, userID, false)
}

func (s *Service) Remove(ctx context.Context, id, userID int) error {
	return s.repo.Delete(ctx, id, userID)
}

// Today resolves the single entry applying to the local today, or nil.
func (s *Service) Today(ctx context.Context, userID int) (*ScheduleEntry, error) {
	now := s.now()
	return s.repo.FindToday(ctx, userID, pkg.FormatDate(now), MondayIndexedWeekday(now))
}

// WeekSummary computes the per-day completion picture for a week,
// merging completed schedule entries with independently logged workout
// days. A date with both signals counts once.
func (s *Service) WeekSummary(ctx context.Context, userID int, weekStart string) (*WeekSummary, error) {
	weekStart, err := s.resolveWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	start, err := pkg.ParseDate(weekStart)
	if err != nil {
		return nil, pkg.NewValidationError("week start must be a valid YYYY-MM-DD date")
	}
	weekEnd := pkg.FormatDate(start.AddDate(0, 0, 6))

	entries, err := s.repo.ListWeek(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("list week schedule: %w", err)
	}
	logs, err := s.logs.ListCompleted(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}

	summary := &WeekSummary{
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Days:      make([]DaySummary, 7),
	}
	dayIdx := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := pkg.FormatDate(start.AddDate(0, 0, i))
		summary.Days[i] = DaySummary{Date: date, DayOfWeek: i}
		dayIdx[date] = i
	}

	for _, entry := range entries {
		var date string
		switch {
		case entry.ScheduledDate != nil:
			date = *entry.ScheduledDate
		case entry.DayOfWeek != nil:
			// recurring entries land on their weekday within [start, start+6],
			// regardless of which weekday the window starts on
			offset := (*entry.DayOfWeek - MondayIndexedWeekday(start) + 7) % 7
			date = pkg.FormatDate(start.AddDate(0, 0, offset))
		default:
			continue
		}

		i, ok := dayIdx[date]
		if !ok {
			continue
		}
		summary.Days[i].Scheduled = true
		if entry.Completed {
			summary.Days[i].ScheduleCompleted = true
		}
	}

	for _, dayLog := range logs {
		if i, ok := dayIdx[pkg.DateOnly(dayLog.WorkoutDate)]; ok {
			summary.Days[i].DayWorked = true
		}
	}

	for i := range summary.Days {
		day := &summary.Days[i]
		day.Counted = day.ScheduleCompleted || day.DayWorked
		if day.Counted {
			summary.TotalCompleted++
		}
	}

	return summary, nil
}
