package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrScheduleNotFound = errors.New("workout schedule not found")

const scheduleColumns = `
	ws.id, ws.user_id, ws.day_of_week, ws.scheduled_date::text,
	ws.program_id, ws.enrollment_id, ws.workout_type, ws.workout_name,
	ws.notes, ws.completed, ws.created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// ListAll returns every schedule entry for the user, the "all-time"
// variant used when the requested week start predates the cutoff.
func (r *Repo) ListAll(ctx context.Context, userID int) (_ []ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+scheduleColumns+`, p.title, p.image_url, NULL::text
			FROM workout_schedule ws
			LEFT JOIN programs p ON p.id = ws.program_id
			WHERE ws.user_id = $1
		ORDER BY COALESCE(ws.scheduled_date, '1970-01-01'::date), ws.day_of_week;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2entries(rows)
}

// ListWeek returns entries relevant to [weekStart, weekEnd]:
// date-specific entries inside the window plus every recurring entry,
// which matches any week regardless of the window.
func (r *Repo) ListWeek(ctx context.Context, userID int, weekStart, weekEnd string) (_ []ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.listweek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("week_start", weekStart))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+scheduleColumns+`, p.title, p.image_url, NULL::text
			FROM workout_schedule ws
			LEFT JOIN programs p ON p.id = ws.program_id
			WHERE ws.user_id = $1
			AND (
				(ws.scheduled_date IS NOT NULL AND ws.scheduled_date >= $2::date AND ws.scheduled_date <= $3::date)
				OR (ws.scheduled_date IS NULL AND ws.day_of_week IS NOT NULL)
			)
		ORDER BY COALESCE(ws.scheduled_date, '1970-01-01'::date), ws.day_of_week;`,
		userID, weekStart, weekEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2entries(rows)
}

// FindSlotID looks an existing row up by the slot's logical identity,
// with null-aware matching: a null input only matches a null stored
// value. ON CONFLICT cannot express this, nullable unique columns never
// conflict, hence the separate lookup.
func (r *Repo) FindSlotID(ctx context.Context, userID int, dayOfWeek *int, scheduledDate *string) (_ int, found bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.findslot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id FROM workout_schedule
			WHERE user_id = $1
			AND (day_of_week = $2 OR ($2::int IS NULL AND day_of_week IS NULL))
			AND (scheduled_date = $3::date OR ($3::date IS NULL AND scheduled_date IS NULL));`,
		userID, dayOfWeek, scheduledDate,
	)
	if err != nil {
		return 0, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, false, rows.Err()
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return 0, false, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("slot.id", id))
	return id, true, nil
}

// UpdateSlot overwrites the slot's mutable fields where the update
// carries a value, keeps stored values elsewhere, and always resets
// completed: rescheduling is a new instance of the session.
func (r *Repo) UpdateSlot(ctx context.Context, id int, slot SlotUpdate) (_ *ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.updateslot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`UPDATE workout_schedule
			SET program_id = COALESCE($1, program_id),
				enrollment_id = COALESCE($2, enrollment_id),
				workout_type = COALESCE($3, workout_type),
				workout_name = COALESCE($4, workout_name),
				notes = COALESCE($5, notes),
				completed = false
			WHERE id = $6
		RETURNING `+returningColumns+`;`,
		slot.ProgramID, slot.EnrollmentID, slot.WorkoutType, slot.WorkoutName, slot.Notes, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleEntry(rows)
}

func (r *Repo) InsertSlot(ctx context.Context, userID int, slot SlotUpdate) (_ *ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.insertslot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_schedule
			(user_id, day_of_week, scheduled_date, program_id, enrollment_id, workout_type, workout_name, notes, completed)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, false)
		RETURNING `+returningColumns+`;`,
		userID, slot.DayOfWeek, slot.ScheduledDate,
		slot.ProgramID, slot.EnrollmentID, slot.WorkoutType, slot.WorkoutName, slot.Notes,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleEntry(rows)
}

// SetCompleted flips the completion flag, scoped to (id, userID).
func (r *Repo) SetCompleted(ctx context.Context, id, userID int, completed bool) (_ *ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.setcompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))
	span.SetAttributes(attribute.Bool("completed", completed))

	rows, err := r.db.Query(
		ctx,
		`UPDATE workout_schedule
			SET completed = $1
			WHERE id = $2 AND user_id = $3
		RETURNING `+returningColumns+`;`,
		completed, id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entry, err := r.singleEntry(rows)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrScheduleNotFound
	}
	return entry, nil
}

func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_schedule WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// FindToday resolves the entry applying to the given date: an exact
// scheduled_date match beats a recurring weekday match, most recent
// dated entry wins among leftovers. Nil when nothing applies.
func (r *Repo) FindToday(ctx context.Context, userID int, today string, weekday int) (_ *ScheduleEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.planner.findtoday")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("today", today))
	span.SetAttributes(attribute.Int("weekday", weekday))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+scheduleColumns+`, p.title, p.image_url, p.description
			FROM workout_schedule ws
			LEFT JOIN programs p ON p.id = ws.program_id
			WHERE ws.user_id = $1
			AND (
				(ws.scheduled_date IS NOT NULL AND ws.scheduled_date = $2::date)
				OR (ws.scheduled_date IS NULL AND ws.day_of_week = $3)
			)
			ORDER BY
				CASE WHEN ws.scheduled_date IS NOT NULL AND ws.scheduled_date = $2::date THEN 1 ELSE 2 END,
				ws.scheduled_date DESC NULLS LAST
			LIMIT 1;`,
		userID, today, weekday,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleEntry(rows)
}

const returningColumns = `
	id, user_id, day_of_week, scheduled_date::text,
	program_id, enrollment_id, workout_type, workout_name,
	notes, completed, created_at, NULL::text, NULL::text, NULL::text`

func (r *Repo) singleEntry(rows pgx.Rows) (*ScheduleEntry, error) {
	entries, err := r.rows2entries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (r *Repo) rows2entries(rows pgx.Rows) ([]ScheduleEntry, error) {
	var entries []ScheduleEntry
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.DayOfWeek, &e.ScheduledDate,
			&e.ProgramID, &e.EnrollmentID, &e.WorkoutType, &e.WorkoutName,
			&e.Notes, &e.Completed, &e.CreatedAt,
			&e.ProgramTitle, &e.ProgramImage, &e.ProgramDescription,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		// scheduled_date comes back as text, keep the date part only
		if e.ScheduledDate != nil {
			dateOnly := (*e.ScheduledDate)[:min(10, len(*e.ScheduledDate))]
			e.ScheduledDate = &dateOnly
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = make([]ScheduleEntry, 0)
	}

	return entries, nil
}
