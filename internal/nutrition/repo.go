package nutrition

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrLogNotFound = errors.New("nutrition log not found")

const logColumns = `id, user_id, log_date::text, calories, protein_g, carbs_g, fat_g, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// GetOrCreateLog returns the log for the given date, creating an empty
// one on first access.
func (r *Repo) GetOrCreateLog(ctx context.Context, userID int, logDate string) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.getOrCreateLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", logDate))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO nutrition_logs (user_id, log_date)
			VALUES ($1, $2::date)
			ON CONFLICT (user_id, log_date)
			DO UPDATE SET user_id = nutrition_logs.user_id
		RETURNING `+logColumns+`;`,
		userID, logDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleLog(rows)
}

// UpdateLog changes provided macro values only, the row must exist.
func (r *Repo) UpdateLog(ctx context.Context, userID int, logDate string, update DailyLogUpdate) (_ *DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.updateLog")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("log_date", logDate))

	rows, err := r.db.Query(
		ctx,
		`UPDATE nutrition_logs SET
			calories = COALESCE($3, calories),
			protein_g = COALESCE($4, protein_g),
			carbs_g = COALESCE($5, carbs_g),
			fat_g = COALESCE($6, fat_g)
		WHERE user_id = $1 AND log_date = $2::date
		RETURNING `+logColumns+`;`,
		userID, logDate, update.Calories, update.ProteinG, update.CarbsG, update.FatG,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.singleLog(rows)
}

func (r *Repo) History(ctx context.Context, userID int, startDate, endDate string) (_ []DailyLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("start_date", startDate),
		attribute.String("end_date", endDate),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+logColumns+` FROM nutrition_logs
			WHERE user_id = $1 AND log_date BETWEEN $2::date AND $3::date
			ORDER BY log_date DESC;`,
		userID, startDate, endDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2logs(rows)
}

// GetOrCreateGoals returns the user's goals, lazily creating the
// default 2000 kcal 30/40/30 split.
func (r *Repo) GetOrCreateGoals(ctx context.Context, userID int) (_ *Goals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.getOrCreateGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO nutrition_goals (user_id, daily_calories, protein_percent, carbs_percent, fat_percent)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id)
			DO UPDATE SET user_id = nutrition_goals.user_id
		RETURNING user_id, daily_calories, protein_percent, carbs_percent, fat_percent;`,
		userID, DefaultDailyCalories, DefaultProteinPercent, DefaultCarbsPercent, DefaultFatPercent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return singleGoals(rows)
}

func (r *Repo) UpdateGoals(ctx context.Context, userID int, update GoalsUpdate) (_ *Goals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.nutrition.updateGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	rows, err := r.db.Query(
		ctx,
		`UPDATE nutrition_goals SET
			daily_calories = COALESCE($2, daily_calories),
			protein_percent = COALESCE($3, protein_percent),
			carbs_percent = COALESCE($4, carbs_percent),
			fat_percent = COALESCE($5, fat_percent)
		WHERE user_id = $1
		RETURNING user_id, daily_calories, protein_percent, carbs_percent, fat_percent;`,
		userID, update.DailyCalories, update.ProteinPercent, update.CarbsPercent, update.FatPercent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return singleGoals(rows)
}

func (r *Repo) singleLog(rows pgx.Rows) (*DailyLog, error) {
	logs, err := rows2logs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, ErrLogNotFound
	}
	return &logs[0], nil
}

func rows2logs(rows pgx.Rows) ([]DailyLog, error) {
	logs := make([]DailyLog, 0)
	for rows.Next() {
		var dayLog DailyLog
		if err := rows.Scan(
			&dayLog.ID, &dayLog.UserID, &dayLog.LogDate,
			&dayLog.Calories, &dayLog.ProteinG, &dayLog.CarbsG, &dayLog.FatG,
			&dayLog.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		logs = append(logs, dayLog)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func singleGoals(rows pgx.Rows) (*Goals, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected error [no goals row returned]")
	}
	var goals Goals
	if err := rows.Scan(
		&goals.UserID, &goals.DailyCalories,
		&goals.ProteinPercent, &goals.CarbsPercent, &goals.FatPercent,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	return &goals, nil
}
