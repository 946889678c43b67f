package attendance

import (
	"context"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"
)

const (
	defaultPunchLimit = 1000
	maxPunchLimit     = 5000
)

// Period names a calendar window cut in the reconciler's location.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Window returns the UTC bounds [from, to) of the period containing day.
// Weeks start on Monday.
func (r *Reconciler) Window(p Period, day time.Time) (time.Time, time.Time, error) {
	l := day.In(r.cfg.Location)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, r.cfg.Location)
	switch p {
	case PeriodDay:
		return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
	case PeriodWeek:
		start = start.AddDate(0, 0, -((int(start.Weekday()) + 6) % 7))
		return start.UTC(), start.AddDate(0, 0, 7).UTC(), nil
	case PeriodMonth:
		start = time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, r.cfg.Location)
		return start.UTC(), start.AddDate(0, 1, 0).UTC(), nil
	}
	return time.Time{}, time.Time{}, apperr.Validation("period must be day, week or month, got %q", p)
}

// Span returns the UTC bounds covering the local dates start..end inclusive.
func (r *Reconciler) Span(start, end time.Time) (time.Time, time.Time) {
	from, _ := dayBounds(start, r.cfg.Location)
	_, to := dayBounds(end, r.cfg.Location)
	return from, to
}

// ListPunches reads stored punches. An unset limit reads the first
// defaultPunchLimit rows.
func (r *Reconciler) ListPunches(ctx context.Context, f domain.PunchFilter) ([]domain.Punch, error) {
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return nil, apperr.Validation("from must be before to")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultPunchLimit
	case f.Limit > maxPunchLimit:
		f.Limit = maxPunchLimit
	}
	out, err := r.punches.ListFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Punch{}
	}
	return out, nil
}
