package attendance

import (
	"context"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// WorkedHours converts an IN/OUT pair into payable hours, rounded to 2 decimals.
func (c Config) WorkedHours(in, out time.Time) decimal.Decimal {
	raw := decimal.NewFromInt(int64(out.Sub(in) / time.Second)).Div(secondsPerHour)
	if raw.GreaterThanOrEqual(c.LunchThreshold) {
		raw = raw.Sub(c.LunchDeduction)
	}
	if raw.IsNegative() {
		return decimal.Zero
	}
	return raw.Round(2)
}

// summarizeDay derives one day from its punches. ok is false when the day
// lacks an IN or an OUT.
func (c Config) summarizeDay(date string, punches []domain.Punch) (domain.Day, bool) {
	d := domain.Day{Date: date, Hours: decimal.Zero}
	for i := range punches {
		p := punches[i]
		switch p.Label {
		case domain.LabelIn:
			if d.FirstIn == nil || p.PunchedAt.Before(*d.FirstIn) {
				at := p.PunchedAt
				d.FirstIn = &at
			}
		case domain.LabelOut:
			if d.LastOut == nil || p.PunchedAt.After(*d.LastOut) {
				at := p.PunchedAt
				d.LastOut = &at
			}
		}
	}
	if d.FirstIn != nil {
		l := d.FirstIn.In(c.Location)
		midnight := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, c.Location)
		d.Late = l.Sub(midnight) > c.LateAfter
	}
	if d.FirstIn == nil || d.LastOut == nil {
		return d, false
	}
	d.Hours = c.WorkedHours(*d.FirstIn, *d.LastOut)
	return d, true
}

// DailyHours returns the attendance of one local calendar day. ok is false
// when the day has no complete IN/OUT pair.
func (r *Reconciler) DailyHours(ctx context.Context, employeeID uint64, day time.Time) (domain.Day, bool, error) {
	from, to := dayBounds(day, r.cfg.Location)
	punches, err := r.punches.ListBetween(ctx, employeeID, from, to)
	if err != nil {
		return domain.Day{}, false, err
	}
	d, ok := r.cfg.summarizeDay(localDate(day, r.cfg.Location), punches)
	return d, ok, nil
}

// SummarizeRange totals the days between start and end (inclusive, local
// dates) per day and per ISO week. With applyCap the total is clamped to
// the monthly cap.
func (r *Reconciler) SummarizeRange(ctx context.Context, employeeID uint64, start, end time.Time, applyCap bool) (domain.RangeSummary, error) {
	from, _ := dayBounds(start, r.cfg.Location)
	_, to := dayBounds(end, r.cfg.Location)
	if !to.After(from) || end.Before(start) {
		return domain.RangeSummary{}, apperr.Validation("end date before start date")
	}
	punches, err := r.punches.ListBetween(ctx, employeeID, from, to)
	if err != nil {
		return domain.RangeSummary{}, err
	}

	byDate := map[string][]domain.Punch{}
	var dates []string
	for _, p := range punches {
		k := localDate(p.PunchedAt, r.cfg.Location)
		if _, seen := byDate[k]; !seen {
			dates = append(dates, k)
		}
		byDate[k] = append(byDate[k], p)
	}

	s := domain.RangeSummary{EmployeeID: employeeID, Days: []domain.Day{}, Weeks: []domain.Week{}, RawTotal: decimal.Zero}
	weekIdx := map[[2]int]int{}
	for _, k := range dates {
		d, _ := r.cfg.summarizeDay(k, byDate[k])
		s.Days = append(s.Days, d)
		s.RawTotal = s.RawTotal.Add(d.Hours)

		date, _ := time.ParseInLocation("2006-01-02", k, r.cfg.Location)
		y, w := date.ISOWeek()
		i, ok := weekIdx[[2]int{y, w}]
		if !ok {
			i = len(s.Weeks)
			weekIdx[[2]int{y, w}] = i
			s.Weeks = append(s.Weeks, domain.Week{Year: y, Week: w, Hours: decimal.Zero})
		}
		s.Weeks[i].Hours = s.Weeks[i].Hours.Add(d.Hours)
	}

	s.Total = s.RawTotal
	if applyCap {
		s.Cap = r.cfg.MonthlyCap
		if s.RawTotal.GreaterThan(r.cfg.MonthlyCap) {
			s.Total = r.cfg.MonthlyCap
			s.IsCapped = true
		}
	}
	return s, nil
}
