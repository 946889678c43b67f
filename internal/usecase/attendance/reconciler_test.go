package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/uow"
	"hrflow-backend/internal/infrastructure/lock"
	"hrflow-backend/internal/testutil/attendancemock"
	"hrflow-backend/internal/testutil/employeemock"
	"hrflow-backend/internal/testutil/uowmock"
	"hrflow-backend/pkg/log"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	rec     *Reconciler
	punches *attendancemock.Punches
	devices *attendancemock.Devices
	client  *attendancemock.Client
	staff   *employeemock.Repo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	p := &attendancemock.Punches{}
	d := &attendancemock.Devices{}
	c := &attendancemock.Client{}
	staff := employeemock.New()
	cfg := DefaultConfig()
	cfg.DeviceTimeout = 200 * time.Millisecond
	rec := NewReconciler(p, d, staff, uowmock.Passthrough(uow.Repos{Punches: p}), c, lock.NewLocal(), log.Noop(), cfg)
	return &harness{rec: rec, punches: p, devices: d, client: c, staff: staff}
}

func tunis(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Tunis")
	require.NoError(t, err)
	return loc
}

func TestIngest_LabelsAndIdempotence(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	batch := []domain.RawPunch{
		// out of order on purpose
		{BadgeID: "40102", Timestamp: "Mon Mar 03 2025 17:00:00 GMT+0100 (Central European Standard Time)"},
		{BadgeID: "102", Timestamp: "Mon Mar 03 2025 08:00:00 GMT+0100 (Central European Standard Time)"},
		{BadgeID: "7", Timestamp: "2025-03-03 08:10:00"},
	}

	res := h.rec.Ingest(ctx, batch, nil)
	assert.Equal(t, 3, res.Added)
	assert.Equal(t, 0, res.Skipped)
	assert.Empty(t, res.Errors)

	all := h.punches.All()
	require.Len(t, all, 3)
	byEmp := map[uint64][]domain.Punch{}
	for _, p := range all {
		byEmp[p.EmployeeID] = append(byEmp[p.EmployeeID], p)
	}
	require.Len(t, byEmp[102], 2, "badge 40102 normalises to employee 102")
	assert.Equal(t, domain.LabelIn, byEmp[102][0].Label)
	assert.True(t, byEmp[102][0].PunchedAt.Equal(time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.LabelOut, byEmp[102][1].Label)
	assert.True(t, byEmp[102][1].PunchedAt.Equal(time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC)))
	assert.True(t, byEmp[7][0].PunchedAt.Equal(time.Date(2025, 3, 3, 7, 10, 0, 0, time.UTC)))

	again := h.rec.Ingest(ctx, batch, nil)
	assert.Equal(t, 0, again.Added)
	assert.Equal(t, 3, again.Skipped)
	assert.Len(t, h.punches.All(), 3)
}

func TestIngest_BadRecordsAreReported(t *testing.T) {
	h := newHarness(t)
	res := h.rec.Ingest(context.Background(), []domain.RawPunch{
		{BadgeID: "abc", Timestamp: "2025-03-03 08:00:00"},
		{BadgeID: "40000", Timestamp: "2025-03-03 08:00:00"},
		{BadgeID: "15", Timestamp: "yesterday-ish"},
		{BadgeID: "15", Timestamp: "2025-03-03 08:00:00"},
	}, nil)
	assert.Equal(t, 1, res.Added)
	require.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[2].Reason, "invalid timestamp format")
	assert.Equal(t, "yesterday-ish", res.Errors[2].Record.Timestamp)
}

func TestIngest_StoreFailureBecomesErrorEntry(t *testing.T) {
	h := newHarness(t)
	h.punches.CreateErr = errors.New("db gone")
	res := h.rec.Ingest(context.Background(), []domain.RawPunch{{BadgeID: "5", Timestamp: "2025-03-03 08:00:00"}}, nil)
	assert.Equal(t, 0, res.Added)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "db gone")
}

func TestIngest_ConcurrentBatchesStayConsistent(t *testing.T) {
	h := newHarness(t)
	batch := []domain.RawPunch{
		{BadgeID: "9", Timestamp: "2025-03-04 08:00:00"},
		{BadgeID: "9", Timestamp: "2025-03-04 12:00:00"},
		{BadgeID: "9", Timestamp: "2025-03-04 17:30:00"},
	}
	var wg sync.WaitGroup
	results := make([]domain.IngestResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.rec.Ingest(context.Background(), batch, nil)
		}(i)
	}
	wg.Wait()

	added, skipped := 0, 0
	for _, r := range results {
		added += r.Added
		skipped += r.Skipped
		assert.Empty(t, r.Errors)
	}
	assert.Equal(t, 3, added)
	assert.Equal(t, 9, skipped)

	ins := 0
	for _, p := range h.punches.All() {
		if p.Label == domain.LabelIn {
			ins++
		}
	}
	assert.Equal(t, 1, ins, "exactly one IN per employee-day")
}

func TestSyncDevice_FailureIsSingleErrorEntry(t *testing.T) {
	h := newHarness(t)
	h.client.FetchFn = func(ctx context.Context, address string) ([]domain.RawPunch, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	res := h.rec.SyncDevice(context.Background(), domain.Device{ID: 1, Address: "10.0.0.5:4370"})
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Reason, "10.0.0.5:4370")
}

func TestSyncAll_PollsEveryDevice(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.rec.AddDevice(ctx, "gate", "10.0.0.5:4370", "P1")
	require.NoError(t, err)
	_, err = h.rec.AddDevice(ctx, "dock", "10.0.0.6:4370", "P1")
	require.NoError(t, err)

	h.client.FetchFn = func(_ context.Context, address string) ([]domain.RawPunch, error) {
		if address == "10.0.0.6:4370" {
			return nil, errors.New("connection refused")
		}
		return []domain.RawPunch{{BadgeID: "3", Timestamp: "2025-03-05 08:00:00"}}, nil
	}
	out, err := h.rec.SyncAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Result.Added)
	require.Len(t, out[1].Result.Errors, 1)

	stored := h.punches.All()
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].DeviceID)
	assert.Equal(t, out[0].DeviceID, *stored[0].DeviceID)
}

func TestAddDevice_Validation(t *testing.T) {
	h := newHarness(t)
	_, err := h.rec.AddDevice(context.Background(), "gate", "10.0.0.5", "P1")
	assert.Error(t, err)
	_, err = h.rec.AddDevice(context.Background(), " ", "10.0.0.5:4370", "P1")
	assert.Error(t, err)
}

func TestDeviceLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d, err := h.rec.AddDevice(ctx, "gate", "10.0.0.5:4370", "P1")
	require.NoError(t, err)

	got, err := h.rec.UpdateDevice(ctx, d.ID, " hall ", "10.0.0.6:4370", "P1")
	require.NoError(t, err)
	assert.Equal(t, "hall", got.Name)
	assert.Equal(t, "10.0.0.6:4370", got.Address)

	_, err = h.rec.UpdateDevice(ctx, d.ID, "hall", "10.0.0.6", "P1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = h.rec.UpdateDevice(ctx, 99, "hall", "10.0.0.7:4370", "P1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	h.staff.Employees[21] = employee.Employee{ID: 21, FirstName: "Amira", DeviceID: &d.ID}
	h.staff.Employees[22] = employee.Employee{ID: 22, FirstName: "Nour"}
	emps, err := h.rec.DeviceEmployees(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, uint64(21), emps[0].ID)

	require.NoError(t, h.rec.DeleteDevice(ctx, d.ID))
	assert.ErrorIs(t, h.rec.DeleteDevice(ctx, d.ID), apperr.ErrNotFound)
	_, err = h.rec.DeviceEmployees(ctx, d.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWindow(t *testing.T) {
	h := newHarness(t)
	loc := tunis(t)
	wed := time.Date(2025, 3, 5, 15, 0, 0, 0, loc)

	cases := []struct {
		period   Period
		from, to time.Time
	}{
		{PeriodDay, time.Date(2025, 3, 5, 0, 0, 0, 0, loc), time.Date(2025, 3, 6, 0, 0, 0, 0, loc)},
		{PeriodWeek, time.Date(2025, 3, 3, 0, 0, 0, 0, loc), time.Date(2025, 3, 10, 0, 0, 0, 0, loc)},
		{PeriodMonth, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), time.Date(2025, 4, 1, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(string(tc.period), func(t *testing.T) {
			from, to, err := h.rec.Window(tc.period, wed)
			require.NoError(t, err)
			assert.True(t, from.Equal(tc.from), "from = %s", from)
			assert.True(t, to.Equal(tc.to), "to = %s", to)
		})
	}

	// a Sunday belongs to the week that started the Monday before
	from, _, err := h.rec.Window(PeriodWeek, time.Date(2025, 3, 9, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.True(t, from.Equal(time.Date(2025, 3, 3, 0, 0, 0, 0, loc)))

	_, _, err = h.rec.Window("year", wed)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListPunches_Filters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	loc := tunis(t)
	gate := uint64(7)

	h.rec.Ingest(ctx, []domain.RawPunch{
		{BadgeID: "21", Timestamp: "2025-03-03 08:00:00"},
		{BadgeID: "21", Timestamp: "2025-03-04 08:00:00"},
	}, &gate)
	h.rec.Ingest(ctx, []domain.RawPunch{
		{BadgeID: "22", Timestamp: "2025-03-03 08:30:00"},
	}, nil)

	all, err := h.rec.ListPunches(ctx, domain.PunchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byDevice, err := h.rec.ListPunches(ctx, domain.PunchFilter{DeviceID: gate})
	require.NoError(t, err)
	assert.Len(t, byDevice, 2)

	from, to := h.rec.Span(time.Date(2025, 3, 3, 0, 0, 0, 0, loc), time.Date(2025, 3, 3, 0, 0, 0, 0, loc))
	monday, err := h.rec.ListPunches(ctx, domain.PunchFilter{EmployeeID: 21, From: from, To: to})
	require.NoError(t, err)
	require.Len(t, monday, 1)
	assert.Equal(t, domain.LabelIn, monday[0].Label)

	none, err := h.rec.ListPunches(ctx, domain.PunchFilter{EmployeeID: 99})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = h.rec.ListPunches(ctx, domain.PunchFilter{From: to, To: from})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRelabelDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	loc := tunis(t)
	mk := func(hh, mm int, l domain.Label) {
		require.NoError(t, h.punches.Create(ctx, &domain.Punch{EmployeeID: 4, PunchedAt: time.Date(2025, 3, 6, hh, mm, 0, 0, loc).UTC(), Label: l}))
	}
	mk(12, 0, domain.LabelIn)
	mk(8, 0, domain.LabelOut)
	mk(17, 0, domain.LabelOut)

	changed, err := h.rec.RelabelDay(ctx, 4, time.Date(2025, 3, 6, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	day, ok, err := h.rec.DailyHours(ctx, 4, time.Date(2025, 3, 6, 10, 0, 0, 0, loc))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "8", day.Hours.String())
}

func TestWorkedHours_LunchBoundary(t *testing.T) {
	cfg := DefaultConfig()
	base := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		dur  time.Duration
		want string
	}{
		{"exactly nine hours", 9 * time.Hour, "8"},
		{"one minute short", 8*time.Hour + 59*time.Minute, "8.98"},
		{"half day", 4*time.Hour + 30*time.Minute, "4.5"},
		{"long day", 10*time.Hour + 15*time.Minute, "9.25"},
		{"out before in", -time.Hour, "0"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.WorkedHours(base, base.Add(tt.dur))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestDailyHours_IncompleteDay(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	loc := tunis(t)
	res := h.rec.Ingest(ctx, []domain.RawPunch{{BadgeID: "8", Timestamp: "2025-03-03 09:15:00"}}, nil)
	require.Equal(t, 1, res.Added)

	day, ok, err := h.rec.DailyHours(ctx, 8, time.Date(2025, 3, 3, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, day.Late, "09:15 is after 08:30")
	assert.True(t, day.Hours.IsZero())
}

func TestSummarizeRange_WeeksAndCap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	loc := tunis(t)

	// 20 working days of 10 hours (9 payable each) across March 2025
	var batch []domain.RawPunch
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, loc)
	for n := 0; n < 20; {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			batch = append(batch,
				domain.RawPunch{BadgeID: "21", Timestamp: day.Add(8 * time.Hour).Format("2006-01-02 15:04:05")},
				domain.RawPunch{BadgeID: "21", Timestamp: day.Add(18 * time.Hour).Format("2006-01-02 15:04:05")},
			)
			n++
		}
		day = day.AddDate(0, 0, 1)
	}
	res := h.rec.Ingest(ctx, batch, nil)
	require.Equal(t, 40, res.Added)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)

	s, err := h.rec.SummarizeRange(ctx, 21, start, end, false)
	require.NoError(t, err)
	require.Len(t, s.Days, 20)
	assert.Equal(t, "180", s.RawTotal.String())
	assert.Equal(t, "180", s.Total.String())
	assert.False(t, s.IsCapped)
	require.Len(t, s.Weeks, 4)
	assert.Equal(t, 10, s.Weeks[0].Week)
	assert.Equal(t, "45", s.Weeks[0].Hours.String())

	capped, err := h.rec.SummarizeRange(ctx, 21, start, end, true)
	require.NoError(t, err)
	assert.True(t, capped.IsCapped)
	assert.Equal(t, "173.33", capped.Total.String())
	assert.Equal(t, "180", capped.RawTotal.String())
}

func TestSummarizeRange_BadRange(t *testing.T) {
	h := newHarness(t)
	_, err := h.rec.SummarizeRange(context.Background(), 1, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), false)
	assert.Error(t, err)
}
