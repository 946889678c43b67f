package attendance

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/attendance"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/uow"
	"hrflow-backend/pkg/log"

	"golang.org/x/sync/errgroup"
)

// DeviceClient reads the raw punch log of a terminal.
type DeviceClient interface {
	FetchRawPunches(ctx context.Context, address string) ([]domain.RawPunch, error)
}

// Locker serialises work on a key across goroutines (and processes, for
// distributed implementations). unlock must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type Reconciler struct {
	punches domain.PunchRepository
	devices domain.DeviceRepository
	staff   employee.Repository
	uow     uow.UnitOfWork
	client  DeviceClient
	locker  Locker
	logger  log.Logger
	cfg     Config
}

func NewReconciler(punches domain.PunchRepository, devices domain.DeviceRepository, staff employee.Repository, tx uow.UnitOfWork, client DeviceClient, locker Locker, l log.Logger, cfg Config) *Reconciler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SyncConcurrency <= 0 {
		cfg.SyncConcurrency = 1
	}
	return &Reconciler{punches: punches, devices: devices, staff: staff, uow: tx, client: client, locker: locker, logger: l, cfg: cfg}
}

type parsedPunch struct {
	raw        domain.RawPunch
	employeeID uint64
	at         time.Time
}

// Ingest stores a batch of raw punches. It never fails as a whole: every
// record is either added, skipped as a duplicate, or reported in Errors.
func (r *Reconciler) Ingest(ctx context.Context, raws []domain.RawPunch, deviceID *uint64) domain.IngestResult {
	res := domain.IngestResult{Errors: []domain.IngestError{}}

	batch := make([]parsedPunch, 0, len(raws))
	for _, raw := range raws {
		empID, err := NormalizeBadge(raw.BadgeID, r.cfg.BadgeBlockThreshold, r.cfg.BadgeBlockModulo)
		if err != nil {
			res.Errors = append(res.Errors, domain.IngestError{Record: raw, Reason: err.Error()})
			continue
		}
		at, err := ParseDeviceTime(raw.Timestamp, r.cfg.Location)
		if err != nil {
			res.Errors = append(res.Errors, domain.IngestError{Record: raw, Reason: err.Error()})
			continue
		}
		batch = append(batch, parsedPunch{raw: raw, employeeID: empID, at: at})
	}

	// the IN/OUT rule only holds if a day is seen in time order
	sort.SliceStable(batch, func(i, j int) bool { return batch[i].at.Before(batch[j].at) })

	for _, p := range batch {
		added, err := r.ingestOne(ctx, p, deviceID)
		switch {
		case err != nil:
			res.Errors = append(res.Errors, domain.IngestError{Record: p.raw, Reason: err.Error()})
		case added:
			res.Added++
		default:
			res.Skipped++
		}
	}
	return res
}

func (r *Reconciler) ingestOne(ctx context.Context, p parsedPunch, deviceID *uint64) (bool, error) {
	from, to := dayBounds(p.at, r.cfg.Location)
	unlock, err := r.locker.Lock(ctx, dayKey(p.employeeID, p.at, r.cfg.Location))
	if err != nil {
		return false, fmt.Errorf("lock employee day: %w", err)
	}
	defer unlock()

	added := false
	err = r.uow.WithinTx(ctx, func(tx uow.Repos) error {
		exists, err := tx.Punches.Exists(ctx, p.employeeID, p.at)
		if err != nil || exists {
			return err
		}
		hasIn, err := tx.Punches.HasLabelBetween(ctx, p.employeeID, from, to, domain.LabelIn)
		if err != nil {
			return err
		}
		label := domain.LabelIn
		if hasIn {
			label = domain.LabelOut
		}
		err = tx.Punches.Create(ctx, &domain.Punch{EmployeeID: p.employeeID, PunchedAt: p.at, Label: label, DeviceID: deviceID})
		if errors.Is(err, apperr.ErrConflict) {
			return nil
		}
		if err == nil {
			added = true
		}
		return err
	})
	return added, err
}

// RelabelDay rewrites the labels of one day: earliest IN, latest OUT,
// anything in between Unknown.
func (r *Reconciler) RelabelDay(ctx context.Context, employeeID uint64, day time.Time) (int, error) {
	from, to := dayBounds(day, r.cfg.Location)
	unlock, err := r.locker.Lock(ctx, dayKey(employeeID, day, r.cfg.Location))
	if err != nil {
		return 0, fmt.Errorf("lock employee day: %w", err)
	}
	defer unlock()

	changed := 0
	err = r.uow.WithinTx(ctx, func(tx uow.Repos) error {
		punches, err := tx.Punches.ListBetween(ctx, employeeID, from, to)
		if err != nil {
			return err
		}
		for i, p := range punches {
			want := domain.LabelUnknown
			switch {
			case i == 0:
				want = domain.LabelIn
			case i == len(punches)-1:
				want = domain.LabelOut
			}
			if p.Label == want {
				continue
			}
			if err := tx.Punches.SetLabel(ctx, p.ID, want); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	return changed, err
}

type DeviceResult struct {
	DeviceID uint64              `json:"device_id"`
	Name     string              `json:"name"`
	Result   domain.IngestResult `json:"results"`
}

// SyncDevice pulls the punch log of one terminal and ingests it. A device
// failure is reported as a single error entry.
func (r *Reconciler) SyncDevice(ctx context.Context, d domain.Device) domain.IngestResult {
	fetchCtx, cancel := context.WithTimeout(ctx, r.cfg.DeviceTimeout)
	defer cancel()

	raws, err := r.client.FetchRawPunches(fetchCtx, d.Address)
	if err != nil {
		r.logger.Warn(ctx, "device sync failed", "device_id", d.ID, "address", d.Address, "error", err)
		return domain.IngestResult{Errors: []domain.IngestError{{Reason: apperr.External(err, "device %s", d.Address).Error()}}}
	}
	res := r.Ingest(ctx, raws, &d.ID)
	r.logger.Info(ctx, "device synced", "device_id", d.ID, "added", res.Added, "skipped", res.Skipped, "errors", len(res.Errors))
	return res
}

// SyncAll polls every registered device, a few at a time.
func (r *Reconciler) SyncAll(ctx context.Context) ([]DeviceResult, error) {
	devices, err := r.devices.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeviceResult, len(devices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.SyncConcurrency)
	for i, d := range devices {
		i, d := i, d
		g.Go(func() error {
			out[i] = DeviceResult{DeviceID: d.ID, Name: d.Name, Result: r.SyncDevice(gctx, d)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Reconciler) AddDevice(ctx context.Context, name, address, plant string) (*domain.Device, error) {
	d, err := deviceInput(name, address, plant)
	if err != nil {
		return nil, err
	}
	if err := r.devices.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Reconciler) UpdateDevice(ctx context.Context, id uint64, name, address, plant string) (*domain.Device, error) {
	d, err := deviceInput(name, address, plant)
	if err != nil {
		return nil, err
	}
	d.ID = id
	if err := r.devices.Update(ctx, d); err != nil {
		return nil, err
	}
	r.logger.Info(ctx, "device updated", "device_id", id, "address", d.Address)
	return r.devices.GetByID(ctx, id)
}

// DeleteDevice unregisters a terminal. Punches it reported are kept.
func (r *Reconciler) DeleteDevice(ctx context.Context, id uint64) error {
	if err := r.devices.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info(ctx, "device deleted", "device_id", id)
	return nil
}

// DeviceEmployees lists the employees assigned to badge on a device.
func (r *Reconciler) DeviceEmployees(ctx context.Context, id uint64) ([]employee.Employee, error) {
	if _, err := r.devices.GetByID(ctx, id); err != nil {
		return nil, err
	}
	emps, err := r.staff.ListByDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if emps == nil {
		emps = []employee.Employee{}
	}
	return emps, nil
}

func deviceInput(name, address, plant string) (*domain.Device, error) {
	name, address = strings.TrimSpace(name), strings.TrimSpace(address)
	if name == "" {
		return nil, apperr.Validation("device name is required")
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, apperr.Validation("device address must be host:port: %v", err)
	}
	return &domain.Device{Name: name, Address: address, Plant: plant}, nil
}

func (r *Reconciler) ListDevices(ctx context.Context) ([]domain.Device, error) {
	return r.devices.List(ctx)
}

func (r *Reconciler) Device(ctx context.Context, id uint64) (*domain.Device, error) {
	return r.devices.GetByID(ctx, id)
}

func dayKey(employeeID uint64, t time.Time, loc *time.Location) string {
	return fmt.Sprintf("attendance:%d:%s", employeeID, localDate(t, loc))
}

// Location is the zone calendar days are cut in.
func (r *Reconciler) Location() *time.Location { return r.cfg.Location }
