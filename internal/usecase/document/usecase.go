package document

import (
	"context"
	"fmt"
	"strings"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/uow"
	"hrflow-backend/internal/usecase/approver"
	"hrflow-backend/internal/usecase/notification"
	"hrflow-backend/pkg/id"
	"hrflow-backend/pkg/log"
)

type Notifications interface {
	NotifyApprovalNeeded(ctx context.Context, approverID uint64, d notification.Descriptor)
	NotifyRejected(ctx context.Context, employeeID uint64, d notification.Descriptor, tier string)
	NotifyCompleted(ctx context.Context, employeeID uint64, d notification.Descriptor, attachment string)
}

type Config struct {
	// HRManagerID handles every document request when set; otherwise the
	// first approver of the applicant's chain does.
	HRManagerID uint64
}

type Usecase struct {
	docs      domain.Repository
	employees employee.Repository
	uow       uow.UnitOfWork
	resolver  *approver.Resolver
	notify    Notifications
	logger    log.Logger
	cfg       Config
}

func NewUsecase(docs domain.Repository, employees employee.Repository, tx uow.UnitOfWork, n Notifications, l log.Logger, cfg Config) *Usecase {
	return &Usecase{docs: docs, employees: employees, uow: tx, resolver: approver.NewResolver(), notify: n, logger: l, cfg: cfg}
}

func (u *Usecase) Create(ctx context.Context, employeeID uint64, documentType string) (*domain.Request, error) {
	documentType = strings.TrimSpace(documentType)
	if documentType == "" {
		return nil, apperr.Validation("document_type is required")
	}
	emp, err := u.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	approverID, err := u.approverFor(*emp)
	if err != nil {
		return nil, err
	}

	d := &domain.Request{
		RequestID:         id.NewID32(),
		EmployeeID:        emp.ID,
		DocumentType:      documentType,
		Status:            domain.StatusPending,
		CurrentApproverID: &approverID,
	}
	if err := u.docs.Create(ctx, d); err != nil {
		return nil, err
	}
	u.logger.Info(ctx, "document request created", "request_id", d.RequestID, "employee_id", emp.ID, "approver_id", approverID)
	u.notify.NotifyApprovalNeeded(ctx, approverID, describe(d, emp))
	return d, nil
}

func (u *Usecase) approverFor(emp employee.Employee) (uint64, error) {
	if u.cfg.HRManagerID != 0 && u.cfg.HRManagerID != emp.ID {
		return u.cfg.HRManagerID, nil
	}
	chain, err := u.resolver.Resolve(emp, approver.Options{})
	if err != nil {
		return 0, err
	}
	first, ok := chain.First()
	if !ok {
		return 0, apperr.Validation("employee %d has no one to handle document requests", emp.ID)
	}
	return first.ApproverID, nil
}

// Fulfil completes the request and sends the produced file to the employee.
func (u *Usecase) Fulfil(ctx context.Context, requestID string, actorID uint64, filePath string) (*domain.Request, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, apperr.Validation("file_path is required")
	}
	d, err := u.close(ctx, requestID, actorID, domain.StatusCompleted, filePath)
	if err != nil {
		return nil, err
	}
	u.notify.NotifyCompleted(ctx, d.EmployeeID, u.describeByID(ctx, d), d.FilePath)
	return d, nil
}

func (u *Usecase) Reject(ctx context.Context, requestID string, actorID uint64) (*domain.Request, error) {
	d, err := u.close(ctx, requestID, actorID, domain.StatusRejected, "")
	if err != nil {
		return nil, err
	}
	u.notify.NotifyRejected(ctx, d.EmployeeID, u.describeByID(ctx, d), "document")
	return d, nil
}

// close moves a pending request to a terminal status under a row lock.
func (u *Usecase) close(ctx context.Context, requestID string, actorID uint64, to domain.Status, filePath string) (*domain.Request, error) {
	if u.uow == nil {
		return nil, fmt.Errorf("document: no unit of work configured")
	}
	var out domain.Request
	err := u.uow.WithinDocumentTx(ctx, requestID, func(r uow.Repos, d *domain.Request) error {
		if d.Status.Terminal() {
			return apperr.Authorization("document request %s is already %s", d.RequestID, d.Status)
		}
		if d.CurrentApproverID == nil || *d.CurrentApproverID != actorID {
			return apperr.Authorization("user %d is not the approver of document request %s", actorID, d.RequestID)
		}
		d.Status = to
		d.CurrentApproverID = nil
		if filePath != "" {
			d.FilePath = filePath
		}
		if err := r.Documents.Save(ctx, d); err != nil {
			return err
		}
		out = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info(ctx, "document request closed", "request_id", out.RequestID, "status", out.Status, "actor_id", actorID)
	return &out, nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	return u.docs.GetByRequestID(ctx, requestID)
}

func (u *Usecase) ListForApprover(ctx context.Context, approverID uint64) ([]domain.Request, error) {
	return u.docs.ListForApprover(ctx, approverID)
}

func (u *Usecase) ListByEmployee(ctx context.Context, employeeID uint64) ([]domain.Request, error) {
	return u.docs.ListByEmployee(ctx, employeeID)
}

func (u *Usecase) Delete(ctx context.Context, requestID string, actorID uint64, role employee.Role) error {
	if role != employee.RoleAdmin && role != employee.RoleHRManager {
		return apperr.Authorization("role %s cannot delete document requests", role)
	}
	if err := u.docs.Delete(ctx, requestID, actorID); err != nil {
		return err
	}
	u.logger.Info(ctx, "document request deleted", "request_id", requestID, "actor_id", actorID)
	return nil
}

func (u *Usecase) describeByID(ctx context.Context, d *domain.Request) notification.Descriptor {
	emp, err := u.employees.GetByID(ctx, d.EmployeeID)
	if err != nil {
		u.logger.Warn(ctx, "employee lookup for notification failed", "employee_id", d.EmployeeID, "error", err)
		emp = &employee.Employee{ID: d.EmployeeID, FirstName: fmt.Sprintf("employee #%d", d.EmployeeID)}
	}
	return describe(d, emp)
}

func describe(d *domain.Request, emp *employee.Employee) notification.Descriptor {
	return notification.Descriptor{
		Kind:         "document",
		RequestID:    d.RequestID,
		EmployeeName: emp.FullName(),
		Period:       strings.ReplaceAll(d.DocumentType, "_", " "),
	}
}
