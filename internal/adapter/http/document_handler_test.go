package http

import (
	"net/http"
	"testing"

	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/employee"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestDocumentFlow_OverHTTP(t *testing.T) {
	s := newServer(t, nil)

	rec := s.do(t, staffID, http.MethodPost, "/documents", map[string]any{"document_type": "work_certificate"})
	expectCode(t, rec, http.StatusCreated)
	d := decode[document.Request](t, rec)
	if d.CurrentApproverID == nil || *d.CurrentApproverID != hrID || d.Status != document.StatusPending {
		t.Fatalf("created = %+v", d)
	}

	inbox := decode[[]document.Request](t, s.do(t, hrID, http.MethodGet, "/documents/inbox", nil))
	if len(inbox) != 1 {
		t.Fatalf("hr inbox = %d rows", len(inbox))
	}

	// only the current approver closes it
	expectCode(t, s.do(t, managerID, http.MethodPut, "/documents/"+d.RequestID+"/fulfil", map[string]any{"file_path": "/files/cert.pdf"}), http.StatusForbidden)
	expectCode(t, s.do(t, hrID, http.MethodPut, "/documents/"+d.RequestID+"/fulfil", map[string]any{}), http.StatusUnprocessableEntity)

	rec = s.do(t, hrID, http.MethodPut, "/documents/"+d.RequestID+"/fulfil", map[string]any{"file_path": "/files/cert.pdf"})
	expectCode(t, rec, http.StatusOK)
	done := decode[document.Request](t, rec)
	if done.Status != document.StatusCompleted || done.FilePath != "/files/cert.pdf" {
		t.Fatalf("fulfilled = %+v", done)
	}

	expectCode(t, s.do(t, hrID, http.MethodPut, "/documents/"+d.RequestID+"/reject", nil), http.StatusForbidden)

	mine := decode[[]document.Request](t, s.do(t, staffID, http.MethodGet, "/documents/employee/"+itoa(staffID), nil))
	if len(mine) != 1 || mine[0].Status != document.StatusCompleted {
		t.Fatalf("history = %+v", mine)
	}
}

func TestDocumentDelete_RoleGate(t *testing.T) {
	s := newServer(t, nil)
	d := decode[document.Request](t, s.do(t, staffID, http.MethodPost, "/documents", map[string]any{"document_type": "payslip"}))

	if roles[staffID] != employee.RoleEmployee {
		t.Fatal("fixture drift")
	}
	expectCode(t, s.do(t, staffID, http.MethodDelete, "/documents/"+d.RequestID, nil), http.StatusForbidden)
	expectCode(t, s.do(t, hrID, http.MethodDelete, "/documents/"+d.RequestID, nil), http.StatusNoContent)
	expectCode(t, s.do(t, hrID, http.MethodDelete, "/documents/"+d.RequestID, nil), http.StatusNotFound)
}

func TestRouter_IdempotentReplayPerCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	s := newServer(t, rdb)

	reqID := uuid.NewString()
	hdr := []string{"X-Request-Id", reqID, "X-Request-At", itoa(uint64(nowUnix()))}
	body := map[string]any{"document_type": "payslip"}

	first := s.do(t, staffID, http.MethodPost, "/documents", body, hdr...)
	expectCode(t, first, http.StatusCreated)
	second := s.do(t, staffID, http.MethodPost, "/documents", body, hdr...)
	expectCode(t, second, http.StatusCreated)
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	mine := decode[[]document.Request](t, s.do(t, staffID, http.MethodGet, "/documents/employee/"+itoa(staffID), nil))
	if len(mine) != 1 {
		t.Fatalf("created %d documents, want 1", len(mine))
	}

	// missing headers on a mutating route
	expectCode(t, s.do(t, staffID, http.MethodPost, "/documents", body), http.StatusBadRequest)
}
