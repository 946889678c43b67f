package gormrepo

import (
	"testing"
	"time"

	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
	"hrflow-backend/pkg/id"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the service tables plus a
// users table standing in for the HR directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.AutoMigrate(&employee.Employee{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	return db
}

func seedEmployees(t *testing.T, db *gorm.DB, emps ...employee.Employee) {
	t.Helper()
	for i := range emps {
		if err := db.Create(&emps[i]).Error; err != nil {
			t.Fatalf("seed employee %d: %v", emps[i].ID, err)
		}
	}
}

func u64(v uint64) *uint64 { return &v }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func makeLeave(employeeID uint64, from, to string) *request.Request {
	return &request.Request{
		RequestID:                  id.NewID32(),
		Kind:                       request.KindLeave,
		EmployeeID:                 employeeID,
		Payload:                    datatypes.JSON(`{"leave_type":"annual","start_date":"` + from + `","end_date":"` + to + `"}`),
		StartsOn:                   day(from),
		EndsOn:                     day(to),
		Status:                     request.StatusPending,
		ManagerApprovalStatus:      request.TierPending,
		PlantManagerApprovalStatus: request.TierPending,
		CurrentApproverID:          u64(2),
		NextApproverID:             u64(3),
		Chain: []request.Step{
			{Tier: request.TierManager, ApproverID: 2},
			{Tier: request.TierPlantManager, ApproverID: 3},
		},
	}
}
