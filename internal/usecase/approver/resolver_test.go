package approver

import (
	"errors"
	"testing"

	"hrflow-backend/internal/domain/apperr"
	"hrflow-backend/internal/domain/employee"
	"hrflow-backend/internal/domain/request"
)

func ptr(v uint64) *uint64 { return &v }

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name      string
		emp       employee.Employee
		opts      Options
		wantShape Shape
		wantSteps []request.Step
		wantSelf  int
		wantErr   error
	}{
		{
			name:      "manager and plant manager",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, ManagerID: ptr(2), PlantManagerID: ptr(3), CEOID: ptr(1)},
			wantShape: ShapeManagerPlant,
			wantSteps: []request.Step{{Tier: request.TierManager, ApproverID: 2}, {Tier: request.TierPlantManager, ApproverID: 3}},
		},
		{
			name:      "plant manager only",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, PlantManagerID: ptr(3), CEOID: ptr(1)},
			wantShape: ShapePlant,
			wantSteps: []request.Step{{Tier: request.TierPlantManager, ApproverID: 3}},
		},
		{
			name:      "manager only",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, ManagerID: ptr(2)},
			wantShape: ShapeManager,
			wantSteps: []request.Step{{Tier: request.TierManager, ApproverID: 2}},
		},
		{
			name:      "falls back to ceo",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, CEOID: ptr(1)},
			wantShape: ShapeCEO,
			wantSteps: []request.Step{{Tier: request.TierCEO, ApproverID: 1}},
		},
		{
			name:      "escalation appends ceo",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, ManagerID: ptr(2), PlantManagerID: ptr(3), CEOID: ptr(1)},
			opts:      Options{Escalate: true},
			wantShape: ShapeManagerPlantCEO,
			wantSteps: []request.Step{{Tier: request.TierManager, ApproverID: 2}, {Tier: request.TierPlantManager, ApproverID: 3}, {Tier: request.TierCEO, ApproverID: 1}},
		},
		{
			name:      "escalation without plant manager",
			emp:       employee.Employee{ID: 10, Role: employee.RoleEmployee, ManagerID: ptr(2), CEOID: ptr(1)},
			opts:      Options{Escalate: true},
			wantShape: ShapeManagerCEO,
			wantSteps: []request.Step{{Tier: request.TierManager, ApproverID: 2}, {Tier: request.TierCEO, ApproverID: 1}},
		},
		{
			name:      "manager applying for themself skips own tier",
			emp:       employee.Employee{ID: 2, Role: employee.RoleManager, PlantManagerID: ptr(3), CEOID: ptr(1)},
			wantShape: ShapeManagerPlant,
			wantSteps: []request.Step{{Tier: request.TierPlantManager, ApproverID: 3}},
			wantSelf:  1,
		},
		{
			name:      "self skip exhausting chain escalates to ceo",
			emp:       employee.Employee{ID: 2, Role: employee.RoleManager, CEOID: ptr(1)},
			wantShape: ShapeManagerCEO,
			wantSteps: []request.Step{{Tier: request.TierCEO, ApproverID: 1}},
			wantSelf:  1,
		},
		{
			name:      "plant manager applying with plant manager pointing at self",
			emp:       employee.Employee{ID: 3, Role: employee.RolePlantManager, PlantManagerID: ptr(3), CEOID: ptr(1)},
			wantShape: ShapePlantCEO,
			wantSteps: []request.Step{{Tier: request.TierCEO, ApproverID: 1}},
			wantSelf:  1,
		},
		{
			name:    "no approvers at all",
			emp:     employee.Employee{ID: 10, Role: employee.RoleEmployee},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "ceo applying for themself",
			emp:     employee.Employee{ID: 1, Role: employee.RoleCEO, CEOID: ptr(1)},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.emp, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if got.Shape != ShapeNone {
					t.Fatalf("shape = %s, want None", got.Shape)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got.Shape != tt.wantShape {
				t.Fatalf("shape = %s, want %s", got.Shape, tt.wantShape)
			}
			if len(got.Steps) != len(tt.wantSteps) {
				t.Fatalf("steps = %+v, want %+v", got.Steps, tt.wantSteps)
			}
			for i := range got.Steps {
				if got.Steps[i] != tt.wantSteps[i] {
					t.Fatalf("step[%d] = %+v, want %+v", i, got.Steps[i], tt.wantSteps[i])
				}
			}
			if len(got.SelfApproved) != tt.wantSelf {
				t.Fatalf("self approved = %d, want %d", len(got.SelfApproved), tt.wantSelf)
			}
		})
	}
}

func TestShapeOf(t *testing.T) {
	if ShapeOf(nil) != ShapeNone {
		t.Fatal("empty chain must be None")
	}
	steps := []request.Step{{Tier: request.TierPlantManager}, {Tier: request.TierCEO}}
	if ShapeOf(steps) != ShapePlantCEO {
		t.Fatalf("got %s", ShapeOf(steps))
	}
}

func TestChain_AllAndFirst(t *testing.T) {
	c := Chain{
		SelfApproved: []request.Step{{Tier: request.TierManager, ApproverID: 2}},
		Steps:        []request.Step{{Tier: request.TierPlantManager, ApproverID: 3}},
	}
	all := c.All()
	if len(all) != 2 || all[0].Tier != request.TierManager || all[1].Tier != request.TierPlantManager {
		t.Fatalf("All() = %+v", all)
	}
	first, ok := c.First()
	if !ok || first.ApproverID != 3 {
		t.Fatalf("First() = %+v, %v", first, ok)
	}
	if _, ok := (Chain{}).First(); ok {
		t.Fatal("empty chain has no first step")
	}
}
