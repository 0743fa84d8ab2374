package service

import (
	"context"
	"errors"
	"testing"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newTestAdminService(t *testing.T) (*AdminService, *fakeAdminStore) {
	t.Helper()
	admins := newFakeAdminStore()
	audit, _ := newTestAudit(t)
	return NewAdminService(admins, audit, bcrypt.MinCost), admins
}

func TestCreateAdminHashesPassword(t *testing.T) {
	svc, _ := newTestAdminService(t)

	admin, err := svc.Create(context.Background(), "root", &model.CreateAdminRequest{
		Username: "alice", Password: "secret123", Role: model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if admin.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret123")); err != nil {
		t.Error("stored hash does not verify the password")
	}
}

func TestCreateAdminDuplicateUsername(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	req := &model.CreateAdminRequest{Username: "alice", Password: "secret123", Role: model.RoleAdmin}
	if _, err := svc.Create(ctx, "root", req); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "root", req); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Create(dup) error = %v, want ErrDuplicateUsername", err)
	}
}

func TestDeleteAdminGuards(t *testing.T) {
	svc, _ := newTestAdminService(t)
	ctx := context.Background()

	super, err := svc.Create(ctx, "root", &model.CreateAdminRequest{
		Username: "root", Password: "secret123", Role: model.RoleSuperadmin,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	worker, err := svc.Create(ctx, "root", &model.CreateAdminRequest{
		Username: "worker", Password: "secret123", Role: model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Self-deletion is rejected.
	if err := svc.Delete(ctx, super.ID, "root", super.ID); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("self delete error = %v, want ErrSelfDelete", err)
	}

	// The last superadmin cannot be removed by anyone.
	if err := svc.Delete(ctx, worker.ID, "worker", super.ID); !errors.Is(err, ErrLastSuperadmin) {
		t.Errorf("last superadmin delete error = %v, want ErrLastSuperadmin", err)
	}

	// A plain admin can be removed.
	if err := svc.Delete(ctx, super.ID, "root", worker.ID); err != nil {
		t.Errorf("Delete(admin) error = %v", err)
	}

	// With a second superadmin present the first becomes deletable.
	second, _ := svc.Create(ctx, "root", &model.CreateAdminRequest{
		Username: "backup", Password: "secret123", Role: model.RoleSuperadmin,
	})
	if err := svc.Delete(ctx, second.ID, "backup", super.ID); err != nil {
		t.Errorf("Delete(superadmin with backup) error = %v", err)
	}
}

func TestQuestionCorrectOptionValidation(t *testing.T) {
	questions := newFakeQuestionStore()
	audit, _ := newTestAudit(t)
	svc := NewQuestionService(questions, audit)

	req := &model.SaveQuestionRequest{
		Text:           "What is the capital of France?",
		Options:        []model.Option{{Text: "Paris"}, {Text: "Lyon"}},
		CorrectOptions: []int{2},
		Category:       model.CategoryEasy,
		Weight:         1,
	}
	if _, err := svc.Create(context.Background(), "admin", req); !errors.Is(err, ErrBadCorrectOption) {
		t.Errorf("Create() error = %v, want ErrBadCorrectOption", err)
	}

	req.CorrectOptions = []int{0}
	if _, err := svc.Create(context.Background(), "admin", req); err != nil {
		t.Errorf("Create(valid) error = %v", err)
	}
}

func TestQuestionDeleteIsIdempotent(t *testing.T) {
	questions := newFakeQuestionStore()
	audit, _ := newTestAudit(t)
	svc := NewQuestionService(questions, audit)
	ctx := context.Background()

	q, err := svc.Create(ctx, "admin", &model.SaveQuestionRequest{
		Text:           "What is the capital of France?",
		Options:        []model.Option{{Text: "Paris"}, {Text: "Lyon"}},
		CorrectOptions: []int{0},
		Category:       model.CategoryEasy,
		Weight:         1,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, "admin", q.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Repeats and unknown ids are no-ops, matching terminal and exam
	// deletion.
	if err := svc.Delete(ctx, "admin", q.ID); err != nil {
		t.Errorf("Delete(deleted) error = %v", err)
	}
	if err := svc.Delete(ctx, "admin", uuid.New()); err != nil {
		t.Errorf("Delete(unknown) error = %v", err)
	}
}
