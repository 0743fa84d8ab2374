package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/google/uuid"
)

func newTestTerminalService(t *testing.T) (*TerminalService, *fakeTerminalStore, *fakeStudentStore, *fakeExamStore, *fakeResultStore) {
	t.Helper()
	terminals := newFakeTerminalStore()
	students := newFakeStudentStore()
	exams := newFakeExamStore()
	results := newFakeResultStore()
	terminals.students = students
	terminals.exams = exams
	audit, _ := newTestAudit(t)
	svc := NewTerminalService(terminals, students, exams, results, audit)
	return svc, terminals, students, exams, results
}

func TestRegisterCreatesPendingTerminal(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)

	term, err := svc.Register(context.Background(), "Hall A - PC 01", "10.0.0.5")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if term.Status != model.TerminalStatusPending {
		t.Errorf("Status = %s, want PENDING", term.Status)
	}
	if !strings.HasPrefix(term.Identifier, "term-") {
		t.Errorf("Identifier = %q, want term- prefix", term.Identifier)
	}
	if term.LiveStatus != model.LiveStatusOnline {
		t.Errorf("LiveStatus = %s, want ONLINE", term.LiveStatus)
	}
}

func TestRegisterIdentifiersAreUnique(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		term, err := svc.Register(ctx, "PC", "")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if seen[term.Identifier] {
			t.Fatalf("duplicate identifier %q", term.Identifier)
		}
		seen[term.Identifier] = true
	}
}

func TestApproveTransitions(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	term, _ := svc.Register(ctx, "PC 01", "")

	if err := svc.Approve(ctx, "admin", term.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	// Approving twice is rejected: the terminal is no longer PENDING.
	if err := svc.Approve(ctx, "admin", term.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second Approve() error = %v, want ErrInvalidTransition", err)
	}

	if err := svc.Approve(ctx, "admin", uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Approve(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRejectionIsFinal(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	term, _ := svc.Register(ctx, "PC 01", "")
	if err := svc.Reject(ctx, "admin", term.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	// A rejected terminal cannot be approved; it must re-register.
	if err := svc.Approve(ctx, "admin", term.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Approve(rejected) error = %v, want ErrInvalidTransition", err)
	}
}

func TestRejectApprovedTerminal(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	term, _ := svc.Register(ctx, "PC 01", "")
	if err := svc.Approve(ctx, "admin", term.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if err := svc.Reject(ctx, "admin", term.ID); err != nil {
		t.Errorf("Reject(approved) error = %v", err)
	}
}

func TestAssignStudent(t *testing.T) {
	svc, _, students, exams, _ := newTestTerminalService(t)
	ctx := context.Background()

	exam := &model.Exam{Title: "Midterm", Status: model.ExamStatusScheduled, StartTime: time.Now()}
	exams.Create(ctx, exam)

	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026", AssignedExamID: &exam.ID}
	students.Create(ctx, student)

	term, _ := svc.Register(ctx, "PC 01", "")
	svc.Approve(ctx, "admin", term.ID)

	if err := svc.AssignStudent(ctx, "admin", term.ID, &student.ID); err != nil {
		t.Fatalf("AssignStudent() error = %v", err)
	}

	got, _ := svc.List(ctx)
	if len(got) != 1 {
		t.Fatalf("terminals = %d", len(got))
	}
	if got[0].AssignedStudentID == nil || *got[0].AssignedStudentID != student.ID {
		t.Error("student not assigned")
	}
	if got[0].AssignedExamID == nil || *got[0].AssignedExamID != exam.ID {
		t.Error("exam not copied from student")
	}
	if got[0].LiveStatus != model.LiveStatusReady {
		t.Errorf("LiveStatus = %s, want READY", got[0].LiveStatus)
	}
}

func TestAssignStudentRejectsSecondSeat(t *testing.T) {
	svc, _, students, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026"}
	students.Create(ctx, student)

	t1, _ := svc.Register(ctx, "PC 01", "")
	t2, _ := svc.Register(ctx, "PC 02", "")
	svc.Approve(ctx, "admin", t1.ID)
	svc.Approve(ctx, "admin", t2.ID)

	if err := svc.AssignStudent(ctx, "admin", t1.ID, &student.ID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := svc.AssignStudent(ctx, "admin", t2.ID, &student.ID); !errors.Is(err, ErrStudentSeated) {
		t.Errorf("second assign error = %v, want ErrStudentSeated", err)
	}
}

func TestAssignStudentRequiresApproval(t *testing.T) {
	svc, _, students, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026"}
	students.Create(ctx, student)

	term, _ := svc.Register(ctx, "PC 01", "")

	if err := svc.AssignStudent(ctx, "admin", term.ID, &student.ID); !errors.Is(err, ErrTerminalNotApproved) {
		t.Errorf("AssignStudent(pending) error = %v, want ErrTerminalNotApproved", err)
	}
}

func TestAssignNilStudentClearsSeat(t *testing.T) {
	svc, _, students, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026"}
	students.Create(ctx, student)

	term, _ := svc.Register(ctx, "PC 01", "")
	svc.Approve(ctx, "admin", term.ID)
	svc.AssignStudent(ctx, "admin", term.ID, &student.ID)

	if err := svc.AssignStudent(ctx, "admin", term.ID, nil); err != nil {
		t.Fatalf("clear seat: %v", err)
	}

	got, _ := svc.List(ctx)
	if got[0].AssignedStudentID != nil {
		t.Error("seat not cleared")
	}
	if got[0].LiveStatus != model.LiveStatusOnline {
		t.Errorf("LiveStatus = %s, want ONLINE", got[0].LiveStatus)
	}
}

func TestGetStatusResolvesAssignment(t *testing.T) {
	svc, _, students, exams, results := newTestTerminalService(t)
	ctx := context.Background()

	exam := &model.Exam{Title: "Midterm", Status: model.ExamStatusScheduled, StartTime: time.Now().Add(time.Hour)}
	exams.Create(ctx, exam)
	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026", AssignedExamID: &exam.ID}
	students.Create(ctx, student)

	term, _ := svc.Register(ctx, "PC 01", "")
	svc.Approve(ctx, "admin", term.ID)
	svc.AssignStudent(ctx, "admin", term.ID, &student.ID)

	details, err := svc.GetStatus(ctx, term.Identifier)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if details.StudentName != "Asha" || details.StudentRoll != "R-001" {
		t.Errorf("student = %q/%q", details.StudentName, details.StudentRoll)
	}
	if details.Exam == nil || details.Exam.Title != "Midterm" {
		t.Error("exam summary missing")
	}
	if details.ExamAlreadyTaken {
		t.Error("ExamAlreadyTaken = true before any submission")
	}
	if details.LiveStatus != model.LiveStatusReady {
		t.Errorf("LiveStatus = %s, want READY for scheduled exam", details.LiveStatus)
	}

	// After a stored result the poll reports the exam as taken.
	results.Insert(ctx, &model.ExamResult{StudentID: student.ID, ExamID: exam.ID})
	details, err = svc.GetStatus(ctx, term.Identifier)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if !details.ExamAlreadyTaken {
		t.Error("ExamAlreadyTaken = false after submission")
	}
}

func TestGetStatusUnknownIdentifier(t *testing.T) {
	svc, _, _, _, _ := newTestTerminalService(t)
	if _, err := svc.GetStatus(context.Background(), "term-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStatus() error = %v, want ErrNotFound", err)
	}
}

func TestHeartbeat(t *testing.T) {
	svc, terminals, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	term, _ := svc.Register(ctx, "PC 01", "")

	if err := svc.Heartbeat(ctx, term.Identifier, model.LiveStatusAttempting); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	got, _ := terminals.GetByIdentifier(ctx, term.Identifier)
	if got.LiveStatus != model.LiveStatusAttempting {
		t.Errorf("LiveStatus = %s, want ATTEMPTING", got.LiveStatus)
	}

	// Empty status only refreshes liveness.
	if err := svc.Heartbeat(ctx, term.Identifier, ""); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	got, _ = terminals.GetByIdentifier(ctx, term.Identifier)
	if got.LiveStatus != model.LiveStatusAttempting {
		t.Errorf("empty heartbeat overwrote status: %s", got.LiveStatus)
	}

	if err := svc.Heartbeat(ctx, "term-missing", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Heartbeat(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestHeartbeatCannotLeaveFinished(t *testing.T) {
	svc, terminals, _, _, _ := newTestTerminalService(t)
	ctx := context.Background()

	term, _ := svc.Register(ctx, "PC 01", "")

	if err := svc.Heartbeat(ctx, term.Identifier, model.LiveStatusFinished); err != nil {
		t.Fatalf("Heartbeat(FINISHED) error = %v", err)
	}

	// A stale client reporting ONLINE after finishing must not reopen the
	// seat; only liveness is refreshed.
	if err := svc.Heartbeat(ctx, term.Identifier, model.LiveStatusOnline); err != nil {
		t.Fatalf("Heartbeat(ONLINE) error = %v", err)
	}
	got, _ := terminals.GetByIdentifier(ctx, term.Identifier)
	if got.LiveStatus != model.LiveStatusFinished {
		t.Errorf("stored LiveStatus = %s, want FINISHED", got.LiveStatus)
	}

	details, err := svc.GetStatus(ctx, term.Identifier)
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if details.LiveStatus != model.LiveStatusFinished {
		t.Errorf("derived LiveStatus = %s, want FINISHED", details.LiveStatus)
	}
}

func TestLiveBoard(t *testing.T) {
	svc, _, students, exams, _ := newTestTerminalService(t)
	ctx := context.Background()

	exam := &model.Exam{Title: "Midterm", Status: model.ExamStatusInProgress, StartTime: time.Now()}
	exams.Create(ctx, exam)
	student := &model.Student{Name: "Asha", RollNumber: "R-001", ClassBatch: "2026", AssignedExamID: &exam.ID}
	students.Create(ctx, student)

	seated, _ := svc.Register(ctx, "PC 01", "")
	svc.Approve(ctx, "admin", seated.ID)
	svc.AssignStudent(ctx, "admin", seated.ID, &student.ID)

	// An unseated terminal never appears on the board.
	svc.Register(ctx, "PC 02", "")

	rows, err := svc.LiveBoard(ctx)
	if err != nil {
		t.Fatalf("LiveBoard() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.StudentName != "Asha" || row.ExamTitle != "Midterm" {
		t.Errorf("row = %+v", row)
	}
	// Seat is READY-stored but the exam is in progress, so WAITING.
	if row.LiveStatus != model.LiveStatusWaiting {
		t.Errorf("LiveStatus = %s, want WAITING", row.LiveStatus)
	}
}
