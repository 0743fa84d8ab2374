package service

import (
	"context"
	"sync"
	"time"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory stand-ins for the pgx repositories. They mirror the guarded
// update semantics the real SQL enforces so the services can be tested
// without a database.

type fakeTerminalStore struct {
	mu        sync.Mutex
	terminals map[uuid.UUID]*model.Terminal
	students  *fakeStudentStore
	exams     *fakeExamStore
}

func newFakeTerminalStore() *fakeTerminalStore {
	return &fakeTerminalStore{terminals: make(map[uuid.UUID]*model.Terminal)}
}

func (f *fakeTerminalStore) GetByID(_ context.Context, id uuid.UUID) (*model.Terminal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.terminals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTerminalStore) GetByIdentifier(_ context.Context, identifier string) (*model.Terminal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.Identifier == identifier {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTerminalStore) List(_ context.Context) ([]model.Terminal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Terminal, 0, len(f.terminals))
	for _, t := range f.terminals {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTerminalStore) Create(_ context.Context, t *model.Terminal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = uuid.New()
	now := time.Now()
	t.LastSeen = now
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	f.terminals[t.ID] = &cp
	return nil
}

func (f *fakeTerminalStore) UpdateStatusIf(_ context.Context, id uuid.UUID, to model.TerminalStatus, from []model.TerminalStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.terminals[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if t.Status == s {
			t.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTerminalStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.terminals, id)
	return nil
}

func (f *fakeTerminalStore) Assign(_ context.Context, terminalID, studentID uuid.UUID, examID *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.terminals {
		if id != terminalID && t.AssignedStudentID != nil && *t.AssignedStudentID == studentID {
			return false, repository.ErrStudentSeated
		}
	}
	t, ok := f.terminals[terminalID]
	if !ok || t.Status != model.TerminalStatusApproved {
		return false, nil
	}
	sid := studentID
	t.AssignedStudentID = &sid
	t.AssignedExamID = examID
	t.LiveStatus = model.LiveStatusReady
	t.LastSeen = time.Now()
	return true, nil
}

func (f *fakeTerminalStore) Unassign(_ context.Context, terminalID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.terminals[terminalID]
	if !ok {
		return false, nil
	}
	t.AssignedStudentID = nil
	t.AssignedExamID = nil
	t.LiveStatus = model.LiveStatusOnline
	return true, nil
}

func (f *fakeTerminalStore) RecordHeartbeat(_ context.Context, identifier string, reported model.LiveStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.Identifier == identifier {
			if reported != "" && t.LiveStatus != model.LiveStatusFinished {
				t.LiveStatus = reported
			}
			t.LastSeen = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTerminalStore) TouchLastSeen(_ context.Context, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.Identifier == identifier {
			t.LastSeen = time.Now()
		}
	}
	return nil
}

func (f *fakeTerminalStore) FinishByStudent(_ context.Context, studentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.AssignedStudentID != nil && *t.AssignedStudentID == studentID {
			t.LiveStatus = model.LiveStatusFinished
		}
	}
	return nil
}

func (f *fakeTerminalStore) UnassignByStudent(_ context.Context, studentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.AssignedStudentID != nil && *t.AssignedStudentID == studentID {
			t.AssignedStudentID = nil
			t.AssignedExamID = nil
			t.LiveStatus = model.LiveStatusOnline
		}
	}
	return nil
}

func (f *fakeTerminalStore) SyncAssignedExam(_ context.Context, studentID uuid.UUID, examID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.terminals {
		if t.AssignedStudentID != nil && *t.AssignedStudentID == studentID {
			t.AssignedExamID = examID
		}
	}
	return nil
}

func (f *fakeTerminalStore) ListAssigned(_ context.Context) ([]repository.LiveBoardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []repository.LiveBoardEntry
	for _, t := range f.terminals {
		if t.AssignedStudentID == nil {
			continue
		}
		e := repository.LiveBoardEntry{
			TerminalID:   t.ID,
			TerminalName: t.Name,
			StoredLive:   t.LiveStatus,
			LastSeen:     t.LastSeen,
		}
		if f.students != nil {
			if s, ok := f.students.students[*t.AssignedStudentID]; ok {
				e.StudentName = s.Name
				e.StudentRoll = s.RollNumber
			}
		}
		if t.AssignedExamID != nil && f.exams != nil {
			if ex, ok := f.exams.exams[*t.AssignedExamID]; ok {
				title := ex.Title
				status := ex.Status
				e.ExamTitle = &title
				e.ExamStatus = &status
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type fakeStudentStore struct {
	mu       sync.Mutex
	students map[uuid.UUID]*model.Student
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[uuid.UUID]*model.Student)}
}

func (f *fakeStudentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) ListPaginated(_ context.Context, limit, offset int) ([]model.Student, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeStudentStore) Create(_ context.Context, s *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if existing.RollNumber == s.RollNumber {
			return repository.ErrDuplicateRollNumber
		}
	}
	s.ID = uuid.New()
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentStore) Update(_ context.Context, s *model.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.students {
		if id != s.ID && existing.RollNumber == s.RollNumber {
			return repository.ErrDuplicateRollNumber
		}
	}
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.students, id)
	return nil
}

type fakeExamStore struct {
	mu    sync.Mutex
	exams map[uuid.UUID]*model.Exam
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)}
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	cp.QuestionIDs = append([]uuid.UUID(nil), e.QuestionIDs...)
	return &cp, nil
}

func (f *fakeExamStore) ListPaginated(_ context.Context, status *model.ExamStatus, limit, offset int) ([]model.Exam, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Exam
	for _, e := range f.exams {
		if status != nil && e.Status != *status {
			continue
		}
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeExamStore) Create(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = uuid.New()
	if e.QuestionIDs == nil {
		e.QuestionIDs = []uuid.UUID{}
	}
	cp := *e
	f.exams[e.ID] = &cp
	return nil
}

func (f *fakeExamStore) UpdateDetails(_ context.Context, e *model.Exam) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.exams[e.ID]
	if !ok || existing.Status == model.ExamStatusCompleted {
		return false, nil
	}
	existing.Title = e.Title
	existing.Description = e.Description
	existing.StartTime = e.StartTime
	existing.DurationMinutes = e.DurationMinutes
	existing.NumberOfQuestions = e.NumberOfQuestions
	return true, nil
}

func (f *fakeExamStore) Start(_ context.Context, id uuid.UUID, questionIDs []uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok || e.Status != model.ExamStatusScheduled {
		return false, nil
	}
	e.Status = model.ExamStatusInProgress
	e.StartTime = time.Now()
	e.QuestionIDs = append([]uuid.UUID(nil), questionIDs...)
	return true, nil
}

func (f *fakeExamStore) End(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok || e.Status == model.ExamStatusCompleted {
		return false, nil
	}
	e.Status = model.ExamStatusCompleted
	return true, nil
}

func (f *fakeExamStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.exams, id)
	return nil
}

func (f *fakeExamStore) EndOverdue(_ context.Context, grace time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ended int64
	now := time.Now()
	for _, e := range f.exams {
		if e.Status != model.ExamStatusInProgress {
			continue
		}
		deadline := e.StartTime.Add(time.Duration(e.DurationMinutes)*time.Minute + grace)
		if deadline.Before(now) {
			e.Status = model.ExamStatusCompleted
			ended++
		}
	}
	return ended, nil
}

type fakeQuestionStore struct {
	mu        sync.Mutex
	questions map[uuid.UUID]*model.Question
	order     []uuid.UUID
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{questions: make(map[uuid.UUID]*model.Question)}
}

func (f *fakeQuestionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionStore) ListPaginated(_ context.Context, limit, offset int) ([]model.Question, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Question, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.questions[id])
	}
	return out, len(out), nil
}

func (f *fakeQuestionStore) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.order...), nil
}

func (f *fakeQuestionStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	q.ID = uuid.New()
	cp := *q
	f.questions[q.ID] = &cp
	f.order = append(f.order, q.ID)
	return nil
}

func (f *fakeQuestionStore) Update(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.questions, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type resultKey struct {
	studentID uuid.UUID
	examID    uuid.UUID
}

type fakeResultStore struct {
	mu      sync.Mutex
	results map[resultKey]*model.ExamResult
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: make(map[resultKey]*model.ExamResult)}
}

func (f *fakeResultStore) Insert(_ context.Context, res *model.ExamResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := resultKey{res.StudentID, res.ExamID}
	if _, exists := f.results[key]; exists {
		return repository.ErrDuplicateResult
	}
	res.ID = uuid.New()
	res.CompletedAt = time.Now()
	cp := *res
	f.results[key] = &cp
	return nil
}

func (f *fakeResultStore) Exists(_ context.Context, studentID, examID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.results[resultKey{studentID, examID}]
	return ok, nil
}

func (f *fakeResultStore) ListPaginated(_ context.Context, limit, offset int) ([]model.ExamResult, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ExamResult, 0, len(f.results))
	for _, r := range f.results {
		out = append(out, *r)
	}
	return out, len(out), nil
}

type fakeAdminStore struct {
	mu     sync.Mutex
	nextID int
	admins map[int]*model.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[int]*model.Admin)}
}

func (f *fakeAdminStore) GetByID(_ context.Context, id int) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdminStore) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminStore) List(_ context.Context) ([]model.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdminStore) Create(_ context.Context, a *model.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.admins {
		if existing.Username == a.Username {
			return repository.ErrDuplicateUsername
		}
	}
	f.nextID++
	a.ID = f.nextID
	cp := *a
	f.admins[a.ID] = &cp
	return nil
}

func (f *fakeAdminStore) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.admins, id)
	return nil
}

func (f *fakeAdminStore) CountSuperadmins(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, a := range f.admins {
		if a.Role == model.RoleSuperadmin {
			count++
		}
	}
	return count, nil
}
