package service

import (
	"context"
	"sort"
	"time"

	"task_manager/internal/events"
	"task_manager/internal/models"
	"task_manager/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepo.
type fakeUserRepo struct {
	byID  map[string]models.User
	order []string
	err   error
	calls int
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[string]models.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
		r.order = append(r.order, u.ID)
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = models.NewID()
	}
	r.byID[u.ID] = *u
	r.order = append(r.order, u.ID)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(context.Context) ([]models.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// fakeTaskRepo is an in-memory repository.TaskRepo.
type fakeTaskRepo struct {
	byID    map[string]models.Task
	seq     map[string]int
	next    int
	err     error
	calls   int
	filters []repository.TaskFilter
}

func newFakeTaskRepo(tasks ...models.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{byID: map[string]models.Task{}, seq: map[string]int{}}
	for _, t := range tasks {
		r.put(t)
	}
	return r
}

func (r *fakeTaskRepo) put(t models.Task) {
	if _, ok := r.seq[t.ID]; !ok {
		r.next++
		r.seq[t.ID] = r.next
	}
	r.byID[t.ID] = t
}

func (r *fakeTaskRepo) Create(_ context.Context, t *models.Task) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	if t.ID == "" {
		t.ID = models.NewID()
	}
	r.put(*t)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*models.Task, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTaskRepo) Replace(_ context.Context, t *models.Task) (bool, error) {
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.byID[t.ID]; !ok {
		return false, nil
	}
	r.byID[t.ID] = *t
	return true, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) (bool, error) {
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *fakeTaskRepo) List(_ context.Context, f repository.TaskFilter) ([]models.Task, error) {
	r.calls++
	r.filters = append(r.filters, f)
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Task{}
	for _, t := range r.byID {
		if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
			continue
		}
		if f.CreatedBy != "" && t.CreatedBy != f.CreatedBy {
			continue
		}
		if !f.DueBefore.IsZero() && !t.DueDate.Before(f.DueBefore) {
			continue
		}
		if f.ExcludeStatus != "" && t.Status == f.ExcludeStatus {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []events.TaskEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.TaskEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
