package service

import (
	"context"
	"strings"
	"time"

	"task_manager/internal/events"
	"task_manager/internal/logger"
	"task_manager/internal/models"
	"task_manager/internal/repository"
)

type TaskService struct {
	tasks     repository.TaskRepo
	users     repository.UserRepo
	publisher events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewTaskService(tasks repository.TaskRepo, users repository.UserRepo, publisher events.Publisher, log *logger.Logger) *TaskService {
	return &TaskService{
		tasks:     tasks,
		users:     users,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

var _ Tasks = (*TaskService)(nil)

// normalizeTaskInput trims every text field and lower-cases the priority.
func normalizeTaskInput(in TaskInput) TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.Status = strings.TrimSpace(in.Status)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	return in
}

func missingTaskFields(in TaskInput) []string {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.DueDate.IsZero() {
		missing = append(missing, "dueDate")
	}
	if in.Priority == "" {
		missing = append(missing, "priority")
	}
	if in.Status == "" {
		missing = append(missing, "status")
	}
	if in.AssignedTo == "" {
		missing = append(missing, "assignedTo")
	}
	if in.CreatedBy == "" {
		missing = append(missing, "createdBy")
	}
	return missing
}

func validPriority(p string) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// validateTaskInput checks a full task record and resolves its creator.
func (s *TaskService) validateTaskInput(ctx context.Context, in TaskInput) (TaskInput, *models.User, error) {
	in = normalizeTaskInput(in)
	if missing := missingTaskFields(in); len(missing) > 0 {
		return in, nil, validationError("All fields are required: %s", strings.Join(missing, ", "))
	}
	if !validPriority(in.Priority) {
		return in, nil, validationError("Priority must be one of: low, medium, high")
	}
	if !models.IsValidID(in.CreatedBy) {
		return in, nil, validationError("Invalid creator user ID format")
	}
	creator, err := s.users.GetByID(ctx, in.CreatedBy)
	if err != nil {
		return in, nil, err
	}
	if creator == nil {
		return in, nil, validationError("Creator user does not exist")
	}
	return in, creator, nil
}

func applyTaskInput(t *models.Task, in TaskInput) {
	t.Title = in.Title
	t.Description = in.Description
	t.DueDate = in.DueDate.UTC()
	t.Priority = in.Priority
	t.Status = in.Status
	t.AssignedTo = in.AssignedTo
	t.CreatedBy = in.CreatedBy
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (models.TaskView, error) {
	in, creator, err := s.validateTaskInput(ctx, in)
	if err != nil {
		return models.TaskView{}, err
	}

	now := s.now().UTC()
	t := models.Task{CreatedAt: now, UpdatedAt: now}
	applyTaskInput(&t, in)
	if err := s.tasks.Create(ctx, &t); err != nil {
		return models.TaskView{}, err
	}

	s.publish(ctx, events.TaskCreated, t.ID, &t)
	summary := creator.Summary()
	return t.View(&summary), nil
}

func (s *TaskService) List(ctx context.Context) ([]models.TaskView, error) {
	tasks, err := s.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	creators, err := s.creators(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return views(tasks, creators), nil
}

func (s *TaskService) Get(ctx context.Context, id string) (models.TaskView, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	creators, err := s.creators(ctx, []models.Task{*t})
	if err != nil {
		return models.TaskView{}, err
	}
	return t.View(creators[t.CreatedBy]), nil
}

// Update replaces every client-supplied field of an existing task.
// The task must exist before the new record is validated.
func (s *TaskService) Update(ctx context.Context, id string, in TaskInput) (models.TaskView, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return models.TaskView{}, err
	}
	in, creator, err := s.validateTaskInput(ctx, in)
	if err != nil {
		return models.TaskView{}, err
	}

	applyTaskInput(t, in)
	t.UpdatedAt = s.now().UTC()
	ok, err := s.tasks.Replace(ctx, t)
	if err != nil {
		return models.TaskView{}, err
	}
	if !ok {
		return models.TaskView{}, ErrTaskNotFound
	}

	s.publish(ctx, events.TaskUpdated, t.ID, t)
	summary := creator.Summary()
	return t.View(&summary), nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if !models.IsValidID(id) {
		return ErrTaskNotFound
	}
	ok, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}
	s.publish(ctx, events.TaskDeleted, id, nil)
	return nil
}

// Dashboard returns the tasks assigned to, created by and overdue for userID.
// Only the user themself may read it.
func (s *TaskService) Dashboard(ctx context.Context, callerID, userID string) (models.Dashboard, error) {
	if callerID != userID {
		return models.Dashboard{}, ErrDashboardForbidden
	}
	if !models.IsValidID(userID) {
		return models.Dashboard{}, validationError("Invalid user ID")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.Dashboard{}, err
	}
	if u == nil {
		return models.Dashboard{}, ErrUserNotFound
	}

	assigned, err := s.tasks.List(ctx, repository.TaskFilter{AssignedTo: u.Username})
	if err != nil {
		return models.Dashboard{}, err
	}
	created, err := s.tasks.List(ctx, repository.TaskFilter{CreatedBy: u.ID})
	if err != nil {
		return models.Dashboard{}, err
	}
	overdue, err := s.tasks.List(ctx, repository.TaskFilter{
		AssignedTo:    u.Username,
		DueBefore:     s.now(),
		ExcludeStatus: models.StatusDone,
	})
	if err != nil {
		return models.Dashboard{}, err
	}

	all := make([]models.Task, 0, len(assigned)+len(created)+len(overdue))
	all = append(append(append(all, assigned...), created...), overdue...)
	creators, err := s.creators(ctx, all)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		AssignedTasks: views(assigned, creators),
		CreatedTasks:  views(created, creators),
		OverdueTasks:  views(overdue, creators),
	}, nil
}

func (s *TaskService) find(ctx context.Context, id string) (*models.Task, error) {
	if !models.IsValidID(id) {
		return nil, ErrTaskNotFound
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// creators loads the creators of tasks with a single batched lookup.
func (s *TaskService) creators(ctx context.Context, tasks []models.Task) (map[string]*models.UserSummary, error) {
	out := make(map[string]*models.UserSummary)
	if len(tasks) == 0 {
		return out, nil
	}
	seen := make(map[string]struct{}, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.CreatedBy]; ok {
			continue
		}
		seen[t.CreatedBy] = struct{}{}
		ids = append(ids, t.CreatedBy)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		summary := u.Summary()
		out[u.ID] = &summary
	}
	return out, nil
}

func views(tasks []models.Task, creators map[string]*models.UserSummary) []models.TaskView {
	out := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.View(creators[t.CreatedBy]))
	}
	return out
}

// publish announces a completed write. Failures are logged and never
// reach the caller.
func (s *TaskService) publish(ctx context.Context, typ, taskID string, t *models.Task) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewTaskEvent(typ, taskID, t, s.now())); err != nil {
		if s.log != nil {
			s.log.Warnw("task_event_publish_failed", "type", typ, "task_id", taskID, "error", err)
		}
	}
}
