package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/logging"
	"github.com/annagruz/taskvault/internal/server/models"
	"github.com/annagruz/taskvault/internal/server/repositories/repomanager"
	"github.com/annagruz/taskvault/internal/server/repositories/tasks"
)

// taskUpdatable is the allow-list of task fields a caller may change.
var taskUpdatable = map[string]struct{}{
	"description": {}, "completed": {},
}

// TaskService implements owner-scoped task CRUD. Every operation takes the
// authenticated account's ID and can only ever see that account's tasks; a
// task owned by someone else is indistinguishable from a missing one.
type TaskService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewTaskService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{db: db, repos: repos, logger: logger.With("component", "tasks")}
}

// Create persists a new task owned by ownerID.
func (s *TaskService) Create(ctx context.Context, ownerID, description string, completed bool) (*models.Task, error) {
	if description == "" {
		return nil, common.NewValidationError("description", "must not be empty")
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Description: description,
		Completed:   completed,
	}

	task, err := s.repos.Tasks(s.db).Create(ctx, task)
	if err != nil {
		s.logger.Error(ctx, "creating task", "err", err)
		return nil, common.ErrInternal
	}
	return task, nil
}

// Get returns the task only when ownerID owns it.
func (s *TaskService) Get(ctx context.Context, ownerID, id string) (*models.Task, error) {
	task, err := s.repos.Tasks(s.db).GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "loading task", "err", err)
		return nil, common.ErrInternal
	}
	return task, nil
}

// List returns the owner's tasks filtered, sorted and paginated per opts.
func (s *TaskService) List(ctx context.Context, ownerID string, opts tasks.ListOptions) ([]*models.Task, error) {
	list, err := s.repos.Tasks(s.db).ListByOwner(ctx, ownerID, opts)
	if err != nil {
		var verr *common.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		s.logger.Error(ctx, "listing tasks", "err", err)
		return nil, common.ErrInternal
	}
	return list, nil
}

// Update applies an allow-listed field delta to the task. An unknown field
// name fails the whole update before anything is loaded or written.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, fields map[string]any) (*models.Task, error) {
	for name := range fields {
		if _, ok := taskUpdatable[name]; !ok {
			return nil, common.ErrInvalidUpdate
		}
	}

	repo := s.repos.Tasks(s.db)
	task, err := repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "loading task for update", "err", err)
		return nil, common.ErrInternal
	}

	if v, ok := fields["description"]; ok {
		description, ok := v.(string)
		if !ok || description == "" {
			return nil, common.NewValidationError("description", "must be a non-empty string")
		}
		task.Description = description
	}

	if v, ok := fields["completed"]; ok {
		completed, ok := v.(bool)
		if !ok {
			return nil, common.NewValidationError("completed", "must be a boolean")
		}
		task.Completed = completed
	}

	if err := repo.Update(ctx, task); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "updating task", "err", err)
		return nil, common.ErrInternal
	}
	return task, nil
}

// Delete removes the task when ownerID owns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Tasks(s.db).Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "deleting task", "err", err)
		return common.ErrInternal
	}
	return nil
}
