package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/task-manager-api/internal/models"
	"github.com/taskhive/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

// TaskService handles task business logic. All reads and mutations are
// scoped to the acting user; a task owned by someone else behaves as if
// it does not exist.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	EndDate     time.Time
	OwnerID     uint64
}

// UpdateTaskInput represents a partial task patch.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	EndDate     *time.Time
	Status      *models.TaskStatus
}

// CreateTask persists a task tied to its owner, defaulting priority to
// Low and status to Pending.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityLow
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		EndDate:     input.EndDate,
		Status:      models.TaskStatusPending,
		UserID:      input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns all tasks owned by a user.
func (s *TaskService) ListTasks(ownerID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the actor.
func (s *TaskService) GetTask(taskID, actorID uint64) (*models.Task, error) {
	return s.findOwnedTask(taskID, actorID)
}

// UpdateTask applies a partial patch to a task owned by the actor and
// returns the updated record.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwnedTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.EndDate != nil {
		task.EndDate = *input.EndDate
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by the actor.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.findOwnedTask(taskID, actorID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findOwnedTask answers not-found for foreign tasks as well, so task ids
// cannot be enumerated by other authenticated users.
func (s *TaskService) findOwnedTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != actorID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}
