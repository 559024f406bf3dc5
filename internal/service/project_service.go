package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
)

// --- DTOs ---

type ProjectRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	ClientID  string `json:"client_id"`
	Name      string `json:"name" binding:"required"`
	Status    string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS BLOCKED DONE"`
	Deadline  string `json:"deadline"` // YYYY-MM-DD
}

type TaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS BLOCKED DONE"`
	AssigneeID  string `json:"assignee_id"`
	DueDate     string `json:"due_date"`
}

// --- Interface ---

type ProjectService interface {
	Create(ctx context.Context, req ProjectRequest) (*model.Project, error)
	Update(ctx context.Context, id string, req ProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, companyID, status string, page, limit int) ([]model.Project, int64, error)

	CreateTask(ctx context.Context, projectID string, req TaskRequest) (*model.Task, error)
	UpdateTask(ctx context.Context, taskID string, req TaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
}

func NewProjectService(projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, clientRepo: clientRepo}
}

// --- Implementation ---

func (s *projectService) Create(ctx context.Context, req ProjectRequest) (*model.Project, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	project := &model.Project{
		CompanyID: companyID,
		Name:      req.Name,
		Status:    orDefault(req.Status, model.ProjectStatusTodo),
	}

	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id: %w", err)
		}
		if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("client: %w", ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load client: %w", err)
		}
		project.ClientID = &clientID
	}

	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %w", err)
		}
		project.Deadline = &deadline
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id string, req ProjectRequest) (*model.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	// Amount and Balance are aggregates maintained by documents and
	// settlements; requests never touch them.
	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %w", err)
		}
		project.Deadline = &deadline
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client_id: %w", err)
		}
		project.ClientID = &clientID
	}

	project.Tasks = nil
	project.Client = nil
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.projectRepo.FindByID(ctx, projectID)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load project: %w", err)
	}
	return s.projectRepo.Delete(ctx, projectID)
}

func (s *projectService) Get(ctx context.Context, id string) (*model.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, companyID, status string, page, limit int) ([]model.Project, int64, error) {
	parsed, err := uuid.Parse(companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid company_id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.projectRepo.List(ctx, parsed, status, page, limit)
}

// --- Tasks ---

func (s *projectService) CreateTask(ctx context.Context, projectID string, req TaskRequest) (*model.Task, error) {
	parsed, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}
	if _, err := s.projectRepo.FindByID(ctx, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	task := &model.Task{
		ProjectID:   parsed,
		Name:        req.Name,
		Description: req.Description,
		Status:      orDefault(req.Status, model.ProjectStatusTodo),
	}
	if err := applyTaskOptions(task, req); err != nil {
		return nil, err
	}

	if err := s.projectRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *projectService) UpdateTask(ctx context.Context, taskID string, req TaskRequest) (*model.Task, error) {
	parsed, err := uuid.Parse(taskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}

	task, err := s.projectRepo.FindTaskByID(ctx, parsed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if req.Name != "" {
		task.Name = req.Name
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if err := applyTaskOptions(task, req); err != nil {
		return nil, err
	}

	if err := s.projectRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *projectService) DeleteTask(ctx context.Context, taskID string) error {
	parsed, err := uuid.Parse(taskID)
	if err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}
	if _, err := s.projectRepo.FindTaskByID(ctx, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("task: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load task: %w", err)
	}
	return s.projectRepo.DeleteTask(ctx, parsed)
}

func (s *projectService) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	parsed, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}
	return s.projectRepo.ListTasks(ctx, parsed)
}

func applyTaskOptions(task *model.Task, req TaskRequest) error {
	if req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			return fmt.Errorf("invalid assignee_id: %w", err)
		}
		task.AssigneeID = &assigneeID
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return fmt.Errorf("invalid due_date: %w", err)
		}
		task.DueDate = &due
	}
	return nil
}
