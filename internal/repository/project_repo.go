package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/christkomika7/atlas-crm-sub004/internal/model"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Project, int64, error)
	AdjustAggregates(ctx context.Context, id uuid.UUID, amountDelta, balanceDelta decimal.Decimal) error

	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Project{}).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).Preload("Tasks").Preload("Client").First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, companyID uuid.UUID, status string, page, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Project{}).Where("company_id = ?", companyID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Tasks").Preload("Client").Order("created_at desc").
		Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) AdjustAggregates(ctx context.Context, id uuid.UUID, amountDelta, balanceDelta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Project{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount":  gorm.Expr("amount + ?", amountDelta),
			"balance": gorm.Expr("balance + ?", balanceDelta),
		}).Error
}

func (r *projectRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *projectRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *projectRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Task{}).Error
}

func (r *projectRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := GetDB(ctx, r.db).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *projectRepository) ListTasks(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).
		Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
