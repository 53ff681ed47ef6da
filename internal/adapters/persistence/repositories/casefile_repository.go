package repositories

import (
	"context"
	"errors"
	"time"

	"caseflow/internal/adapters/persistence/models"
	"caseflow/internal/core/domain"

	"gorm.io/gorm"
)

// processingStatuses are the states counted as "in flight" on the dashboard
var processingStatuses = []string{
	string(domain.StatusNew),
	string(domain.StatusInProgress),
	string(domain.StatusReceived),
	string(domain.StatusReturned),
}

var rejectedStatuses = []string{
	string(domain.StatusBoardRejected),
	string(domain.StatusCreditRejected),
}

// GormCaseFileRepository handles case-file data access
type GormCaseFileRepository struct {
	db *gorm.DB
}

// NewCaseFileRepository creates a new case-file repository
func NewCaseFileRepository(db *gorm.DB) *GormCaseFileRepository {
	return &GormCaseFileRepository{db: db}
}

// Create creates a new case file
func (r *GormCaseFileRepository) Create(ctx context.Context, cf *models.CaseFile) error {
	return r.db.WithContext(ctx).Create(cf).Error
}

// GetByID gets a case file by ID
func (r *GormCaseFileRepository) GetByID(ctx context.Context, id string) (*models.CaseFile, error) {
	var cf models.CaseFile
	err := r.db.WithContext(ctx).First(&cf, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cf, nil
}

// Update saves a case file guarded by its version. The row is written only
// when nobody has bumped the version since the caller loaded it; a lost race
// surfaces domain.ErrConflict.
func (r *GormCaseFileRepository) Update(ctx context.Context, cf *models.CaseFile) error {
	loadedVersion := cf.Version
	cf.Version = loadedVersion + 1

	res := r.db.WithContext(ctx).
		Model(&models.CaseFile{}).
		Where("id = ? AND version = ?", cf.ID, loadedVersion).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(cf)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&models.CaseFile{}).Where("id = ?", cf.ID).Count(&count)
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// Delete soft deletes a case file
func (r *GormCaseFileRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CaseFile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lists case files matching the filter, newest first, with pagination
func (r *GormCaseFileRepository) List(ctx context.Context, filter *CaseFileFilter, offset, limit int) ([]*models.CaseFile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CaseFile{})
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []*models.CaseFile
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&files).Error

	return files, total, err
}

func applyFilter(query *gorm.DB, filter *CaseFileFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AccountNo != "" {
		query = query.Where("account_no LIKE ?", "%"+filter.AccountNo+"%")
	}
	if filter.CustomerName != "" {
		query = query.Where("customer_name LIKE ?", "%"+filter.CustomerName+"%")
	}
	if filter.Manager != "" {
		query = query.Where("manager LIKE ?", "%"+filter.Manager+"%")
	}
	if filter.Department != "" {
		query = query.Where("department LIKE ?", "%"+filter.Department+"%")
	}
	if filter.DisbursedFrom != nil {
		query = query.Where("disbursed_at >= ?", *filter.DisbursedFrom)
	}
	if filter.DisbursedTo != nil {
		query = query.Where("disbursed_at <= ?", *filter.DisbursedTo)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"account_no LIKE ? OR customer_name LIKE ? OR manager LIKE ? OR department LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

// ListPendingReceipt lists handed-over case files credit admin has not accepted yet
func (r *GormCaseFileRepository) ListPendingReceipt(ctx context.Context) ([]*models.CaseFile, error) {
	var files []*models.CaseFile
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusInProgress)).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// ListStale lists case files sitting in one of the given statuses with no
// update since before. Used by the reminder job.
func (r *GormCaseFileRepository) ListStale(ctx context.Context, statuses []string, before time.Time) ([]*models.CaseFile, error) {
	var files []*models.CaseFile
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Where("updated_at < ?", before).
		Order("updated_at ASC").
		Find(&files).Error
	return files, err
}

// Stats returns the dashboard counters
func (r *GormCaseFileRepository) Stats(ctx context.Context) (*CaseFileStats, error) {
	stats := &CaseFileStats{}
	base := r.db.WithContext(ctx).Model(&models.CaseFile{})

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status IN ?", processingStatuses).Count(&stats.Processing).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", string(domain.StatusCompleted)).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status IN ?", rejectedStatuses).Count(&stats.Rejected).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
