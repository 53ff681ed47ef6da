package repositories

import (
	"context"
	"time"

	"caseflow/internal/adapters/persistence/models"
)

// CaseFileFilter narrows List results. String fields are substring matches.
type CaseFileFilter struct {
	Status        string
	AccountNo     string
	CustomerName  string
	Manager       string
	Department    string
	Search        string
	DisbursedFrom *time.Time
	DisbursedTo   *time.Time
}

// CaseFileStats holds the dashboard counters
type CaseFileStats struct {
	Total      int64 `json:"total"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Rejected   int64 `json:"rejected"`
}

// CaseFileRepository defines case-file repository interface.
// Update is version-guarded: a lost write race surfaces domain.ErrConflict.
type CaseFileRepository interface {
	Create(ctx context.Context, cf *models.CaseFile) error
	GetByID(ctx context.Context, id string) (*models.CaseFile, error)
	Update(ctx context.Context, cf *models.CaseFile) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *CaseFileFilter, offset, limit int) ([]*models.CaseFile, int64, error)
	ListPendingReceipt(ctx context.Context) ([]*models.CaseFile, error)
	ListStale(ctx context.Context, statuses []string, before time.Time) ([]*models.CaseFile, error)
	Stats(ctx context.Context) (*CaseFileStats, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}
