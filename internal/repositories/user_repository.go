package repositories

import (
	"errors"
	"fmt"

	"github.com/tradevault/backend/internal/apperrors"
	"github.com/tradevault/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository resolves accounts to registered users. The full user CRUD
// lives in its own service; notifications only need lookups.
type UserRepository interface {
	GetByAccount(account string) (*models.User, error)
	GetByFirebaseUID(uid string) (*models.User, error)
}

type postgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a UserRepository backed by PostgreSQL.
func NewPostgresUserRepository(db *gorm.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) GetByAccount(account string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("account = ?", account).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", account, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByFirebaseUID(uid string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
