package repositories

import (
	"ClinicCore/cache"
	"ClinicCore/database"
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const UserCacheExpiry = 7 * 24 * time.Hour

// UserCacheKey is shared with the doctor/staff repositories, which must drop
// the cached user when they soft-delete or restore one.
func UserCacheKey(userID int64) string {
	return fmt.Sprintf("user_cache:%d", userID)
}

// UserRepository owns identity rows and the atomic onboarding write.
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	CreateSignup(ctx context.Context, user *models.User, tenant *models.Tenant, membership *models.UserTenant) error
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetByEmail returns the user including the password digest, for credential
// verification. Returns nil when no active user matches.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	cacheKey := UserCacheKey(userID)
	var cached models.User
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, user, UserCacheExpiry); err != nil {
		log.Printf("Failed to set user in cache: %v", err)
	}

	return &user, nil
}

// CreateSignup creates the user, the tenant, and the admin membership in a
// single transaction so no partial onboarding state is ever observable. A
// distributed lock on the email serializes concurrent signups; unique-index
// violations surface as gorm.ErrDuplicatedKey for the service to classify.
func (r *userRepository) CreateSignup(ctx context.Context, user *models.User, tenant *models.Tenant, membership *models.UserTenant) error {
	lockKey := fmt.Sprintf("signup_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		membership.UserID = user.ID
		membership.TenantID = tenant.ID
		return tx.Create(membership).Error
	})
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("password", hashedPassword).Error
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return r.cache.Delete(ctx, UserCacheKey(userID))
}
