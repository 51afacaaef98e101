package repositories

import (
	"ClinicCore/cache"
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const MembershipCacheExpiry = 1 * time.Hour

// MembershipCacheKey is shared with the doctor/staff repositories, which
// must drop cached memberships when they soft-delete or restore one.
func MembershipCacheKey(userID, tenantID int64) string {
	return fmt.Sprintf("membership_cache:%d:%d", userID, tenantID)
}

// MembershipRepository reads UserTenant rows, the single source of truth
// for per-tenant authorization.
type MembershipRepository interface {
	Get(ctx context.Context, userID, tenantID int64) (*models.UserTenant, error)
	ListActiveForUser(ctx context.Context, userID int64) ([]models.UserTenant, error)
}

type membershipRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewMembershipRepository(db *gorm.DB, cache *cache.Cache) MembershipRepository {
	return &membershipRepository{db: db, cache: cache}
}

// Get returns the unique active membership for (userID, tenantID), or nil
// when none exists or it is soft-deleted.
func (r *membershipRepository) Get(ctx context.Context, userID, tenantID int64) (*models.UserTenant, error) {
	cacheKey := MembershipCacheKey(userID, tenantID)
	var cached models.UserTenant
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get membership from cache: %v", err)
	}

	var membership models.UserTenant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, membership, MembershipCacheExpiry); err != nil {
		log.Printf("Failed to set membership in cache: %v", err)
	}

	return &membership, nil
}

// ListActiveForUser returns all active memberships with their tenants
// preloaded, for login disambiguation.
func (r *membershipRepository) ListActiveForUser(ctx context.Context, userID int64) ([]models.UserTenant, error) {
	var memberships []models.UserTenant
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
