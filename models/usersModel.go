package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold within a tenant. The membership row is the single
// source of truth for authorization; User.Role is only a display default.
const (
	RoleAdmin  = "ADMIN"
	RoleDoctor = "DOCTOR"
	RoleStaff  = "STAFF"
	RoleNurse  = "NURSE"
)

// User represents an identity in the system. Email is unique process-wide;
// one User row can hold memberships in several tenants.
type User struct {
	ID        int64          `gorm:"primaryKey;column:id" json:"id"`
	Email     string         `gorm:"size:255;not null;uniqueIndex;column:email" json:"email"`
	Password  string         `gorm:"size:255;not null;column:password" json:"-"`
	Name      string         `gorm:"size:100;not null;column:name" json:"name"`
	Role      string         `gorm:"size:20;not null;column:role" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Tenant is a clinic. Code is a unique human-readable handle used for login
// disambiguation and patient-number generation.
type Tenant struct {
	ID        int64          `gorm:"primaryKey;column:id" json:"id"`
	Name      string         `gorm:"size:100;not null;column:name" json:"name"`
	Code      string         `gorm:"size:10;not null;uniqueIndex;column:code" json:"code"`
	Address   string         `gorm:"size:255;column:address" json:"address"`
	Phone     string         `gorm:"size:30;column:phone" json:"phone"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// UserTenant links a user to a tenant with a role scoped to that tenant.
// The (user_id, tenant_id) pair is unique.
type UserTenant struct {
	ID        int64          `gorm:"primaryKey;column:id" json:"id"`
	UserID    int64          `gorm:"not null;uniqueIndex:idx_user_tenant;column:user_id" json:"user_id"`
	TenantID  int64          `gorm:"not null;uniqueIndex:idx_user_tenant;column:tenant_id" json:"tenant_id"`
	Role      string         `gorm:"size:20;not null;column:role" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
	User      User           `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Tenant    Tenant         `gorm:"foreignKey:TenantID;references:ID" json:"tenant,omitempty"`
}

func (UserTenant) TableName() string {
	return "user_tenants"
}
