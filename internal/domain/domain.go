package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFullAccess Role = "full_access"
	RoleReadOnly   Role = "read_only"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFullAccess, RoleReadOnly:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate the sample collection.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleFullAccess
}

type Permission string

const (
	PermManageUsers       Permission = "manage_users"
	PermViewUsers         Permission = "view_users"
	PermManageSamples     Permission = "manage_samples"
	PermViewSamples       Permission = "view_samples"
	PermManagePermissions Permission = "manage_permissions"
	PermViewLogs          Permission = "view_logs"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255)"`
	FullName     string `gorm:"column:full_name;type:varchar(200)"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index"`

	Permissions []Permission `gorm:"column:permissions;serializer:json"`

	IsActive    bool       `gorm:"column:is_active;default:true;index"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) HasPermission(p Permission) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

type AuditAction string

const (
	ActionUserLogin         AuditAction = "user_login"
	ActionUserLogout        AuditAction = "user_logout"
	ActionSampleCreated     AuditAction = "sample_created"
	ActionSampleUpdated     AuditAction = "sample_updated"
	ActionSampleDeleted     AuditAction = "sample_deleted"
	ActionSampleReceived    AuditAction = "sample_received"
	ActionPermissionUpdated AuditAction = "permission_updated"
)

// AuditLog is the append-only system log shown in the admin panel.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	UserID    uuid.UUID   `gorm:"column:user_id;type:uuid;index"`
	UserEmail string      `gorm:"column:user_email;type:varchar(255)"`
	Action    AuditAction `gorm:"column:action;type:varchar(30);not null;index"`

	// ResourceID holds the affected sample barcode or user id.
	ResourceID string `gorm:"column:resource_id;type:varchar(50);index"`
	Details    string `gorm:"column:details;type:text"`
	IPAddress  string `gorm:"column:ip_address;type:varchar(45)"`
}

func (AuditLog) TableName() string {
	return "system_logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}
