package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	MaxFailedLoginAttempts = 3

	DefaultCurrency = "NGN"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\d{10,15}$`)
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName           string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName            string     `gorm:"type:varchar(100)" json:"last_name,omitempty"`
	Phone               string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Currency            string     `gorm:"type:varchar(3);not null;default:'NGN'" json:"currency"`
	Role                string     `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedAt            *time.Time `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time `gorm:"index" json:"last_login_at,omitempty"`

	// Password reset flow: only the SHA-256 hash of the emailed token is stored.
	ResetTokenHash    string     `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Transactions  []Transaction  `gorm:"foreignKey:UserID" json:"-"`
	Budgets       []Budget       `gorm:"foreignKey:UserID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if u.Currency == "" {
		u.Currency = DefaultCurrency
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Skip validation for map-based updates; only specific columns change there
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if u.FirstName == "" {
		return errors.New("first name is required")
	}

	if u.Phone != "" && !phoneRegex.MatchString(u.Phone) {
		return errors.New("invalid phone number format")
	}

	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", u.Role)
	}

	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
	u.FailedLoginAttempts = MaxFailedLoginAttempts
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

func (u *User) IncrementFailedAttempts() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		u.Lock()
	}
}

func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// SetResetToken stores the hash of a password-reset token with its expiry.
func (u *User) SetResetToken(tokenHash string, ttl time.Duration) {
	expires := time.Now().Add(ttl)
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpires = &expires
}

// ClearResetToken invalidates any outstanding password-reset token.
func (u *User) ClearResetToken() {
	u.ResetTokenHash = ""
	u.ResetTokenExpires = nil
}

// HasValidResetToken reports whether the given token hash matches a non-expired reset token.
func (u *User) HasValidResetToken(tokenHash string) bool {
	if u.ResetTokenHash == "" || u.ResetTokenExpires == nil {
		return false
	}
	return u.ResetTokenHash == tokenHash && time.Now().Before(*u.ResetTokenExpires)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) TableName() string {
	return "users"
}
