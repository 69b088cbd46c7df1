package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleResident  Role = "resident"
	RoleAttending Role = "attending"
	RoleNurse     Role = "nurse"
	RoleAdmin     Role = "admin"
)

// Clinic enum - the three clinics the application serves.
type Clinic string

const (
	ClinicInternalMedicine Clinic = "internal-medicine"
	ClinicCardiology       Clinic = "cardiology"
	ClinicPsychiatry       Clinic = "psychiatry"
)

// User represents a clinician account in the system
type User struct {
	BaseModel
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string     `gorm:"size:100" json:"firstName"`
	LastName    string     `gorm:"size:100" json:"lastName"`
	Clinic      Clinic     `gorm:"size:50" json:"clinic"`
	Role        Role       `gorm:"size:20;default:'resident'" json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	// Preferences carried with the profile; zero values mean "use defaults".
	DefaultContext        string `gorm:"size:50" json:"defaultContext,omitempty"`
	SessionTimeoutMinutes int    `gorm:"default:15" json:"sessionTimeoutMinutes"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Patients      []Patient      `gorm:"foreignKey:OwnerID" json:"-"`
	Notes         []Note         `gorm:"foreignKey:OwnerID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Clinic                Clinic     `json:"clinic"`
	Role                  Role       `json:"role"`
	LastLoginAt           *time.Time `json:"lastLoginAt,omitempty"`
	DefaultContext        string     `json:"defaultContext,omitempty"`
	SessionTimeoutMinutes int        `json:"sessionTimeoutMinutes"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:                    u.ID,
		Email:                 u.Email,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Clinic:                u.Clinic,
		Role:                  u.Role,
		LastLoginAt:           u.LastLoginAt,
		DefaultContext:        u.DefaultContext,
		SessionTimeoutMinutes: u.SessionTimeoutMinutes,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}
