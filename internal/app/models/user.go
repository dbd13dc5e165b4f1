package models

import (
	"strings"
	"time"

	"github.com/yigit/volunteerhub/internal/domain/ranking"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
	"github.com/yigit/volunteerhub/internal/pkg/validation"
)

// MinManagerAge is the youngest a manager may be
const MinManagerAge = 18

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"volunteer@example.org"`
	Password    string     `json:"-" db:"password"`
	FirstName   string     `json:"firstName" db:"first_name" example:"Asha"`
	LastName    string     `json:"lastName" db:"last_name" example:"Rao"`
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"VOLUNTEER"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last", falling back to the email when both are empty
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// VolunteerProfile defines the 'volunteer_profiles' table
type VolunteerProfile struct {
	UserID             int64      `json:"userId" db:"user_id"`
	Age                int        `json:"age" db:"age"`
	Profession         string     `json:"profession" db:"profession"`
	Gender             string     `json:"gender" db:"gender"`
	Interests          []string   `json:"interests" db:"interests"`
	Pincode            string     `json:"pincode" db:"pincode"`
	Address            string     `json:"address" db:"address"`
	Latitude           *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude          *float64   `json:"longitude,omitempty" db:"longitude"`
	LastLocationUpdate *time.Time `json:"lastLocationUpdate,omitempty" db:"last_location_update"`
	User               *User      `json:"user,omitempty"` // Relation, no db tag
}

// Location returns the stored location, nil when unknown
func (v *VolunteerProfile) Location() *geo.Point {
	return geo.NewPoint(v.Latitude, v.Longitude)
}

// SetLocation rounds and stores p
func (v *VolunteerProfile) SetLocation(p geo.Point, at time.Time) {
	p = p.Rounded()
	v.Latitude = &p.Lat
	v.Longitude = &p.Lon
	v.LastLocationUpdate = &at
}

// Normalize cleans the profile before it is saved
func (v *VolunteerProfile) Normalize() {
	v.Interests = ranking.NormalizeInterests(v.Interests)
	v.Profession = strings.TrimSpace(v.Profession)
	v.Pincode = strings.TrimSpace(v.Pincode)
	v.Address = strings.TrimSpace(v.Address)
}

// Validate checks the profile fields
func (v *VolunteerProfile) Validate() error {
	if v.Age < 1 || v.Age > 120 {
		return apperrors.NewValidationError("age", "age must be between 1 and 120")
	}
	if p := v.Location(); p != nil {
		return p.Validate()
	}
	return nil
}

// ManagerProfile defines the 'manager_profiles' table
type ManagerProfile struct {
	UserID           int64  `json:"userId" db:"user_id"`
	OrganizationName string `json:"organizationName" db:"organization_name"`
	PhoneNumber      string `json:"phoneNumber" db:"phone_number"`
	Age              int    `json:"age" db:"age"`
	User             *User  `json:"user,omitempty"` // Relation, no db tag
}

// Validate checks the phone format and the minimum age
func (m *ManagerProfile) Validate() error {
	if !validation.IsValidPhone(m.PhoneNumber) {
		return apperrors.NewValidationError("phoneNumber", "phone number must be entered in the format '+999999999', up to 15 digits")
	}
	if m.Age < MinManagerAge {
		return apperrors.NewValidationError("age", "managers must be at least 18 years old")
	}
	if strings.TrimSpace(m.OrganizationName) == "" {
		return apperrors.NewValidationError("organizationName", "organization name is required")
	}
	return nil
}
