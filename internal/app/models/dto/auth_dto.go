package dto

import "github.com/yigit/volunteerhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterVolunteerRequest is the volunteer signup form
type RegisterVolunteerRequest struct {
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=8"`
	FirstName  string   `json:"firstName" binding:"required,max=100"`
	LastName   string   `json:"lastName" binding:"required,max=100"`
	Age        int      `json:"age" binding:"required,min=1,max=120"`
	Profession string   `json:"profession" binding:"max=100"`
	Gender     string   `json:"gender" binding:"omitempty,oneof=male female other"`
	Interests  []string `json:"interests" example:"health,youth"`
	Pincode    string   `json:"pincode" binding:"max=10"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// RegisterManagerRequest is the manager signup form
type RegisterManagerRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	FirstName        string `json:"firstName" binding:"required,max=100"`
	LastName         string `json:"lastName" binding:"required,max=100"`
	OrganizationName string `json:"organizationName" binding:"required,max=100"`
	PhoneNumber      string `json:"phoneNumber" binding:"required,phone" example:"+919876543210"`
	Age              int    `json:"age" binding:"required,min=18"`
}

// UpdateLocationRequest carries the browser-reported position of a volunteer
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90" example:"12.9716"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180" example:"77.5946"`
}

// VolunteerProfileResponse is the volunteer part of a profile
type VolunteerProfileResponse struct {
	Age                int      `json:"age"`
	Profession         string   `json:"profession,omitempty"`
	Gender             string   `json:"gender,omitempty"`
	Interests          []string `json:"interests"`
	Pincode            string   `json:"pincode,omitempty"`
	Address            string   `json:"address,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	LastLocationUpdate *string  `json:"lastLocationUpdate,omitempty"`
}

// ManagerProfileResponse is the manager part of a profile
type ManagerProfileResponse struct {
	OrganizationName string `json:"organizationName"`
	PhoneNumber      string `json:"phoneNumber"`
	Age              int    `json:"age"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64                     `json:"id"`
	Email     string                    `json:"email"`
	FirstName string                    `json:"firstName"`
	LastName  string                    `json:"lastName"`
	RoleType  models.RoleType           `json:"roleType" enums:"VOLUNTEER,MANAGER"`
	Volunteer *VolunteerProfileResponse `json:"volunteer,omitempty"`
	Manager   *ManagerProfileResponse   `json:"manager,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse builds the profile view. Either profile may be nil.
func NewUserResponse(user *models.User, volunteer *models.VolunteerProfile, manager *models.ManagerProfile) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RoleType:  user.RoleType,
	}
	if volunteer != nil {
		interests := volunteer.Interests
		if interests == nil {
			interests = []string{}
		}
		resp.Volunteer = &VolunteerProfileResponse{
			Age:        volunteer.Age,
			Profession: volunteer.Profession,
			Gender:     volunteer.Gender,
			Interests:  interests,
			Pincode:    volunteer.Pincode,
			Address:    volunteer.Address,
			Latitude:   volunteer.Latitude,
			Longitude:  volunteer.Longitude,
		}
		if volunteer.LastLocationUpdate != nil {
			ts := volunteer.LastLocationUpdate.UTC().Format(timestampLayout)
			resp.Volunteer.LastLocationUpdate = &ts
		}
	}
	if manager != nil {
		resp.Manager = &ManagerProfileResponse{
			OrganizationName: manager.OrganizationName,
			PhoneNumber:      manager.PhoneNumber,
			Age:              manager.Age,
		}
	}
	return resp
}
