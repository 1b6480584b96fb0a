package rpcx

import "github.com/dmitrijs2005/telepharmacy/internal/server/models"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserRequest struct {
	User models.UserRef `json:"user"`
}

type UpdateEmailRequest struct {
	User     models.UserRef `json:"user"`
	NewEmail string         `json:"newEmail"`
}

type UpdatePasswordRequest struct {
	User        models.UserRef `json:"user"`
	NewPassword string         `json:"newPassword"`
}

type ReauthenticateRequest struct {
	User     models.UserRef `json:"user"`
	Password string         `json:"password"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type CodeRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"newPassword,omitempty"`
}

type UIDRequest struct {
	UID string `json:"uid"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateProfileRequest struct {
	User  models.ProfileSource `json:"user"`
	Extra models.Fields        `json:"extra,omitempty"`
}

type UpdateProfileRequest struct {
	UID   string        `json:"uid"`
	Patch models.Fields `json:"patch"`
}

// ProfileResponse carries an optional profile; a nil Profile means the user
// has none.
type ProfileResponse struct {
	Profile *models.Profile `json:"profile"`
}

type PhotoUploadResponse struct {
	Upload *models.PhotoUpload `json:"upload"`
}

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}
