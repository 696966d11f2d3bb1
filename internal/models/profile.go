package models

import "time"

// Profile is the one-to-one extension of a User
type Profile struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Image     string    `json:"image" gorm:"size:255"` // reference to an externally stored picture
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateProfileRequest defines the request body for editing the caller's profile.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Bio   *string `json:"bio" validate:"omitnil,max=2000"`
	Image *string `json:"image" validate:"omitnil,max=255"`
}

// ProfileResponse is the public representation of a user and profile
type ProfileResponse struct {
	UserCompact
	Bio   string `json:"bio"`
	Image string `json:"image"`
}

func (p *Profile) ToResponse(u *User) ProfileResponse {
	return ProfileResponse{UserCompact: u.ToCompact(), Bio: p.Bio, Image: p.Image}
}
