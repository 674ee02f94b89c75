package dto

import (
	"time"

	"github.com/yigit/clubportal/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required" example:"Chess Club"`
	Password string `json:"password" form:"password" binding:"required" example:"secret1"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64     `json:"expiresIn" example:"86400"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AccountResponse represents the signed-in account
type AccountResponse struct {
	ID          int64         `json:"id" example:"12"`
	Username    string        `json:"username" example:"Chess Club"`
	Email       string        `json:"email" example:"chess@uni.edu"`
	AccountType string        `json:"accountType" example:"club"`
	IsApproved  bool          `json:"isApproved" example:"true"`
	DisplayName string        `json:"displayName" example:"Chess Club"`
	CreatedAt   time.Time     `json:"createdAt"`
	Club        *ClubResponse `json:"club,omitempty"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token     TokenResponse   `json:"token"`
	Account   AccountResponse `json:"account"`
	Dashboard string          `json:"dashboard" example:"/club/dashboard"`
}

// NewAccountResponse converts an account for output
func NewAccountResponse(a *models.Account) AccountResponse {
	resp := AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		AccountType: a.AccountType.String(),
		IsApproved:  a.IsApproved,
		DisplayName: a.PublicName(),
		CreatedAt:   a.CreatedAt,
	}
	if a.IsClub() && a.Club != nil {
		club := NewClubResponse(a.Club)
		resp.Club = &club
	}
	return resp
}

// NewTokenResponse builds the token part of a login response
func NewTokenResponse(token string, expiresAt time.Time) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt,
	}
}
