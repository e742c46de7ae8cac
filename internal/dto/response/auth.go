package response

import (
	"time"

	"foodie-backend/internal/data/entity"
	"foodie-backend/internal/token"
)

type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthResponse struct {
	User   AccountResponse `json:"user"`
	Tokens TokenPair       `json:"tokens"`
}

type AccessTokenResponse struct {
	Access          string    `json:"access"`
	TokenType       string    `json:"token_type"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

func PairToResponse(pair *token.Pair) TokenPair {
	return TokenPair{
		Access:           pair.Access,
		Refresh:          pair.Refresh,
		TokenType:        "Bearer",
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}

func AuthToResponse(account *entity.Account, profile *entity.Profile, pair *token.Pair) *AuthResponse {
	return &AuthResponse{
		User:   AccountToResponse(account, profile),
		Tokens: PairToResponse(pair),
	}
}

func AccessToResponse(access *token.Access) *AccessTokenResponse {
	return &AccessTokenResponse{
		Access:          access.Token,
		TokenType:       "Bearer",
		AccessExpiresAt: access.ExpiresAt,
	}
}
