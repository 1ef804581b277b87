package codes

import "time"

// тела запросов/ответов /api/v1/codes/*

type RequestCodeInput struct {
	UUID string `json:"uuid"`
}

type RequestCodeResponse struct {
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyCodeInput struct {
	UUID string `json:"uuid"`
	Code string `json:"code"`
}

type VerifyCodeResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type LookupResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
