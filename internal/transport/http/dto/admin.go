package dto

import "time"

type RemoveOldSessionsResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

type ClearDataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type NonceResponse struct {
	Success   bool      `json:"success"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}
