package models

// ErrorDetailResponse is the error envelope returned by every endpoint
type ErrorDetailResponse struct {
	Detail string `json:"detail"`
}

// HealthCheckResponse returns the alive response
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
