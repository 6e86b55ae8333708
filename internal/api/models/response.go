package models

import (
	"lithuania-bess/internal/analysis"
	"lithuania-bess/internal/scenario"
)

// EstimateRow is one revenue estimate in a response.
type EstimateRow struct {
	Year      int     `json:"year"`
	Market    string  `json:"market"`
	DurationH int     `json:"duration_h"`
	EURPerMW  float64 `json:"eur_per_mw_year"`
}

// RevenueResponse returns a revenue table as rows.
type RevenueResponse struct {
	Years     []int         `json:"years"`
	Estimates []EstimateRow `json:"estimates"`
}

// ScenariosResponse bundles market sizing with the build-out scenarios.
type ScenariosResponse struct {
	MarketSize scenario.MarketSize        `json:"market_size"`
	Points     []scenario.SaturationPoint `json:"points"`
}

// StatsResponse summarizes day-ahead prices per year plus the dispatch
// upper bound per duration.
type StatsResponse struct {
	Stats      []analysis.PriceStats `json:"stats"`
	Oracle     map[int]float64       `json:"oracle_eur_per_mw,omitempty"`
	OracleYear int                   `json:"oracle_year,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError creates an error response envelope.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
