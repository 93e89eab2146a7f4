package models

import "time"

// FinanceLine is expected monthly revenue for one class at one unit.
type FinanceLine struct {
	Unit         string  `json:"unit"`
	ClassID      string  `json:"class_id"`
	ActiveCount  int     `json:"active_count"`
	MonthlyPrice float64 `json:"monthly_price"`
	Expected     float64 `json:"expected"`
}

// FinanceReport aggregates expected revenue from active enrollments.
type FinanceReport struct {
	Lines               []FinanceLine      `json:"lines"`
	ByUnit              map[string]float64 `json:"by_unit"`
	Total               float64            `json:"total"`
	UnpricedEnrollments int                `json:"unpriced_enrollments"`
	CancellationsMonth  int                `json:"cancellations_month"`
	GeneratedAt         time.Time          `json:"generated_at"`
}

// FunnelLine is trial conversion for one course.
type FunnelLine struct {
	Course    string  `json:"course"`
	Leads     int     `json:"leads"`
	Attended  int     `json:"attended"`
	Converted int     `json:"converted"`
	Rate      float64 `json:"rate"`
}

// TrialFunnel aggregates trial-class conversion.
type TrialFunnel struct {
	Total     int                 `json:"total"`
	ByStatus  map[TrialStatus]int `json:"by_status"`
	Converted int                 `json:"converted"`
	Rate      float64             `json:"rate"`
	ByCourse  []FunnelLine        `json:"by_course"`
}
