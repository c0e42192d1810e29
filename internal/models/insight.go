package models

import "time"

// InsightType classifies an AI-generated insight.
type InsightType string

const (
	InsightTypeRisk            InsightType = "risk"
	InsightTypeDiversification InsightType = "diversification"
	InsightTypePerformance     InsightType = "performance"
	InsightTypeRecommendation  InsightType = "recommendation"
)

// Valid reports whether the type is one of the closed enumeration values.
func (t InsightType) Valid() bool {
	switch t {
	case InsightTypeRisk, InsightTypeDiversification, InsightTypePerformance, InsightTypeRecommendation:
		return true
	}
	return false
}

// InsightSeverity grades an insight's tone.
type InsightSeverity string

const (
	InsightSeverityPositive InsightSeverity = "positive"
	InsightSeverityWarning  InsightSeverity = "warning"
	InsightSeverityNeutral  InsightSeverity = "neutral"
)

// Valid reports whether the severity is one of the closed enumeration values.
func (s InsightSeverity) Valid() bool {
	switch s {
	case InsightSeverityPositive, InsightSeverityWarning, InsightSeverityNeutral:
		return true
	}
	return false
}

// Insight is one AI-generated portfolio observation.
type Insight struct {
	Type     InsightType     `json:"type"`
	Title    string          `json:"title"`
	Summary  string          `json:"summary"`
	Detail   string          `json:"detail"`
	Severity InsightSeverity `json:"severity"`
}

// InsightsResult wraps a generated set of insights. A well-formed result
// carries exactly four insights.
type InsightsResult struct {
	Summary     string    `json:"summary"`
	Insights    []Insight `json:"insights"`
	IsLive      bool      `json:"is_live"`
	GeneratedAt time.Time `json:"generated_at"`
}
