package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TaskContentSummary = "content_summary"
	TaskContentMapping = "content_mapping"

	DefaultCountry      = "India"
	DefaultStandardName = "NOS-National Occupational Standard"
)

// Option is a code and display name pair offered to settings clients.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var (
	Countries = []Option{
		{Code: "IN", Name: DefaultCountry},
		{Code: "US", Name: "United States"},
		{Code: "UK", Name: "United Kingdom"},
		{Code: "AU", Name: "Australia"},
		{Code: "CA", Name: "Canada"},
	}

	StandardNames = []Option{
		{Code: "NOS", Name: DefaultStandardName},
		{Code: "ISCO", Name: "International Standard Classification of Occupations"},
		{Code: "SOC", Name: "Standard Occupational Classification"},
		{Code: "ANZSCO", Name: "Australian and New Zealand Standard Classification of Occupations"},
	}
)

// Content is a piece of course material. Summary stays nil until it is first generated.
type Content struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Text      string     `gorm:"column:content;type:text;not null" json:"content"`
	Summary   *string    `gorm:"type:text" json:"summary"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

func (Content) TableName() string { return "course_content" }

// HasSummary reports whether a non-blank summary is stored.
func (c *Content) HasSummary() bool {
	return c.Summary != nil && *c.Summary != ""
}

// Standard is one performance criterion of an occupational standard.
// (NOSCode, PCCode) is unique in practice only; duplicates are allowed.
type Standard struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	JobRole       string     `gorm:"size:255;not null;index" json:"job_role"`
	NOSCode       string     `gorm:"column:nos_code;size:100;not null;index" json:"nos_code"`
	NOSName       string     `gorm:"column:nos_name;size:500;not null" json:"nos_name"`
	PCCode        string     `gorm:"column:pc_code;size:100;not null" json:"pc_code"`
	PCDescription string     `gorm:"column:pc_description;type:text;not null" json:"pc_description"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

func (Standard) TableName() string { return "lex_norm_standard" }

// Settings tunes a mapping run: prompt override, model and a default job role filter.
type Settings struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	TaskType          string     `gorm:"size:50;default:content_summary" json:"task_type"`
	Country           string     `gorm:"size:100;default:India" json:"country"`
	StandardName      string     `gorm:"column:lexnorm_standard;size:100" json:"lexnorm_standard"`
	JobRoleFilterHint string     `gorm:"size:255" json:"job_role_filter_hint"`
	ModelName         string     `gorm:"column:llm_model;size:100" json:"llm_model"`
	Prompt            string     `gorm:"column:llm_prompt;type:text" json:"llm_prompt"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

func (Settings) TableName() string { return "lexnorm_settings" }

// MappingRun is the immutable snapshot of one mapping invocation.
type MappingRun struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	ContentID              uint           `gorm:"not null;index" json:"content_id"`
	SettingsID             *uint          `json:"settings_id"`
	JobRoleFilter          *string        `gorm:"size:255" json:"job_role_filter"`
	MappingData            datatypes.JSON `gorm:"not null" json:"mapping_data"`
	OverallConfidenceScore *string        `gorm:"size:10" json:"overall_confidence_score"`
	StandardsCount         int            `gorm:"not null;default:0" json:"standards_count"`
	CreatedAt              time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (MappingRun) TableName() string { return "mapping_result" }

// MatchCandidate is one match proposed by the completion service before it is linked to the catalog.
type MatchCandidate struct {
	JobRole            string  `mapstructure:"job_role" json:"job_role,omitempty"`
	NOSCode            string  `mapstructure:"nos_code" json:"nos_code"`
	NOSName            string  `mapstructure:"nos_name" json:"nos_name,omitempty"`
	PCCode             string  `mapstructure:"pc_code" json:"pc_code,omitempty"`
	PCDescription      string  `mapstructure:"pc_description" json:"pc_description,omitempty"`
	ConfidenceScore    float64 `mapstructure:"confidence_score" json:"confidence_score"`
	Reasoning          string  `mapstructure:"reasoning" json:"reasoning"`
	GapAnalysis        string  `mapstructure:"gap_analysis" json:"gap_analysis"`
	OverallGapAnalysis string  `mapstructure:"overall_gap_analysis" json:"overall_gap_analysis,omitempty"`
}

// ResolvedMatch is a candidate linked to a catalog record. Standard fields always come from the catalog.
type ResolvedMatch struct {
	Standard        Standard `json:"standard"`
	ConfidenceScore float64  `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
	GapAnalysis     string   `json:"gap_analysis"`
}

// MappingResponse is what a mapping call returns and what is stored as MappingRun.MappingData.
type MappingResponse struct {
	ContentID              uint            `json:"content_id"`
	MappedStandards        []ResolvedMatch `json:"mapped_standards"`
	OverallConfidenceScore float64         `json:"overall_confidence_score"`
	OverallGapAnalysis     string          `json:"overall_gap_analysis"`
	SummaryUsed            string          `json:"summary_used"`
	RunID                  *uint           `json:"run_id,omitempty"`
}
