package models

import (
	"time"
)

// LLM provider identifiers
const (
	ProviderMistral   = "mistral"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultMistralModel is used when a project has no explicit model configured.
const DefaultMistralModel = "mistral-large-latest"

type LLMSettings struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProjectID uint    `gorm:"not null;uniqueIndex" json:"project_id"`
	Project   Project `gorm:"foreignKey:ProjectID" json:"-"`

	Provider  string  `gorm:"default:'mistral'" json:"provider"`
	ModelName string  `json:"model_name"`
	APIKey    *string `json:"api_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LLMSettings) TableName() string {
	return "llm_settings"
}

// Masked returns a copy safe to return in API responses.
func (s LLMSettings) Masked() LLMSettings {
	if s.APIKey != nil && *s.APIKey != "" {
		masked := "********"
		s.APIKey = &masked
	}
	return s
}
