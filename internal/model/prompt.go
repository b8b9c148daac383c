package model

import "time"

type Prompt struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	Title          string    `db:"title" json:"title"`
	PromptText     string    `db:"prompt_text" json:"prompt_text"`
	NegativePrompt string    `db:"negative_prompt" json:"negative_prompt"`
	Style          string    `db:"style" json:"style"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
