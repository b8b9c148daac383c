package model

import (
	"encoding/json"
	"time"
)

// GeneratedImage is written exactly once per image returned from a
// generation call and never mutated afterwards.
type GeneratedImage struct {
	ID               int             `db:"id" json:"id"`
	UserID           int             `db:"user_id" json:"user_id"`
	PromptID         *int            `db:"prompt_id" json:"prompt_id,omitempty"`
	ImagePath        string          `db:"image_path" json:"image_path"`
	ThumbnailPath    *string         `db:"thumbnail_path" json:"thumbnail_path,omitempty"`
	PromptUsed       string          `db:"prompt_used" json:"prompt_used"`
	GenerationParams json.RawMessage `db:"generation_params" json:"generation_params,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
