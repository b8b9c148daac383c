package store

import (
	"context"
	"fmt"

	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/model"
)

// Every lookup below filters by record id and owner id together, so a
// prompt owned by someone else is indistinguishable from a missing one.

func ListPrompts(ctx context.Context, db database.DB, userID int) ([]model.Prompt, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, title, prompt_text, COALESCE(negative_prompt, ''), COALESCE(style, ''), created_at, updated_at
		 FROM prompts WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListPrompts: %w", err)
	}
	defer rows.Close()

	prompts := []model.Prompt{}
	for rows.Next() {
		var p model.Prompt
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Title,
			&p.PromptText,
			&p.NegativePrompt,
			&p.Style,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListPrompts: %w", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListPrompts: %w", err)
	}
	return prompts, nil
}

func GetPromptByID(ctx context.Context, db database.DB, promptID, userID int) (*model.Prompt, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, title, prompt_text, COALESCE(negative_prompt, ''), COALESCE(style, ''), created_at, updated_at
		 FROM prompts WHERE id = $1 AND user_id = $2`,
		promptID,
		userID,
	)
	p := &model.Prompt{}
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.PromptText,
		&p.NegativePrompt,
		&p.Style,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetPromptByID: %w", err)
	}
	return p, nil
}

func CreatePrompt(ctx context.Context, db database.DB, p *model.Prompt) (*model.Prompt, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO prompts (user_id, title, prompt_text, negative_prompt, style)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.UserID,
		p.Title,
		p.PromptText,
		p.NegativePrompt,
		p.Style,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreatePrompt: %w", err)
	}
	return p, nil
}

// UpdatePrompt replaces the text fields of an owned prompt and refreshes
// updated_at. A missing or not-owned id scans no row and surfaces as not found.
func UpdatePrompt(ctx context.Context, db database.DB, p *model.Prompt) (*model.Prompt, error) {
	row := db.QueryRow(ctx,
		`UPDATE prompts
		 SET title = $1, prompt_text = $2, negative_prompt = $3, style = $4, updated_at = NOW()
		 WHERE id = $5 AND user_id = $6
		 RETURNING created_at, updated_at`,
		p.Title,
		p.PromptText,
		p.NegativePrompt,
		p.Style,
		p.ID,
		p.UserID,
	)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("UpdatePrompt: %w", err)
	}
	return p, nil
}

func DeletePrompt(ctx context.Context, db database.DB, promptID, userID int) error {
	row := db.QueryRow(ctx,
		`DELETE FROM prompts WHERE id = $1 AND user_id = $2 RETURNING id`,
		promptID,
		userID,
	)
	var deleted int
	if err := row.Scan(&deleted); err != nil {
		return fmt.Errorf("DeletePrompt: %w", err)
	}
	return nil
}
