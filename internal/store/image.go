package store

import (
	"context"
	"fmt"

	"github.com/Dreadfxl/imagensd-api/internal/database"
	"github.com/Dreadfxl/imagensd-api/internal/model"
)

func ListGeneratedImages(ctx context.Context, db database.DB, userID int) ([]model.GeneratedImage, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, prompt_id, image_path, thumbnail_path, COALESCE(prompt_used, ''), generation_params, created_at
		 FROM generated_images WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListGeneratedImages: %w", err)
	}
	defer rows.Close()

	images := []model.GeneratedImage{}
	for rows.Next() {
		var img model.GeneratedImage
		if err := rows.Scan(
			&img.ID,
			&img.UserID,
			&img.PromptID,
			&img.ImagePath,
			&img.ThumbnailPath,
			&img.PromptUsed,
			&img.GenerationParams,
			&img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListGeneratedImages: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListGeneratedImages: %w", err)
	}
	return images, nil
}

func GetGeneratedImageByID(ctx context.Context, db database.DB, imageID, userID int) (*model.GeneratedImage, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, prompt_id, image_path, thumbnail_path, COALESCE(prompt_used, ''), generation_params, created_at
		 FROM generated_images WHERE id = $1 AND user_id = $2`,
		imageID,
		userID,
	)
	img := &model.GeneratedImage{}
	if err := row.Scan(
		&img.ID,
		&img.UserID,
		&img.PromptID,
		&img.ImagePath,
		&img.ThumbnailPath,
		&img.PromptUsed,
		&img.GenerationParams,
		&img.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetGeneratedImageByID: %w", err)
	}
	return img, nil
}

func CreateGeneratedImage(ctx context.Context, db database.DB, img *model.GeneratedImage) (*model.GeneratedImage, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO generated_images (user_id, prompt_id, image_path, thumbnail_path, prompt_used, generation_params)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		img.UserID,
		img.PromptID,
		img.ImagePath,
		img.ThumbnailPath,
		img.PromptUsed,
		img.GenerationParams,
	)
	if err := row.Scan(&img.ID, &img.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateGeneratedImage: %w", err)
	}
	return img, nil
}
