package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"codesearch/internal/model"
)

type PostGormRepository struct {
	db *gorm.DB
}

func NewPostGormRepository(db *gorm.DB) *PostGormRepository {
	return &PostGormRepository{db: db}
}

func (r *PostGormRepository) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	if offset < 0 || limit <= 0 {
		return []model.Post{}, nil
	}

	var records []model.PostRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}

	posts := make([]model.Post, 0, len(records))
	for _, rec := range records {
		var post model.Post
		if err := json.Unmarshal([]byte(rec.Body), &post); err != nil {
			return nil, fmt.Errorf("decode post %d failed: %w", rec.ID, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *PostGormRepository) Append(ctx context.Context, post model.Post) error {
	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post failed: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&model.PostRecord{Body: string(body)}).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}
