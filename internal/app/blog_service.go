package app

import (
	"context"

	"go.uber.org/zap"

	"codesearch/internal/metrics"
	"codesearch/internal/model"
)

const defaultPageSize = 3

type PostRepository interface {
	// List returns up to limit posts starting at offset, in insertion order.
	List(ctx context.Context, offset, limit int) ([]model.Post, error)
	Append(ctx context.Context, post model.Post) error
}

type PostEventPublisher interface {
	PublishPostCreated(ctx context.Context, post model.Post) error
}

type BlogService struct {
	repo      PostRepository
	publisher PostEventPublisher
	pageSize  int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewBlogService accepts a nil publisher when no broker is configured.
func NewBlogService(repo PostRepository, publisher PostEventPublisher, pageSize int, m *metrics.Metrics, logger *zap.Logger) *BlogService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{
		repo:      repo,
		publisher: publisher,
		pageSize:  pageSize,
		metrics:   m,
		logger:    logger,
	}
}

// ListPage returns the 1-indexed page of posts. Pages outside the stored range are
// empty rather than an error. Pages below 1 do not wrap around to posts counted from
// the end of the list.
func (s *BlogService) ListPage(ctx context.Context, page int) (*model.PostPage, error) {
	result := &model.PostPage{
		Posts:    []model.Post{},
		Page:     page,
		NextPage: page + 1,
	}
	if page < 1 {
		return result, nil
	}

	posts, err := s.repo.List(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}
	if posts != nil {
		result.Posts = posts
	}
	return result, nil
}

// Create appends post as-is. A failed event publish is logged; the post is already stored.
func (s *BlogService) Create(ctx context.Context, post model.Post) (model.Post, error) {
	if post == nil {
		return nil, ErrInvalidPost
	}
	if err := s.repo.Append(ctx, post); err != nil {
		return nil, err
	}
	s.metrics.PostCreated()

	if s.publisher != nil {
		if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
			s.logger.Warn("publish post created event failed", zap.Error(err))
		}
	}
	return post, nil
}
