package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"codesearch/internal/model"
)

type memoryPostRepository struct {
	posts []model.Post
}

func (r *memoryPostRepository) List(_ context.Context, offset, limit int) ([]model.Post, error) {
	if offset >= len(r.posts) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.posts) {
		end = len(r.posts)
	}
	return r.posts[offset:end], nil
}

func (r *memoryPostRepository) Append(_ context.Context, post model.Post) error {
	r.posts = append(r.posts, post)
	return nil
}

type recordingPublisher struct {
	published []model.Post
	err       error
}

func (p *recordingPublisher) PublishPostCreated(_ context.Context, post model.Post) error {
	p.published = append(p.published, post)
	return p.err
}

func TestBlogServicePaging(t *testing.T) {
	repo := &memoryPostRepository{}
	svc := NewBlogService(repo, nil, 3, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Post{"title": "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.Post{"title": "B"})
	require.NoError(t, err)

	page, err := svc.ListPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "A", page.Posts[0]["title"])
	assert.Equal(t, "B", page.Posts[1]["title"])
	assert.Equal(t, 2, page.NextPage)

	page, err = svc.ListPage(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.NotNil(t, page.Posts)
	assert.Equal(t, 3, page.NextPage)
}

func TestBlogServiceNonPositivePageIsEmpty(t *testing.T) {
	// enough posts that a page counted from the end would not be empty
	repo := &memoryPostRepository{posts: []model.Post{
		{"title": "A"}, {"title": "B"}, {"title": "C"}, {"title": "D"}, {"title": "E"}, {"title": "F"},
	}}
	svc := NewBlogService(repo, nil, 0, nil, nil)

	for _, p := range []int{0, -1} {
		page, err := svc.ListPage(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, p+1, page.NextPage)
	}
}

func TestBlogServiceCreateEchoesAndPublishes(t *testing.T) {
	repo := &memoryPostRepository{}
	pub := &recordingPublisher{}
	svc := NewBlogService(repo, pub, 3, nil, nil)

	post := model.Post{"title": "hello", "tags": []interface{}{"go"}}
	created, err := svc.Create(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, post, created)
	assert.Len(t, repo.posts, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "hello", pub.published[0]["title"])
}

func TestBlogServicePublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &memoryPostRepository{}
	svc := NewBlogService(repo, &recordingPublisher{err: errors.New("broker gone")}, 3, nil, zap.New(core))

	_, err := svc.Create(context.Background(), model.Post{"title": "A"})
	require.NoError(t, err)
	assert.Len(t, repo.posts, 1)
	assert.Equal(t, 1, logs.FilterMessage("publish post created event failed").Len())
}

func TestBlogServiceRejectsNilPost(t *testing.T) {
	svc := NewBlogService(&memoryPostRepository{}, nil, 3, nil, nil)

	_, err := svc.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidPost)
}
