package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"simpleblog/internal/auth"
	apperrors "simpleblog/internal/errors"
	"simpleblog/internal/model"
)

func newTestCommentService() (CommentService, *MockCommentRepository, *MockPostRepository) {
	comments := new(MockCommentRepository)
	posts := new(MockPostRepository)
	posts.On("FindByID", mock.Anything, uint(10)).Return(alicePost(), nil).Maybe()
	posts.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound).Maybe()
	return NewCommentService(comments, newTestPostService(posts)), comments, posts
}

func TestCommentService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticated", func(t *testing.T) {
		svc, comments, _ := newTestCommentService()
		comments.On("Create", ctx, mock.AnythingOfType("*model.Comment")).Return(nil)

		c, err := svc.Add(ctx, bob, 10, "  nice post ", "ignored")
		require.NoError(t, err)
		assert.Equal(t, "nice post", c.Content)
		assert.Equal(t, "bob", c.AuthorName)
		require.NotNil(t, c.AuthorID)
		assert.Equal(t, bob.UserID, *c.AuthorID)
		comments.AssertExpectations(t)
	})

	tests := []struct {
		name     string
		supplied string
		want     string
	}{
		{"named guest", " Carol ", "Carol"},
		{"unnamed guest", "", "Anonymous"},
		{"blank name", "   ", "Anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, comments, _ := newTestCommentService()
			comments.On("Create", ctx, mock.AnythingOfType("*model.Comment")).Return(nil)

			c, err := svc.Add(ctx, auth.Anonymous{}, 10, "hello", tt.supplied)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.AuthorName)
			assert.Nil(t, c.AuthorID)
		})
	}

	t.Run("empty content", func(t *testing.T) {
		svc, comments, _ := newTestCommentService()

		_, err := svc.Add(ctx, bob, 10, " \n\t ", "")
		assert.ErrorIs(t, err, apperrors.ErrEmptyComment)
		comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		svc, comments, _ := newTestCommentService()

		_, err := svc.Add(ctx, bob, 99, "hello", "")
		assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
		comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCommentService_List(t *testing.T) {
	ctx := context.Background()
	svc, comments, _ := newTestCommentService()

	want := []model.Comment{{ID: 1, PostID: 10, AuthorName: "Anonymous", Content: "first"}}
	comments.On("ListByPost", ctx, uint(10)).Return(want, nil)

	got, err := svc.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
