package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"simpleblog/internal/auth"
	apperrors "simpleblog/internal/errors"
	"simpleblog/internal/model"
	"simpleblog/internal/repository"
)

const anonymousName = "Anonymous"

// CommentService handles comments on posts.
type CommentService interface {
	List(ctx context.Context, postID uint) ([]model.Comment, error)
	Add(ctx context.Context, actor auth.Identity, postID uint, content, authorName string) (*model.Comment, error)
}

type commentService struct {
	repo  repository.CommentRepository
	posts PostService
	now   func() time.Time
}

// NewCommentService creates a new comment service.
func NewCommentService(repo repository.CommentRepository, posts PostService) CommentService {
	return &commentService{
		repo:  repo,
		posts: posts,
		now:   time.Now,
	}
}

// List returns the comments on a post, oldest first.
func (s *commentService) List(ctx context.Context, postID uint) ([]model.Comment, error) {
	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Add stores a comment. Authenticated actors are recorded by id and
// username; anonymous ones by the supplied name, or "Anonymous".
func (s *commentService) Add(ctx context.Context, actor auth.Identity, postID uint, content, authorName string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyComment
	}

	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:    postID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if user, ok := auth.UserOf(actor); ok {
		comment.AuthorID = &user.UserID
		comment.AuthorName = user.Username
	} else {
		comment.AuthorName = strings.TrimSpace(authorName)
		if comment.AuthorName == "" {
			comment.AuthorName = anonymousName
		}
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}
