package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"simpleblog/internal/auth"
	"simpleblog/internal/cache"
	apperrors "simpleblog/internal/errors"
	"simpleblog/internal/logger"
	"simpleblog/internal/model"
	"simpleblog/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// PostView is a post as seen by a particular identity.
type PostView struct {
	Post     *model.Post
	IsAuthor bool
}

// PostService handles post operations and the ownership gate on mutations.
type PostService interface {
	Get(ctx context.Context, id uint) (*model.Post, error)
	View(ctx context.Context, viewer auth.Identity, id uint) (*PostView, error)
	ListByAuthor(ctx context.Context, author auth.Authenticated) ([]model.Post, error)
	Feed(ctx context.Context) ([]model.Post, error)
	Create(ctx context.Context, author auth.Authenticated, title, body string) (*model.Post, error)
	Editable(ctx context.Context, actor auth.Identity, id uint) (*model.Post, auth.Access, error)
	Update(ctx context.Context, actor auth.Identity, id uint, title, body string) (*model.Post, auth.Access, error)
	Delete(ctx context.Context, actor auth.Identity, id uint) (auth.Access, error)
}

type postService struct {
	repo      repository.PostRepository
	cache     *cache.Client
	validator *Validator
	now       func() time.Time
}

// NewPostService creates a new post service.
func NewPostService(repo repository.PostRepository, cache *cache.Client, validator *Validator) PostService {
	return &postService{
		repo:      repo,
		cache:     cache,
		validator: validator,
		now:       time.Now,
	}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// Get retrieves a post by ID with caching.
func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	var cached model.Post
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), post, postCacheTTL)
	return post, nil
}

// find reads the post from the store only.
func (s *postService) find(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// evict drops the cached copy of a post after it changed.
func (s *postService) evict(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("post_id", id).Msg("evict cached post")
	}
}

// View returns the post and whether viewer wrote it.
func (s *postService) View(ctx context.Context, viewer auth.Identity, id uint) (*PostView, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostView{
		Post:     post,
		IsAuthor: auth.RequireOwnership(viewer, post.AuthorID) == auth.Allowed,
	}, nil
}

// ListByAuthor lists the author's own posts, newest first.
func (s *postService) ListByAuthor(ctx context.Context, author auth.Authenticated) ([]model.Post, error) {
	posts, err := s.repo.ListByAuthor(ctx, author.UserID)
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

// Feed lists every post, newest first.
func (s *postService) Feed(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Create cleans and validates the input and stores a post owned by author.
// Input problems come back as *errors.ValidationError together with the
// cleaned values in the returned post, so the form can be re-rendered.
func (s *postService) Create(ctx context.Context, author auth.Authenticated, title, body string) (*model.Post, error) {
	title, body = s.validator.CleanPost(title, body)
	post := &model.Post{
		Title:       title,
		Body:        body,
		AuthorID:    author.UserID,
		CreatedDate: s.now().UTC(),
	}
	if err := apperrors.NewValidationError(s.validator.Post(title, body)); err != nil {
		return post, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Username = author.Username
	return post, nil
}

// Editable loads a post for mutation. A missing post and someone else's
// post both yield Denied. Ownership is always checked against the store,
// never against a cached copy.
func (s *postService) Editable(ctx context.Context, actor auth.Identity, id uint) (*model.Post, auth.Access, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrPostNotFound) {
			return nil, auth.Denied, nil
		}
		return nil, auth.Denied, err
	}
	if auth.RequireOwnership(actor, post.AuthorID) != auth.Allowed {
		return nil, auth.Denied, nil
	}
	return post, auth.Allowed, nil
}

// Update changes title and body of a post the actor owns. On validation
// failure the returned post carries the rejected input.
func (s *postService) Update(ctx context.Context, actor auth.Identity, id uint, title, body string) (*model.Post, auth.Access, error) {
	post, access, err := s.Editable(ctx, actor, id)
	if err != nil || access != auth.Allowed {
		return nil, access, err
	}

	post.Title, post.Body = s.validator.CleanPost(title, body)
	if err := apperrors.NewValidationError(s.validator.Post(post.Title, post.Body)); err != nil {
		return post, auth.Allowed, err
	}

	if err := s.repo.Update(ctx, id, post.Title, post.Body); err != nil {
		return nil, auth.Allowed, fmt.Errorf("update post: %w", err)
	}
	s.evict(ctx, id)
	return post, auth.Allowed, nil
}

// Delete removes a post the actor owns, together with its comments.
func (s *postService) Delete(ctx context.Context, actor auth.Identity, id uint) (auth.Access, error) {
	_, access, err := s.Editable(ctx, actor, id)
	if err != nil || access != auth.Allowed {
		return access, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Denied, nil
		}
		return auth.Allowed, fmt.Errorf("delete post: %w", err)
	}
	s.evict(ctx, id)
	return auth.Allowed, nil
}
