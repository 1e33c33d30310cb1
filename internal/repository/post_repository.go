package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"simpleblog/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, id uint, title, body string) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error)
	ListAll(ctx context.Context) ([]model.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withAuthor selects posts joined with their author's username.
func (r *postRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("posts.*, users.username").
		Joins("INNER JOIN users ON posts.author_id = users.id")
}

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

// Update changes title and body only.
func (r *postRepository) Update(ctx context.Context, id uint, title, body string) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "body": body}).Error
}

// Delete removes the post and its comments in a single transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindByID finds a post by ID with its author's username.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.withAuthor(ctx).Where("posts.id = ?", id).Take(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByAuthor lists an author's posts, newest first.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]model.Post, error) {
	posts := []model.Post{}
	if err := r.withAuthor(ctx).
		Where("posts.author_id = ?", authorID).
		Order("posts.created_date DESC").Order("posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListAll lists every post, newest first.
func (r *postRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	posts := []model.Post{}
	if err := r.withAuthor(ctx).
		Order("posts.created_date DESC").Order("posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
