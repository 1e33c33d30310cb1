package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"simpleblog/internal/db"
	"simpleblog/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func createUser(t *testing.T, repo UserRepository, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "digest"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	alice := createUser(t, repo, "alice")
	assert.NotZero(t, alice.ID)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "digest", found.PasswordHash)

	found, err = repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Create(ctx, &model.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	createUser(t, repo, "bob")
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestPostRepository(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	posts := NewPostRepository(gormDB)
	comments := NewCommentRepository(gormDB)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	older := &model.Post{Title: "first", Body: "one", AuthorID: alice.ID, CreatedDate: base}
	newer := &model.Post{Title: "second", Body: "two", AuthorID: alice.ID, CreatedDate: base.Add(time.Hour)}
	other := &model.Post{Title: "bob's", Body: "three", AuthorID: bob.ID, CreatedDate: base.Add(30 * time.Minute)}
	for _, p := range []*model.Post{older, newer, other} {
		require.NoError(t, posts.Create(ctx, p))
	}

	found, err := posts.FindByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", found.Title)
	assert.Equal(t, alice.ID, found.AuthorID)
	assert.Equal(t, "alice", found.Username)

	own, err := posts.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, newer.ID, own[0].ID)
	assert.Equal(t, older.ID, own[1].ID)

	all, err := posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{newer.ID, other.ID, older.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "bob", all[1].Username)

	require.NoError(t, posts.Update(ctx, older.ID, "renamed", "edited"))
	found, err = posts.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", found.Title)
	assert.Equal(t, "edited", found.Body)
	assert.Equal(t, alice.ID, found.AuthorID)

	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: older.ID, AuthorName: "Anonymous", Content: "hi", CreatedAt: base}))
	require.NoError(t, posts.Delete(ctx, older.ID))

	_, err = posts.FindByID(ctx, older.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	left, err := comments.ListByPost(ctx, older.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, posts.Delete(ctx, older.ID), gorm.ErrRecordNotFound)

	none, err := posts.ListByAuthor(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPostRepository_AuthorMustExist(t *testing.T) {
	posts := NewPostRepository(newTestDB(t))

	err := posts.Create(context.Background(), &model.Post{Title: "t", Body: "b", AuthorID: 42, CreatedDate: time.Now()})
	assert.Error(t, err)
}

func TestCommentRepository(t *testing.T) {
	ctx := context.Background()
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	posts := NewPostRepository(gormDB)
	comments := NewCommentRepository(gormDB)

	alice := createUser(t, users, "alice")
	post := &model.Post{Title: "t", Body: "b", AuthorID: alice.ID, CreatedDate: time.Now()}
	require.NoError(t, posts.Create(ctx, post))

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	second := &model.Comment{PostID: post.ID, AuthorName: "Anonymous", Content: "later", CreatedAt: base.Add(time.Minute)}
	first := &model.Comment{PostID: post.ID, AuthorID: &alice.ID, AuthorName: "alice", Content: "earlier", CreatedAt: base}
	require.NoError(t, comments.Create(ctx, second))
	require.NoError(t, comments.Create(ctx, first))

	list, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "earlier", list[0].Content)
	require.NotNil(t, list[0].AuthorID)
	assert.Equal(t, alice.ID, *list[0].AuthorID)
	assert.Equal(t, "later", list[1].Content)
	assert.Nil(t, list[1].AuthorID)

	err = comments.Create(ctx, &model.Comment{PostID: 999, AuthorName: "x", Content: "orphan", CreatedAt: base})
	assert.Error(t, err)
}

func TestPostRepository_StoreFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	_, err = NewPostRepository(gormDB).FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
