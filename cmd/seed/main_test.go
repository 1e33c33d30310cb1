package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"simpleblog/internal/auth"
	"simpleblog/internal/cache"
	"simpleblog/internal/db"
	"simpleblog/internal/repository"
	"simpleblog/internal/service"
)

const seedDoc = `[
  {"username": "alice", "password": "password12345", "posts": [
    {"title": "Hi", "body": "World"},
    {"title": "", "body": "no title"}
  ]},
  {"username": "x", "password": "password12345"},
  {"username": "bob", "password": "password67890", "posts": [{"title": "Bob", "body": "here"}]}
]`

func TestLoad(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))

	fromFile, err := load(ctx, path)
	require.NoError(t, err)
	require.Len(t, fromFile, 3)
	assert.Equal(t, "alice", fromFile[0].Username)
	assert.Len(t, fromFile[0].Posts, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(seedDoc))
	}))
	defer srv.Close()

	fromURL, err := load(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromURL)

	_, err = load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	gormDB, err := db.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	validator := service.NewValidator()
	users := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(users, auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewTokenService("secret"), validator, auth.DefaultSessionTTL)
	posts := service.NewPostService(repository.NewPostRepository(gormDB), cache.New("", "", 0), validator)

	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))
	doc, err := load(ctx, path)
	require.NoError(t, err)

	res, err := seed(ctx, authService, users, posts, doc)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Posts: 2, Skipped: 2}, res)

	again, err := seed(ctx, authService, users, posts, doc)
	require.NoError(t, err)
	assert.Equal(t, Result{Existing: 2, Skipped: 1}, again)

	feed, err := posts.Feed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed, 2)
}
