package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"

	"simpleblog/internal/auth"
	"simpleblog/internal/cache"
	"simpleblog/internal/config"
	"simpleblog/internal/db"
	apperrors "simpleblog/internal/errors"
	"simpleblog/internal/logger"
	"simpleblog/internal/repository"
	"simpleblog/internal/service"
)

// SeedUser is one entry of the seed document.
type SeedUser struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Posts    []SeedPost `json:"posts"`
}

// SeedPost is a post written by a SeedUser.
type SeedPost struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result counts what a seed run did.
type Result struct {
	Users    int
	Existing int
	Posts    int
	Skipped  int
}

func main() {
	source := flag.String("source", "seed.json", "seed document: a file path or an http(s) URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("seed", "info").Fatal().Err(err).Msg("load config")
	}
	log := logger.New("seed", cfg.LogLevel)
	ctx := log.WithContext(context.Background())

	dsn := cfg.SQLitePath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.MySQLDSN
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	log.Info().Str("source", *source).Msg("loading seed document")
	users, err := load(ctx, *source)
	if err != nil {
		log.Fatal().Err(err).Msg("load seed document")
	}

	validator := service.NewValidator()
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokenService(cfg.JWTSecret), validator, cfg.SessionTTL)
	postService := service.NewPostService(repository.NewPostRepository(gormDB), cache.New("", "", 0), validator)

	res, err := seed(ctx, authService, userRepo, postService, users)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().
		Int("users_created", res.Users).
		Int("users_existing", res.Existing).
		Int("posts_created", res.Posts).
		Int("skipped", res.Skipped).
		Msg("seed completed")
}

// load reads the seed document from a file or fetches it over HTTP.
func load(ctx context.Context, source string) ([]SeedUser, error) {
	var users []SeedUser

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := resty.New().SetTimeout(30*time.Second).R().
			SetContext(ctx).
			SetResult(&users).
			Get(source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode())
		}
		return users, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return users, nil
}

// seed registers each user and writes their posts. Users that already
// exist keep their content; entries that fail validation are skipped.
func seed(ctx context.Context, authService service.AuthService, users repository.UserRepository, posts service.PostService, doc []SeedUser) (Result, error) {
	log := logger.FromContext(ctx)
	var res Result

	for _, su := range doc {
		user, _, err := authService.Register(ctx, su.Username, su.Password)
		if msgs := apperrors.Messages(err); msgs != nil {
			if _, lookupErr := users.FindByUsername(ctx, strings.TrimSpace(su.Username)); lookupErr == nil {
				res.Existing++
				continue
			} else if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return res, lookupErr
			}
			log.Warn().Str("username", su.Username).Strs("problems", msgs).Msg("skipping user")
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("register %s: %w", su.Username, err)
		}
		res.Users++

		author := auth.Authenticated{UserID: user.ID, Username: user.Username}
		for _, sp := range su.Posts {
			_, err := posts.Create(ctx, author, sp.Title, sp.Body)
			if msgs := apperrors.Messages(err); msgs != nil {
				log.Warn().Str("username", user.Username).Strs("problems", msgs).Msg("skipping post")
				res.Skipped++
				continue
			}
			if err != nil {
				return res, fmt.Errorf("create post for %s: %w", user.Username, err)
			}
			res.Posts++
		}
	}
	return res, nil
}
