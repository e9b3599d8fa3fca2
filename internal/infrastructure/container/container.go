package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/creatorsync-backend/internal/config"
	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http"
	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/database"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/server"
	"github.com/gdugdh24/creatorsync-backend/internal/infrastructure/storage"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/gdugdh24/creatorsync-backend/internal/repository/memory"
	"github.com/gdugdh24/creatorsync-backend/internal/repository/postgres"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/auth"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/chat"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/feed"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/match"
	"github.com/gdugdh24/creatorsync-backend/internal/usecase/profile"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
}

type repositories struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	creators repository.CreatorRepository
	editors  repository.EditorRepository
	clips    repository.ClipRepository
	matches  repository.MatchRequestRepository
	history  repository.FeedHistoryRepository
	messages repository.MessageRepository
}

func memoryRepositories() repositories {
	store := memory.NewStore()
	return repositories{
		users:    store.Users(),
		sessions: store.Sessions(),
		creators: store.Creators(),
		editors:  store.Editors(),
		clips:    store.Clips(),
		matches:  store.MatchRequests(),
		history:  store.FeedHistory(),
		messages: store.Messages(),
	}
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		users:    postgres.NewUserRepository(db),
		sessions: postgres.NewSessionRepository(db),
		creators: postgres.NewCreatorRepository(db),
		editors:  postgres.NewEditorRepository(db),
		clips:    postgres.NewClipRepository(db),
		matches:  postgres.NewMatchRequestRepository(db),
		history:  postgres.NewFeedHistoryRepository(db),
		messages: postgres.NewMessageRepository(db),
	}
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	var repos repositories
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		if cfg.Storage.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				_ = c.Close()
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		repos = postgresRepositories(db)
	default:
		slog.Warn("using in-memory storage, data is lost on restart")
		repos = memoryRepositories()
	}

	if cfg.RedisEnabled() {
		rdb, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			// the rate limiter fails open without Redis
			slog.Warn("redis unavailable, rate limiting disabled", slog.Any("error", err))
		} else {
			c.Redis = rdb
		}
	}

	// Optional collaborators stay untyped nil when absent so the use cases
	// see a nil interface.
	var clipStore profile.ClipStorage
	var clipSigner feed.ClipURLSigner
	if cfg.Storage.Clips == config.ClipStorageS3 {
		s3, err := storage.NewS3ClipStorage(ctx, cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.S3Prefix, cfg.Storage.PresignTTL)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize clip storage: %w", err)
		}
		clipStore, clipSigner = s3, s3
	}

	var enricher match.Enricher
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Warn("gemini client unavailable, matches will not be enriched", slog.Any("error", err))
		} else {
			c.Gemini = geminiClient
			enricher = geminiClient
		}
	}

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		repos.users,
		repos.sessions,
		repos.creators,
		repos.editors,
		cfg.JWT.Secret,
		cfg.JWT.TTL,
	)

	profileUseCase := profile.NewProfileUseCase(
		repos.creators,
		repos.editors,
		repos.clips,
		clipStore,
	)

	feedUseCase := feed.NewFeedUseCase(
		repos.creators,
		repos.editors,
		repos.clips,
		repos.matches,
		repos.history,
		feed.RandomShuffler,
		clipSigner,
		cfg.Feed.Size,
	)

	matchUseCase := match.NewMatchUseCase(
		repos.matches,
		repos.history,
		repos.creators,
		repos.editors,
		repos.clips,
		repos.messages,
		enricher,
	)

	chatUseCase := chat.NewChatUseCase(
		repos.matches,
		repos.creators,
		repos.editors,
		repos.messages,
	)

	router := http.NewRouter(
		handler.NewAuthHandler(authUseCase),
		handler.NewProfileHandler(profileUseCase),
		handler.NewFeedHandler(feedUseCase),
		handler.NewMatchHandler(matchUseCase),
		handler.NewChatHandler(chatUseCase),
		middleware.NewAuthMiddleware(authUseCase),
		middleware.NewRateLimiter(c.Redis, cfg.Server.Env),
		http.RateLimits{
			Likes:    cfg.RateLimit.Likes,
			Responds: cfg.RateLimit.Responds,
			Messages: cfg.RateLimit.Messages,
			Window:   cfg.RateLimit.Window,
		},
	)

	c.Server = server.NewServer(&cfg.Server, &cfg.CORS, router.Setup())
	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	var errs []error

	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close gemini client: %w", err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
