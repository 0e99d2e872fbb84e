package container

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bandhanmatch/bandhan-web/internal/config"
	"github.com/bandhanmatch/bandhan-web/internal/delivery/http"
	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/handler"
	"github.com/bandhanmatch/bandhan-web/internal/delivery/http/middleware"
	"github.com/bandhanmatch/bandhan-web/internal/infrastructure/database"
	"github.com/bandhanmatch/bandhan-web/internal/infrastructure/server"
	"github.com/bandhanmatch/bandhan-web/internal/session"
	"github.com/bandhanmatch/bandhan-web/internal/upstream"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/admin"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/auth"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/profile"
	"github.com/bandhanmatch/bandhan-web/internal/usecase/search"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Redis  *redis.Client
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Session store: Redis when configured, in-process otherwise
	var redisClient *redis.Client
	var sessionStore session.Store
	if cfg.Redis.Enabled() {
		client, err := database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		redisClient = client
		sessionStore = session.NewRedisStore(client, cfg.Session.TTL)
	} else {
		fmt.Println("Warning: no Redis configured, sessions will not survive restarts")
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, cfg.Session.SecureCookies, cfg.Session.TTL)

	// Outbound API clients: one for user calls, one marked for admin calls
	apiClient := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	adminClient := upstream.NewAdmin(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(apiClient)
	searchUseCase := search.NewSearchUseCase(apiClient, cfg.Search.PageSize)
	profileUseCase := profile.NewProfileUseCase(apiClient)
	adminUseCase := admin.NewAdminUseCase(
		adminClient,
		cfg.Admin.Email,
		cfg.Admin.PasswordHash,
		cfg.Admin.JWTSecret,
		cfg.Admin.SessionTTL,
	)

	// Initialize handlers
	pagesHandler := handler.NewPagesHandler()
	authHandler := handler.NewAuthHandler(authUseCase)
	searchHandler := handler.NewSearchHandler(searchUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	adminHandler := handler.NewAdminHandler(adminUseCase, cfg.Session.SecureCookies)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(sessions)
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := middleware.NewAdminMiddleware(adminUseCase)

	// Initialize router
	router := http.NewRouter(
		pagesHandler,
		authHandler,
		searchHandler,
		profileHandler,
		adminHandler,
		sessionMiddleware,
		authMiddleware,
		adminMiddleware,
		"web/templates/*.tmpl",
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		Redis:  redisClient,
		Server: srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis: %w", err)
		}
	}
	return nil
}
