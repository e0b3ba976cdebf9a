package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rootlinehq/rootline/auth"
	"github.com/rootlinehq/rootline/store"
)

// Options collects the server's collaborators.
type Options struct {
	Repo          store.RepositoryManager
	Auther        auth.Authenticator
	Tokens        auth.TokenService
	Recorder      auth.ActivitySink
	Logger        auth.Logger
	CookieTTL     time.Duration
	SecureCookies bool
	Debug         bool

	// DeterministicIDs derives account ids from the email instead of random
	// uuids, which keeps fixtures stable across environments.
	DeterministicIDs bool
}

// Server is the HTTP surface: auth endpoints, the profile endpoints, and the
// public family tree read endpoint.
type Server struct {
	app    *fiber.App
	logger auth.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	cookieTTL := opts.CookieTTL
	if cookieTTL <= 0 {
		cookieTTL = time.Duration(auth.DefaultTokenExpiration) * time.Hour
	}

	app := fiber.New(fiber.Config{
		AppName:               "rootline",
		DisableStartupMessage: !opts.Debug,
		ErrorHandler:          ErrorHandler(logger, opts.Debug),
	})

	resolver := NewSessionResolver(opts.Auther, opts.Repo.Users()).WithLogger(logger)

	authController := &AuthController{
		Debug:            opts.Debug,
		Logger:           logger,
		Repo:             opts.Repo,
		Auther:           opts.Auther,
		Tokens:           opts.Tokens,
		Recorder:         opts.Recorder,
		Resolver:         resolver,
		CookieTTL:        cookieTTL,
		SecureCookies:    opts.SecureCookies,
		DeterministicIDs: opts.DeterministicIDs,
	}

	profileController := &ProfileController{
		Repo:   opts.Repo,
		Logger: logger,
	}

	treesController := &TreesController{
		Trees: opts.Repo.FamilyTrees(),
	}

	registerRoutes(app, resolver, authController, profileController, treesController)

	return &Server{
		app:    app,
		logger: logger,
	}
}

func registerRoutes(
	app *fiber.App,
	resolver *SessionResolver,
	authController *AuthController,
	profileController *ProfileController,
	treesController *TreesController,
) {
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authController.Register)
	authGroup.Post("/login", authController.Login)
	authGroup.Post("/logout", authController.Logout)
	authGroup.Post("/password-reset", authController.PasswordResetInit)
	authGroup.Get("/password-reset/:id", authController.PasswordResetStatus)
	authGroup.Post("/password-reset/:id", authController.PasswordResetFinalize)

	profile := app.Group("/profile", resolver.RequireAuthenticated())
	profile.Get("/", profileController.Show)
	profile.Put("/", profileController.Update)

	app.Get("/family-trees/:id/public", treesController.PublicTree)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving requests on addr.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
