package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/dgarcez/rachao/internal/app"
	iauth "github.com/dgarcez/rachao/internal/auth"
	"github.com/dgarcez/rachao/internal/handlers"
	"github.com/dgarcez/rachao/internal/middleware"
	"github.com/dgarcez/rachao/internal/services"
	"github.com/dgarcez/rachao/pkg/mail"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config, mailer mail.Mailer) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	owners, err := services.NewOwnerService(db)
	if err != nil {
		return nil, err
	}
	teams, err := services.NewTeamService(db)
	if err != nil {
		return nil, err
	}
	users, err := services.NewUserService(db, teams)
	if err != nil {
		return nil, err
	}
	players, err := services.NewPlayerService(db)
	if err != nil {
		return nil, err
	}
	opponents, err := services.NewOpponentService(db)
	if err != nil {
		return nil, err
	}
	matches, err := services.NewMatchService(db)
	if err != nil {
		return nil, err
	}
	lineups, err := services.NewLineupService(db, owners)
	if err != nil {
		return nil, err
	}
	shares, err := services.NewShareService(db, owners)
	if err != nil {
		return nil, err
	}

	inviteOpts := []services.InviteOption{services.WithInviteBaseURL(cfg.Server.BaseURL)}
	if cfg.Invites.Expiry > 0 {
		inviteOpts = append(inviteOpts, services.WithInviteExpiry(cfg.Invites.Expiry))
	}
	invites, err := services.NewInviteService(db, owners, users, mailer, inviteOpts...)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.NewHealthHandler(db).Check)
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	authHandler := handlers.NewAuthHandler(users, teams, jwt)
	playerHandler := handlers.NewPlayerHandler(players, matches, owners)
	opponentHandler := handlers.NewOpponentHandler(opponents, owners)
	matchHandler := handlers.NewMatchHandler(matches, lineups, owners)
	dashboardHandler := handlers.NewDashboardHandler(matches, players, owners)
	settingsHandler := handlers.NewSettingsHandler(invites, teams)
	shareHandler := handlers.NewShareHandler(shares, owners, cfg.Server.BaseURL)
	publicHandler := handlers.NewPublicHandler(shares, teams, matches, players, opponents)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Public invite preview (the acceptance page shows who the invite is for
	// before asking the visitor to sign in).
	r.GET("/api/invites/:token", settingsHandler.InviteInfo)

	// Public share pages, token-gated.
	public := r.Group("/t")
	{
		public.GET("/:token", publicHandler.Overview)
		public.GET("/:token/players", publicHandler.Players)
		public.GET("/:token/matches", publicHandler.Matches)
		public.GET("/:token/opponents", publicHandler.Opponents)
	}

	// Protected routes
	requireAuth := middleware.Auth(jwt)
	api := r.Group("/api")
	api.Use(requireAuth)

	api.GET("/auth/me", authHandler.Me)
	api.POST("/invites/:token/accept", settingsHandler.AcceptInvite)

	playersGroup := api.Group("/players")
	{
		playersGroup.GET("", playerHandler.List)
		playersGroup.GET("/stats", playerHandler.Stats)
		playersGroup.POST("", playerHandler.Create)
		playersGroup.PUT("/:id", playerHandler.Update)
		playersGroup.DELETE("/:id", playerHandler.Delete)
	}

	opponentsGroup := api.Group("/opponents")
	{
		opponentsGroup.GET("", opponentHandler.List)
		opponentsGroup.POST("", opponentHandler.Create)
		opponentsGroup.PUT("/:id", opponentHandler.Update)
		opponentsGroup.DELETE("/:id", opponentHandler.Delete)
	}

	matchesGroup := api.Group("/matches")
	{
		matchesGroup.GET("", matchHandler.List)
		matchesGroup.POST("", matchHandler.Create)
		matchesGroup.PUT("/:id", matchHandler.Update)
		matchesGroup.DELETE("/:id", matchHandler.Delete)
		matchesGroup.GET("/:id/lineup", matchHandler.GetLineup)
		matchesGroup.PUT("/:id/lineup", matchHandler.SaveLineup)
	}

	api.GET("/dashboard", dashboardHandler.Overview)
	api.GET("/share", shareHandler.Get)

	settings := api.Group("/settings")
	{
		settings.GET("/access", settingsHandler.AccessOverview)
		settings.POST("/invites", settingsHandler.CreateInvite)
		settings.DELETE("/invites/:id", settingsHandler.DeleteInvite)
	}

	return r, nil
}
