package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"anagram/internal/game"
	"anagram/internal/words"
)

// App holds the word bank, the per-session games and server settings.
type App struct {
	Bank           *game.WordBank
	GameConfig     game.Config
	Plays          map[string]*play
	SessionMutex   sync.RWMutex
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex
	IsProduction   bool
	CookieMaxAge   time.Duration
	SessionTimeout time.Duration
	StaticCacheAge time.Duration
	TickInterval   time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	StartTime      time.Time
}

func newApp(bank *game.WordBank, production bool) *App {
	cfg := game.DefaultConfig()
	cfg.RoundSeconds = getEnvInt("ROUND_SECONDS", cfg.RoundSeconds)
	return &App{
		Bank:           bank,
		GameConfig:     cfg,
		Plays:          make(map[string]*play),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   production,
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", DefaultCookieMaxAge),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", DefaultSessionTimeout),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", DefaultStaticCacheAge),
		TickInterval:   getEnvDuration("TICK_INTERVAL", DefaultTickInterval),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", DefaultRateLimitRPS),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", DefaultRateLimitBurst),
		StartTime:      time.Now(),
	}
}

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	setupLogging(getEnv("LOG_LEVEL", "info"), isProduction)
	logInfo("Starting Anagram in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	bank, err := words.Load(getEnv("WORDS_FILE", DefaultWordsFile))
	if err != nil {
		if errors.Is(err, game.ErrEmptyWordBank) {
			logFatal("No playable words configured: %v", err)
		}
		logFatal("Failed to load words: %v", err)
	}

	app := newApp(bank, isProduction)
	router := app.setupRouter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go app.runCleanup(ctx, getEnvDuration("CLEANUP_INTERVAL", DefaultCleanupInterval))

	startServer(ctx, router)
}

// setupRouter builds the gin engine with middleware, templates and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), accessLogMiddleware())

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}
	router.Use(app.cacheHeadersMiddleware())

	if app.IsProduction && dirExists("dist") {
		logInfo("Serving assets from dist/ directory")
		router.LoadHTMLGlob("dist/templates/*.html")
		router.Static("/static", "./dist/static")
	} else {
		logInfo("Serving development assets from source directories")
		router.LoadHTMLGlob("templates/*.html")
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteState, app.stateHandler)
	router.POST(RouteStart, app.rateLimitMiddleware(), app.startHandler)
	router.POST(RouteGuess, app.rateLimitMiddleware(), app.guessHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteHealth, app.healthzHandler)
	return router
}

func startServer(ctx context.Context, router *gin.Engine) {
	port := getEnv("PORT", DefaultPort)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
