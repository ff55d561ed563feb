package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/storekit/authflow/modules/auth"
	"github.com/storekit/authflow/modules/auth/postgres"
	"github.com/storekit/authflow/modules/auth/redisstate"
	"github.com/storekit/authflow/pkg/config"
	"github.com/storekit/authflow/pkg/cookie"
	"github.com/storekit/authflow/pkg/httpserver"
	"github.com/storekit/authflow/pkg/logger"
	"github.com/storekit/authflow/pkg/passwordhash"
	"github.com/storekit/authflow/pkg/pg"
	"github.com/storekit/authflow/pkg/redis"
	"github.com/storekit/authflow/pkg/routeguard"
	"github.com/storekit/authflow/pkg/sessiontoken"
)

type appConfig struct {
	Log     logger.Config
	HTTP    httpserver.Config
	DB      pg.Config
	Redis   redis.Config
	Scrypt  passwordhash.Params
	Google  auth.GoogleConfig
	GitHub  auth.GitHubConfig
	Discord auth.DiscordConfig

	TokenSecret  string        `env:"SESSION_TOKEN_SECRET,required"`
	TokenTTL     time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"168h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

func main() {
	// .env is a development convenience, not a deployment requirement.
	if _, err := os.Stat(".env"); err == nil {
		if err := config.LoadEnv(); err != nil {
			panic(err)
		}
	}

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log, logger.WithAttr(logger.Component("server")))
	ctx := context.Background()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	codec, err := sessiontoken.New(cfg.TokenSecret, sessiontoken.WithTTL(cfg.TokenTTL))
	if err != nil {
		return err
	}

	cookies := cookie.New(cookie.WithSecure(cfg.CookieSecure))
	sessions := auth.NewSessionManager(codec, cookies)
	repo := postgres.NewRepository(pool)
	hasher := passwordhash.New(cfg.Scrypt)

	credentials := auth.NewCredentialService(repo, hasher, auth.WithCredentialLogger(log))
	federated := auth.NewFederatedService(repo, redisstate.NewStore(redisClient),
		[]auth.ProviderAdapter{
			auth.NewGoogleAdapter(cfg.Google),
			auth.NewGitHubAdapter(cfg.GitHub),
			auth.NewDiscordAdapter(cfg.Discord),
		},
		auth.WithFederatedLogger(log),
	)
	authRouter := auth.NewRouter(credentials, federated, sessions, auth.WithRouterLogger(log))

	rules := routeguard.DefaultRules()
	// The auth endpoints themselves must stay reachable without a session.
	rules.Public = append(rules.Public, "/auth")

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(routeguard.Middleware(rules, codec, cookies))
	r.Mount("/auth", authRouter.Routes())

	r.Get("/", pageHandler("landing"))
	r.Get("/login", pageHandler("login"))
	r.Get("/register", pageHandler("register"))
	r.Get("/products", pageHandler("products"))
	r.Get("/checkout", pageHandler("checkout"))
	r.Get("/profile", profileHandler)

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

// pageHandler stands in for the storefront pages this service guards.
func pageHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"page": page})
	}
}

func profileHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := routeguard.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, map[string]string{
		"page":  "profile",
		"id":    claims.UserID,
		"name":  claims.Name,
		"email": claims.Email,
		"role":  claims.Role,
	})
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
