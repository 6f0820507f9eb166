package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"taskmasters/internal/config"
	"taskmasters/internal/mail"
	"taskmasters/internal/oauth"
	"taskmasters/internal/observability/logging"
	"taskmasters/internal/observability/metrics"
	impl "taskmasters/internal/service/impl"
	"taskmasters/internal/store"
	httpx "taskmasters/internal/transport/http"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "taskmasters",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()

	metrics.MustRegister("taskmasters")

	gdb, err := store.Open(store.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := store.Migrate(migrateCtx, gdb); err != nil {
		logger.Error("migrations", "error", err)
		os.Exit(1)
	}

	st := &store.Store{DB: gdb}

	pw := impl.NewPasswordServiceArgon2id()

	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	as := impl.NewAuthServiceImpl(st, pw, ts, mailer, impl.AuthConfig{
		BaseURL:       cfg.BaseURL,
		ResetTokenTTL: cfg.ResetTokenTTL,
		EmailTimeout:  cfg.EmailTimeout,
	})
	oa := impl.NewOAuthServiceImpl(st, pw, ts)
	tsvc := impl.NewTaskServiceImpl(st)

	var provider httpx.OAuthProvider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		provider = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	} else {
		logger.Warn("google oauth disabled: client credentials not set")
	}

	handler := httpx.NewRouter(httpx.Options{
		Auth:        as,
		Tasks:       tsvc,
		OAuth:       oa,
		Tokens:      ts,
		Provider:    provider,
		AppURL:      cfg.AppURL,
		CORSOrigins: splitOrigins(cfg.CORSOrigins),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
