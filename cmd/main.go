package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httpctx "github.com/dtroode/storefront-identity/internal/api/http/context"
	"github.com/dtroode/storefront-identity/internal/api/http/handler"
	"github.com/dtroode/storefront-identity/internal/api/http/router"
	httpServer "github.com/dtroode/storefront-identity/internal/api/http/server"
	"github.com/dtroode/storefront-identity/internal/config"
	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/mailer"
	"github.com/dtroode/storefront-identity/internal/model"
	"github.com/dtroode/storefront-identity/internal/otp"
	"github.com/dtroode/storefront-identity/internal/password"
	"github.com/dtroode/storefront-identity/internal/repository/memory"
	"github.com/dtroode/storefront-identity/internal/repository/postgres"
	"github.com/dtroode/storefront-identity/internal/server"
	"github.com/dtroode/storefront-identity/internal/service"
	"github.com/dtroode/storefront-identity/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	userStore, closeStore := openUserStore(ctx, cfg, logger)
	defer closeStore()

	hasher, err := password.NewMulti(
		password.Algorithm(cfg.Password.Algorithm),
		password.NewArgon2id(password.Params{Time: cfg.KDF.Time, MemKiB: cfg.KDF.MemKiB, Par: cfg.KDF.Par}),
		password.NewBcrypt(cfg.Password.BcryptCost),
	)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	tokenManager, err := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.TTL))
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}

	codes := otp.NewEngine(otp.Policy{SignupTTL: cfg.OTP.SignupTTL, ResendTTL: cfg.OTP.ResendTTL})

	dispatcher := mailer.NewDispatcher(mailer.NewLogSender(cfg.Mail.From, logger), logger, cfg.Mail.QueueSize, cfg.Mail.Workers)
	mailCtx, mailCancel := context.WithCancel(context.Background())
	defer mailCancel()
	dispatcher.Start(mailCtx)

	if cfg.AdminSecretToken == "" {
		logger.Warn("ADMIN_SECRET_TOKEN is empty, admin signup is disabled")
	}

	accountService := service.NewAccount(userStore, hasher, codes, tokenManager, dispatcher, logger, service.AccountConfig{
		AdminSecretToken: cfg.AdminSecretToken,
		BaseURL:          cfg.HTTP.BaseURL,
	})
	guard := service.NewGuard(tokenManager, userStore, logger)
	ctxMgr := httpctx.NewManager()

	cookie := handler.CookieOptions{Secure: cfg.HTTP.CookieSecure, Domain: cfg.HTTP.CookieDomain}
	srv := registerHTTPServer(logger, accountService, guard, ctxMgr, cookie, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Error("error during mail queue shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}

// openUserStore returns the account store selected by DATABASE_DRIVER and a
// function releasing it.
func openUserStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.UserStore, func()) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize storage", "error", err)
		}
		return postgres.NewUserRepository(db), func() { db.Close() }
	default:
		logger.Warn("using in-memory account store, accounts are lost on restart")
		return memory.NewUserRepository(), func() {}
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerHTTPServer(
	logger *logger.Logger,
	accountService *service.Account,
	guard *service.Guard,
	ctxMgr model.ContextManager,
	cookie handler.CookieOptions,
	addr string,
) *httpServer.HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	r := router.New(accountService, guard, ctxMgr, cookie, logger)
	return httpServer.NewHTTPServer(r.Register(), addr)
}
