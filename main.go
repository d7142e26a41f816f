package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"Timber/internal/auth"
	"Timber/internal/calc/loads"
	"Timber/internal/calc/material"
	"Timber/internal/calc/premium/autodesign"
	"Timber/internal/calc/premium/batch"
	"Timber/internal/calc/premium/importer"
	"Timber/internal/calc/premium/recommend"
	"Timber/internal/calc/report"
	"Timber/internal/calc/timber"
	"Timber/internal/config"
	"Timber/internal/history"
	"Timber/internal/logging"
	"Timber/internal/metrics"
	"Timber/internal/profile"
	"Timber/internal/repo"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func loadCatalog(path string) (*material.Catalog, error) {
	if path == "" {
		return material.Default()
	}
	return material.Load(path)
}

func HandleList(ctx context.Context, mux *mux.Router, db *sql.DB, cfg *config.Settings, cat *material.Catalog, reg *prometheus.Registry) error {
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	userRepo := repo.NewPostgresUserDB(db)
	evalRepo := repo.NewPostgresEvaluationDB(db)

	authEnv := &auth.Authenv{
		JWTkey:       []byte(cfg.Auth.TokenKey),
		Repo:         userRepo,
		SecureCookie: cfg.Server.TLSCert != "",
	}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.Auth.RateLimit), cfg.Auth.RateBurst)
	go limiter.Run(ctx, time.Minute, 10*time.Minute)

	timberH := timber.NewHandler(cat, cfg.Cache.TTL, m, &history.Recorder{Repo: evalRepo})
	historyH := &history.Handler{Repo: evalRepo}
	profileH := &profile.ProfileHandler{Users: userRepo, Stats: evalRepo}
	reportH := &report.Handler{Timber: timberH}
	batchH := &batch.Handler{Eval: timberH}
	importH := &importer.Handler{Eval: timberH}
	fireH := &autodesign.Handler{Catalog: cat}
	recommendH := &recommend.Handler{Catalog: cat, Eval: timberH}

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/materials", timberH.Materials).Methods("GET")
	api.HandleFunc("/tools/timber/loads", (&loads.Handler{}).Calc).Methods("POST")
	api.Handle("/tools/timber/check", authEnv.OptionalAuth(http.HandlerFunc(timberH.Calc))).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/history", historyH.List).Methods("GET")
	secureApi.HandleFunc("/history/{id:[0-9]+}", historyH.Get).Methods("GET")

	secureApi.HandleFunc("/tools/timber/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/timber/batch", batchH.Beam).Methods("POST")
	secureApi.HandleFunc("/tools/timber/import", importH.Beam).Methods("POST")
	secureApi.HandleFunc("/tools/timber/export", importH.Export).Methods("POST")
	secureApi.HandleFunc("/tools/timber/fire/suggest", fireH.Fire).Methods("POST")
	secureApi.HandleFunc("/tools/timber/recommend", recommendH.Grade).Methods("POST")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)

	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser, err := logging.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	db, err := repo.InitDB(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := repo.Migrate(ctx, db); err != nil {
		return err
	}

	cat, err := loadCatalog(cfg.Materials.File)
	if err != nil {
		return err
	}
	logger.Info("material catalog loaded", "grades", cat.Len(), "file", cfg.Materials.File)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mux := mux.NewRouter()
	if err := HandleList(ctx, mux, db, cfg, cat, reg); err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: CORS(mux),
	}

	logger.Info("starting server", "addr", cfg.Server.Addr, "tls", cfg.Server.TLSCert != "")
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.Server.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	logger.Info("server stopped")
	return nil
}
