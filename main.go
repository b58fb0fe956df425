package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"bancohoras/auth"
	"bancohoras/config"
	"bancohoras/db"
	"bancohoras/handlers"
	"bancohoras/logging"
)

//go:embed static
var staticFS embed.FS

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName: cfg.LogsPath,
		LogToStdout: cfg.LogToStdout,
		LogLevel:    cfg.LogLevel,
	})

	ctx := context.Background()

	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		// Starting without a store would just turn every request into a 500.
		log.Fatalf("open store: %s", err)
	}
	defer store.Close()

	if deleted, err := store.DeleteExpiredSessions(ctx, time.Now().UTC()); err != nil {
		log.Errorf("clean expired sessions: %s", err)
	} else if deleted > 0 {
		log.Infof("cleaned %d expired sessions", deleted)
	}

	sessionStore := auth.NewDBStore(store, []byte(cfg.SessionKey))
	authMgr := auth.NewManager(sessionStore)

	r := mux.NewRouter()

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("static assets: %s", err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	h := handlers.New(cfg.AppName, store, authMgr)
	h.Register(r)

	// CSRF Protection
	// We need a 32-byte key. Using the session key for now.
	csrfMiddleware := csrf.Protect(
		[]byte(cfg.SessionKey),
		csrf.Secure(false), // Set to true in production with HTTPS
		csrf.Path("/"),
	)

	addr := cfg.Addr()
	log.Infof("%s listening on %s", cfg.AppName, addr)

	handler := handlers.RequestLoggerMiddleware(handlers.SecurityHeadersMiddleware(csrfMiddleware(r)))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
