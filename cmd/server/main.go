// Command server runs the match server: websocket transport, login
// handshake and the match registry.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"magnifico/internal/auth"
	"magnifico/internal/config"
	"magnifico/internal/content"
	"magnifico/internal/game"
	"magnifico/internal/ports/ws"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg config.Config, log *zap.Logger) error {
	table, err := content.Load(cfg.TablePath)
	if err != nil {
		return err
	}
	log.Info("board setup loaded",
		zap.String("path", cfg.TablePath),
		zap.Int("positions", len(table.Positions)),
		zap.Int("cards", len(table.Cards)))

	store, err := auth.OpenStore(cfg.UsersDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	registry := game.NewRegistry(table, cfg.JoinDelay(), cfg.MoveTimeout(), cfg.JournalDir, log)
	sessions := auth.NewSessions(cfg.JWTSecret)

	var login *auth.LoginHandler
	router := ws.NewRouter(func(username string) { login.Logout(username) }, log)
	login = auth.NewLoginHandler(store, sessions, registry, router.Bind, log)

	wsServer := ws.NewServer(func(conn *ws.Conn) { login.HandleLink(conn) }, log)

	r := mux.NewRouter()
	r.Use(accessLog(log))
	r.Handle("/ws", wsServer)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"matches": registry.Len(),
		})
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	registry.DismissAll()
	return nil
}

func accessLog(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)))
		})
	}
}
