package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/match"
	"github.com/signalis/connector-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for enrichment requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnrich()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter assembles the HTTP API for an initialized enrichment environment.
func buildRouter(env *enrichEnv) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/enrich", func(w http.ResponseWriter, req *http.Request) {
		var record model.NormalizedRecord
		if err := json.NewDecoder(req.Body).Decode(&record); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if record.RecordKey == "" {
			record.RecordKey = "http:" + middleware.GetReqID(req.Context())
		}
		if record.Domain != "" && record.DomainSource == "" {
			record.DomainSource = model.DomainExplicit
		}

		result := env.Enricher.EnrichRecord(req.Context(), &record)
		writeJSON(w, http.StatusOK, map[string]any{
			"record": &record,
			"result": result,
		})
	})

	r.Post("/match/validate", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Mode   string                  `json:"mode"`
			Supply *model.NormalizedRecord `json:"supply"`
			Demand *model.NormalizedRecord `json:"demand"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Supply == nil || body.Demand == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "supply and demand records are required"})
			return
		}

		ok, reason := match.ValidateMatch(body.Supply, body.Demand, body.Mode)
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":  ok,
			"reason": reason,
			"supply": match.SupplyProfile(body.Supply, body.Mode),
			"demand": match.DemandProfile(body.Demand, body.Mode),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
