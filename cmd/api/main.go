package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"med-adherence/internal/adapters/auth/supabase"
	"med-adherence/internal/platform/logger"
	"med-adherence/internal/ports/auth"
	"med-adherence/internal/router"
)

// @title           Med Adherence API
// @version         1.0
// @description     API de adherencia a medicamentos: horarios de dosis, registro de tomas y reportes.
// @BasePath        /
func main() {
	// .env es opcional; en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin SUPABASE_URL el verifier queda nil (modo dev con X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("SUPABASE_URL"); baseURL != "" {
		client, err := supabase.NewClient(supabase.Config{
			BaseURL: baseURL,
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		})
		if err != nil {
			log.Error("supabase client config", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = supabase.NewVerifier(client)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
