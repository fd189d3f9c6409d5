package server // import "github.com/maktaba-io/maktaba/server"

import (
	"fmt"
	"net/http"

	v1 "github.com/maktaba-io/maktaba/api/v1"
	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/store"
	"github.com/maktaba-io/maktaba/version"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StartServer builds the router and starts the HTTP server in the
// background. The caller owns shutdown.
func StartServer(store *store.Store) (*http.Server, error) {
	sSetting, err := store.GetOrInitSystemSecuritySetting()
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler: setupHandler(store, sSetting.JWTSecret),
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	return server, nil
}

func setupHandler(store *store.Store, jwtSecret string) http.Handler {
	router := mux.NewRouter()

	apiHandler := v1.NewHandler(store, jwtSecret)
	v1.Server(router, apiHandler)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
