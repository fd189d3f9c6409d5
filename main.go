package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/maktaba-io/maktaba/config"
	"github.com/maktaba-io/maktaba/log"
	"github.com/maktaba-io/maktaba/server"
	"github.com/maktaba-io/maktaba/store"
	"github.com/maktaba-io/maktaba/store/db"
	"github.com/maktaba-io/maktaba/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	greetingBanner = `
███    ███  █████  ██   ██ ████████  █████  ██████   █████
████  ████ ██   ██ ██  ██     ██    ██   ██ ██   ██ ██   ██
██ ████ ██ ███████ █████      ██    ███████ ██████  ███████
██  ██  ██ ██   ██ ██  ██     ██    ██   ██ ██   ██ ██   ██
██      ██ ██   ██ ██   ██    ██    ██   ██ ██████  ██   ██
`
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "maktaba",
		Short: "Maktaba is a library management system",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			database, err := db.NewDB(config.Opts.DSN)
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				log.Error("Error migrating database", zap.Error(err))
				return
			}

			s := store.NewStore(database.DB)
			if err := s.Ping(); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			go worker.NewExpiryWorker(s).Run(ctx)

			httpServer, err := server.StartServer(s)
			if err != nil {
				log.Error("Error starting server", zap.Error(err))
				return
			}

			println(greetingBanner)
			log.Info("Server started",
				zap.String("host", config.Opts.Host),
				zap.Int("port", config.Opts.Port))

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info("Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down HTTP server", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
	rootCmd.PersistentFlags().String("host", "", "host to listen on")
	rootCmd.PersistentFlags().Int("port", 0, "port to listen on")
	rootCmd.PersistentFlags().String("data", "", "data directory")

	cobra.OnInitialize(func() {
		if _, err := config.GetConfig(); err != nil {
			println("Error loading config:", err.Error())
			os.Exit(1)
		}
		if configFile != "" {
			if _, err := config.ParseFile(configFile); err != nil {
				println("Error parsing config file:", err.Error())
				os.Exit(1)
			}
		}
		if v, _ := rootCmd.PersistentFlags().GetString("host"); v != "" {
			config.Opts.Host = v
		}
		if v, _ := rootCmd.PersistentFlags().GetInt("port"); v != 0 {
			config.Opts.Port = v
		}
		if v, _ := rootCmd.PersistentFlags().GetString("data"); v != "" {
			config.Opts.Data = v
			config.Opts.DSN = filepath.Join(v, "maktaba.db")
		}

		log.Logger = log.NewLogger()
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	defer log.Logger.Sync()
}
