package cmd

import (
	"budgee-analytics/src/api"
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analytics HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := bootstrap(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	router := api.NewRouter(a.svc, a.pool, a.cache, a.cfg.Location, a.cfg.JWTSecret, a.cfg.IsDemo)

	log.Println("API server running on port", a.cfg.Port)
	return http.ListenAndServe(":"+a.cfg.Port, router)
}
