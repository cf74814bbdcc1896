package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"mws/internal/api"
	"mws/internal/common"
	"mws/internal/config"
	"mws/internal/handler"
	"mws/internal/tui"
)

func main() {
	// Environment variables can also be set via shell export or the
	// container runtime; a missing .env file is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	}

	rootCmd := &cobra.Command{
		Use:   "mws",
		Short: "MPC wallet management service",
		Long:  `mws exposes wallet lifecycle operations over a custodial MPC wallet platform through an HTTP API and an interactive dashboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the interactive wallet dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dashboard()
		},
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dashboardCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}

func serve() error {
	_, cleanup := common.InitializeLogger()
	defer cleanup()

	if err := config.Init(); err != nil {
		return err
	}

	services, err := common.InitializeServices()
	if err != nil {
		return err
	}

	walletHandler := handler.NewWalletHandler(services.Manager)
	router := api.SetupRouter(walletHandler)

	addr := ":" + config.GetPort()
	zap.L().Info("Starting HTTP server", zap.String("addr", addr))
	return http.ListenAndServe(addr, router)
}

func dashboard() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("dashboard requires an interactive terminal")
	}

	_, cleanup, err := common.InitializeFileLogger()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Init(); err != nil {
		return err
	}

	services, err := common.InitializeServices()
	if err != nil {
		return err
	}

	return tui.Run(services.Manager, services.Registry)
}
