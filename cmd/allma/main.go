// @title           Allma Chat Client API
// @version         1.0
// @description     Local chat client for a retrieval-augmented assistant backend.
// @host            localhost:3000
// @BasePath        /api
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"allma-client/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "allma",
	Short: "Chat client for the Allma assistant backend",
	Long: `allma keeps your conversations with the Allma RAG assistant and serves
the chat API and web UI. Without a subcommand it starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API and web UI",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().String("api-url", "", "assistant backend URL used for first-run settings")
	rootCmd.PersistentFlags().String("store", "", "state store driver (sqlite, redis, bolt, memory)")
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("API_URL", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("STORE_DRIVER", rootCmd.PersistentFlags().Lookup("store"))

	serveCmd.Flags().Int("port", 0, "port to listen on")
	_ = viper.BindPFlag("APP_PORT", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd, sendCmd, conversationsCmd, deleteCmd, ingestCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if code := app.Run(); code != 0 {
		return fmt.Errorf("server exited with status %d", code)
	}
	return nil
}

// withApp loads the configuration, opens the application for the duration
// of fn and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := app.Bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	runErr := fn(ctx, a)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
