package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/datachat-ai/datachat/internal/progress"
	"github.com/datachat-ai/datachat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat backend HTTP server",
	Long: `Starts the HTTP server exposing streamed chat, uploads, training
control with live WebSocket status, and store management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(progress.NopReporter{})
		if err != nil {
			return err
		}
		defer a.close()

		if a.cfg.APIKey == "" {
			fmt.Fprintln(os.Stderr, "Warning: no OpenAI API key configured; set OPENAI_API_KEY or POST /api/input/key.")
		}

		srv := server.New(server.Config{
			Addr:           a.cfg.Addr(),
			UploadsDir:     a.cfg.Paths.UploadsDir,
			DatasetsDir:    a.cfg.Paths.DatasetsDir,
			AllowedOrigins: a.cfg.Server.AllowedOrigins,
		}, server.Deps{
			Engine:    a.engine,
			Sessions:  a.sessions,
			Retriever: a.retriever,
			Runner:    a.runner,
			Ingestor:  a.ingestor,
			Documents: a.documents,
			Tables:    a.tables,
			Runs:      a.runs,
			SetAPIKey: a.setAPIKey,
		})

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
