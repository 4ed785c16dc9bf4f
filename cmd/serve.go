package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"zeiterfassung/config"
	"zeiterfassung/web"
)

const shutdownTimeout = 10 * time.Second

var (
	serveNoOpen bool
	serveNoPull bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Start a local HTTP server with the month view, entry form, multi-select
batch delete, settings and Excel/CSV export.

On start the server pulls the remote copy in the background if an endpoint is
configured; the page shows local entries until the pull completes.`,
	Example: `
  # Start local server on the configured port
  zeiterfassung serve

  # Custom port, no browser, no initial pull
  zeiterfassung serve --port 9090 --no-open --no-pull
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApplication(func(app *application) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			port := app.config.Server.Port
			listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
			if err != nil {
				return fmt.Errorf("listen on port %d: %w", port, err)
			}

			server := web.NewServer(web.Options{
				Entries:     app.entries,
				Settings:    app.settings,
				Gateway:     app.gateway,
				Syncer:      app.syncer,
				CompanyName: app.config.Remote.CompanyName,
				Logger:      app.logger.WithComponent("web"),
			})
			if !serveNoPull && server.StartPull() {
				fmt.Println("Pulling entries from remote in the background")
			}

			listenURL := fmt.Sprintf("http://localhost:%d", port)
			fmt.Printf("Listening on %s\n", listenURL)
			if !serveNoOpen {
				if openErr := openURLInBrowser(listenURL); openErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
				}
			}

			return runServer(ctx, listener, server)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "HTTP port for the local web server")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
	serveCmd.Flags().BoolVar(&serveNoPull, "no-pull", false, "Skip the initial pull from the remote endpoint")
	_ = viper.BindPFlag(config.KeyServerPort, serveCmd.Flags().Lookup("port"))
}

// runServer serves handler on listener until ctx is done, then shuts down and
// waits for the server's background pulls.
func runServer(ctx context.Context, listener net.Listener, server *web.Server) error {
	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		if err := server.Wait(shutdownCtx); err != nil {
			return fmt.Errorf("wait for background pull: %w", err)
		}
		return nil
	})
	return group.Wait()
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
