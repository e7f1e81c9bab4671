package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/adapters/web"
	"github.com/aden1s/ruphrasehints/internal/app"
)

var (
	serveFlags engineFlags
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the annotation API on localhost",
	Long: `Serves POST /api/annotate, GET /api/patterns and GET /api/health on 127.0.0.1.
Requests without a "dictionary" field (or ?dict=NAME) use the configured dictionary.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", -1, "port to listen on (default: derived from the project path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	o, err := serveFlags.overrides(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(o)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.Paths.EnsureDirs(); err != nil {
		return err
	}

	port := servePort
	if port < 0 {
		port = web.DefaultPort(a.Paths.Root)
	}
	srv := web.NewServer(a, httpStatus, a.Paths.PortFile)
	if err := srv.Start(port); err != nil {
		return err
	}
	defer srv.Stop()
	fmt.Fprintf(cmd.OutOrStdout(), "serving on %s\n", paint(colorCyan, srv.URL()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

// httpStatus maps dictionary resolution errors to status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrDictionaryNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNoDictionary):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
