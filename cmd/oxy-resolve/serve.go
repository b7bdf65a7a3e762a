package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetapi"
	"github.com/Carmen-Shannon/oxy-assets/engine/bridge"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"
)

// BridgePath is where the websocket native bridge is mounted.
const BridgePath = "/bridge"

func newServeCommand(root *rootOptions) *cobra.Command {
	var listen, projects string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projects over the HTTP asset API and the websocket bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				root.cfg.Listen = listen
			}
			if projects != "" {
				root.cfg.ProjectsDir = projects
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return serve(ctx, root)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides listen)")
	cmd.Flags().StringVar(&projects, "projects", "", "projects directory (overrides projects_dir)")
	return cmd
}

func serve(ctx context.Context, root *rootOptions) error {
	dir, err := fsPath(root.cfg.ProjectsDir)
	if err != nil {
		return err
	}
	fsys := osfs.NewFS()

	mux := http.NewServeMux()
	mux.Handle(BridgePath, bridge.NewServer(bridge.NewFSBridge(fsys, bridge.WithRoot(dir)), bridge.WithLogger(root.logger)))
	mux.Handle("/", assetapi.NewServer(fsys, assetapi.WithProjectsDir(dir), assetapi.WithLogger(root.logger)))

	srv := &http.Server{
		Addr:              root.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		root.logger.Info("serving projects", "addr", srv.Addr, "dir", "/"+dir, "bridge", BridgePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
