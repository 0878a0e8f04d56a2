package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/bookkeeper-backend/internal/adapter/grpc"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.ErrOrStderr(), migrate)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := grpcadapter.NewServer(a.forecasts, a.imports, a.reports, a.ledger, a.seeder)
			grpcServer := grpcadapter.NewGRPCServer(srv, a.cfg.Server.APIToken, a.log)
			reflection.Register(grpcServer)

			lis, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.Addr, err)
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", lis.Addr().String()).Str("driver", string(a.db.Dialect)).Msg("gRPC server listening")
				errCh <- grpcServer.Serve(lis)
			}()

			return waitForShutdown(cmd.Context(), a, grpcServer, errCh)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "create the schema before serving")
	return cmd
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(ctx context.Context, a *app, grpcServer *grpclib.Server, errCh <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve gRPC server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down gracefully")
	grpcServer.GracefulStop()
	a.log.Info().Msg("gRPC server stopped")
	return nil
}
