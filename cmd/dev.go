package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/omicreativedev/tunepeep/internal/server"
	"github.com/urfave/cli/v3"
)

// DevServe runs a stub TunePeep backend on the configured address. Useful
// for trying the client without a real deployment: sign in with
// admin@tunepeep.dev / changeme.
func (r *Runner) DevServe(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	if host == "" {
		host = r.config.Server.Host
	}
	port := cmd.Int("port")
	if port == 0 {
		port = r.config.Server.Port
	}
	if port == 0 {
		port = 8080
	}

	stub := server.NewStubServer(server.StubOpts{Logger: r.logger})

	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: addr, Handler: stub.Router()}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	r.logger.Info("stub backend listening", "addr", addr)
	r.writePlain("Stub backend on http://%s\n", addr)
	r.writePlain("Accounts: admin@tunepeep.dev / user@tunepeep.dev (password: changeme)\n")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
