package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// HTTPServer runs the control surface under the supervision tree.
type HTTPServer struct {
	address string
	handler http.Handler
}

func NewHTTPServer(address string, handler http.Handler) HTTPServer {
	return HTTPServer{
		address: address,
		handler: handler,
	}
}

func (HTTPServer) String() string {
	return "api.HTTPServer"
}

func (h HTTPServer) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.address,
		Handler: h.handler,
	}

	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe() }()

	slog.Info("Listening", "package", "api", "address", h.address)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		<-errC
		return ctx.Err()
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
