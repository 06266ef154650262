package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// HTTPService serves handler until the context is done.
type HTTPService struct {
	addr    string
	handler http.Handler
}

func NewHTTPService(addr string, handler http.Handler) HTTPService {
	return HTTPService{
		addr:    addr,
		handler: handler,
	}
}

func (s HTTPService) String() string {
	return "api.HTTPService"
}

func (s HTTPService) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() { errC <- server.ListenAndServe() }()
	slog.Info("Listening", "package", "api", "address", s.addr)

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
