package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/xraph/beans"
	"github.com/xraph/beans/examples/bank"
	"github.com/xraph/go-utils/log"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bank over HTTP",
		Long: `Serve the bank over HTTP:

  GET  /health            container health
  GET  /beans             bean descriptions
  GET  /accounts          every account
  GET  /accounts/{card}   one account
  POST /transfers         {"from": "...", "to": "...", "amount": 100}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			return a.serve(ctx, opts.v.GetString("addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")

	return cmd
}

func (a *app) serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", log.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}

// router builds the HTTP routes of the bank.
func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.logger.Named("http")))
	r.Use(middleware.Recoverer)

	r.Get("/health", a.handleHealth)
	r.Get("/beans", a.handleBeans)
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", a.handleAccounts)
		r.Get("/{card}", a.handleAccount)
	})
	r.Post("/transfers", a.handleTransfer)

	return r
}

func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				log.String("method", r.Method),
				log.String("path", r.URL.Path),
				log.Int("status", ww.Status()),
				log.Duration("duration", time.Since(start)),
				log.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.container.Health(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *app) handleBeans(w http.ResponseWriter, _ *http.Request) {
	infos, err := a.inspect()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, infos)
}

func (a *app) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.accounts().ListAccounts(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func (a *app) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := a.transfers().Balance(r.Context(), chi.URLParam(r, "card"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (a *app) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.transfer(r.Context(), req.From, req.To, req.Amount); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, bank.ErrInvalidAmount), errors.Is(err, errSameAccount):
		return http.StatusBadRequest
	case beans.IsTransactionFailure(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
