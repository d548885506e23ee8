package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"elephant-gateway/internal/app"
	"elephant-gateway/internal/httputil"
	"elephant-gateway/internal/inference"
	"elephant-gateway/internal/model"
)

const banner = "XGBoost Elephant Detection API is running!"

type predictionResponse struct {
	Prediction []string `json:"prediction"`
}

type modelResponse struct {
	Loaded bool `json:"loaded"`
	*model.Info
	Labels []model.Label `json:"labels"`
	Error  string        `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx)
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Warn("failed to release dependencies", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: newRouter(deps),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr, "model_loaded", deps.Predictor != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.ShutdownTimeout)
		defer cancel()
		deps.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps)

	r.Get("/", homeHandler(deps))
	r.Post("/predict", predictHandler(deps))
	r.Get("/model", modelHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	return r
}

func homeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(banner)); err != nil {
			deps.Log.Warn("home write failed", "err", err)
		}
	}
}

func newClassifier(deps app.Deps) *inference.Classifier {
	var opts []inference.Option
	if deps.Cache != nil && deps.ModelInfo != nil {
		opts = append(opts, inference.WithCache(deps.Cache, deps.ModelInfo.ID.String(), deps.Config.CacheTTLDuration()))
	}
	return inference.NewClassifier(deps.Predictor, deps.Log, opts...)
}

func predictHandler(deps app.Deps) http.HandlerFunc {
	clf := newClassifier(deps)

	return func(w http.ResponseWriter, r *http.Request) {
		if err := clf.Ready(); err != nil {
			failInference(deps, w, err)
			return
		}

		body := r.Body
		if deps.Config.MaxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, deps.Config.MaxBodyBytes)
		}
		payload, err := decodePayload(body)
		if err != nil {
			httputil.Fail(deps.Log, w, "Invalid JSON payload: "+err.Error(), err, http.StatusBadRequest)
			return
		}

		labels, err := clf.Classify(r.Context(), payload)
		if err != nil {
			failInference(deps, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, predictionResponse{Prediction: labels})
	}
}

// decodePayload reads exactly one JSON value; anything but whitespace after it is an error.
func decodePayload(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return payload, nil
}

// failInference renders an inference error; every kind except a missing model is a 400.
func failInference(deps app.Deps, w http.ResponseWriter, err error) {
	e := inference.AsError(err)
	deps.Log.Info("prediction rejected", "step", e.Step, "status", e.Status(), "err", e.Message)
	httputil.WriteError(w, e.Status(), e.Message)
}

func modelHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := modelResponse{
			Loaded: deps.Predictor != nil,
			Info:   deps.ModelInfo,
			Labels: model.Labels(),
		}
		if deps.LoadErr != nil {
			resp.Error = deps.LoadErr.Error()
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}
