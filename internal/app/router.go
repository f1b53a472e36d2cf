package app

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"medicquiz/internal/app/apiresp"
	"medicquiz/internal/app/observability"
	"medicquiz/internal/exam"
	"medicquiz/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ImageLookup maps an image question number to its stored file.
type ImageLookup interface {
	ImagePath(number int) (string, bool)
}

func NewRouter(cfg Config, catalog *exam.Catalog, images ImageLookup, collector *observability.Collector, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if collector == nil {
		collector = observability.NewCollector(log)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(collector.Middleware)

	examHandler := exam.NewHandler(exam.NewService(catalog, collector, log.Named("exam")))
	reportHandler := report.NewHandler(report.NewService(catalog, cfg.ExamLength))
	scoreLimiter := NewIPRateLimiter(cfg.ScoreRateLimitPerMin, time.Minute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteOK(w, r, http.StatusOK, map[string]int{"tests": len(catalog.Tests())})
	})
	r.Handle("/metrics", collector.Handler())
	r.Get("/static/{file}", staticImage(images))

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/tests", examHandler.ListTests)
		api.Get("/tests/{number}", examHandler.GetTest)
		api.With(RateLimitMiddleware(scoreLimiter)).Post("/tests/{number}/score", examHandler.Score)
		api.Get("/report", reportHandler.Summary)
	})

	return r
}

// staticImage serves /static/<n>.jpg from the image store.
func staticImage(images ImageLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "file")
		n, err := strconv.Atoi(strings.TrimSuffix(name, ".jpg"))
		if err != nil || !strings.HasSuffix(name, ".jpg") || images == nil {
			http.NotFound(w, r)
			return
		}
		path, ok := images.ImagePath(n)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		http.ServeFile(w, r, filepath.Clean(path))
	}
}
