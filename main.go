package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	boardstore "moodboard/board"
	"moodboard/handlers/api/boards"
	"moodboard/handlers/api/imageproxy"
	"moodboard/handlers/api/images"
	"moodboard/handlers/api/library"
	"moodboard/handlers/api/suggest"
	"moodboard/handlers/capture"
	"moodboard/stores"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

//go:embed all:frontend
var assets embed.FS

func handleUI() http.HandlerFunc {
	sub, err := fs.Sub(assets, "frontend")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Unknown extensionless paths are client-side routes; hand them the
		// SPA shell and let the frontend router take over.
		if _, err := fs.Stat(sub, path); err != nil {
			if os.IsNotExist(err) && !strings.Contains(path, ".") {
				r.URL.Path = "/"
			} else {
				http.NotFound(w, r)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	}
}

func setupRouter(store *boardstore.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "Host", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/boards", func(r chi.Router) {
			r.Get("/", boards.HandleList(store))
			r.Post("/", boards.HandleCreate(store))
			r.Put("/active", boards.HandleSetActive(store))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", boards.HandleGet(store))
				r.Put("/", boards.HandleRename(store))
				r.Delete("/", boards.HandleDelete(store))
				r.Put("/view", boards.HandleUpdateView(store))
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/", images.HandleList(store))
			r.Post("/", images.HandleAdd(store))
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", images.HandleUpdate(store))
				r.Delete("/", images.HandleDelete(store))
			})
		})

		r.Get("/tags", images.HandleListTags(store))
		r.Get("/colors", images.HandleListColors(store))

		r.Route("/library", func(r chi.Router) {
			r.Get("/export", library.HandleExport(store))
			r.Post("/import", library.HandleImport(store))
		})

		r.Post("/suggest", suggest.HandleSuggest(store))
		r.Get("/imageproxy", imageproxy.HandleFetch())
	})

	r.Get("/capture", capture.HandleCapture(store))

	return r
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	listenAddress := flag.String("listen", ":3003", "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	suggest.Init()
	persist := stores.GetStore()
	store := boardstore.NewStore(context.Background(), persist)

	r := setupRouter(store)
	r.NotFound(handleUI())

	server := &http.Server{Addr: *listenAddress, Handler: r}

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-signalC

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}
