package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/examstack/examstack/internal/api/http"
	"github.com/examstack/examstack/internal/auth"
	"github.com/examstack/examstack/internal/config"
	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/db"
	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/websession"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	repo := content.NewSQLRepository(dbh)
	results := exam.NewSQLResultRepo(dbh)

	sessionTTL := time.Duration(cfg.SessionTTLSeconds) * time.Second
	sessionStore := websession.NewSQLStore(dbh)
	sessions := websession.NewManager(sessionStore, sessionTTL)
	attempts := exam.NewAttemptStore(sessionStore, sessionTTL)
	examSvc := exam.NewService(repo, attempts, results, cfg.ExamTimerSeconds(), nil)

	// --- Admin auth ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)
	admins := auth.NewAdmins(dbh, cfg.MaxLoginAttempts, time.Duration(cfg.LockoutSeconds)*time.Second)
	if err := admins.EnsureDefault(ctx, "admin", "admin"); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// --- Expired session sweep ---
	c := cron.New()
	_, err = c.AddFunc("@every 1m", func() {
		if n, err := sessionStore.DeleteExpired(context.Background()); err != nil {
			log.Printf("session sweep: %v", err)
		} else if n > 0 {
			log.Printf("session sweep: removed %d expired sessions", n)
		}
	})
	if err != nil {
		log.Fatalf("cron: %v", err)
	}
	c.Start()
	defer c.Stop()

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: subject browser, exam flow, result review.
	r.Get("/api/majors", api.ListMajorsHandler(repo))
	r.Get("/api/majors/{majorID}/materials", api.ListMaterialsHandler(repo))
	r.Get("/api/materials/{materialID}/chapters", api.ListChaptersHandler(repo))
	r.Get("/api/exam/{chapterID}", api.ExamViewHandler(examSvc, sessions))
	r.Post("/api/exam/{chapterID}", api.ExamNavigateHandler(examSvc, sessions))
	r.Get("/api/results/{resultID}", api.ResultViewHandler(results, repo, cfg))

	// Admin back office.
	r.Post("/api/admin/login", api.AdminLoginHandler(authSvc, admins))
	r.Post("/api/admin/logout", api.AdminLogoutHandler())

	r.Group(func(pr chi.Router) {
		pr.Use(auth.AdminMiddleware(authSvc))

		pr.Get("/api/admin/stats", api.AdminStatsHandler(repo, results))
		pr.Get("/api/admin/results", api.AdminListResultsHandler(results))

		pr.Get("/api/admin/majors", api.AdminListMajorsHandler(repo))
		pr.Post("/api/admin/majors", api.AdminCreateMajorHandler(repo))
		pr.Get("/api/admin/majors/{id}", api.AdminGetMajorHandler(repo))
		pr.Put("/api/admin/majors/{id}", api.AdminUpdateMajorHandler(repo))
		pr.Delete("/api/admin/majors/{id}", api.AdminDeleteMajorHandler(repo))

		pr.Get("/api/admin/materials", api.AdminListMaterialsHandler(repo))
		pr.Post("/api/admin/materials", api.AdminCreateMaterialHandler(repo))
		pr.Get("/api/admin/materials/{id}", api.AdminGetMaterialHandler(repo))
		pr.Put("/api/admin/materials/{id}", api.AdminUpdateMaterialHandler(repo))
		pr.Delete("/api/admin/materials/{id}", api.AdminDeleteMaterialHandler(repo))

		pr.Get("/api/admin/chapters", api.AdminListChaptersHandler(repo))
		pr.Post("/api/admin/chapters", api.AdminCreateChapterHandler(repo))
		pr.Get("/api/admin/chapters/{id}", api.AdminGetChapterHandler(repo))
		pr.Put("/api/admin/chapters/{id}", api.AdminUpdateChapterHandler(repo))
		pr.Delete("/api/admin/chapters/{id}", api.AdminDeleteChapterHandler(repo))

		pr.Get("/api/admin/questions", api.AdminListQuestionsHandler(repo))
		pr.Post("/api/admin/questions", api.AdminCreateQuestionHandler(repo))
		pr.Get("/api/admin/questions/{id}", api.AdminGetQuestionHandler(repo))
		pr.Put("/api/admin/questions/{id}", api.AdminUpdateQuestionHandler(repo))
		pr.Delete("/api/admin/questions/{id}", api.AdminDeleteQuestionHandler(repo))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("%s listening on %s (db=%s)", cfg.SiteName, cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
