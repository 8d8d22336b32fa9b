package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/notify"
	"app/internal/repository"
	"app/internal/session"
	"app/internal/storage"
	"app/internal/store"

	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	// 1. Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// In a development environment, we want to ensure that SSL is disabled for
	// local testing. In production, the connection string should be provided
	// with the correct SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	// For non-development environments that use a transaction pooler like pgbouncer,
	// we must use the simple query protocol to avoid issues with server-side prepared statements.
	if cfg.Environment != "development" {
		if !strings.Contains(dsn, "prefer_simple_protocol") {
			separator := "&"
			if !strings.Contains(dsn, "?") {
				separator = "?"
			}
			dsn += separator + "prefer_simple_protocol=true"
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB connection")
		return nil, nil, err
	}

	// Ping the database to ensure connection is valid
	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 2. Initialize S3-backed object store
	s3Client, err := storage.NewClient(context.Background(), cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create S3 client")
		return nil, nil, err
	}
	objects := storage.NewS3Store(s3Client, cfg.PublicURLBase)
	buckets := store.Buckets{Video: cfg.VideoBucket, Notes: cfg.NotesBucket}

	// 3. Initialize validator, session manager, and notification sink
	validate := validator.New(validator.WithRequiredStructEnabled())
	sessions := session.NewManager(cfg.JWTSecret)
	notifier := notify.NewLogNotifier(logger)

	// 4. Initialize repositories & stores & handlers
	studentRepo := repository.NewStudentRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	contentRepo := repository.NewContentRepo(db)
	profileRepo := repository.NewProfileRepo(db)

	students := store.NewStudentStore(studentRepo, notifier, logger)
	courses := store.NewCourseStore(courseRepo, contentRepo, objects, buckets, notifier, logger)
	assignments := store.NewAssignmentStore(enrollmentRepo, profileRepo, notifier, logger)
	enrollments := store.NewEnrollmentStores(enrollmentRepo, notifier, logger)
	contents := store.NewContentStores(contentRepo, objects, buckets, notifier, logger)
	gates := store.NewProfileGates(studentRepo, logger)

	// Prime the process-wide caches; a failure here means the backend is
	// unreachable and the process should not come up half-blind.
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := students.Refetch(startCtx); err != nil {
		return nil, nil, err
	}
	if err := courses.Refetch(startCtx); err != nil {
		return nil, nil, err
	}
	if err := assignments.Refetch(startCtx); err != nil {
		return nil, nil, err
	}
	if err := assignments.RefetchStudentProfiles(startCtx); err != nil {
		logger.Warn().Err(err).Msg("Student profile list unavailable at start")
	}

	studentHandler := handler.NewStudentHandler(students, validate, logger)
	courseHandler := handler.NewCourseHandler(courses, validate, logger)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollments, validate, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignments, validate, logger)
	contentHandler := handler.NewContentHandler(contents, validate, logger)
	profileHandler := handler.NewProfileHandler(gates, logger)

	// 5. Initialize middleware
	authMw := middleware.AuthMiddleware(sessions, logger)
	adminMw := func(next http.Handler) http.Handler {
		return authMw(middleware.RequireRole(model.RoleAdmin, logger)(next))
	}
	gatedMw := func(next http.Handler) http.Handler {
		return authMw(middleware.RequireProfile(gates)(next))
	}

	// 6. Create ServeMux router
	apiV1Mux := http.NewServeMux()
	studentHandler.RegisterRoutes(apiV1Mux, adminMw)
	courseHandler.RegisterRoutes(apiV1Mux, authMw)
	enrollmentHandler.RegisterRoutes(apiV1Mux, gatedMw)
	assignmentHandler.RegisterRoutes(apiV1Mux, adminMw)
	contentHandler.RegisterRoutes(apiV1Mux, gatedMw)
	profileHandler.RegisterRoutes(apiV1Mux, authMw)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// 7. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Allow all origins for development
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), db, nil
}
