package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/fitsphere/fitsphere/internal/auth"
	"github.com/fitsphere/fitsphere/internal/community/challenges"
	"github.com/fitsphere/fitsphere/internal/community/groups"
	"github.com/fitsphere/fitsphere/internal/community/posts"
	"github.com/fitsphere/fitsphere/internal/config"
	"github.com/fitsphere/fitsphere/internal/db"
	"github.com/fitsphere/fitsphere/internal/enrollments"
	"github.com/fitsphere/fitsphere/internal/favorites"
	"github.com/fitsphere/fitsphere/internal/middleware"
	"github.com/fitsphere/fitsphere/internal/misc"
	"github.com/fitsphere/fitsphere/internal/nutrition"
	"github.com/fitsphere/fitsphere/internal/planner"
	"github.com/fitsphere/fitsphere/internal/programs"
	"github.com/fitsphere/fitsphere/internal/recipes"
	"github.com/fitsphere/fitsphere/internal/results"
	"github.com/fitsphere/fitsphere/internal/telemetry/metrics"
	"github.com/fitsphere/fitsphere/internal/telemetry/tracing"
	"github.com/fitsphere/fitsphere/internal/users"
	"github.com/fitsphere/fitsphere/internal/workoutlog"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	quotesManager *misc.QuotesManager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitsphere", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, strconv.Itoa(params.Config.RedisPort)),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitsphere-backend", rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuotesManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quotes manager: %s", err)
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitsphere-router"))

	miscHandler := misc.NewHandler(s.dbPool, s.quotesManager, s.versionInfo)
	miscHandler.SetupRoutes(r)

	usersRepo := users.NewRepo(s.dbPool)
	usersHandler := users.NewHandler(usersRepo, s.authService)
	r.HandleFunc("/api/users/register", usersHandler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/api/users/profile", usersHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/api/users/profile", usersHandler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/api/users", usersHandler.HandleList).Methods("GET", "OPTIONS").Name("list-users")

	// rate limit the login endpoint to prevent abuse
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginSubrouter := r.PathPrefix("/api/users").Subrouter()
	loginSubrouter.HandleFunc("/login", usersHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.Use(middleware.RateLimit(
		reqRateLimiter,
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	))

	programsHandler := programs.NewHandler(programs.NewRepo(s.dbPool), usersRepo)
	r.HandleFunc("/api/programs", programsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-program")
	r.HandleFunc("/api/programs", programsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/api/programs/{id}", programsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/api/programs/{id}", programsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-program")
	r.HandleFunc("/api/programs/{id}", programsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-program")

	enrollmentsHandler := enrollments.NewHandler(enrollments.NewRepo(s.dbPool))
	r.HandleFunc("/api/enrollments/me", enrollmentsHandler.HandleListMine).Methods("GET", "OPTIONS").Name("my-enrollments")
	r.HandleFunc("/api/enrollments/{id}/enroll", enrollmentsHandler.HandleEnroll).Methods("POST", "OPTIONS").Name("enroll")
	r.HandleFunc("/api/enrollments/{id}/enroll", enrollmentsHandler.HandleUnenroll).Methods("DELETE", "OPTIONS").Name("unenroll")
	r.HandleFunc("/api/enrollments/{id}/progress", enrollmentsHandler.HandleUpdateProgress).Methods("PUT", "OPTIONS").Name("enrollment-progress")

	favoritesHandler := favorites.NewHandler(favorites.NewRepo(s.dbPool))
	r.HandleFunc("/api/favorites", favoritesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-favorites")
	r.HandleFunc("/api/favorites/statuses", favoritesHandler.HandleStatuses).Methods("GET", "OPTIONS").Name("favorite-statuses")
	r.HandleFunc("/api/favorites/{programId}/toggle", favoritesHandler.HandleToggle).Methods("POST", "OPTIONS").Name("toggle-favorite")
	r.HandleFunc("/api/favorites/{programId}/status", favoritesHandler.HandleStatus).Methods("GET", "OPTIONS").Name("favorite-status")

	resultsHandler := results.NewHandler(results.NewRepo(s.dbPool))
	r.HandleFunc("/api/results", resultsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-result")
	r.HandleFunc("/api/results", resultsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-results")
	r.HandleFunc("/api/results/{id}", resultsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-result")
	r.HandleFunc("/api/results/{id}", resultsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-result")
	r.HandleFunc("/api/results/{id}", resultsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-result")

	nutritionHandler := nutrition.NewHandler(nutrition.NewRepo(s.dbPool), s.metricsManager)
	r.HandleFunc("/api/nutrition/today", nutritionHandler.HandleGetToday).Methods("GET", "OPTIONS").Name("nutrition-today")
	r.HandleFunc("/api/nutrition/today", nutritionHandler.HandleUpdateToday).Methods("PUT", "OPTIONS").Name("update-nutrition-today")
	r.HandleFunc("/api/nutrition/history", nutritionHandler.HandleHistory).Methods("GET", "OPTIONS").Name("nutrition-history")
	r.HandleFunc("/api/nutrition/goals", nutritionHandler.HandleGetGoals).Methods("GET", "OPTIONS").Name("nutrition-goals")
	r.HandleFunc("/api/nutrition/goals", nutritionHandler.HandleUpdateGoals).Methods("PUT", "OPTIONS").Name("update-nutrition-goals")

	workoutLogsRepo := workoutlog.NewRepo(s.dbPool)
	workoutLogsHandler := workoutlog.NewHandler(workoutLogsRepo, s.metricsManager)
	r.HandleFunc("/api/workout-logs/mark", workoutLogsHandler.HandleMark).Methods("POST", "OPTIONS").Name("mark-workout")
	r.HandleFunc("/api/workout-logs/unmark", workoutLogsHandler.HandleUnmark).Methods("POST", "OPTIONS").Name("unmark-workout")
	r.HandleFunc("/api/workout-logs", workoutLogsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workout-logs")
	r.HandleFunc("/api/workout-logs/{date}", workoutLogsHandler.HandleGetByDate).Methods("GET", "OPTIONS").Name("get-workout-log")

	plannerService := planner.NewService(planner.NewRepo(s.dbPool), workoutLogsRepo)
	plannerHandler := planner.NewHandler(plannerService, s.metricsManager)
	r.HandleFunc("/api/planner/weekly", plannerHandler.HandleWeekly).Methods("GET", "OPTIONS").Name("weekly-schedule")
	r.HandleFunc("/api/planner/today", plannerHandler.HandleToday).Methods("GET", "OPTIONS").Name("today-workout")
	r.HandleFunc("/api/planner/summary", plannerHandler.HandleSummary).Methods("GET", "OPTIONS").Name("week-summary")
	r.HandleFunc("/api/planner", plannerHandler.HandleCreate).Methods("POST", "OPTIONS").Name("schedule-workout")
	r.HandleFunc("/api/planner/{id}/complete", plannerHandler.HandleComplete).Methods("PUT", "OPTIONS").Name("complete-workout")
	r.HandleFunc("/api/planner/{id}/reset", plannerHandler.HandleReset).Methods("PUT", "OPTIONS").Name("reset-workout")
	r.HandleFunc("/api/planner/{id}", plannerHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-scheduled-workout")

	recipesHandler := recipes.NewHandler(recipes.NewRepo(s.dbPool))
	r.HandleFunc("/api/recipes", recipesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-recipe")
	r.HandleFunc("/api/recipes", recipesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-recipes")
	r.HandleFunc("/api/recipes/{id}", recipesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-recipe")
	r.HandleFunc("/api/recipes/{id}", recipesHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-recipe")
	r.HandleFunc("/api/recipes/{id}", recipesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-recipe")

	postsHandler := posts.NewHandler(posts.NewRepo(s.dbPool), s.metricsManager)
	r.HandleFunc("/api/community/posts", postsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-post")
	r.HandleFunc("/api/community/posts", postsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-posts")
	r.HandleFunc("/api/community/posts/{id}", postsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-post")
	r.HandleFunc("/api/community/posts/{id}", postsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
	r.HandleFunc("/api/community/posts/{id}/reactions", postsHandler.HandleToggleReaction).Methods("POST", "OPTIONS").Name("toggle-reaction")
	r.HandleFunc("/api/community/posts/{id}/comments", postsHandler.HandleAddComment).Methods("POST", "OPTIONS").Name("new-comment")
	r.HandleFunc("/api/community/posts/{id}/comments", postsHandler.HandleListComments).Methods("GET", "OPTIONS").Name("list-comments")
	r.HandleFunc("/api/community/posts/{id}/comments/{commentId}", postsHandler.HandleDeleteComment).Methods("DELETE", "OPTIONS").Name("delete-comment")

	challengesHandler := challenges.NewHandler(challenges.NewRepo(s.dbPool))
	r.HandleFunc("/api/community/challenges", challengesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-challenges")
	r.HandleFunc("/api/community/challenges", challengesHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-challenge")
	r.HandleFunc("/api/community/challenges/{id}/join", challengesHandler.HandleJoin).Methods("POST", "OPTIONS").Name("join-challenge")
	r.HandleFunc("/api/community/challenges/{id}/leave", challengesHandler.HandleLeave).Methods("POST", "OPTIONS").Name("leave-challenge")

	groupsHandler := groups.NewHandler(groups.NewRepo(s.dbPool))
	r.HandleFunc("/api/community/groups", groupsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-groups")
	r.HandleFunc("/api/community/groups", groupsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-group")
	r.HandleFunc("/api/community/groups/{id}/join", groupsHandler.HandleJoin).Methods("POST", "OPTIONS").Name("join-group")
	r.HandleFunc("/api/community/groups/{id}/leave", groupsHandler.HandleLeave).Methods("POST", "OPTIONS").Name("leave-group")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, strconv.Itoa(s.config.PrometheusMetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
