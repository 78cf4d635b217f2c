package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/databases"
	"github.com/ParthRana1023/ai-courtroom/llm"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	AI       *llm.Client
	dbHelper databases.DatabaseHelper

	ArgumentLimiter *ratelimit.Limiter
	CaseGenLimiter  *ratelimit.Limiter
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper), JWTSecret: a.Config.JWTSecret}
	m.SetupGoGuardian()

	if a.ArgumentLimiter == nil {
		a.ArgumentLimiter = ratelimit.New(ratelimit.ArgumentMaxPerDay, ratelimit.Window)
	}
	if a.CaseGenLimiter == nil {
		a.CaseGenLimiter = ratelimit.New(ratelimit.CaseGenerationMaxPerDay, ratelimit.Window)
	}

	r := mux.NewRouter()
	r.Use(api.RequestIDMiddleware)

	caseDB := databases.NewCaseDatabase(a.dbHelper)
	userDB := databases.NewUserDatabase(a.dbHelper)
	otpDB := databases.NewOTPDatabase(a.dbHelper)

	u := User{DB: userDB, ODB: otpDB, Mailer: NewSendgridMailer(a.Config.SendgridAPIKey), CloudinaryURL: a.Config.CloudinaryURL}
	cs := Case{DB: caseDB, UDB: userDB, Generator: a.AI, Limiter: a.CaseGenLimiter}
	arg := Argument{DB: caseDB, UDB: userDB, Counsel: a.AI, Limiter: a.ArgumentLimiter}
	an := Analysis{DB: caseDB, UDB: userDB, Analyzer: a.AI}
	rl := RateLimit{Argument: a.ArgumentLimiter, CaseGeneration: a.CaseGenLimiter}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/register", http.HandlerFunc(u.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/verify-otp", http.HandlerFunc(u.VerifyOTPHandler)).Methods("POST")
	apiCreate.Handle("/auth/token", http.HandlerFunc(m.CreateToken)).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/profile-picture", api.Middleware(http.HandlerFunc(u.ProfilePictureHandler))).Methods("POST")

	apiCreate.Handle("/cases/generate", api.Middleware(http.HandlerFunc(cs.GenerateCaseHandler))).Methods("POST")
	apiCreate.Handle("/cases", api.Middleware(http.HandlerFunc(cs.ListCasesHandler))).Methods("GET")
	apiCreate.Handle("/cases/{cnr}", api.Middleware(http.HandlerFunc(cs.CaseByCNRHandler))).Methods("GET")
	apiCreate.Handle("/cases/{cnr}", api.Middleware(http.HandlerFunc(cs.DeleteCaseHandler))).Methods("DELETE")
	apiCreate.Handle("/cases/{cnr}/history", api.Middleware(http.HandlerFunc(cs.CaseHistoryHandler))).Methods("GET")
	apiCreate.Handle("/cases/{cnr}/arguments", api.Middleware(http.HandlerFunc(arg.SubmitArgumentHandler))).Methods("POST")
	apiCreate.Handle("/cases/{cnr}/closing-statement", api.Middleware(http.HandlerFunc(arg.ClosingStatementHandler))).Methods("POST")
	apiCreate.Handle("/cases/{cnr}/analyze-case", api.Middleware(http.HandlerFunc(an.AnalyzeCaseHandler))).Methods("POST")

	apiCreate.Handle("/limit/argument", api.Middleware(http.HandlerFunc(rl.ArgumentLimitHandler))).Methods("GET")
	apiCreate.Handle("/limit/case-generation", api.Middleware(http.HandlerFunc(rl.CaseGenerationLimitHandler))).Methods("GET")

	return r
}

// Initialize connects the database, the LLM client and the router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ai-courtroom has connected to the database")

	a.AI, err = llm.New(context.Background(), a.Config.GeminiAPIKey)
	if err != nil {
		zap.S().With(err).Error("failed to create llm client")
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// CaseDB returns a case database bound to the app's connection, for the
// background scheduler
func (a *App) CaseDB() databases.CaseDatabase {
	return databases.NewCaseDatabase(a.dbHelper)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
