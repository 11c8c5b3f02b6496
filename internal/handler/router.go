package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/farm-operations-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - обработчики всех ресурсов API
type Handlers struct {
	Auth        *AuthHandler
	Departments *DepartmentHandler
	Employees   *EmployeeHandler
	Tools       *ToolHandler
	Tasks       *TaskHandler
	Assignments *AssignmentHandler
	Dashboard   *DashboardHandler
	Health      *HealthHandler
}

// Options - параметры HTTP слоя
type Options struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Router настраивает маршруты API
type Router struct {
	handlers Handlers
	tokens   middleware.TokenParser
	opts     Options
	logger   *slog.Logger
}

// NewRouter создаёт новый роутер
func NewRouter(handlers Handlers, tokens middleware.TokenParser, opts Options, logger *slog.Logger) *Router {
	return &Router{
		handlers: handlers,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if rt.opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(rt.opts.RequestTimeout))
	}
	r.Use(middleware.ContentType)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"method not allowed"}`))
	})

	h := rt.handlers
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Check)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.tokens, rt.logger))

			r.Post("/auth/register", h.Auth.Register)
			r.Get("/auth/profile", h.Auth.Profile)

			r.Get("/users", h.Auth.ListUsers)
			r.Put("/users/{id}/status", h.Auth.UpdateUserStatus)

			r.Get("/departments", h.Departments.List)
			r.Get("/reports/departments", h.Departments.Report)
			r.Get("/reports/departments.xlsx", h.Departments.ReportXLSX)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employees.List)
				r.Post("/", h.Employees.Create)
				r.Get("/{id}", h.Employees.GetByID)
				r.Delete("/{id}", h.Employees.Delete)
				r.Get("/{id}/tools", h.Employees.ListTools)
				r.Get("/{id}/tasks", h.Employees.ListTasks)
			})

			r.Route("/tools", func(r chi.Router) {
				r.Get("/", h.Tools.List)
				r.Post("/", h.Tools.Create)
				r.Get("/{id}", h.Tools.GetByID)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.Tasks.List)
				r.Post("/", h.Tasks.Create)
				r.Get("/{id}", h.Tasks.GetByID)
			})

			r.Post("/tool-assignments", h.Assignments.AssignTool)
			r.Put("/tool-assignments/{id}/return", h.Assignments.ReturnTool)
			r.Post("/task-assignments", h.Assignments.AssignTask)
			r.Put("/task-assignments/{id}/complete", h.Assignments.CompleteTask)

			r.Get("/dashboard", h.Dashboard.Get)
		})
	})

	return r
}
