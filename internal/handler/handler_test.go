package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/farm-operations-api/internal/auth"
	"github.com/farm-operations-api/internal/config"
	"github.com/farm-operations-api/internal/database"
	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/handler"
	"github.com/farm-operations-api/internal/repository"
	"github.com/farm-operations-api/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const (
	ownerUsername = "farmowner"
	ownerPassword = "owner-pass-123"
)

type testEnv struct {
	server     *httptest.Server
	ownerToken string
	supToken   string
	depts      map[string]int64
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := testLogger()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "farm_handler_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	seedCfg := config.SeedConfig{
		Enabled:       true,
		OwnerUsername: ownerUsername,
		OwnerEmail:    "owner@farm.local",
		OwnerPassword: ownerPassword,
	}
	if err := database.Seed(ctx, db, seedCfg, hasher.Hash); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	deptRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	dashService := service.NewDashboardService(repository.NewDashboardRepository(db))

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(userRepo, deptRepo, hasher, tokens, logger), logger),
		Departments: handler.NewDepartmentHandler(service.NewDepartmentService(deptRepo), dashService, logger),
		Employees:   handler.NewEmployeeHandler(service.NewEmployeeService(repository.NewEmployeeRepository(db), deptRepo), logger),
		Tools:       handler.NewToolHandler(service.NewToolService(repository.NewToolRepository(db), deptRepo), logger),
		Tasks:       handler.NewTaskHandler(service.NewTaskService(repository.NewTaskRepository(db), deptRepo), logger),
		Assignments: handler.NewAssignmentHandler(service.NewAssignmentService(repository.NewAssignmentRepository(db)), logger),
		Dashboard:   handler.NewDashboardHandler(dashService, logger),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, logger),
	}

	router := handler.NewRouter(handlers, tokens, handler.Options{
		RequestTimeout: 5 * time.Second,
		AllowedOrigins: []string{"*"},
	}, logger)

	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)

	env := &testEnv{server: server, depts: make(map[string]int64)}
	env.ownerToken = env.login(t, ownerUsername, ownerPassword)

	var depts []domain.Department
	env.mustDo(t, http.MethodGet, "/api/departments", env.ownerToken, nil, http.StatusOK, &depts)
	for _, d := range depts {
		env.depts[d.Name] = d.ID
	}

	cropsID := env.depts["Crops"]
	env.mustDo(t, http.MethodPost, "/api/auth/register", env.ownerToken, dto.RegisterUserRequest{
		Username:     "crops_sup",
		Email:        "crops@farm.local",
		Password:     "supervisor-123",
		Role:         domain.RoleSupervisor,
		DepartmentID: &cropsID,
	}, http.StatusCreated, nil)
	env.supToken = env.login(t, "crops_sup", "supervisor-123")

	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func (e *testEnv) mustDo(t *testing.T, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()
	status, data := e.do(t, method, path, token, body)
	if status != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d: %s", method, path, wantStatus, status, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	var resp dto.LoginResponse
	e.mustDo(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Username: username,
		Password: password,
	}, http.StatusOK, &resp)
	if resp.Token == "" {
		t.Fatal("expected session token")
	}
	return resp.Token
}

func (e *testEnv) createEmployee(t *testing.T, token, email string, deptID *int64) domain.Employee {
	t.Helper()
	var emp domain.Employee
	e.mustDo(t, http.MethodPost, "/api/employees", token, dto.CreateEmployeeRequest{
		FirstName:    "Ann",
		LastName:     "Field",
		Email:        email,
		DepartmentID: deptID,
	}, http.StatusCreated, &emp)
	return emp
}

func TestHealth(t *testing.T) {
	env := setupTestServer(t)

	var resp dto.HealthResponse
	env.mustDo(t, http.MethodGet, "/api/health", "", nil, http.StatusOK, &resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}

func TestAuthentication(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
	}{
		{"no token", http.MethodGet, "/api/employees", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/employees", "garbage", nil, http.StatusUnauthorized},
		{"wrong password", http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: ownerUsername, Password: "nope"}, http.StatusUnauthorized},
		{"unknown user", http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ghost", Password: "nope"}, http.StatusUnauthorized},
		{"missing credentials", http.MethodPost, "/api/auth/login", "", dto.LoginRequest{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, tt.method, tt.path, tt.token, tt.body)
			if status != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, status, body)
			}
		})
	}

	var profile domain.User
	env.mustDo(t, http.MethodGet, "/api/auth/profile", env.supToken, nil, http.StatusOK, &profile)
	if profile.Username != "crops_sup" || profile.Role != domain.RoleSupervisor {
		t.Errorf("unexpected profile %+v", profile)
	}
	if profile.LastLogin == nil {
		t.Error("expected last_login to be set after login")
	}
}

func TestToolAssignmentFlow(t *testing.T) {
	env := setupTestServer(t)

	emp := env.createEmployee(t, env.supToken, "e1@farm.local", nil)
	if emp.DepartmentID != env.depts["Crops"] {
		t.Fatalf("expected employee in Crops, got department %d", emp.DepartmentID)
	}

	var tool domain.Tool
	env.mustDo(t, http.MethodPost, "/api/tools", env.supToken, dto.CreateToolRequest{Name: "Tractor"}, http.StatusCreated, &tool)
	if tool.Status != domain.ToolStatusAvailable {
		t.Fatalf("expected new tool available, got %s", tool.Status)
	}

	var assignment domain.ToolAssignment
	env.mustDo(t, http.MethodPost, "/api/tool-assignments", env.supToken, dto.AssignToolRequest{
		EmployeeID: emp.ID,
		ToolID:     tool.ID,
		Notes:      "field work",
	}, http.StatusCreated, &assignment)

	env.mustDo(t, http.MethodGet, fmt.Sprintf("/api/tools/%d", tool.ID), env.supToken, nil, http.StatusOK, &tool)
	if tool.Status != domain.ToolStatusAssigned {
		t.Errorf("expected tool assigned, got %s", tool.Status)
	}

	status, body := env.do(t, http.MethodPost, "/api/tool-assignments", env.supToken, dto.AssignToolRequest{
		EmployeeID: emp.ID,
		ToolID:     tool.ID,
	})
	if status != http.StatusConflict {
		t.Errorf("expected 409 on second assignment, got %d: %s", status, body)
	}

	var held []domain.AssignedTool
	env.mustDo(t, http.MethodGet, fmt.Sprintf("/api/employees/%d/tools", emp.ID), env.supToken, nil, http.StatusOK, &held)
	if len(held) != 1 || held[0].AssignmentID != assignment.ID {
		t.Errorf("expected one held tool, got %+v", held)
	}

	var returned dto.ToolReturnResponse
	env.mustDo(t, http.MethodPut, fmt.Sprintf("/api/tool-assignments/%d/return", assignment.ID), env.supToken,
		dto.AssignmentNotesRequest{Notes: "done"}, http.StatusOK, &returned)
	if returned.Assignment == nil || returned.Assignment.ReturnedAt == nil {
		t.Fatalf("expected returned_at to be set, got %+v", returned.Assignment)
	}

	env.mustDo(t, http.MethodGet, fmt.Sprintf("/api/tools/%d", tool.ID), env.supToken, nil, http.StatusOK, &tool)
	if tool.Status != domain.ToolStatusAvailable {
		t.Errorf("expected tool available after return, got %s", tool.Status)
	}

	status, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/tool-assignments/%d/return", assignment.ID), env.supToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 returning closed assignment, got %d", status)
	}
}

func TestTaskAssignmentFlow(t *testing.T) {
	env := setupTestServer(t)

	emp := env.createEmployee(t, env.supToken, "e2@farm.local", nil)

	var task domain.Task
	env.mustDo(t, http.MethodPost, "/api/tasks", env.supToken, dto.CreateTaskRequest{
		Title:   "Irrigate north field",
		DueDate: strPtr("2026-11-01"),
	}, http.StatusCreated, &task)
	if task.Priority != domain.TaskPriorityMedium || task.Status != domain.TaskStatusPending {
		t.Errorf("expected defaults medium/pending, got %s/%s", task.Priority, task.Status)
	}

	var assignment domain.TaskAssignment
	env.mustDo(t, http.MethodPost, "/api/task-assignments", env.supToken, dto.AssignTaskRequest{
		EmployeeID: emp.ID,
		TaskID:     task.ID,
	}, http.StatusCreated, &assignment)

	var tasks []domain.AssignedTask
	env.mustDo(t, http.MethodGet, fmt.Sprintf("/api/employees/%d/tasks", emp.ID), env.supToken, nil, http.StatusOK, &tasks)
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("expected assigned task listed, got %+v", tasks)
	}

	var completed dto.TaskCompleteResponse
	env.mustDo(t, http.MethodPut, fmt.Sprintf("/api/task-assignments/%d/complete", assignment.ID), env.supToken,
		nil, http.StatusOK, &completed)
	if completed.Assignment == nil || completed.Assignment.CompletedAt == nil {
		t.Errorf("expected completed_at to be set, got %+v", completed.Assignment)
	}
}

func TestDepartmentScoping(t *testing.T) {
	env := setupTestServer(t)

	livestockID := env.depts["Livestock"]
	herder := env.createEmployee(t, env.ownerToken, "herder@farm.local", &livestockID)
	env.createEmployee(t, env.supToken, "crop@farm.local", nil)

	status, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", herder.ID), env.supToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for other department employee, got %d", status)
	}

	status, _ = env.do(t, http.MethodGet, "/api/employees/999999", env.supToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for missing employee, got %d", status)
	}

	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/employees/%d", herder.ID), env.supToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 deleting other department employee, got %d", status)
	}

	status, _ = env.do(t, http.MethodPost, "/api/employees", env.supToken, dto.CreateEmployeeRequest{
		FirstName:    "Bob",
		LastName:     "Barn",
		Email:        "bob@farm.local",
		DepartmentID: &livestockID,
	})
	if status != http.StatusForbidden {
		t.Errorf("expected 403 creating in other department, got %d", status)
	}

	var supList []domain.Employee
	env.mustDo(t, http.MethodGet, "/api/employees", env.supToken, nil, http.StatusOK, &supList)
	if len(supList) != 1 || supList[0].Email != "crop@farm.local" {
		t.Errorf("expected only the Crops employee, got %+v", supList)
	}

	var ownerList []domain.Employee
	env.mustDo(t, http.MethodGet, "/api/employees", env.ownerToken, nil, http.StatusOK, &ownerList)
	if len(ownerList) != 2 {
		t.Errorf("expected owner to see 2 employees, got %d", len(ownerList))
	}
}

func TestEmployeeSoftDelete(t *testing.T) {
	env := setupTestServer(t)

	emp := env.createEmployee(t, env.supToken, "gone@farm.local", nil)

	var resp dto.DeleteEmployeeResponse
	env.mustDo(t, http.MethodDelete, fmt.Sprintf("/api/employees/%d", emp.ID), env.supToken, nil, http.StatusOK, &resp)
	if resp.Employee == nil || resp.Employee.IsActive {
		t.Errorf("expected inactive employee in response, got %+v", resp.Employee)
	}

	status, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", emp.ID), env.supToken, nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 after soft delete, got %d", status)
	}

	var list []domain.Employee
	env.mustDo(t, http.MethodGet, "/api/employees", env.supToken, nil, http.StatusOK, &list)
	if len(list) != 0 {
		t.Errorf("expected empty list after soft delete, got %d", len(list))
	}

	status, _ = env.do(t, http.MethodPost, "/api/employees", env.supToken, dto.CreateEmployeeRequest{
		FirstName: "Ann",
		LastName:  "Again",
		Email:     "gone@farm.local",
	})
	if status != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", status)
	}
}

func TestValidation(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"employee without first name", "/api/employees", dto.CreateEmployeeRequest{LastName: "Field", Email: "x@farm.local"}},
		{"employee with bad email", "/api/employees", dto.CreateEmployeeRequest{FirstName: "A", LastName: "B", Email: "nope"}},
		{"tool without name", "/api/tools", dto.CreateToolRequest{}},
		{"tool with bad date", "/api/tools", dto.CreateToolRequest{Name: "Saw", PurchaseDate: strPtr("01/02/2026")}},
		{"task without title", "/api/tasks", dto.CreateTaskRequest{}},
		{"task with bad priority", "/api/tasks", dto.CreateTaskRequest{Title: "Fix", Priority: "urgent"}},
		{"assignment without ids", "/api/tool-assignments", dto.AssignToolRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, tt.path, env.supToken, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", status, body)
			}
		})
	}

	status, _ := env.do(t, http.MethodGet, "/api/employees/abc", env.supToken, nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", status)
	}
}

func TestOwnerOnlyRoutes(t *testing.T) {
	env := setupTestServer(t)

	paths := []string{"/api/departments", "/api/users", "/api/reports/departments", "/api/reports/departments.xlsx"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			if status, _ := env.do(t, http.MethodGet, path, env.supToken, nil); status != http.StatusForbidden {
				t.Errorf("expected 403 for supervisor, got %d", status)
			}
			if status, _ := env.do(t, http.MethodGet, path, env.ownerToken, nil); status != http.StatusOK {
				t.Errorf("expected 200 for owner, got %d", status)
			}
		})
	}

	status, _ := env.do(t, http.MethodPost, "/api/auth/register", env.supToken, dto.RegisterUserRequest{
		Username: "sneaky",
		Email:    "sneaky@farm.local",
		Password: "password-123",
		Role:     domain.RoleFarmOwner,
	})
	if status != http.StatusForbidden {
		t.Errorf("expected 403 for supervisor registering users, got %d", status)
	}
}

func TestUserStatus(t *testing.T) {
	env := setupTestServer(t)

	var users []domain.User
	env.mustDo(t, http.MethodGet, "/api/users", env.ownerToken, nil, http.StatusOK, &users)

	var supID, ownerID int64
	for _, u := range users {
		switch u.Username {
		case "crops_sup":
			supID = u.ID
		case ownerUsername:
			ownerID = u.ID
		}
	}

	inactive := false
	var resp dto.UserStatusResponse
	env.mustDo(t, http.MethodPut, fmt.Sprintf("/api/users/%d/status", supID), env.ownerToken,
		dto.UpdateUserStatusRequest{IsActive: &inactive}, http.StatusOK, &resp)
	if resp.User == nil || resp.User.IsActive {
		t.Errorf("expected deactivated user, got %+v", resp.User)
	}

	status, _ := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "crops_sup", Password: "supervisor-123"})
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for deactivated user, got %d", status)
	}

	status, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d/status", ownerID), env.ownerToken,
		dto.UpdateUserStatusRequest{IsActive: &inactive})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 deactivating own account, got %d", status)
	}
}

func TestDashboard(t *testing.T) {
	env := setupTestServer(t)

	livestockID := env.depts["Livestock"]
	env.createEmployee(t, env.supToken, "a@farm.local", nil)
	env.createEmployee(t, env.ownerToken, "b@farm.local", &livestockID)

	var owner domain.Dashboard
	env.mustDo(t, http.MethodGet, "/api/dashboard", env.ownerToken, nil, http.StatusOK, &owner)
	if owner.TotalEmployees != 2 {
		t.Errorf("expected owner to count 2 employees, got %d", owner.TotalEmployees)
	}
	if len(owner.DepartmentBreakdown) != len(env.depts) {
		t.Errorf("expected breakdown for %d departments, got %d", len(env.depts), len(owner.DepartmentBreakdown))
	}

	var sup domain.Dashboard
	env.mustDo(t, http.MethodGet, "/api/dashboard", env.supToken, nil, http.StatusOK, &sup)
	if sup.TotalEmployees != 1 {
		t.Errorf("expected supervisor to count 1 employee, got %d", sup.TotalEmployees)
	}
	if sup.DepartmentBreakdown != nil {
		t.Error("expected no breakdown for supervisor")
	}
}

func TestDepartmentReportXLSX(t *testing.T) {
	env := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/reports/departments.xlsx", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+env.ownerToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(body, []byte("PK")) {
		t.Error("expected zip container")
	}
}

type stubDashboardService struct {
	err error
}

func (s *stubDashboardService) Get(ctx context.Context, scope domain.Scope) (*domain.Dashboard, error) {
	return nil, s.err
}

func (s *stubDashboardService) DepartmentReports(ctx context.Context, identity domain.Identity) ([]domain.DepartmentReport, error) {
	return nil, s.err
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", domain.NewValidationError("name", "is required"), http.StatusBadRequest},
		{"forbidden", domain.ErrNoDepartmentAccess, http.StatusForbidden},
		{"not found", domain.ErrEmployeeNotFound, http.StatusNotFound},
		{"conflict", domain.ErrToolNotAvailable, http.StatusConflict},
		{"duplicate", domain.ErrDuplicateSerialNumber, http.StatusConflict},
		{"transient", fmt.Errorf("%w: timeout", domain.ErrTransient), http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, _, err := tokens.Issue(&domain.User{ID: 1, Username: "owner", Role: domain.RoleFarmOwner})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := handler.NewRouter(handler.Handlers{
				Dashboard: handler.NewDashboardHandler(&stubDashboardService{err: tt.err}, testLogger()),
			}, tokens, handler.Options{AllowedOrigins: []string{"*"}}, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			router.Setup().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Errorf("expected error body, got %v / %+v", err, resp)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
