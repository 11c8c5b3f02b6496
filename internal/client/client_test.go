package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
)

func newTestAPI(t *testing.T, expiresAt time.Time) (*httptest.Server, *int) {
	t.Helper()
	calls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(dto.LoginResponse{
			Token:     "token-1",
			ExpiresAt: expiresAt,
			User:      &domain.User{ID: 1, Username: req.Username, Role: domain.RoleFarmOwner},
		})
	})
	mux.HandleFunc("GET /api/employees", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]domain.Employee{{ID: 5, FirstName: "Ann"}})
	})
	mux.HandleFunc("POST /api/employees", func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.CreateEmployeeRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Employee{ID: 6, FirstName: req.FirstName, Email: req.Email, IsActive: true})
	})
	mux.HandleFunc("DELETE /api/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.PathValue("id") != "6" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "employee not found"})
			return
		}
		json.NewEncoder(w).Encode(dto.DeleteEmployeeResponse{
			Message:  "Employee deactivated",
			Employee: &domain.Employee{ID: 6, IsActive: false},
		})
	})
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.CreateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Task{ID: 3, Title: req.Title, Priority: req.Priority, Status: "pending"})
	})
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]domain.Task{{ID: 3, Title: "Irrigate", Status: "pending"}})
	})
	mux.HandleFunc("POST /api/task-assignments", func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.AssignTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.TaskAssignment{ID: 9, EmployeeID: req.EmployeeID, TaskID: req.TaskID})
	})
	mux.HandleFunc("PUT /api/task-assignments/{id}/complete", func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.AssignmentNotesRequest
		json.NewDecoder(r.Body).Decode(&req)
		now := time.Now()
		json.NewEncoder(w).Encode(dto.TaskCompleteResponse{
			Message:    "Task completed successfully",
			Assignment: &domain.TaskAssignment{ID: 9, CompletedAt: &now, Notes: req.Notes},
		})
	})
	mux.HandleFunc("POST /api/tool-assignments", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "conflict: tool is not available for assignment"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClientSession(t *testing.T) {
	server, _ := newTestAPI(t, time.Now().Add(time.Hour))
	c := New(server.URL)
	ctx := context.Background()

	session, err := c.Login(ctx, "farmowner", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token != "token-1" || session.User == nil || session.User.Username != "farmowner" {
		t.Fatalf("unexpected session %+v", session)
	}

	emps, err := c.ListEmployees(ctx, session)
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if len(emps) != 1 || emps[0].ID != 5 {
		t.Errorf("unexpected employees %+v", emps)
	}
}

func TestClientErrors(t *testing.T) {
	server, _ := newTestAPI(t, time.Now().Add(time.Hour))
	c := New(server.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "farmowner", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials, got %v", err)
	}

	session, err := c.Login(ctx, "farmowner", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = c.AssignTool(ctx, session, dto.AssignToolRequest{EmployeeID: 1, ToolID: 1})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Errorf("expected APIError with 409, got %v", err)
	}
}

func TestClientExpiredSession(t *testing.T) {
	server, calls := newTestAPI(t, time.Now().Add(time.Hour))
	c := New(server.URL)

	expired := &Session{Token: "token-1", ExpiresAt: time.Now().Add(-time.Minute)}
	_, err := c.ListEmployees(context.Background(), expired)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if *calls != 0 {
		t.Errorf("expected no request for expired session, got %d", *calls)
	}
}

func TestClientEmployeeAndTaskWrites(t *testing.T) {
	server, _ := newTestAPI(t, time.Now().Add(time.Hour))
	c := New(server.URL)
	ctx := context.Background()
	session := &Session{Token: "token-1", ExpiresAt: time.Now().Add(time.Hour)}

	emp, err := c.CreateEmployee(ctx, session, dto.CreateEmployeeRequest{FirstName: "Ann", LastName: "Field", Email: "ann@farm.local"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if emp.ID != 6 || emp.Email != "ann@farm.local" {
		t.Errorf("unexpected employee %+v", emp)
	}

	deleted, err := c.DeleteEmployee(ctx, session, emp.ID)
	if err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if deleted == nil || deleted.IsActive {
		t.Errorf("expected inactive employee, got %+v", deleted)
	}
	if _, err := c.DeleteEmployee(ctx, session, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	task, err := c.CreateTask(ctx, session, dto.CreateTaskRequest{Title: "Irrigate", Priority: "high"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.ID != 3 || task.Priority != "high" {
		t.Errorf("unexpected task %+v", task)
	}
	tasks, err := c.ListTasks(ctx, session)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("unexpected tasks %+v", tasks)
	}

	assignment, err := c.AssignTask(ctx, session, dto.AssignTaskRequest{EmployeeID: 6, TaskID: task.ID})
	if err != nil {
		t.Fatalf("assign task: %v", err)
	}
	if assignment.TaskID != 3 {
		t.Errorf("unexpected assignment %+v", assignment)
	}

	completed, err := c.CompleteTask(ctx, session, assignment.ID, "done")
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if completed.CompletedAt == nil || completed.Notes != "done" {
		t.Errorf("unexpected completion %+v", completed)
	}
}
