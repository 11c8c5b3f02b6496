package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
)

// ErrSessionExpired возвращается до отправки запроса, если срок сессии истёк
var ErrSessionExpired = errors.New("session expired, log in again")

// Session - результат входа, передаётся явно в каждый вызов
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Valid сообщает, что сессия ещё действует в момент now
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// APIError - ответ сервера с кодом ошибки
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap сопоставляет статус ответа с категорией ошибки домена
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusServiceUnavailable:
		return domain.ErrTransient
	default:
		return nil
	}
}

// Client обращается к API фермы по HTTP
type Client struct {
	httpClient *http.Client
	server     string
	now        func() time.Time
}

// New создаёт клиент для API по базовому адресу server
func New(server string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		server:     strings.TrimRight(server, "/"),
		now:        time.Now,
	}
}

// Login выполняет вход и возвращает новую сессию
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var resp dto.LoginResponse
	req := dto.LoginRequest{Username: username, Password: password}
	if err := c.request(ctx, nil, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &Session{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User:      resp.User,
	}, nil
}

func (c *Client) Profile(ctx context.Context, session *Session) (*domain.User, error) {
	var user domain.User
	if err := c.request(ctx, session, http.MethodGet, "/api/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListEmployees(ctx context.Context, session *Session) ([]domain.Employee, error) {
	var emps []domain.Employee
	if err := c.request(ctx, session, http.MethodGet, "/api/employees", nil, &emps); err != nil {
		return nil, err
	}
	return emps, nil
}

func (c *Client) CreateEmployee(ctx context.Context, session *Session, req dto.CreateEmployeeRequest) (*domain.Employee, error) {
	var emp domain.Employee
	if err := c.request(ctx, session, http.MethodPost, "/api/employees", req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// DeleteEmployee деактивирует работника и возвращает его последнее состояние
func (c *Client) DeleteEmployee(ctx context.Context, session *Session, id int64) (*domain.Employee, error) {
	var resp dto.DeleteEmployeeResponse
	path := fmt.Sprintf("/api/employees/%d", id)
	if err := c.request(ctx, session, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Employee, nil
}

func (c *Client) ListTools(ctx context.Context, session *Session) ([]domain.Tool, error) {
	var tools []domain.Tool
	if err := c.request(ctx, session, http.MethodGet, "/api/tools", nil, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func (c *Client) AssignTool(ctx context.Context, session *Session, req dto.AssignToolRequest) (*domain.ToolAssignment, error) {
	var assignment domain.ToolAssignment
	if err := c.request(ctx, session, http.MethodPost, "/api/tool-assignments", req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *Client) ReturnTool(ctx context.Context, session *Session, assignmentID int64, notes string) (*domain.ToolAssignment, error) {
	var resp dto.ToolReturnResponse
	path := fmt.Sprintf("/api/tool-assignments/%d/return", assignmentID)
	if err := c.request(ctx, session, http.MethodPut, path, dto.AssignmentNotesRequest{Notes: notes}, &resp); err != nil {
		return nil, err
	}
	return resp.Assignment, nil
}

func (c *Client) ListTasks(ctx context.Context, session *Session) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.request(ctx, session, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, session *Session, req dto.CreateTaskRequest) (*domain.Task, error) {
	var task domain.Task
	if err := c.request(ctx, session, http.MethodPost, "/api/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) AssignTask(ctx context.Context, session *Session, req dto.AssignTaskRequest) (*domain.TaskAssignment, error) {
	var assignment domain.TaskAssignment
	if err := c.request(ctx, session, http.MethodPost, "/api/task-assignments", req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (c *Client) CompleteTask(ctx context.Context, session *Session, assignmentID int64, notes string) (*domain.TaskAssignment, error) {
	var resp dto.TaskCompleteResponse
	path := fmt.Sprintf("/api/task-assignments/%d/complete", assignmentID)
	if err := c.request(ctx, session, http.MethodPut, path, dto.AssignmentNotesRequest{Notes: notes}, &resp); err != nil {
		return nil, err
	}
	return resp.Assignment, nil
}

func (c *Client) Dashboard(ctx context.Context, session *Session) (*domain.Dashboard, error) {
	var dashboard domain.Dashboard
	if err := c.request(ctx, session, http.MethodGet, "/api/dashboard", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// request отправляет запрос. Без сессии запрос уходит анонимно,
// истёкшая сессия отклоняется без обращения к серверу.
func (c *Client) request(ctx context.Context, session *Session, method, path string, in any, out any) error {
	if session != nil && !session.Valid(c.now()) {
		return ErrSessionExpired
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		payload, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
		var errResp dto.ErrorResponse
		if json.Unmarshal(payload, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
