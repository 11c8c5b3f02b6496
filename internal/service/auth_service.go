package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/farm-operations-api/internal/domain"
	"github.com/farm-operations-api/internal/dto"
	"github.com/farm-operations-api/internal/repository"
)

// PasswordHasher хеширует и проверяет пароли
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// TokenIssuer выпускает токены сессии
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// AuthService определяет интерфейс входа и управления учётными записями
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, identity domain.Identity, req *dto.RegisterUserRequest) (*domain.User, error)
	Profile(ctx context.Context, identity domain.Identity) (*domain.User, error)
	ListUsers(ctx context.Context, identity domain.Identity) ([]domain.User, error)
	UpdateUserStatus(ctx context.Context, identity domain.Identity, id int64, active bool) (*domain.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		deptRepo: deptRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetActiveByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Warn("password verification failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	loginAt := s.now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, loginAt); err != nil {
		return nil, err
	}
	user.LastLogin = &loginAt

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *authService) Register(ctx context.Context, identity domain.Identity, req *dto.RegisterUserRequest) (*domain.User, error) {
	if !identity.IsOwner() {
		return nil, domain.ErrOwnerOnly
	}

	user := &domain.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     req.Role,
		IsActive: true,
	}

	switch user.Role {
	case domain.RoleSupervisor:
		if req.DepartmentID == nil {
			return nil, domain.ErrSupervisorDepartment
		}
		if _, err := s.deptRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, err
		}
		user.DepartmentID = req.DepartmentID
	case domain.RoleFarmOwner:
		// у владельца фермы нет отдела
	default:
		return nil, domain.NewValidationError("role", "must be farm_owner or supervisor")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Profile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, identity.UserID)
}

func (s *authService) ListUsers(ctx context.Context, identity domain.Identity) ([]domain.User, error) {
	if !identity.IsOwner() {
		return nil, domain.ErrOwnerOnly
	}
	return s.userRepo.List(ctx)
}

func (s *authService) UpdateUserStatus(ctx context.Context, identity domain.Identity, id int64, active bool) (*domain.User, error) {
	if !identity.IsOwner() {
		return nil, domain.ErrOwnerOnly
	}
	if id == identity.UserID && !active {
		return nil, domain.NewValidationError("is_active", "cannot deactivate own account")
	}
	return s.userRepo.UpdateStatus(ctx, id, active)
}
