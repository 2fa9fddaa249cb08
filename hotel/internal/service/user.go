package service

import (
	"context"
	"strings"
	"time"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/hotel/internal/repository"
	"github.com/Astemirdum/hotel-service/pkg/auth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo     repository.UserRepository
	tokens   *auth.TokenManager
	denylist auth.Denylist
	log      *zap.Logger
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenManager, denylist auth.Denylist, log *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		denylist: denylist,
		log:      log.Named("user"),
	}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.repo.CreateUser(ctx, model.User{
		Email:        normalizeEmail(req.Email),
		Phone:        req.Phone,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         auth.RoleGuest,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int64("id", u.ID))
	return u, nil
}

func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errs.Unauthenticated("invalid email or password")
		}
		return model.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errs.Unauthenticated("invalid email or password")
	}
	token, expiresAt, err := s.tokens.Issue(u.Profile())
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		User:        u,
	}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *UserService) Status(ctx context.Context, p auth.Principal) (model.User, error) {
	return s.repo.GetUser(ctx, p.ID)
}

func (s *UserService) List(ctx context.Context) (model.ListUsers, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return model.ListUsers{}, err
	}
	return model.ListUsers{Items: users}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	if !req.Role.Valid() {
		return model.User{}, errs.Validation("unknown role %q", req.Role)
	}
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	current.Email = normalizeEmail(req.Email)
	current.Phone = req.Phone
	current.Name = req.Name
	current.Role = req.Role
	if req.Password != "" {
		if current.PasswordHash, err = hashPassword(req.Password); err != nil {
			return model.User{}, err
		}
	}
	u, err := s.repo.UpdateUser(ctx, current)
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user updated", zap.Int64("id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	if p.ID == id {
		return errs.Forbidden("an administrator cannot delete their own account")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("id", id), zap.Int64("actor", p.ID))
	return nil
}

// SeedAdmin creates the first administrator when the user table has none.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	exists, err := s.repo.ExistsAdmin(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u, err := s.repo.CreateUser(ctx, model.User{
		Email:        normalizeEmail(email),
		Phone:        "",
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	})
	if err != nil {
		return errors.Wrap(err, "seed admin")
	}
	s.log.Info("admin seeded", zap.Int64("id", u.ID))
	return nil
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", errs.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Validation("password cannot be hashed: %v", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
