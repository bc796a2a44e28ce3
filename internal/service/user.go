// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/userdir/userdir/internal/cache"
	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/repository"
)

// Service errors.
var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrEmailExists  = errors.New("email already exists")
)

const maxEmailLength = 320

// UserStore is the persistence the user service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUsersByEmails(ctx context.Context, emails []string) ([]model.User, error)
}

// UserCache caches the unfiltered user listing.
// SetUsers must reject a listing read under a generation that
// InvalidateUsers has since bumped.
type UserCache interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	UsersGeneration(ctx context.Context) (int64, error)
	SetUsers(ctx context.Context, gen int64, users []model.User) error
	InvalidateUsers(ctx context.Context) error
}

// UserService handles user business logic.
type UserService struct {
	store   UserStore
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewUserService creates a new UserService.
// cache may be nil, in which case every listing reads from the store.
func NewUserService(store UserStore, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		store:   store,
		cache:   userCache,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// ListUsers returns all users, or only those matching emails when it is non-empty.
func (s *UserService) ListUsers(ctx context.Context, emails []string) ([]model.User, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveUsersListDuration(time.Since(start))
	}()

	if len(emails) > 0 {
		normalized := make([]string, 0, len(emails))
		for _, e := range emails {
			if e = normalizeEmail(e); e != "" {
				normalized = append(normalized, e)
			}
		}
		users, err := s.store.ListUsersByEmails(ctx, normalized)
		if err != nil {
			s.metrics.IncUsersListFailed()
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	}

	// Write back only when the generation could be read before the
	// database load.
	var (
		gen       int64
		writeBack bool
	)
	if s.cache != nil {
		users, err := s.cache.GetUsers(ctx)
		if err == nil {
			s.metrics.IncUsersCacheHit()
			return users, nil
		}
		// Misses and Redis errors both fall through to the database.
		s.metrics.IncUsersCacheMiss()
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("users cache read failed", slog.String("error", err.Error()))
		}

		gen, err = s.cache.UsersGeneration(ctx)
		if err != nil {
			s.logger.Warn("users cache generation read failed", slog.String("error", err.Error()))
		} else {
			writeBack = true
		}
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.metrics.IncUsersListFailed()
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	if writeBack {
		if err := s.cache.SetUsers(ctx, gen, users); err != nil {
			if errors.Is(err, cache.ErrStaleGeneration) {
				s.logger.Debug("users cache write-back skipped, listing changed")
			} else {
				s.logger.Warn("users cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	return users, nil
}

// CreateUser validates email and inserts a new user.
func (s *UserService) CreateUser(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &model.User{
		ID:        ulid.Make().String(),
		Email:     email,
		CreatedAt: now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, fmt.Errorf("%w: %s", ErrEmailExists, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	if s.cache != nil {
		if err := s.cache.InvalidateUsers(ctx); err != nil {
			s.logger.Warn("users cache invalidation failed",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" || len(email) > maxEmailLength {
		return ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	if !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ErrInvalidEmail
	}

	return nil
}
