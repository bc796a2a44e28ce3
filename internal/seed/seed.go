// Package seed populates the database with the fixed bootstrap user.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/userdir/userdir/internal/model"
)

// DefaultEmail is the address inserted when no override is given.
const DefaultEmail = "monycuteboy@gmail.com"

// UserCreator is the write side of the user service.
type UserCreator interface {
	CreateUser(ctx context.Context, email string) (*model.User, error)
}

// CloseFunc releases a resource held for the duration of a seed run.
type CloseFunc func() error

// Seeder inserts the seed user and releases every registered resource
// when it finishes, whether or not the insert succeeded.
type Seeder struct {
	users   UserCreator
	logger  *slog.Logger
	mu      sync.Mutex
	closers []namedCloser
	closed  bool
}

type namedCloser struct {
	name string
	fn   CloseFunc
}

// New creates a Seeder.
func New(users UserCreator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{users: users, logger: logger}
}

// OnClose registers fn to run after the seed attempt.
// Closers run in reverse registration order.
func (s *Seeder) OnClose(name string, fn CloseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, namedCloser{name: name, fn: fn})
}

// Run inserts a user with the given email.
// The returned error is non-nil if the insert or any closer failed.
func (s *Seeder) Run(ctx context.Context, email string) (err error) {
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if s.users == nil {
		err = errors.New("seed: no user service configured")
		s.logger.Error("Error seeding data", slog.String("error", err.Error()))
		return err
	}

	user, err := s.users.CreateUser(ctx, email)
	if err != nil {
		s.logger.Error("Error seeding data",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("seed user %s: %w", email, err)
	}

	s.logger.Info("Seeding completed successfully.",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	return nil
}

// Close runs the registered closers once. Later calls are no-ops.
func (s *Seeder) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.fn(); err != nil {
			s.logger.Error("close failed", slog.String("name", c.name), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
			continue
		}
		s.logger.Debug("closed", slog.String("name", c.name))
	}

	return errors.Join(errs...)
}
