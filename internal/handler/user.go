package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/userdir/userdir/internal/handler/dto"
	"github.com/userdir/userdir/internal/model"
)

// UserLister is the read side of the user service.
type UserLister interface {
	ListUsers(ctx context.Context, emails []string) ([]model.User, error)
}

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	svc    UserLister
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserLister, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users.
// An optional email query parameter takes a comma-separated filter list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	emails := parseEmailFilter(r.URL.Query()["email"])

	users, err := h.svc.ListUsers(r.Context(), emails)
	if err != nil {
		h.logger.Error("list_users_failed",
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponses(users))
}

func parseEmailFilter(values []string) []string {
	var emails []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				emails = append(emails, trimmed)
			}
		}
	}
	return emails
}
