package handler // handler defines http handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/gymkit/gym-api/internal/middleware"
	"github.com/gymkit/gym-api/internal/queue"
	"github.com/gymkit/gym-api/internal/repository"
	"github.com/gymkit/gym-api/internal/service"
)

// dbTimeout bounds every database round trip made from a handler.
const dbTimeout = 5 * time.Second

// validate is the shared validator instance for request DTOs.
var validate = validator.New()

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads the :id route parameter as an unsigned integer.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
}

// validationMessage flattens validator errors into one human-readable
// message, field messages joined by commas.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(msgs, ", ")
}

// respondRepoError translates repository errors into HTTP responses.
// Unknown errors stay generic; the underlying message leaks only in
// development mode.
func respondRepoError(c echo.Context, dev bool, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already registered"})
	default:
		body := echo.Map{"error": "internal error"}
		if dev {
			body["detail"] = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, body)
	}
}

// emitChange publishes an entity.changed event for a committed write.
// Publishing is best effort; the error is already logged by the
// publisher and deliberately dropped here.
func emitChange(c echo.Context, entity string, id uint64, action string) {
	ev := queue.EntityChangedEvent{
		Entity:   entity,
		EntityID: id,
		Action:   action,
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	if m, ok := middleware.Principal(c); ok {
		ev.ActorID = m.ID
		ev.ActorRole = m.Role
	}
	_ = service.PublishEntityChanged(c.Request().Context(), ev)
}
