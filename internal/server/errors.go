package server

import (
	"errors"
	"net/http"

	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	costdomain "github.com/agropec/boletim/internal/cost/domain"
	deathdomain "github.com/agropec/boletim/internal/death/domain"
	identitydomain "github.com/agropec/boletim/internal/identity/domain"
	inventorydomain "github.com/agropec/boletim/internal/inventory/domain"
	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	reconciledomain "github.com/agropec/boletim/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, identitydomain.ErrAmbiguousIdentity):
		return http.StatusConflict, errorPayload{
			Type:    "ambiguous_identity",
			Message: "identifier matches more than one animal",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, reconciledomain.ErrSourceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "source_unavailable",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ledgerdomain.ErrInvalidLabel),
		errors.Is(err, ledgerdomain.ErrInvalidType),
		errors.Is(err, ledgerdomain.ErrInvalidSubtype),
		errors.Is(err, ledgerdomain.ErrInvalidDate),
		errors.Is(err, animaldomain.ErrInvalidSeries),
		errors.Is(err, animaldomain.ErrInvalidRegNo),
		errors.Is(err, animaldomain.ErrInvalidStatus),
		errors.Is(err, costdomain.ErrInvalidAmount),
		errors.Is(err, costdomain.ErrInvalidType),
		errors.Is(err, costdomain.ErrInvalidQuantity),
		errors.Is(err, costdomain.ErrInvalidMedication),
		errors.Is(err, invoicedomain.ErrInvalidDirection),
		errors.Is(err, invoicedomain.ErrInvalidIssuedOn),
		errors.Is(err, invoicedomain.ErrEmptyInvoice),
		errors.Is(err, deathdomain.ErrInvalidDate),
		errors.Is(err, identitydomain.ErrMalformedIdentifier):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, deathdomain.ErrAlreadyRegistered),
		errors.Is(err, costdomain.ErrMedicationExists),
		errors.Is(err, inventorydomain.ErrLotExists),
		errors.Is(err, animaldomain.ErrAlreadyDead):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, animaldomain.ErrNotFound),
		errors.Is(err, ledgerdomain.ErrPeriodNotFound),
		errors.Is(err, costdomain.ErrMedicationNotFound),
		errors.Is(err, identitydomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, deathdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
