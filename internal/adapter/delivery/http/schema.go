package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/treebio/treebio/internal/entity"
)

const statusError = "error"

// shortenRequest represents the structure for a request to shorten a URL.
type shortenRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// shortenResponse represents the structure for a successful shorten response.
type shortenResponse struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
}

// shortLinkResponse represents one short link in listing responses.
type shortLinkResponse struct {
	ID        int64     `json:"id"`
	ShortCode string    `json:"short_code"`
	URL       string    `json:"url"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

func toShortLinkListResponse(links []entity.ShortLink) []shortLinkResponse {
	resp := make([]shortLinkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, shortLinkResponse{
			ID:        link.ID,
			ShortCode: link.ShortCode,
			URL:       link.URL,
			Clicks:    link.Clicks,
			CreatedAt: link.CreatedAt,
		})
	}
	return resp
}

// dailyHitsBucket is one day of the zero-filled hit series.
type dailyHitsBucket struct {
	Date string `json:"date"`
	Hits int64  `json:"hits"`
}

// dailyHitsResponse represents the structure for a daily hit series response.
type dailyHitsResponse struct {
	ShortLinkID int64             `json:"short_link_id"`
	Series      []dailyHitsBucket `json:"series"`
}

func toDailyHitsResponse(shortLinkID int64, series []entity.DailyHits) dailyHitsResponse {
	buckets := make([]dailyHitsBucket, 0, len(series))
	for _, bucket := range series {
		buckets = append(buckets, dailyHitsBucket{
			Date: bucket.Date,
			Hits: bucket.Hits,
		})
	}
	return dailyHitsResponse{
		ShortLinkID: shortLinkID,
		Series:      buckets,
	}
}

// deleteManyRequest represents the structure for a bulk delete request.
type deleteManyRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// deleteManyResponse reports how many short links a bulk delete removed.
type deleteManyResponse struct {
	Deleted int64 `json:"deleted"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	invalidIDResponse = errorResponse{
		Status:  statusError,
		Message: "invalid short link id",
	}

	invalidDaysResponse = errorResponse{
		Status:  statusError,
		Message: "days must be an integer between 1 and 365",
	}

	shortLinkNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "short link not found",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "min":
		return "too few values"
	case "gt":
		return "invalid value"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
