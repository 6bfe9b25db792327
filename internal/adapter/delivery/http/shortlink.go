package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/treebio/treebio/internal/entity"
)

const (
	defaultDays = 30
	maxDays     = 365
)

type shortLinkUseCase interface {
	Shorten(ctx context.Context, originalURL string) (*entity.ShortLink, error)
	Resolve(ctx context.Context, shortCode, ipAddress string) (*entity.ShortLink, error)
	List(ctx context.Context) ([]entity.ShortLink, error)
	DailyHits(ctx context.Context, shortLinkID int64, days int) ([]entity.DailyHits, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}

type shortLinkHandler struct {
	useCase  shortLinkUseCase
	validate *validator.Validate
	baseURL  string
}

func newShortLinkHandler(useCase shortLinkUseCase, validate *validator.Validate, baseURL string) *shortLinkHandler {
	return &shortLinkHandler{
		useCase:  useCase,
		validate: validate,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (h *shortLinkHandler) shorten(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	link, err := h.useCase.Shorten(r.Context(), req.URL)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, shortenResponse{
		ShortCode: link.ShortCode,
		ShortURL:  h.baseURL + "/l/" + link.ShortCode,
	})
}

// redirect resolves a short code and issues a temporary redirect to the
// stored destination. 307 keeps the original request method, and the mapping
// is mutable in principle, so the redirect must not be cached as permanent.
func (h *shortLinkHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.useCase.Resolve(r.Context(), shortCode, clientIP(r))
	if err != nil {
		if errors.Is(err, entity.ErrShortLinkNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, link.URL, http.StatusTemporaryRedirect)
}

func (h *shortLinkHandler) list(w http.ResponseWriter, r *http.Request) {
	links, err := h.useCase.List(r.Context())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toShortLinkListResponse(links))
}

func (h *shortLinkHandler) dailyHits(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidIDResponse)
		return
	}

	days := defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxDays {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, invalidDaysResponse)
			return
		}
	}

	series, err := h.useCase.DailyHits(r.Context(), id, days)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toDailyHitsResponse(id, series))
}

func (h *shortLinkHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidIDResponse)
		return
	}

	if err := h.useCase.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrShortLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, shortLinkNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *shortLinkHandler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var req deleteManyRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	deleted, err := h.useCase.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, deleteManyResponse{Deleted: deleted})
}

// clientIP extracts the best-available origin address. The RealIP middleware
// already folds X-Forwarded-For and X-Real-IP into RemoteAddr; when nothing
// usable remains the sentinel 0.0.0.0 is recorded instead.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if host == "" {
		return "0.0.0.0"
	}

	return host
}
