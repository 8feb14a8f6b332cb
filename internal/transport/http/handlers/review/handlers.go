package reviewhandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"perfhub/internal/apperror"
	"perfhub/internal/domain/review"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/api"
	"perfhub/internal/transport/http/middleware"
	"perfhub/internal/transport/http/shared"
)

type Handler struct {
	Service     *review.Service
	StrictStats bool
}

func NewHandler(service *review.Service, strictStats bool) *Handler {
	return &Handler{Service: service, StrictStats: strictStats}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/periods", h.handlePeriods)
		r.Get("/statistics", h.handleStatistics)
		r.Route("/{reviewID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Patch("/", h.handlePatch)
			r.Delete("/", h.handleDelete)
		})
	})
}

type item struct {
	ID            int64   `json:"id"`
	ReviewPeriod  string  `json:"review_period"`
	Rating        int     `json:"rating"`
	RatingDisplay string  `json:"rating_display"`
	Feedback      *string `json:"feedback"`
	ReviewDate    string  `json:"review_date"`
	Employee      int64   `json:"employee"`
	EmployeeName  string  `json:"employee_name"`
}

func toItem(rev review.Review) item {
	return item{
		ID:            rev.ID,
		ReviewPeriod:  rev.ReviewPeriod,
		Rating:        rev.Rating,
		RatingDisplay: review.RatingLabel(rev.Rating),
		Feedback:      rev.Feedback,
		ReviewDate:    shared.FormatDate(rev.ReviewDate),
		Employee:      rev.EmployeeID,
		EmployeeName:  rev.EmployeeName,
	}
}

func reviewID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("performance review not found")
	}
	return id, nil
}

// employeeFilter parses the optional ?employee= query parameter.
func employeeFilter(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("employee")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.ValidationFields("invalid filter", map[string]string{
			"employee": "must be an integer",
		})
	}
	return &id, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := employeeFilter(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	page := shared.ParsePage(r)
	limit, offset := shared.PageWindow(page)

	reviews, total, err := h.Service.List(r.Context(), filter, limit, offset)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	items := make([]item, 0, len(reviews))
	for _, rev := range reviews {
		items = append(items, toItem(rev))
	}
	api.WriteJSON(w, http.StatusOK, shared.NewPage(r, page, total, items))
}

type reviewPayload struct {
	Employee     *int64  `json:"employee"`
	ReviewPeriod *string `json:"review_period"`
	Rating       *int    `json:"rating"`
	Feedback     *string `json:"feedback"`
	ReviewDate   *string `json:"review_date"`
}

func (p reviewPayload) params(base review.Params) (review.Params, error) {
	if p.Employee != nil {
		base.EmployeeID = *p.Employee
	}
	if p.ReviewPeriod != nil {
		base.ReviewPeriod = *p.ReviewPeriod
	}
	if p.Rating != nil {
		base.Rating = *p.Rating
	}
	if p.Feedback != nil {
		base.Feedback = p.Feedback
	}
	if p.ReviewDate != nil {
		parsed, err := shared.ParseDate(*p.ReviewDate)
		if err != nil {
			return base, apperror.ValidationFields("performance review validation failed", map[string]string{
				"review_date": "must be a valid date in YYYY-MM-DD format",
			})
		}
		base.ReviewDate = parsed
	}
	return base, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}
	params, err := payload.params(review.Params{})
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), params)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toItem(created))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	rev, err := h.Service.Get(r.Context(), id)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toItem(rev))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := reviewID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}

	base := review.Params{}
	if partial {
		current, err := h.Service.Get(r.Context(), id)
		if err != nil {
			api.Error(r.Context(), w, err)
			return
		}
		base = review.Params{
			EmployeeID:   current.EmployeeID,
			ReviewPeriod: current.ReviewPeriod,
			Rating:       current.Rating,
			Feedback:     current.Feedback,
			ReviewDate:   current.ReviewDate,
		}
	}

	params, err := payload.params(base)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), id, params)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toItem(updated))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Service.Periods(r.Context())
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	if periods == nil {
		periods = []string{}
	}
	api.WriteJSON(w, http.StatusOK, periods)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics(r.Context())
	if err != nil {
		if h.StrictStats {
			api.Error(r.Context(), w, err)
			return
		}
		slog.Warn("review statistics query failed",
			"err", err,
			"requestId", requestctx.GetRequestID(r.Context()),
		)
		stats = review.Statistics{RatingDistribution: []review.RatingCount{}}
	}
	api.WriteJSON(w, http.StatusOK, stats)
}
