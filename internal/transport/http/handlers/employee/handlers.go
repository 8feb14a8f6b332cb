package employeehandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"perfhub/internal/apperror"
	"perfhub/internal/domain/employee"
	"perfhub/internal/domain/review"
	"perfhub/internal/platform/requestctx"
	"perfhub/internal/transport/http/api"
	"perfhub/internal/transport/http/middleware"
	"perfhub/internal/transport/http/shared"
)

type Handler struct {
	Employees *employee.Service
	Reviews   *review.Service
	// StrictStats makes the statistics endpoint surface storage failures
	// instead of degrading to zero values.
	StrictStats bool
}

func NewHandler(employees *employee.Service, reviews *review.Service, strictStats bool) *Handler {
	return &Handler{Employees: employees, Reviews: reviews, StrictStats: strictStats}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/departments", h.handleDepartments)
		r.Get("/statistics", h.handleStatistics)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdate)
			r.Patch("/", h.handlePatch)
			r.Delete("/", h.handleDelete)
			r.Get("/reviews", h.handleReviews)
		})
	})
}

// listItem is the compact employee representation used by the collection
// endpoint. Derived review fields are nullable when no reviews exist.
type listItem struct {
	ID                 int64    `json:"id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	FullName           string   `json:"full_name"`
	Email              string   `json:"email"`
	Department         string   `json:"department"`
	DateOfJoining      string   `json:"date_of_joining"`
	ReviewsCount       int      `json:"reviews_count"`
	AverageRating      *float64 `json:"average_rating"`
	LatestReviewPeriod *string  `json:"latest_review_period"`
}

type detailItem struct {
	ID                 int64        `json:"id"`
	FirstName          string       `json:"first_name"`
	LastName           string       `json:"last_name"`
	FullName           string       `json:"full_name"`
	Email              string       `json:"email"`
	Department         string       `json:"department"`
	DateOfJoining      string       `json:"date_of_joining"`
	ReviewsCount       int          `json:"reviews_count"`
	AverageRating      *float64     `json:"average_rating"`
	PerformanceReviews []reviewItem `json:"performance_reviews"`
}

type reviewItem struct {
	ID            int64   `json:"id"`
	ReviewPeriod  string  `json:"review_period"`
	Rating        int     `json:"rating"`
	RatingDisplay string  `json:"rating_display"`
	Feedback      *string `json:"feedback"`
	ReviewDate    string  `json:"review_date"`
	Employee      int64   `json:"employee"`
	EmployeeName  string  `json:"employee_name"`
}

func toListItem(emp employee.WithDerived) listItem {
	return listItem{
		ID:                 emp.ID,
		FirstName:          emp.FirstName,
		LastName:           emp.LastName,
		FullName:           emp.FullName(),
		Email:              emp.Email,
		Department:         emp.Department,
		DateOfJoining:      shared.FormatDate(emp.DateOfJoining),
		ReviewsCount:       emp.ReviewsCount,
		AverageRating:      emp.AverageRating,
		LatestReviewPeriod: emp.LatestReviewPeriod,
	}
}

func toReviewItem(rev review.Review) reviewItem {
	return reviewItem{
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

func toDetailItem(emp employee.WithDerived, reviews []review.Review) detailItem {
	items := make([]reviewItem, 0, len(reviews))
	for _, rev := range reviews {
		items = append(items, toReviewItem(rev))
	}
	return detailItem{
		ID:                 emp.ID,
		FirstName:          emp.FirstName,
		LastName:           emp.LastName,
		FullName:           emp.FullName(),
		Email:              emp.Email,
		Department:         emp.Department,
		DateOfJoining:      shared.FormatDate(emp.DateOfJoining),
		ReviewsCount:       emp.ReviewsCount,
		AverageRating:      emp.AverageRating,
		PerformanceReviews: items,
	}
}

func employeeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("employee not found")
	}
	return id, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r)
	limit, offset := shared.PageWindow(page)

	employees, total, err := h.Employees.List(r.Context(), limit, offset)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	items := make([]listItem, 0, len(employees))
	for _, emp := range employees {
		items = append(items, toListItem(emp))
	}
	api.WriteJSON(w, http.StatusOK, shared.NewPage(r, page, total, items))
}

type employeePayload struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Department    *string `json:"department"`
	DateOfJoining *string `json:"date_of_joining"`
}

// params converts the payload into service params, starting from base so a
// partial update keeps the fields the client did not send.
func (p employeePayload) params(base employee.Params) (employee.Params, error) {
	if p.FirstName != nil {
		base.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		base.LastName = *p.LastName
	}
	if p.Email != nil {
		base.Email = *p.Email
	}
	if p.Department != nil {
		base.Department = *p.Department
	}
	if p.DateOfJoining != nil {
		parsed, err := shared.ParseDate(*p.DateOfJoining)
		if err != nil {
			return base, apperror.ValidationFields("employee validation failed", map[string]string{
				"date_of_joining": "must be a valid date in YYYY-MM-DD format",
			})
		}
		base.DateOfJoining = parsed
	}
	return base, nil
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}
	params, err := payload.params(employee.Params{})
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	created, err := h.Employees.Create(r.Context(), params)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, toListItem(employee.WithDerived{Employee: created}))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	emp, err := h.Employees.Get(r.Context(), id)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	reviews, err := h.Reviews.ForEmployee(r.Context(), id)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toDetailItem(emp, reviews))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) handlePatch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// update handles both PUT and PATCH. A full update validates the payload as a
// complete replacement; a partial one merges over the stored row first.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := employeeID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Error(r.Context(), w, apperror.Validation("Invalid JSON"))
		return
	}

	base := employee.Params{}
	if partial {
		current, err := h.Employees.Get(r.Context(), id)
		if err != nil {
			api.Error(r.Context(), w, err)
			return
		}
		base = employee.Params{
			FirstName:     current.FirstName,
			LastName:      current.LastName,
			Email:         current.Email,
			Department:    current.Department,
			DateOfJoining: current.DateOfJoining,
		}
	}

	params, err := payload.params(base)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	updated, err := h.Employees.Update(r.Context(), id, params)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	detailed, err := h.Employees.Get(r.Context(), updated.ID)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toListItem(detailed))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	if err := h.Employees.Delete(r.Context(), id); err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	api.NoContent(w)
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Employees.Departments(r.Context())
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}
	if departments == nil {
		departments = []string{}
	}
	api.WriteJSON(w, http.StatusOK, departments)
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Employees.Statistics(r.Context())
	if err != nil {
		if h.StrictStats {
			api.Error(r.Context(), w, err)
			return
		}
		slog.Warn("employee statistics query failed",
			"err", err,
			"requestId", requestctx.GetRequestID(r.Context()),
		)
		stats = employee.Statistics{Departments: []employee.DepartmentCount{}}
	}
	api.WriteJSON(w, http.StatusOK, stats)
}

// handleReviews returns the employee's reviews as a bare array, newest
// first. An unknown employee yields an empty array rather than 404.
func (h *Handler) handleReviews(w http.ResponseWriter, r *http.Request) {
	id, err := employeeID(r)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	reviews, err := h.Reviews.ForEmployee(r.Context(), id)
	if err != nil {
		api.Error(r.Context(), w, err)
		return
	}

	items := make([]reviewItem, 0, len(reviews))
	for _, rev := range reviews {
		items = append(items, toReviewItem(rev))
	}
	api.WriteJSON(w, http.StatusOK, items)
}
