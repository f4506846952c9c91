// Package handler serves the activity feed over HTTP.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/feed"
	empdomain "hotelmgt/internal/employee/domain"
	"hotelmgt/internal/logger"
)

// allSentinel is the explicit "no restriction" value for employee and type parameters.
const allSentinel = "all"

// errInvalidParam marks a malformed query parameter or body.
var errInvalidParam = errors.New("invalid parameter")

// SessionStore is the subset of *feed.Registry the handler uses.
type SessionStore interface {
	Create(ctx context.Context, f domain.FilterState) (*feed.Session, *feed.Result, error)
	Get(id string) (*feed.Session, error)
	Delete(id string) error
}

// EmployeeLister lists the employees offered in the employee filter.
type EmployeeLister interface {
	ListByRole(ctx context.Context, role string) ([]*empdomain.Employee, error)
}

type ActivityHandler struct {
	merger    feed.Merger
	sessions  SessionStore
	employees EmployeeLister
	role      string
	now       func() time.Time
}

// NewActivityHandler returns the feed handler. role selects the employees listed as filter options.
func NewActivityHandler(merger feed.Merger, sessions SessionStore, employees EmployeeLister, role string) *ActivityHandler {
	return &ActivityHandler{merger: merger, sessions: sessions, employees: employees, role: role, now: time.Now}
}

// Register mounts the feed routes on rg.
func (h *ActivityHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/activity", h.GetFeed)
	rg.GET("/activity/types", h.ListTypes)
	rg.GET("/employees", h.ListEmployees)

	sessions := rg.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.PUT("/:id/filter", h.ApplyFilter)
	sessions.GET("/:id/feed", h.GetSessionFeed)
	sessions.GET("/:id/changes", h.GetChanges)
	sessions.POST("/:id/refresh", h.Refresh)
	sessions.DELETE("/:id", h.DeleteSession)
}

// GetFeed runs one stateless merge for ?date=&employee_id=&type=.
func (h *ActivityHandler) GetFeed(c *gin.Context) {
	ctx := c.Request.Context()

	f, err := filterFromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.merger.Merge(ctx, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToFeedResponse(res))
}

func (h *ActivityHandler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, domain.TypeGroups())
}

// ListEmployees returns the "All Employees" option followed by every employee with the feed role.
func (h *ActivityHandler) ListEmployees(c *gin.Context) {
	ctx := c.Request.Context()

	employees, err := h.employees.ListByRole(ctx, h.role)
	if err != nil {
		slog.ErrorContext(ctx, "listing employees failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees"})
		return
	}
	options := make([]EmployeeOption, 0, len(employees)+1)
	options = append(options, EmployeeOption{Name: "All Employees"})
	for _, e := range employees {
		id := e.ID
		options = append(options, EmployeeOption{ID: &id, Name: e.FullName()})
	}
	c.JSON(http.StatusOK, options)
}

// CreateSession opens a polling session. The body is optional; the date defaults to today.
func (h *ActivityHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		req.Date = domain.Today(h.now()).Format(domain.DateLayout)
	}
	f, err := filterFromRequest(req)
	if err != nil {
		writeError(c, err)
		return
	}

	s, res, err := h.sessions.Create(ctx, f)
	if s == nil {
		writeError(c, err)
		return
	}
	resp := SessionResponse{SessionID: s.ID, Feed: ToFeedResponse(res)}
	if err != nil {
		slog.WarnContext(logger.WithLogFields(ctx, logger.LogFields{SessionID: s.ID}), "initial merge failed", "error", err)
		resp.Error = err.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

// ApplyFilter replaces the session filter and returns the freshly merged feed.
func (h *ActivityHandler) ApplyFilter(c *gin.Context) {
	ctx := c.Request.Context()

	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := filterFromRequest(req)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := s.Apply(ctx, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToFeedResponse(res))
}

// GetSessionFeed returns the last merged feed, or a null feed if none succeeded yet.
func (h *ActivityHandler) GetSessionFeed(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{SessionID: s.ID, Feed: ToFeedResponse(s.Last())})
}

// GetChanges is one scheduler tick: it refreshes the feed only if a source has newer rows.
func (h *ActivityHandler) GetChanges(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	res, changed, err := s.Poll(c.Request.Context())
	if err != nil && !feed.IsSkippable(err) {
		writeError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, ChangesResponse{Changed: false})
		return
	}
	c.JSON(http.StatusOK, ChangesResponse{Changed: true, Feed: ToFeedResponse(res)})
}

// Refresh forces a merge with the current filter. It is rejected while another merge runs.
func (h *ActivityHandler) Refresh(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := s.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToFeedResponse(res))
}

func (h *ActivityHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func filterFromQuery(c *gin.Context) (domain.FilterState, error) {
	req := FilterRequest{Date: c.Query("date")}
	if v, ok := c.GetQuery("employee_id"); ok {
		id, err := parseEmployeeID(v)
		if err != nil {
			return domain.FilterState{}, err
		}
		req.EmployeeID = id
	}
	if v, ok := c.GetQuery("type"); ok {
		req.Type = &v
	}
	return filterFromRequest(req)
}

func filterFromRequest(req FilterRequest) (domain.FilterState, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" {
		return domain.FilterState{}, domain.ErrFilterDateRequired
	}
	day, err := domain.ParseDay(date)
	if err != nil {
		return domain.FilterState{}, errors.Join(errInvalidParam, errors.New("date must be YYYY-MM-DD"))
	}
	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return domain.FilterState{}, errors.Join(errInvalidParam, errors.New("employee_id must be positive"))
	}
	var group *string
	if req.Type != nil {
		if t := strings.TrimSpace(*req.Type); t != "" && !strings.EqualFold(t, allSentinel) {
			if domain.NormalizeType(t) == "" {
				return domain.FilterState{}, errors.Join(errInvalidParam, errors.New("type must contain a letter or digit"))
			}
			group = &t
		}
	}
	return domain.NewFilter(day, req.EmployeeID, group), nil
}

func parseEmployeeID(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, allSentinel) {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.Join(errInvalidParam, errors.New("employee_id must be a positive integer or \"all\""))
	}
	return &id, nil
}

func writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domain.ErrFilterDateRequired), errors.Is(err, errInvalidParam):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, feed.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, feed.ErrMergeInFlight), errors.Is(err, feed.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, feed.ErrSourceUnavailable), errors.Is(err, context.DeadlineExceeded):
		slog.WarnContext(ctx, "activity source unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		slog.ErrorContext(ctx, "activity request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
