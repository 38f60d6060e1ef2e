package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"studyplan-api/domain"
	"studyplan-api/planner"
	"studyplan-api/report"
	"studyplan-api/stats"
	"studyplan-api/storage"
)

const maxBodyBytes = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, db *storage.Storage, auth Authenticator, logger *log.Logger) {
	h := &handlers{db: db, auth: auth, logger: logger, now: time.Now}

	e.GET("/healthz", h.healthz)

	g := e.Group("/api")
	g.GET("/tasks", h.getTasks)
	g.POST("/tasks", h.postTask)
	g.PUT("/tasks/:id", h.putTask)
	g.DELETE("/tasks/:id", h.deleteTask)
	g.POST("/tasks/:id/toggle", h.toggleTask)

	g.GET("/goals", h.getGoals)
	g.POST("/goals", h.postGoal)
	g.PUT("/goals/:id", h.putGoal)
	g.DELETE("/goals/:id", h.deleteGoal)
	g.POST("/goals/:id/progress", h.postGoalProgress)

	g.GET("/sessions", h.getSessions)

	g.GET("/dashboard", h.getDashboard)
	g.GET("/insights", h.getInsights)
	g.GET("/weekly", h.getWeekly)

	g.GET("/export", h.getExport)
	g.GET("/report", h.getReport)

	g.GET("/theme", h.getTheme)
	g.PUT("/theme", h.putTheme)

	g.POST("/voice", h.postVoice)
	g.POST("/streak/refresh", h.postStreakRefresh)
	g.POST("/reminders/check", h.postRemindersCheck)
}

type handlers struct {
	db     *storage.Storage
	auth   Authenticator
	logger *log.Logger
	now    func() time.Time
}

func (h *handlers) healthz(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

// loadStore authenticates the request and loads the caller's planner state.
// It writes the error response itself and returns a nil store on failure.
func (h *handlers) loadStore(c echo.Context) (*planner.Store, error) {
	userID, err := h.auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
	if err != nil {
		return nil, c.String(http.StatusUnauthorized, err.Error())
	}
	store, err := planner.Load(c.Request().Context(), h.db, userID)
	if err != nil {
		c.Logger().Error(err)
		return nil, c.String(http.StatusInternalServerError, err.Error())
	}
	return store.WithClock(h.now), nil
}

// mutationError maps validation failures to 400 and everything else to 500.
func mutationError(c echo.Context, err error) error {
	var verr planner.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Error()})
	}
	c.Logger().Error(err)
	return c.String(http.StatusInternalServerError, err.Error())
}

func decodeBody(c echo.Context, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *handlers) getTasks(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Tasks())
}

func (h *handlers) postTask(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var fields planner.TaskFields
	if err := decodeBody(c, &fields); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	task, err := store.CreateTask(c.Request().Context(), fields)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *handlers) putTask(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var fields planner.TaskFields
	if err := decodeBody(c, &fields); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	task, ok, err := store.UpdateTask(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return mutationError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) deleteTask(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	if err := store.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) toggleTask(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	task, ok, err := store.ToggleTaskComplete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mutationError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handlers) getGoals(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Goals())
}

func (h *handlers) postGoal(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var fields planner.GoalFields
	if err := decodeBody(c, &fields); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	goal, err := store.CreateGoal(c.Request().Context(), fields)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, goal)
}

func (h *handlers) putGoal(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var fields planner.GoalFields
	if err := decodeBody(c, &fields); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	goal, ok, err := store.UpdateGoal(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return mutationError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *handlers) deleteGoal(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	if err := store.DeleteGoal(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type progressRequest struct {
	Progress int `json:"progress"`
}

func (h *handlers) postGoalProgress(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var req progressRequest
	if err := decodeBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	goal, ok, err := store.SetGoalProgress(c.Request().Context(), c.Param("id"), req.Progress)
	if err != nil {
		return mutationError(c, err)
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, goal)
}

func (h *handlers) getSessions(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Sessions())
}

func (h *handlers) getDashboard(c echo.Context) (err error) {
	metrics, spanCtx := newRequestMetrics(c.Request().Context(), h.logger, "/api/dashboard")
	c.SetRequest(c.Request().WithContext(spanCtx))
	defer func() {
		metrics.Log(c.Response().Status, err)
	}()

	authStart := time.Now()
	userID, authErr := h.auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
	metrics.ObserveAuth(time.Since(authStart))
	if authErr != nil {
		metrics.SetErrorStage("auth")
		err = c.String(http.StatusUnauthorized, authErr.Error())
		return err
	}

	loadStart := time.Now()
	store, loadErr := planner.Load(c.Request().Context(), h.db, userID)
	metrics.ObserveLoad(time.Since(loadStart))
	if loadErr != nil {
		metrics.SetErrorStage("storage")
		c.Logger().Error(loadErr)
		err = c.String(http.StatusInternalServerError, loadErr.Error())
		return err
	}
	store.WithClock(h.now)

	computeStart := time.Now()
	counters := stats.Dashboard(store.Tasks(), store.Goals(), store.Sessions(), store.Now())
	metrics.ObserveCompute(time.Since(computeStart))

	encodeStart := time.Now()
	err = c.JSON(http.StatusOK, counters)
	metrics.ObserveEncode(time.Since(encodeStart))
	if err != nil {
		metrics.SetErrorStage("encode_response")
	}
	return err
}

func (h *handlers) getInsights(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	insights := stats.Insights(store.Tasks(), store.Goals(), store.Sessions(), store.Now())
	return c.JSON(http.StatusOK, insights)
}

func (h *handlers) getWeekly(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	series := stats.Last7Days(store.Sessions(), store.Now())
	return c.JSON(http.StatusOK, series)
}

func (h *handlers) getExport(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	payload := report.Export(store.Tasks(), store.Goals(), store.Sessions(), store.Now())
	data, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		c.Logger().Error(err)
		return c.String(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+report.ExportFileName(store.Now())+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *handlers) getReport(c echo.Context) (err error) {
	metrics, spanCtx := newRequestMetrics(c.Request().Context(), h.logger, "/api/report")
	c.SetRequest(c.Request().WithContext(spanCtx))
	defer func() {
		metrics.Log(c.Response().Status, err)
	}()

	authStart := time.Now()
	userID, authErr := h.auth.UserIDFromAuthHeader(c.Request().Header.Get("Authorization"))
	metrics.ObserveAuth(time.Since(authStart))
	if authErr != nil {
		metrics.SetErrorStage("auth")
		err = c.String(http.StatusUnauthorized, authErr.Error())
		return err
	}

	loadStart := time.Now()
	store, loadErr := planner.Load(c.Request().Context(), h.db, userID)
	metrics.ObserveLoad(time.Since(loadStart))
	if loadErr != nil {
		metrics.SetErrorStage("storage")
		c.Logger().Error(loadErr)
		err = c.String(http.StatusInternalServerError, loadErr.Error())
		return err
	}
	store.WithClock(h.now)

	computeStart := time.Now()
	text := report.Build(store.Tasks(), store.Goals(), store.Sessions(), store.Streak(), store.Now())
	metrics.ObserveCompute(time.Since(computeStart))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+report.ReportFileName(store.Now())+`"`)
	encodeStart := time.Now()
	err = c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(text))
	metrics.ObserveEncode(time.Since(encodeStart))
	if err != nil {
		metrics.SetErrorStage("encode_response")
	}
	return err
}

type themeResponse struct {
	Theme string `json:"theme"`
}

func (h *handlers) getTheme(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: store.Theme()})
}

func (h *handlers) putTheme(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var req themeResponse
	if err := decodeBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if err := store.SetTheme(c.Request().Context(), req.Theme); err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: store.Theme()})
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
}

// postVoice parses the transcript and executes the add commands directly.
// Navigation commands are returned for the client to act on.
func (h *handlers) postVoice(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	var req voiceRequest
	if err := decodeBody(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	cmd := planner.ParseCommand(req.Transcript)

	switch cmd.Action {
	case planner.ActionAddTask:
		if strings.TrimSpace(cmd.Title) == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "task title missing from command"})
		}
		task, err := store.CreateTask(c.Request().Context(), planner.TaskFields{
			Title:    cmd.Title,
			DueDate:  store.Now().Format("2006-01-02"),
			Priority: domain.PriorityMedium,
		})
		if err != nil {
			return mutationError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]any{"command": cmd, "task": task})
	case planner.ActionAddGoal:
		if strings.TrimSpace(cmd.Title) == "" {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "goal title missing from command"})
		}
		now := store.Now()
		goal, err := store.CreateGoal(c.Request().Context(), planner.GoalFields{
			Title:      cmd.Title,
			StartDate:  now.Format("2006-01-02"),
			TargetDate: now.AddDate(0, 1, 0).Format("2006-01-02"),
		})
		if err != nil {
			return mutationError(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]any{"command": cmd, "goal": goal})
	default:
		return c.JSON(http.StatusOK, map[string]any{"command": cmd})
	}
}

type streakResponse struct {
	Days          int    `json:"days"`
	LastStudyDate string `json:"lastStudyDate"`
}

func (h *handlers) postStreakRefresh(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	if _, err := store.RefreshStreak(c.Request().Context()); err != nil {
		return mutationError(c, err)
	}
	streak := store.Streak()
	return c.JSON(http.StatusOK, streakResponse{Days: streak.Days, LastStudyDate: streak.LastStudyDate})
}

func (h *handlers) postRemindersCheck(c echo.Context) error {
	store, err := h.loadStore(c)
	if store == nil {
		return err
	}
	due, err := store.DueReminders(c.Request().Context())
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, due)
}
