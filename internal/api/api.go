// Package api serves the board to web clients over HTTP. Every mutation goes
// through the same store the CLI and terminal board use, and drops are
// resolved by the in-process drag coordinator so web and terminal clients
// produce identical move intents.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
	"github.com/caseboard/caseboard/internal/store"
)

// New returns an echo instance with request logging, panic recovery and all
// routes registered.
func New(st *store.Store, logger *logrus.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	Register(e, st, logger)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, st *store.Store, logger *logrus.Logger) {
	h := &handlers{st: st, log: logger}
	e.GET("/api/board", h.getBoard)
	e.GET("/api/cards/:id", h.getCard)
	e.POST("/api/cards", h.postCard)
	e.POST("/api/cards/:id/move", h.moveCard)
	e.POST("/api/cards/:id/drop", h.dropCard)
	e.DELETE("/api/cards/:id", h.deleteCard)
	e.GET("/api/activity", h.getActivity)
	e.GET("/healthz", h.healthz)
}

// RequestLogger logs one line per request through logger.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}

type handlers struct {
	st  *store.Store
	log *logrus.Logger
}

// boardResponse is the board as web clients render it.
type boardResponse struct {
	Name   string         `json:"name"`
	Locale string         `json:"locale"`
	Stages []kanban.Stage `json:"stages"`
	Cards  []kanban.Card  `json:"cards"`
}

type createRequest struct {
	StageID string `json:"stageId"`
	Title   string `json:"title"`
}

type moveRequest struct {
	StageID string `json:"stageId"`
	Order   *int   `json:"order"`
	Confirm bool   `json:"confirm"`
}

type dropRequest struct {
	StageID string `json:"stageId"`
	CardID  string `json:"cardId"`
	Confirm bool   `json:"confirm"`
}

type moveResponse struct {
	Intent kanban.MoveIntent `json:"intent"`
	Card   kanban.Card       `json:"card"`
}

func (h *handlers) healthz(c echo.Context) error {
	if _, err := h.st.Snapshot(c.Request().Context()); err != nil {
		h.log.WithError(err).Error("health check failed")
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handlers) getBoard(c echo.Context) error {
	snap, err := h.st.Snapshot(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	p := kanban.DerivePartition(snap.Stages, snap.Cards)
	cfg := h.st.Config()
	resp := boardResponse{
		Name:   cfg.Board.Name,
		Locale: cfg.Locale,
		Stages: p.Stages(),
		Cards:  make([]kanban.Card, 0, len(snap.Cards)),
	}
	for _, s := range p.Stages() {
		resp.Cards = append(resp.Cards, p.Cards(s.ID)...)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) getCard(c echo.Context) error {
	card, err := h.st.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, card)
}

func (h *handlers) postCard(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, invalidBody(err))
	}
	card, err := h.st.Create(c.Request().Context(), req.StageID, req.Title)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.WithFields(logrus.Fields{"card": card.ID, "stage": card.StageID}).Info("card created")
	return c.JSON(http.StatusCreated, card)
}

// moveCard applies an explicit intent, for clients that compute their own.
func (h *handlers) moveCard(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, invalidBody(err))
	}
	if req.Order == nil || *req.Order < 0 {
		return h.fail(c, clierr.New(clierr.InvalidOrder, "order must be a non-negative integer"))
	}
	in := kanban.MoveIntent{CardID: c.Param("id"), StageID: req.StageID, Order: *req.Order}
	return h.apply(c, in, req.Confirm)
}

// dropCard resolves a pointer hit with the drag coordinator over the current
// snapshot. A drop that changes nothing answers 204.
func (h *handlers) dropCard(c echo.Context) error {
	var req dropRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, invalidBody(err))
	}
	ctx := c.Request().Context()
	snap, err := h.st.Snapshot(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	kb := kanban.NewBoard(kanban.Handlers{})
	kb.SetProps(kanban.Props{Stages: snap.Stages, Cards: snap.Cards})
	id := c.Param("id")
	if !kb.BeginDrag(id) {
		return h.fail(c, clierr.Newf(clierr.CardNotFound, "card %s not found", id).
			WithDetails(map[string]any{"id": id}))
	}
	in, ok := kb.Drop(kanban.Hit{StageID: req.StageID, CardID: req.CardID})
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return h.apply(c, in, req.Confirm)
}

// apply persists in unless it closes a case without confirmation.
func (h *handlers) apply(c echo.Context, in kanban.MoveIntent, confirm bool) error {
	ctx := c.Request().Context()
	if !confirm {
		snap, err := h.st.Snapshot(ctx)
		if err != nil {
			return h.fail(c, err)
		}
		p := kanban.DerivePartition(snap.Stages, snap.Cards)
		if p.ClosesCase(in) {
			return h.fail(c, clierr.Newf(clierr.ConfirmRequired,
				"moving to %q closes the case; resend with confirm", in.StageID).
				WithDetails(map[string]any{"intent": in}))
		}
	}

	card, err := h.st.Move(ctx, in)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.WithFields(logrus.Fields{
		"card":  in.CardID,
		"stage": in.StageID,
		"order": in.Order,
	}).Info("card moved")
	return c.JSON(http.StatusOK, moveResponse{Intent: in, Card: card})
}

func (h *handlers) deleteCard(c echo.Context) error {
	card, err := h.st.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	h.log.WithField("card", card.ID).Info("card deleted")
	return c.JSON(http.StatusOK, card)
}

func (h *handlers) getActivity(c echo.Context) error {
	opts := store.LogFilterOptions{
		Action: c.QueryParam("action"),
		CardID: c.QueryParam("card"),
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return h.fail(c, clierr.New(clierr.InvalidInput, "invalid limit"))
		}
		opts.Limit = n
	}
	entries, err := store.ReadLog(h.st.Config().Dir(), opts)
	if err != nil {
		return h.fail(c, err)
	}
	if entries == nil {
		entries = []store.LogEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// fail writes err as a structured error response.
func (h *handlers) fail(c echo.Context, err error) error {
	var ce *clierr.Error
	if !errors.As(err, &ce) {
		h.log.WithError(err).WithField("uri", c.Request().RequestURI).Error("internal error")
		ce = clierr.New(clierr.InternalError, err.Error())
	}
	return c.JSON(StatusFor(ce.Code), output.ErrorResponse{
		Error:   ce.Message,
		Code:    ce.Code,
		Details: ce.Details,
	})
}

func invalidBody(err error) error {
	return clierr.Newf(clierr.InvalidInput, "invalid request body: %v", err)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code string) int {
	switch code {
	case clierr.CardNotFound, clierr.StageNotFound, clierr.BoardNotFound:
		return http.StatusNotFound
	case clierr.InvalidInput, clierr.InvalidTitle, clierr.InvalidPriority,
		clierr.InvalidDate, clierr.InvalidOrder:
		return http.StatusBadRequest
	case clierr.ConfirmRequired, clierr.BoardExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
