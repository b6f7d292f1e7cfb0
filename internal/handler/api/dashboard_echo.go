package api

import (
	"errors"

	"ForexDash/internal/domain/models"
	"ForexDash/internal/presenter"
	"ForexDash/internal/service/ratelimit"
	"ForexDash/internal/session"
	"ForexDash/internal/usecase"
	xhttp "ForexDash/pkg/http"
	xlogger "ForexDash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Orchestrator is the subset of usecase.Orchestrator the handlers trigger.
type Orchestrator interface {
	StartFull(params models.PredictionParameters) error
	StartUltraQuick(symbol string) error
	StartQuickForSymbol(symbol string) error
	StartFallback() error
}

// DashboardEchoHandler exposes the dashboard session over HTTP.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	orch      Orchestrator
	catalog   *usecase.Catalog
	state     *session.State
	presenter *presenter.Presenter
	limiter   *ratelimit.Limiter
}

func NewDashboardEchoHandler(logger *xlogger.Logger, orch Orchestrator, catalog *usecase.Catalog, state *session.State, p *presenter.Presenter, limiter *ratelimit.Limiter) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:    logger.With("api"),
		orch:      orch,
		catalog:   catalog,
		state:     state,
		presenter: p,
		limiter:   limiter,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/pairs", h.Pairs)
	g.GET("/indicators", h.Indicators)
	g.GET("/options", h.Options)

	s := g.Group("/session")
	s.GET("", h.Session)
	s.GET("/view", h.View)
	s.PUT("/params", h.UpdateParams)
	s.DELETE("/error", h.DismissError)

	s.POST("/predict", h.Predict, h.rateLimit)
	s.POST("/predict/ultra", h.PredictUltra, h.rateLimit)
	s.POST("/predict/:symbol", h.PredictSymbol, h.rateLimit)
	s.POST("/fallback", h.Fallback, h.rateLimit)
}

func (h *DashboardEchoHandler) Pairs(c echo.Context) error {
	pairs, err := h.catalog.Pairs(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("prediction service unavailable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.ListResponse(c, pairs, len(pairs))
}

func (h *DashboardEchoHandler) Indicators(c echo.Context) error {
	sets, err := h.catalog.Indicators(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError("prediction service unavailable").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, sets)
}

func (h *DashboardEchoHandler) Options(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.FormOptions())
}

func (h *DashboardEchoHandler) Session(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.state.Snapshot())
}

func (h *DashboardEchoHandler) View(c echo.Context) error {
	snap := h.state.Snapshot()
	if snap.LastResult == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no prediction result"))
	}
	return xhttp.SuccessResponse(c, h.presenter.Build(snap.LastResult))
}

func (h *DashboardEchoHandler) UpdateParams(c echo.Context) error {
	req := &models.ParamsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// the form edits full-profile parameters, so its ranges apply
	return xhttp.SuccessResponse(c, h.state.SetParams(req.Parameters().Clamp(models.FullBounds)))
}

func (h *DashboardEchoHandler) DismissError(c echo.Context) error {
	h.state.DismissError()
	return xhttp.NoContentResponse(c)
}

func (h *DashboardEchoHandler) Predict(c echo.Context) error {
	return h.accepted(c, h.orch.StartFull(h.state.Params()))
}

func (h *DashboardEchoHandler) PredictUltra(c echo.Context) error {
	req := &models.SymbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := req.Symbol
	if symbol == "" {
		symbol = h.state.Params().Symbol
	}
	return h.accepted(c, h.orch.StartUltraQuick(symbol))
}

func (h *DashboardEchoHandler) PredictSymbol(c echo.Context) error {
	symbol := c.Param("symbol")
	if !xhttp.IsSymbol(symbol) {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_SYMBOL",
			Field:   "symbol",
			Message: "symbol must be an instrument symbol",
		}})
	}
	return h.accepted(c, h.orch.StartQuickForSymbol(symbol))
}

func (h *DashboardEchoHandler) Fallback(c echo.Context) error {
	return h.accepted(c, h.orch.StartFallback())
}

// accepted maps a trigger result onto 202 with the loading snapshot, or 409.
func (h *DashboardEchoHandler) accepted(c echo.Context, err error) error {
	switch {
	case err == nil:
		return xhttp.AcceptedResponse(c, h.state.Snapshot())
	case errors.Is(err, usecase.ErrInFlight):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("a prediction is already running"))
	case errors.Is(err, usecase.ErrNoFallback):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError("no fallback is offered for the last request"))
	default:
		h.logger.Error("trigger failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("could not start prediction").WithError(err))
	}
}

func (h *DashboardEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
			c.Response().Header().Set("Retry-After", "1")
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many prediction triggers"))
		}
		return next(c)
	}
}

var _ xhttp.Handler = (*DashboardEchoHandler)(nil)
