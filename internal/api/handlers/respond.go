package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/log"
	"microgrid-valuation/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: msg},
	})
}

// writeDomainError maps a core error to its HTTP status and error code.
func writeDomainError(c *gin.Context, err error) {
	status, code := http.StatusBadRequest, ""
	switch {
	case errors.Is(err, model.ErrUnsupportedScenario):
		code = "UNSUPPORTED_SCENARIO"
	case errors.Is(err, model.ErrUnsupportedWeather):
		code = "UNSUPPORTED_WEATHER"
	case errors.Is(err, model.ErrInvalidCurveLength):
		code = "INVALID_CURVE_LENGTH"
	case errors.Is(err, model.ErrInvalidConfiguration):
		code = "INVALID_CONFIG"
	default:
		status, code = http.StatusInternalServerError, "SIMULATION_ERROR"
		ctx := c.Request.Context()
		log.Ctx(ctx).ErrorContext(ctx, "simulation failed", slog.String("error", err.Error()))
	}
	writeError(c, status, code, err.Error())
}

func invalidRequest(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}

// money rounds a currency amount to cents.
func money(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// round4 rounds physical quantities for display.
func round4(x float64) float64 {
	return decimal.NewFromFloat(x).Round(4).InexactFloat64()
}

func roundPtr(x *float64) *float64 {
	if x == nil {
		return nil
	}
	v := money(*x)
	return &v
}
