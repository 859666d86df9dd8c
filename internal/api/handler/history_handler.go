package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hydrowise/hydration-service/internal/core/ports"
)

type HistoryHandler struct {
	history ports.HistoryReader
	today   func() string
}

// NewHistoryHandler wires the aggregator. today returns the current calendar
// day key in the user's time zone.
func NewHistoryHandler(history ports.HistoryReader, today func() string) *HistoryHandler {
	return &HistoryHandler{history: history, today: today}
}

// Weekly handles GET /v1/history/weekly.
//
// @Summary      Seven-day intake rollup, oldest day first
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  weeklyResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/history/weekly [get]
func (h *HistoryHandler) Weekly(c echo.Context) error {
	w, err := h.history.Weekly()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toWeeklyResponse(w))
}

// Today handles GET /v1/history/today.
//
// @Summary      Today's log entries, newest first
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  todayResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/history/today [get]
func (h *HistoryHandler) Today(c echo.Context) error {
	entries, err := h.history.TodayLog()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, todayResponse{
		Date:    h.today(),
		Entries: toEntryResponses(entries),
	})
}
