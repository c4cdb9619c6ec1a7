package report

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/report", h.GetReport)
}

// GetReport serves the serialized report. `format=json` returns the
// structured payload instead of the sentinel-tagged text.
func (h *Handler) GetReport(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("format") == "json" {
		p, err := h.svc.Build(ctx, c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, p)
	}
	serialized, err := h.svc.Generate(ctx, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, serialized)
}
