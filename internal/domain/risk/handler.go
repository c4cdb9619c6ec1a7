package risk

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/domain/assessment"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/risk", h.GetProfile)
	api.GET("/population/risk", h.GetScreening)
	api.GET("/population/screen", h.GetAttention)
	api.GET("/population/compare", h.GetComparison)
	api.GET("/stats", h.GetStats)
}

func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.svc.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) GetScreening(c echo.Context) error {
	report, err := h.svc.ScreenPopulation(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) GetAttention(c echo.Context) error {
	report, err := h.svc.NeedsAttention(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) GetComparison(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	code := strings.ToLower(c.QueryParam("instrument"))
	if !assessment.Valid(code) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown instrument")
	}
	comparison, err := h.svc.ComparePatient(c.Request().Context(), patientID, assessment.Instrument(code))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, comparison)
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
