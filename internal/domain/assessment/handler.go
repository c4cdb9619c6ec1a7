package assessment

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id/assessments", h.GetOverview)
	api.GET("/patients/:id/assessments/:instrument", h.GetInstrumentSeries)
	api.GET("/patients/:id/progress", h.GetProgress)
	api.GET("/patients/:id/timeline", h.GetTimeline)
}

func filterFromContext(c echo.Context) (Filter, error) {
	var f Filter
	if raw := c.QueryParam("instruments"); raw != "" {
		codes := strings.Split(raw, ",")
		for i := range codes {
			codes[i] = strings.ToLower(strings.TrimSpace(codes[i]))
		}
		f.Instruments = ParseInstruments(codes)
	}
	f.StartDate = NormalizeDate(c.QueryParam("start_date"))
	f.EndDate = NormalizeDate(c.QueryParam("end_date"))
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		f.Limit = n
	}
	return f, nil
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	activeOnly := c.QueryParam("active_only") == "true"
	resp, err := h.svc.Patients(c.Request().Context(), pg, activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetOverview(c echo.Context) error {
	f, err := filterFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ov, err := h.svc.Overview(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *Handler) GetInstrumentSeries(c echo.Context) error {
	code := strings.ToLower(c.Param("instrument"))
	if !Valid(code) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown instrument")
	}
	inst := Instrument(code)
	f, err := filterFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.Instruments = []Instrument{inst}
	ov, err := h.svc.Overview(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient_id":  ov.PatientID,
		"data_source": ov.DataSource,
		"instrument":  inst,
		"series":      ov.Series[inst],
		"trend":       ov.Trends[0],
	})
}

func (h *Handler) GetProgress(c echo.Context) error {
	f, err := filterFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	report, err := h.svc.Progress(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) GetTimeline(c echo.Context) error {
	f, err := filterFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ov, err := h.svc.Overview(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient_id":  ov.PatientID,
		"data_source": ov.DataSource,
		"timeline":    ov.Timeline,
	})
}
