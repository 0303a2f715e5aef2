package followup

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/vgsexex001/app-scheibell-sub001/internal/domain/catalog"
	"github.com/vgsexex001/app-scheibell-sub001/internal/platform/auth"
	"github.com/vgsexex001/app-scheibell-sub001/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Patients may read their own resolved content; staff manage adjustments.
	read := api.Group("", auth.RequireRole("admin", "staff", "patient"))
	read.GET("/patients/:id/content", h.GetContent)
	read.GET("/patients/:id/content/today", h.GetContentToday)
	// Patients may record their own additions; the handler narrows what the
	// patient role is allowed to submit.
	read.POST("/patients/:id/adjustments", h.CreateAdjustment)

	staff := api.Group("", auth.RequireRole("admin", "staff"))
	staff.GET("/patients/:id/adjustments", h.ListAdjustments)
	staff.GET("/adjustments/:id", h.GetAdjustment)
	staff.POST("/adjustments/:id/toggle", h.ToggleAdjustment)
	staff.DELETE("/adjustments/:id", h.DeleteAdjustment)
}

func (h *Handler) GetContent(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	contentType := c.QueryParam("type")
	if !catalog.ValidContentType(contentType) {
		return echo.NewHTTPError(http.StatusBadRequest, "type query parameter must be a known content type")
	}
	var day *int
	if raw := c.QueryParam("day"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "day must be a non-negative integer")
		}
		day = &d
	}
	resolved, err := h.svc.ResolveContent(c.Request().Context(), patientID, contentType, day)
	if err != nil {
		return resolutionError(err)
	}
	return c.JSON(http.StatusOK, resolved)
}

func (h *Handler) GetContentToday(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	contentType := c.QueryParam("type")
	if !catalog.ValidContentType(contentType) {
		return echo.NewHTTPError(http.StatusBadRequest, "type query parameter must be a known content type")
	}
	resolved, err := h.svc.ResolveToday(c.Request().Context(), patientID, contentType)
	if err != nil {
		if errors.Is(err, ErrNoSurgeryDate) {
			return echo.NewHTTPError(http.StatusBadRequest, ErrNoSurgeryDate.Error())
		}
		return resolutionError(err)
	}
	return c.JSON(http.StatusOK, resolved)
}

// patientOnly reports whether the caller holds the patient role and nothing
// stronger.
func patientOnly(c echo.Context) bool {
	roles := auth.RolesFromContext(c.Request().Context())
	hasPatient := false
	for _, r := range roles {
		switch r {
		case "admin", "staff":
			return false
		case "patient":
			hasPatient = true
		}
	}
	return hasPatient
}

// resolutionError classifies a resolver failure. A missing patient row
// surfaces as pgx.ErrNoRows through the service wrap and maps to 404;
// anything else is a store failure and must not masquerade as one.
func resolutionError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- Adjustments --

func (h *Handler) CreateAdjustment(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var a Adjustment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.PatientID = patientID
	if patientOnly(c) {
		if a.AdjustmentType != AdjustmentAdd {
			return echo.NewHTTPError(http.StatusForbidden, "patients may only add content")
		}
		if auth.PatientIDFromContext(c.Request().Context()) != patientID.String() {
			return echo.NewHTTPError(http.StatusForbidden, "patients may only adjust their own content")
		}
	}
	if err := h.svc.CreateAdjustment(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAdjustments(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAdjustments(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAdjustment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAdjustment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "adjustment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ToggleAdjustment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.ToggleAdjustment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "adjustment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAdjustment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAdjustment(c.Request().Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "adjustment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
