package appointment

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carelink/booking/internal/platform/fhir"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(fhirGroup *echo.Group) {
	fhirGroup.POST("/Appointment", h.CreateAppointment)
	fhirGroup.GET("/Appointment/:id", h.GetAppointment)
	fhirGroup.PUT("/Appointment/:id", h.UpdateAppointment)
	fhirGroup.PATCH("/Appointment/:id", h.PatchAppointment)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var appt fhir.Appointment
	if err := c.Bind(&appt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt.ResourceType = "Appointment"

	created, err := h.svc.Create(c.Request().Context(), &appt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	appt, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return readError(c, "Appointment", c.Param("id"), err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var appt fhir.Appointment
	if err := c.Bind(&appt); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt.ResourceType = "Appointment"
	appt.ID = c.Param("id")

	updated, err := h.svc.Update(c.Request().Context(), &appt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) PatchAppointment(c echo.Context) error {
	var ops []fhir.PatchOperation
	if err := c.Bind(&ops); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patched, err := h.svc.Patch(c.Request().Context(), c.Param("id"), ops)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, patched)
}

func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, fhir.ErrNotFound):
		return c.JSON(http.StatusNotFound, fhir.NewOperationOutcome("error", "not-found", err.Error()))
	case errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}

func readError(c echo.Context, resourceType, id string, err error) error {
	if errors.Is(err, fhir.ErrNotFound) {
		return c.JSON(http.StatusNotFound,
			fhir.NewOperationOutcome("error", "not-found", resourceType+"/"+id+" not found"))
	}
	return echo.NewHTTPError(http.StatusBadGateway, err.Error())
}
