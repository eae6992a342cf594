package encounter

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
	fhirGroup.GET("/Encounter/:id", h.GetEncounter)
	fhirGroup.PATCH("/Encounter/:id", h.PatchEncounter)
	fhirGroup.PATCH("/Encounter/:id/status", h.UpdateStatus)
}

func (h *Handler) GetEncounter(c echo.Context) error {
	enc, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, fhir.ErrNotFound) {
			return c.JSON(http.StatusNotFound,
				fhir.NewOperationOutcome("error", "not-found", "Encounter/"+c.Param("id")+" not found"))
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, enc)
}

// PatchEncounter accepts JSON Patch operations; any status replace inside is
// guarded by the transition table.
func (h *Handler) PatchEncounter(c echo.Context) error {
	var ops []fhir.PatchOperation
	if err := c.Bind(&ops); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enc, err := h.svc.Patch(c.Request().Context(), c.Param("id"), ops)
	if err != nil {
		return patchError(c, c.Param("id"), err)
	}
	return c.JSON(http.StatusOK, enc)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus accepts {"status": "..."} and applies the guarded transition.
func (h *Handler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	enc, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return patchError(c, c.Param("id"), err)
	}
	return c.JSON(http.StatusOK, enc)
}

func patchError(c echo.Context, id string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return c.JSON(http.StatusUnprocessableEntity,
			fhir.NewOperationOutcome("error", "business-rule", err.Error()))
	case errors.Is(err, fhir.ErrNotFound):
		return c.JSON(http.StatusNotFound,
			fhir.NewOperationOutcome("error", "not-found", "Encounter/"+id+" not found"))
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
