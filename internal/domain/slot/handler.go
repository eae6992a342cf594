package slot

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
	fhirGroup.POST("/Slot/$batch", h.CreateSlotBatch)
	fhirGroup.POST("/Slot", h.CreateSlot)
	fhirGroup.GET("/Slot/:id", h.GetSlot)
}

// CreateSlotBatch accepts {slots: [...]} and answers with the unified
// batch envelope: 201 when at least one slot was created, 400 when the
// whole batch was rejected.
func (h *Handler) CreateSlotBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.CreateBatch(c.Request().Context(), req.Slots)
	if err != nil {
		return batchError(c, err)
	}

	resp := NewBatchResponse(result)
	status := http.StatusCreated
	if !resp.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, resp)
}

// CreateSlot runs a single creation through the same validated path as a
// batch of one.
func (h *Handler) CreateSlot(c echo.Context) error {
	var req CreationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.CreateBatch(c.Request().Context(), []CreationRequest{req})
	if err != nil {
		return batchError(c, err)
	}

	if len(result.Created) == 1 {
		return c.JSON(http.StatusCreated, result.Created[0])
	}
	rejection := result.Rejected[0]
	return c.JSON(http.StatusBadRequest, fhir.NewOperationOutcome("error", rejection.Code, rejection.Reason))
}

func (h *Handler) GetSlot(c echo.Context) error {
	sl, err := h.svc.GetSlot(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, fhir.ErrNotFound) {
			return c.JSON(http.StatusNotFound, fhir.NewOperationOutcome("error", "not-found", "Slot/"+c.Param("id")+" not found"))
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, sl)
}

func batchError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrEmptyBatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPractitionerBusy):
		return c.JSON(http.StatusConflict, fhir.NewOperationOutcome("error", "conflict", err.Error()))
	case errors.Is(err, fhir.ErrNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, "referenced schedule not found")
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
