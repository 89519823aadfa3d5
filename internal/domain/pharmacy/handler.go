package pharmacy

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carefind/carefind/internal/platform/apperror"
	"github.com/carefind/carefind/internal/platform/auth"
	"github.com/carefind/carefind/pkg/pagination"
)

// NameLookup resolves a user's display name for order denormalization.
type NameLookup func(ctx context.Context, id uuid.UUID) (string, error)

type Handler struct {
	svc   *Service
	names NameLookup
}

func NewHandler(svc *Service, names NameLookup) *Handler {
	return &Handler{svc: svc, names: names}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medicines", h.ListMedicines)

	patient := api.Group("", auth.RequireRole(auth.RolePatient))
	patient.POST("/medicine-orders", h.PlaceOrder)
	patient.GET("/medicine-orders", h.ListOrders)

	hosp := api.Group("", auth.RequireRole(auth.RoleHospital))
	hosp.POST("/medicine-orders/:id/status", h.UpdateOrderStatus)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	medicines := h.svc.ListMedicines(c.QueryParam("search"), c.QueryParam("category"))
	return c.JSON(http.StatusOK, medicines)
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	patientID := auth.UserIDFromContext(ctx)
	name, err := h.names(ctx, patientID)
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	o, err := h.svc.PlaceOrder(ctx, patientID, name, req)
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	orders, err := h.svc.ListOrders(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}

	p := pagination.FromContext(c)
	total := len(orders)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(orders[start:end], total, p.Limit, p.Offset))
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status OrderStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.UpdateOrderStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, o)
}
