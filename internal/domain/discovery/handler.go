package discovery

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/carefind/carefind/internal/platform/apperror"
	"github.com/carefind/carefind/internal/platform/geo"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/hospitals", h.SearchHospitals)
}

// SearchHospitals serves the hospital directory. All filter parameters
// are optional; lat and lng must be supplied together for distance
// annotation to take effect.
func (h *Handler) SearchHospitals(c echo.Context) error {
	f := Filter{
		SearchText:     c.QueryParam("search"),
		Specialization: c.QueryParam("specialization"),
	}

	if v := c.QueryParam("min_rating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_rating")
		}
		f.MinRating = &r
	}
	if v := c.QueryParam("max_distance_km"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_distance_km")
		}
		f.MaxDistanceKm = &d
	}
	if v := c.QueryParam("availability"); v != "" {
		w := Window(v)
		if !w.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid availability window")
		}
		f.AvailabilityWindow = w
	}

	viewer, err := viewerLocation(c)
	if err != nil {
		return err
	}

	hospitals, err := h.svc.Search(c.Request().Context(), f, viewer)
	if err != nil {
		return echo.NewHTTPError(apperror.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, hospitals)
}

func viewerLocation(c echo.Context) (*geo.Point, error) {
	latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng")
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid lat")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid lng")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "coordinates out of range")
	}
	return &geo.Point{Lat: lat, Lng: lng}, nil
}
