package main

import (
	"errors"
	"net/http"

	"github.com/farxc/folha-inspecao/internal/catalog"
	"github.com/farxc/folha-inspecao/internal/data"
	"github.com/farxc/folha-inspecao/internal/mapview"
	"github.com/farxc/folha-inspecao/internal/response"
	"github.com/go-chi/chi/v5"
)

type PointView struct {
	Point   catalog.Point `json:"point"`
	Summary string        `json:"summary"`
	MapURL  string        `json:"map_url"`
	Map     mapview.Deck  `json:"map"`
}

type ListPointsResponse = response.APIResponse[[]string]
type GetPointResponse = response.APIResponse[PointView]

// @Summary		List catalog ids
// @Description	Ids of the reference catalog in file order, for the CIL selector.
// @Tags			Points
// @Produce		json
// @Success		200	{object}	ListPointsResponse
// @Router			/points [get]
func (app *application) handleListPoints(w http.ResponseWriter, r *http.Request) {
	response := &ListPointsResponse{
		Success: true,
		Data:    app.catalog.IDs(),
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get a catalog point
// @Description	Meter attributes, map link and satellite map of one point.
// @Tags			Points
// @Produce		json
// @Param			id		path		string				true	"Point id"
// @Param			layout	query		string				false	"inspection or sheet"	default(inspection)
// @Success		200		{object}	GetPointResponse
// @Failure		404		{object}	response.ErrorResponse
// @Router			/points/{id} [get]
func (app *application) handleGetPoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	point, err := app.catalog.FindByID(id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "point not found: "+id)
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	preset := mapview.PresetByName(r.URL.Query().Get("layout"))

	response := &GetPointResponse{
		Success: true,
		Data: PointView{
			Point:   point,
			Summary: mapview.Summary(point),
			MapURL:  mapview.GoogleMapsURL(point.Lat, point.Long),
			Map:     mapview.Build(app.catalog.Points(), point, preset),
		},
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
