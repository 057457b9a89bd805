package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/util"
	"github.com/bwise1/viff_planner/util/values"
	"github.com/go-chi/chi/v5"
)

const storeNotice = "Changes could not be saved, showing the last known itinerary"

var errMissingCoordinates = errors.New("marker has no coordinates")

func (api *API) ItineraryRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetItinerary))
	mux.Method(http.MethodPut, "/", Handler(api.SaveItinerary))
	mux.Method(http.MethodDelete, "/", Handler(api.ClearItinerary))
	mux.Method(http.MethodPost, "/toggle", Handler(api.ToggleMarker))
	mux.Method(http.MethodPost, "/reset", Handler(api.ResetItinerary))
	mux.Method(http.MethodGet, "/route", Handler(api.GetRoute))
	return mux
}

func (api *API) GetItinerary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	markers, err := api.Deps.Itinerary.Load(r.Context())
	return itineraryResponse("Itinerary fetched", values.Success, markers, err)
}

func (api *API) SaveItinerary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	var req []model.MarkerRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}

	markers := make([]model.Marker, 0, len(req))
	for _, m := range req {
		if err := util.ValidateStruct(m); err != nil {
			return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
		}
		marker := m.Marker()
		if !marker.HasCoordinates() {
			return respondWithError(errMissingCoordinates, "every saved marker needs latitude and longitude", values.BadRequestBody, &tc)
		}
		markers = append(markers, marker)
	}

	saved, err := api.Deps.Itinerary.Save(r.Context(), markers)
	return itineraryResponse("Itinerary saved", values.Success, saved, err)
}

func (api *API) ToggleMarker(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	var req model.MarkerRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	markers, err := api.Deps.Itinerary.Toggle(r.Context(), req.Marker())
	return itineraryResponse("Itinerary updated", values.Success, markers, err)
}

func (api *API) ResetItinerary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	markers, err := api.Deps.Itinerary.Reset(r.Context())
	return itineraryResponse("Itinerary reset to festival venues", values.Success, markers, err)
}

func (api *API) ClearItinerary(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	markers, err := api.Deps.Itinerary.ClearAll(r.Context())
	return itineraryResponse("Itinerary cleared", values.Success, markers, err)
}

func (api *API) GetRoute(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	if _, err := api.Deps.Itinerary.Load(r.Context()); err != nil {
		tc := tracingFrom(r)
		return respondWithError(err, "unable to load itinerary", values.Error, &tc)
	}

	encoded, points := api.Deps.Itinerary.Route()
	return &ServerResponse{
		Message:    "Route fetched",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       model.RouteResponse{Polyline: encoded, Points: points},
	}
}

// itineraryResponse always answers 200 with the safe list. A store failure
// only adds a notice so the client keeps working with the last known state.
func itineraryResponse(message, status string, markers []model.Marker, err error) *ServerResponse {
	resp := &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       model.ItineraryResponse{Markers: markers, Count: len(markers)},
	}
	if err != nil {
		resp.Notice = storeNotice
	}
	return resp
}
