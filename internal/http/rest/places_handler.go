package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bwise1/viff_planner/util"
	"github.com/bwise1/viff_planner/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) PlacesRoutes() chi.Router {
	mux := chi.NewRouter()

	// Forward geocoding of a free-text search.
	// Query Params: ?q=...
	mux.Method(http.MethodGet, "/search", Handler(api.SearchPlacesHandler))
	return mux
}

func (api *API) SearchPlacesHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	text := strings.TrimSpace(r.URL.Query().Get("q"))
	if !util.NotBlank(text) {
		return respondWithError(nil, "Missing or empty 'q' query parameter", values.BadRequestBody, &tc)
	}

	marker, ok := api.Deps.Geocoder.ResolveOne(r.Context(), text)
	if !ok {
		return respondWithError(errors.New("no result for "+text), "Location not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Location found",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"marker": marker,
			"saved":  api.Deps.Itinerary.IsSaved(marker),
		},
	}
}
