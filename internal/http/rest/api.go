package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwise1/viff_planner/config"
	deps "github.com/bwise1/viff_planner/internal/debs"
	"github.com/bwise1/viff_planner/util/values"
	"github.com/go-chi/chi/v5"
)

// The write timeout covers seed resolution on a first load, which can take a
// few geocoding round trips.
const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 45 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("VIFF planner"))
		},
	)
	// websocket clients cannot set custom headers, so the feed sits outside tracing
	mux.Get("/ws", api.Deps.WebSocket.HandleConnections)

	mux.Group(func(r chi.Router) {
		r.Use(RequestTracing)
		r.Mount("/itinerary", api.ItineraryRoutes())
		r.Mount("/journal", api.JournalRoutes())
		r.Mount("/places", api.PlacesRoutes())
	})

	return mux
}

func (api *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	return api.Server.Shutdown(ctx)
}
