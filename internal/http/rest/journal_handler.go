package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bwise1/viff_planner/internal/journal"
	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/util"
	"github.com/bwise1/viff_planner/util/tracing"
	"github.com/bwise1/viff_planner/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) JournalRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetJournal))
	mux.Method(http.MethodPut, "/", Handler(api.SaveJournal))
	mux.Method(http.MethodDelete, "/", Handler(api.ClearJournal))
	mux.Method(http.MethodPost, "/", Handler(api.AddJournalEntry))
	mux.Method(http.MethodPost, "/sample", Handler(api.LoadSampleJournal))
	mux.Method(http.MethodPatch, "/{id}/visited", Handler(api.ToggleVisited))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeleteJournalEntry))
	return mux
}

func (api *API) GetJournal(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	visitedOnly := false
	if raw := r.URL.Query().Get("visited"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return respondWithError(err, "Invalid 'visited' parameter", values.BadRequestBody, &tc)
		}
		visitedOnly = v
	}

	entries := api.Deps.Journal.GetAll(r.Context())
	return journalResponse("Journal fetched", values.Success, journal.View(entries, visitedOnly))
}

func (api *API) SaveJournal(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	var req []model.JournalEntryRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}

	entries := make([]model.JournalEntry, 0, len(req))
	for _, e := range req {
		if err := util.ValidateStruct(e); err != nil {
			return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
		}
		entries = append(entries, e.Entry())
	}

	if err := api.Deps.Journal.SaveAll(r.Context(), entries); err != nil {
		return respondWithError(err, "unable to save journal", values.Error, &tc)
	}
	return journalResponse("Journal saved", values.Success, entries)
}

func (api *API) ClearJournal(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	if err := api.Deps.Journal.Clear(r.Context()); err != nil {
		tc := tracingFrom(r)
		return respondWithError(err, "unable to clear journal", values.Error, &tc)
	}
	return journalResponse("Journal cleared", values.Success, []model.JournalEntry{})
}

func (api *API) AddJournalEntry(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	var req model.JournalEntryRequest
	if err := util.DecodeJSONBody(&tc, r.Body, &req); err != nil {
		return respondWithError(err, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, util.ValidationMessage(err), values.BadRequestBody, &tc)
	}

	entry, err := api.Deps.Journal.Add(r.Context(), req.Entry())
	if err != nil {
		return respondWithError(err, "unable to add journal entry", values.Error, &tc)
	}
	return &ServerResponse{
		Message:    "Journal entry added",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       entry,
	}
}

func (api *API) LoadSampleJournal(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	entries, err := api.Deps.Journal.LoadSample(r.Context())
	if err != nil {
		tc := tracingFrom(r)
		return respondWithError(err, "unable to load sample journal", values.Error, &tc)
	}
	return journalResponse("Sample journal loaded", values.Success, entries)
}

func (api *API) ToggleVisited(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	entries, err := api.Deps.Journal.ToggleVisited(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return journalError(err, "unable to update journal entry", &tc)
	}
	return journalResponse("Journal entry updated", values.Success, entries)
}

func (api *API) DeleteJournalEntry(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := tracingFrom(r)

	entries, err := api.Deps.Journal.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return journalError(err, "unable to delete journal entry", &tc)
	}
	return journalResponse("Journal entry deleted", values.Success, entries)
}

func journalError(err error, message string, tc *tracing.Context) *ServerResponse {
	if errors.Is(err, journal.ErrEntryNotFound) {
		return respondWithError(err, "journal entry not found", values.NotFound, tc)
	}
	return respondWithError(err, message, values.Error, tc)
}

func journalResponse(message, status string, entries []model.JournalEntry) *ServerResponse {
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       entries,
	}
}
