package rest

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/bwise1/viff_planner/util"
	"github.com/bwise1/viff_planner/util/tracing"
)

// ServerResponse is the envelope every route answers with. Notice carries a
// non-blocking warning when a store degraded to its last known state.
type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Notice     string      `json:"notice,omitempty"`
}

func respondWithError(err error, message, status string, tc *tracing.Context) *ServerResponse {
	if tc != nil {
		log.Printf("[%s] %s: %v", tc.RequestID, message, err)
	} else {
		log.Printf("%s: %v", message, err)
	}
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("unable to write response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status, message string) {
	log.Printf("%s: %v", message, err)
	body, _ := json.Marshal(ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	})
	writeJSONResponse(w, body, util.StatusCode(status))
}
