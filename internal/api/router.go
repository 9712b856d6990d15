package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"worktime.service/internal/api/handler"
	"worktime.service/internal/core"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service *core.TrackerService) *mux.Router {

	trackerHandler := handler.TrackerHandler{
		Service: service,
	}

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/clock", trackerHandler.ToggleClock).Methods(http.MethodPost)
	api.HandleFunc("/entries", trackerHandler.Day).Methods(http.MethodGet)
	api.HandleFunc("/entries/{id:[0-9]+}", trackerHandler.UpdateEntry).Methods(http.MethodPut)
	api.HandleFunc("/entries/{id:[0-9]+}", trackerHandler.DeleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/schedules", trackerHandler.Month).Methods(http.MethodGet)
	api.HandleFunc("/schedules", trackerHandler.CreateSchedule).Methods(http.MethodPost)
	api.HandleFunc("/schedules/{id:[0-9]+}", trackerHandler.UpdateSchedule).Methods(http.MethodPut)
	api.HandleFunc("/schedules/{id:[0-9]+}", trackerHandler.DeleteSchedule).Methods(http.MethodDelete)
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
