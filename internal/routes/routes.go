package routes

import (
	"fmt"
	"net/http"

	"energydash/internal/controller"

	"github.com/gorilla/mux"
)

// SetupRouter defines all API routes.
func SetupRouter(c *controller.ViewController) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/overview", c.HandleOverview).Methods("GET")
	router.HandleFunc("/api/realtime", c.HandleRealtime).Methods("GET")
	router.HandleFunc("/api/costs", c.HandleCosts).Methods("GET")
	router.HandleFunc("/api/history", c.HandleHistory).Methods("GET")
	router.HandleFunc("/api/device/{device_id}", c.HandleDevice).Methods("GET")
	router.HandleFunc("/api/device/{device_id}/action", c.HandleDeviceAction).Methods("POST")
	router.HandleFunc("/api/cache/clear", c.HandleClearCache).Methods("POST")
	router.HandleFunc("/api/test-connection", c.HandleTestConnection).Methods("GET")
	router.HandleFunc("/api/config", c.HandleConfig).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}).Methods("GET")

	return router
}
