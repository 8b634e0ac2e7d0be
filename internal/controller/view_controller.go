package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"energydash/internal/config"
	"energydash/internal/models"
	"energydash/internal/repository"
	"energydash/internal/service"
	"energydash/internal/utils"

	"github.com/gorilla/mux"
)

// ViewController handles HTTP requests for the dashboard views.
type ViewController struct {
	processor *service.DataProcessor
	source    repository.SensorSource
	cfg       config.Config
}

// NewViewController creates a new ViewController.
func NewViewController(processor *service.DataProcessor, source repository.SensorSource, cfg config.Config) *ViewController {
	return &ViewController{
		processor: processor,
		source:    source,
		cfg:       cfg,
	}
}

// respondWithComputeError maps a view computation failure onto the API error
// taxonomy: unknown devices are 404s, unreachable hub is a 502, everything
// else a 500.
func respondWithComputeError(w http.ResponseWriter, err error) {
	var upstream *repository.UpstreamError
	switch {
	case errors.Is(err, service.ErrDeviceNotFound):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, err.Error(), nil, http.StatusNotFound))
	case errors.As(err, &upstream):
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUpstreamUnavailable, err.Error(), nil, http.StatusBadGateway))
	default:
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, err.Error(), nil, http.StatusInternalServerError))
	}
}

// HandleOverview serves the overview view.
func (c *ViewController) HandleOverview(w http.ResponseWriter, r *http.Request) {
	data, err := c.processor.GetOverviewData(r.Context())
	if err != nil {
		log.Printf("Error loading overview: %v", err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// HandleRealtime serves the realtime view.
func (c *ViewController) HandleRealtime(w http.ResponseWriter, r *http.Request) {
	data, err := c.processor.GetRealtimeData(r.Context())
	if err != nil {
		log.Printf("Error loading realtime data: %v", err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// HandleCosts serves the cost analysis view.
func (c *ViewController) HandleCosts(w http.ResponseWriter, r *http.Request) {
	data, err := c.processor.GetCostData(r.Context())
	if err != nil {
		log.Printf("Error loading cost data: %v", err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// HandleHistory serves the historical trends view. Unrecognized periods fall
// back to 24h.
func (c *ViewController) HandleHistory(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "24h"
	}

	data, err := c.processor.GetHistoryData(r.Context(), period)
	if err != nil {
		log.Printf("Error loading history data: %v", err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

// HandleDevice serves the device detail view.
func (c *ViewController) HandleDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["device_id"]
	if deviceID == "" {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, "device_id is required", nil, http.StatusBadRequest))
		return
	}

	data, err := c.processor.GetDeviceData(r.Context(), deviceID)
	if err != nil {
		log.Printf("Error loading device data: %v", err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}

type deviceActionRequest struct {
	Domain  string         `json:"domain"`
	Service string         `json:"service"`
	Data    map[string]any `json:"data,omitempty"`
}

// HandleDeviceAction passes a device control action through to the hub.
func (c *ViewController) HandleDeviceAction(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["device_id"]

	var req deviceActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, fmt.Sprintf("error unmarshalling JSON: %v", err), nil, http.StatusBadRequest))
		return
	}
	defer r.Body.Close()

	if req.Domain == "" || req.Service == "" {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, "domain and service are required", nil, http.StatusBadRequest))
		return
	}

	if err := c.source.CallService(r.Context(), req.Domain, req.Service, deviceID, req.Data); err != nil {
		log.Printf("Error calling service %s.%s for %s: %v", req.Domain, req.Service, deviceID, err)
		respondWithComputeError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Action invoked"})
}

// HandleClearCache drops all cached views.
func (c *ViewController) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	c.processor.ClearCache()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Cache cleared"})
}

// HandleTestConnection checks that the hub API is reachable.
func (c *ViewController) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	states, err := c.source.ListStates(r.Context())
	if err != nil {
		log.Printf("Connection test failed: %v", err)
		utils.RespondWithJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"message": fmt.Sprintf("Connection failed: %v", err),
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Connected successfully",
		"sensors_found": len(states),
	})
}

// HandleConfig exposes the non-secret settings the dashboard frontend needs.
func (c *ViewController) HandleConfig(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"electricity_rate": c.cfg.ElectricityRate,
		"currency_symbol":  c.cfg.CurrencySymbol,
		"refresh_interval": c.cfg.RefreshInterval,
	})
}
