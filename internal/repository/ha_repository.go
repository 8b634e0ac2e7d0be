package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"energydash/internal/models"

	"github.com/go-resty/resty/v2"
)

// requestTimeout bounds every call to the hub.
const requestTimeout = 10 * time.Second

// SensorSource is the upstream sensor data source the dashboard reads from.
type SensorSource interface {
	ListStates(ctx context.Context) ([]models.Reading, error)
	// GetState returns nil, nil when the entity is unknown to the hub.
	GetState(ctx context.Context, entityID string) (*models.Reading, error)
	GetHistory(ctx context.Context, entityID string, start time.Time, end *time.Time) ([]models.Reading, error)
	CallService(ctx context.Context, domain, service, entityID string, data map[string]any) error
	CheckAPI(ctx context.Context) error
}

// UpstreamError wraps a failed call to the hub. StatusCode is zero for
// transport-level failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("hub request %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("hub request %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HomeAssistantRepository talks to a Home Assistant instance over its REST API.
type HomeAssistantRepository struct {
	client *resty.Client
}

// NewHomeAssistantRepository creates a new HomeAssistantRepository.
func NewHomeAssistantRepository(baseURL, token string) *HomeAssistantRepository {
	client := resty.New().
		SetBaseURL(baseURL+"/api").
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &HomeAssistantRepository{client: client}
}

// ListStates returns the current snapshot of all entity states.
func (r *HomeAssistantRepository) ListStates(ctx context.Context) ([]models.Reading, error) {
	var states []models.Reading
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&states).
		Get("/states")
	if err != nil {
		return nil, &UpstreamError{Op: "list states", Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{Op: "list states", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", resp.Status())}
	}
	return states, nil
}

// GetState returns the current state of one entity, or nil when the hub does
// not know the entity.
func (r *HomeAssistantRepository) GetState(ctx context.Context, entityID string) (*models.Reading, error) {
	var state models.Reading
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&state).
		Get("/states/" + entityID)
	if err != nil {
		return nil, &UpstreamError{Op: "get state", Err: err}
	}
	if resp.StatusCode() == 404 {
		log.Printf("Entity not found: %s", entityID)
		return nil, nil
	}
	if resp.IsError() {
		return nil, &UpstreamError{Op: "get state", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", resp.Status())}
	}
	return &state, nil
}

// GetHistory returns the recorded state changes of one entity between start
// and now, or start and end when end is set. The result is chronological and
// empty when the entity has no recorded changes in the window.
func (r *HomeAssistantRepository) GetHistory(ctx context.Context, entityID string, start time.Time, end *time.Time) ([]models.Reading, error) {
	req := r.client.R().
		SetContext(ctx).
		SetQueryParam("filter_entity_id", entityID)
	if end != nil {
		req.SetQueryParam("end_time", end.Format(time.RFC3339))
	}

	// The history API returns one list of entries per requested entity.
	var series [][]models.Reading
	resp, err := req.
		SetResult(&series).
		Get("/history/period/" + start.Format(time.RFC3339))
	if err != nil {
		return nil, &UpstreamError{Op: "get history", Err: err}
	}
	if resp.IsError() {
		return nil, &UpstreamError{Op: "get history", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", resp.Status())}
	}
	if len(series) == 0 {
		return []models.Reading{}, nil
	}
	return series[0], nil
}

// CallService invokes a hub service for one entity, e.g. switch/turn_off.
func (r *HomeAssistantRepository) CallService(ctx context.Context, domain, service, entityID string, data map[string]any) error {
	body := map[string]any{"entity_id": entityID}
	for key, value := range data {
		body[key] = value
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/services/%s/%s", domain, service))
	if err != nil {
		return &UpstreamError{Op: "call service", Err: err}
	}
	if resp.IsError() {
		return &UpstreamError{Op: "call service", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", resp.Status())}
	}
	return nil
}

// CheckAPI verifies the hub API is reachable and answering.
func (r *HomeAssistantRepository) CheckAPI(ctx context.Context) error {
	var body struct {
		Message string `json:"message"`
	}
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/")
	if err != nil {
		return &UpstreamError{Op: "check api", Err: err}
	}
	if resp.IsError() {
		return &UpstreamError{Op: "check api", StatusCode: resp.StatusCode(), Err: fmt.Errorf("%s", resp.Status())}
	}
	if body.Message != "API running." {
		return &UpstreamError{Op: "check api", Err: fmt.Errorf("unexpected response: %q", body.Message)}
	}
	return nil
}
