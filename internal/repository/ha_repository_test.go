package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *HomeAssistantRepository) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, NewHomeAssistantRepository(server.URL, "test-token")
}

func TestListStates(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"entity_id": "sensor.office_pc",
				"state":     "300",
				"attributes": map[string]any{
					"friendly_name":       "Office PC",
					"unit_of_measurement": "W",
				},
			},
		})
	})

	states, err := repo.ListStates(context.Background())
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "sensor.office_pc", states[0].EntityID)
	assert.Equal(t, "300", states[0].State)
	assert.Equal(t, "Office PC", states[0].Attributes.FriendlyName)
	assert.Equal(t, "W", states[0].Attributes.UnitOfMeasurement)
}

func TestListStatesUpstreamError(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := repo.ListStates(context.Background())
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
}

func TestGetStateNotFoundIsAbsent(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	state, err := repo.GetState(context.Background(), "sensor.nope")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestGetState(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states/sensor.office_pc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"entity_id": "sensor.office_pc",
			"state":     "300",
		})
	})

	state, err := repo.GetState(context.Background(), "sensor.office_pc")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "300", state.State)
}

func TestGetHistory(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/history/period/")
		assert.Equal(t, "sensor.office_pc", r.URL.Query().Get("filter_entity_id"))

		// The hub returns one series per requested entity.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([][]map[string]any{
			{
				{"entity_id": "sensor.office_pc", "state": "100", "last_changed": "2024-06-01T01:00:00Z"},
				{"entity_id": "sensor.office_pc", "state": "200", "last_changed": "2024-06-01T02:00:00Z"},
			},
		})
	})

	entries, err := repo.GetHistory(context.Background(), "sensor.office_pc", start, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "100", entries[0].State)
	assert.Equal(t, time.Date(2024, 6, 1, 1, 0, 0, 0, time.UTC), entries[0].LastChanged)
}

func TestGetHistoryEmpty(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([][]map[string]any{})
	})

	entries, err := repo.GetHistory(context.Background(), "sensor.office_pc", time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetHistoryEndTime(t *testing.T) {
	end := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, end.Format(time.RFC3339), r.URL.Query().Get("end_time"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([][]map[string]any{})
	})

	_, err := repo.GetHistory(context.Background(), "sensor.office_pc", end.Add(-24*time.Hour), &end)
	require.NoError(t, err)
}

func TestCallService(t *testing.T) {
	var received map[string]any
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/services/switch/turn_off", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	})

	err := repo.CallService(context.Background(), "switch", "turn_off", "switch.office_pc", map[string]any{"transition": 2})
	require.NoError(t, err)
	assert.Equal(t, "switch.office_pc", received["entity_id"])
	assert.Equal(t, float64(2), received["transition"])
}

func TestCheckAPI(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "API running."})
	})

	assert.NoError(t, repo.CheckAPI(context.Background()))
}

func TestCheckAPIUnexpectedBody(t *testing.T) {
	_, repo := newTestHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	})

	assert.Error(t, repo.CheckAPI(context.Background()))
}
