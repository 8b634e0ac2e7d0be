package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"energydash/internal/config"
	"energydash/internal/models"
	"energydash/internal/repository"
)

// ErrDeviceNotFound is returned when a requested device has no current state.
var ErrDeviceNotFound = errors.New("device not found")

// dailyEnergySanityKwh rejects daily-sensor values at or above this bound as
// cumulative lifetime counters rather than daily totals.
const dailyEnergySanityKwh = 1000.0

// DataProcessor computes and caches the dashboard views from hub sensor data.
type DataProcessor struct {
	source repository.SensorSource
	cache  *ViewCache
	cfg    config.Config
	now    func() time.Time
}

// NewDataProcessor creates a new DataProcessor.
func NewDataProcessor(source repository.SensorSource, cache *ViewCache, cfg config.Config) *DataProcessor {
	return &DataProcessor{
		source: source,
		cache:  cache,
		cfg:    cfg,
		now:    time.Now,
	}
}

// GetOverviewData computes the overview view: total power, daily energy,
// device count and top consumers.
func (p *DataProcessor) GetOverviewData(ctx context.Context) (*models.OverviewData, error) {
	if cached, ok := p.cache.Get("overview"); ok {
		if data, ok := cached.(*models.OverviewData); ok {
			return data, nil
		}
	}

	states, err := p.source.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching states: %w", err)
	}

	power, energy := ClassifySensors(states)
	meter, tracked := SplitMeter(power, p.cfg.MeterKeyword)

	meterPower := 0.0
	if meter != nil {
		meterPower = ParsePowerWatts(*meter)
	}
	totalPower := TotalPowerWatts(tracked)
	if meterPower > 0 {
		totalPower = meterPower
	}

	dailyEnergy, estimated := p.dailyEnergyKwh(ctx, energy, totalPower)

	data := &models.OverviewData{
		TotalPower:           totalPower,
		DailyEnergy:          dailyEnergy,
		DailyEnergyEstimated: estimated,
		DeviceCount:          len(tracked),
		TopConsumers:         topConsumers(tracked, 5),
		Timestamp:            p.now().Format(time.RFC3339),
	}

	p.cache.Put("overview", data)
	return data, nil
}

// GetRealtimeData computes the realtime view: per-room and per-device power
// with the meter/tracked/untracked split.
func (p *DataProcessor) GetRealtimeData(ctx context.Context) (*models.RealtimeData, error) {
	if cached, ok := p.cache.Get("realtime"); ok {
		if data, ok := cached.(*models.RealtimeData); ok {
			return data, nil
		}
	}

	states, err := p.source.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching states: %w", err)
	}

	power, _ := ClassifySensors(states)
	meter, tracked := SplitMeter(power, p.cfg.MeterKeyword)

	roomPower := make(map[string]float64)
	devices := make([]models.DeviceState, 0, len(tracked))
	for _, sensor := range tracked {
		room := AttributeRoom(sensor.Attributes.FriendlyName, sensor.EntityID)
		watts := ParsePowerWatts(sensor)
		roomPower[room] += watts

		devices = append(devices, models.DeviceState{
			ID:    sensor.EntityID,
			Name:  sensor.Name(),
			Room:  room,
			Power: watts,
			Unit:  sensor.Unit("W"),
			State: sensor.State,
		})
	}

	trackedPower := 0.0
	for _, watts := range roomPower {
		trackedPower += watts
	}

	meterPower := 0.0
	if meter != nil {
		meterPower = ParsePowerWatts(*meter)
	}
	untrackedPower := math.Max(0, meterPower-trackedPower)
	if untrackedPower > 0 {
		roomPower["Untracked"] = untrackedPower
	}

	rooms := make([]models.RoomPower, 0, len(roomPower))
	for room, watts := range roomPower {
		rooms = append(rooms, models.RoomPower{Name: room, Power: watts})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Power > rooms[j].Power })

	totalPower := trackedPower
	if meterPower > 0 {
		totalPower = meterPower
	}

	data := &models.RealtimeData{
		RoomPower:      roomPower,
		Rooms:          rooms,
		Devices:        devices,
		TotalPower:     totalPower,
		TrackedPower:   trackedPower,
		UntrackedPower: untrackedPower,
		MeterPower:     meterPower,
		Timestamp:      p.now().Format(time.RFC3339),
	}

	p.cache.Put("realtime", data)
	return data, nil
}

// GetCostData computes the cost analysis view from current power and daily
// energy at the configured electricity rate.
func (p *DataProcessor) GetCostData(ctx context.Context) (*models.CostData, error) {
	if cached, ok := p.cache.Get("costs"); ok {
		if data, ok := cached.(*models.CostData); ok {
			return data, nil
		}
	}

	states, err := p.source.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching states: %w", err)
	}

	power, energy := ClassifySensors(states)
	meter, tracked := SplitMeter(power, p.cfg.MeterKeyword)

	meterPower := 0.0
	if meter != nil {
		meterPower = ParsePowerWatts(*meter)
	}
	totalPower := TotalPowerWatts(tracked)
	if meterPower > 0 {
		totalPower = meterPower
	}

	rate := p.cfg.ElectricityRate
	dailyEnergy, _ := p.dailyEnergyKwh(ctx, energy, totalPower)
	dailyCost := dailyEnergy * rate
	hourlyCost := (totalPower / 1000) * rate

	deviceCosts := make([]models.DeviceCost, 0, len(tracked))
	for _, sensor := range tracked {
		watts := ParsePowerWatts(sensor)
		if watts <= 0 {
			continue
		}
		deviceCosts = append(deviceCosts, models.DeviceCost{
			Name:        sensor.Name(),
			Room:        AttributeRoom(sensor.Attributes.FriendlyName, sensor.EntityID),
			Power:       watts,
			DailyCost:   (watts / 1000) * 24 * rate,
			MonthlyCost: (watts / 1000) * 24 * 30 * rate,
		})
	}
	sort.Slice(deviceCosts, func(i, j int) bool { return deviceCosts[i].MonthlyCost > deviceCosts[j].MonthlyCost })
	if len(deviceCosts) > 10 {
		deviceCosts = deviceCosts[:10]
	}

	// Flat 30-day estimate using the current daily cost for every day.
	projection := make([]models.CostProjection, 0, 30)
	for i := 30; i >= 1; i-- {
		projection = append(projection, models.CostProjection{
			Date: p.now().AddDate(0, 0, -i).Format("2006-01-02"),
			Cost: dailyCost,
		})
	}

	data := &models.CostData{
		DailyCost:         dailyCost,
		WeeklyCost:        dailyCost * 7,
		MonthlyCost:       dailyCost * 30,
		HourlyCost:        hourlyCost,
		MonthlyProjection: dailyCost * 30,
		DeviceCosts:       deviceCosts,
		ProjectionData:    projection,
		Rate:              rate,
		Currency:          p.cfg.CurrencySymbol,
		Timestamp:         p.now().Format(time.RFC3339),
	}

	p.cache.Put("costs", data)
	return data, nil
}

// GetHistoryData computes the historical trends view for the primary power
// sensor over the requested period.
func (p *DataProcessor) GetHistoryData(ctx context.Context, period string) (*models.HistoryData, error) {
	cacheKey := "history_" + period
	if cached, ok := p.cache.Get(cacheKey); ok {
		if data, ok := cached.(*models.HistoryData); ok {
			return data, nil
		}
	}

	states, err := p.source.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching states: %w", err)
	}

	power, _ := ClassifySensors(states)
	if len(power) == 0 {
		return &models.HistoryData{
			History:   []models.HistoryPoint{},
			Labels:    []string{},
			Values:    []float64{},
			Period:    period,
			Timestamp: p.now().Format(time.RFC3339),
		}, nil
	}

	main := p.primarySensor(power)
	start := p.now().Add(-time.Duration(parsePeriodHours(period)) * time.Hour)
	entries, err := p.source.GetHistory(ctx, main.EntityID, start, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching history for %s: %w", main.EntityID, err)
	}

	type dayStats struct {
		sum   float64
		count int
		max   float64
	}
	byDate := make(map[string]*dayStats)
	for _, entry := range entries {
		if entry.StateUnavailable() {
			continue
		}
		value, err := strconv.ParseFloat(entry.State, 64)
		if err != nil {
			continue
		}
		date := entry.LastChanged.Format("2006-01-02")
		stats, ok := byDate[date]
		if !ok {
			stats = &dayStats{}
			byDate[date] = stats
		}
		stats.sum += value
		stats.count++
		stats.max = math.Max(stats.max, value)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	history := make([]models.HistoryPoint, 0, len(dates))
	values := make([]float64, 0, len(dates))
	for _, date := range dates {
		stats := byDate[date]
		avg := round1(stats.sum / float64(stats.count))
		history = append(history, models.HistoryPoint{
			Date:     date,
			AvgPower: avg,
			MaxPower: round1(stats.max),
		})
		values = append(values, avg)
	}

	data := &models.HistoryData{
		History:    history,
		Labels:     dates,
		Values:     values,
		Period:     period,
		SensorName: main.Name(),
		Timestamp:  p.now().Format(time.RFC3339),
	}

	p.cache.PutFor(cacheKey, data, p.cfg.HistoryCacheTTL)
	return data, nil
}

// GetDeviceData computes the detail view for one device: current state plus
// 24h power statistics.
func (p *DataProcessor) GetDeviceData(ctx context.Context, deviceID string) (*models.DeviceData, error) {
	cacheKey := "device_" + deviceID
	if cached, ok := p.cache.Get(cacheKey); ok {
		if data, ok := cached.(*models.DeviceData); ok {
			return data, nil
		}
	}

	state, err := p.source.GetState(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("error fetching state: %w", err)
	}
	if state == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	start := p.now().Add(-24 * time.Hour)
	entries, err := p.source.GetHistory(ctx, deviceID, start, nil)
	if err != nil {
		return nil, fmt.Errorf("error fetching history for %s: %w", deviceID, err)
	}

	labels := make([]string, 0, len(entries))
	values := make([]float64, 0, len(entries))
	for _, entry := range entries {
		if entry.StateUnavailable() {
			continue
		}
		value, err := strconv.ParseFloat(entry.State, 64)
		if err != nil {
			continue
		}
		labels = append(labels, entry.LastChanged.Format("15:04"))
		values = append(values, value)
	}

	avgPower := 0.0
	maxPower := 0.0
	for _, value := range values {
		avgPower += value
		maxPower = math.Max(maxPower, value)
	}
	if len(values) > 0 {
		avgPower /= float64(len(values))
	}

	data := &models.DeviceData{
		DeviceID:     deviceID,
		Name:         state.Name(),
		CurrentPower: ParsePowerWatts(*state),
		AveragePower: avgPower,
		MaxPower:     maxPower,
		DailyEnergy:  (avgPower / 1000) * 24,
		Unit:         state.Unit("W"),
		State:        state.State,
		Labels:       labels,
		Values:       values,
		Timestamp:    p.now().Format(time.RFC3339),
	}

	p.cache.PutFor(cacheKey, data, p.cfg.HistoryCacheTTL)
	return data, nil
}

// ClearCache drops all cached views.
func (p *DataProcessor) ClearCache() {
	p.cache.Clear()
	log.Println("Cache cleared")
}

// dailyEnergyKwh estimates today's energy consumption in kWh. Three tiers:
// a dedicated daily-reset sensor, the delta of cumulative counters since
// midnight, and finally integrating current power over the elapsed day. Only
// the last tier is an approximation; the bool reports it.
func (p *DataProcessor) dailyEnergyKwh(ctx context.Context, energy []models.Reading, totalPowerWatts float64) (float64, bool) {
	// Preferred: a sensor that resets daily reports today's total directly.
	for _, sensor := range energy {
		lowered := strings.ToLower(sensor.EntityID + " " + sensor.Attributes.FriendlyName)
		if !strings.Contains(lowered, "daily") && !strings.Contains(lowered, "today") && !strings.Contains(lowered, "_day") {
			continue
		}
		if sensor.StateUnavailable() {
			continue
		}
		value, ok := parseEnergyValue(sensor.State, sensor.Unit("kWh"))
		if ok && value > 0 && value < dailyEnergySanityKwh {
			return value, false
		}
	}

	if total, ok := p.dailyEnergyFromDeltas(ctx, energy); ok {
		return total, false
	}

	// Approximation: assume current draw held since midnight.
	hours := p.now().Sub(p.midnight()).Hours()
	return (totalPowerWatts / 1000) * hours, true
}

// dailyEnergyFromDeltas sums, per cumulative energy sensor, the difference
// between the current value and the first recorded value since midnight.
// Negative deltas (counter resets) are discarded. Sensors whose history
// cannot be fetched or parsed are skipped.
func (p *DataProcessor) dailyEnergyFromDeltas(ctx context.Context, energy []models.Reading) (float64, bool) {
	total := 0.0
	for _, sensor := range energy {
		if sensor.StateUnavailable() {
			continue
		}
		current, err := strconv.ParseFloat(sensor.State, 64)
		if err != nil {
			continue
		}

		entries, err := p.source.GetHistory(ctx, sensor.EntityID, p.midnight(), nil)
		if err != nil {
			log.Printf("Error fetching daily history for %s: %v", sensor.EntityID, err)
			continue
		}

		first := math.NaN()
		for _, entry := range entries {
			if entry.StateUnavailable() {
				continue
			}
			value, err := strconv.ParseFloat(entry.State, 64)
			if err != nil {
				continue
			}
			first = value
			break
		}
		if math.IsNaN(first) {
			continue
		}

		delta := current - first
		if sensor.Unit("kWh") == "Wh" {
			delta /= 1000
		}
		if delta > 0 {
			total += delta
		}
	}
	return total, total > 0
}

// primarySensor resolves the sensor used for the history view: the configured
// one when present, else the first in snapshot order.
func (p *DataProcessor) primarySensor(power []models.Reading) models.Reading {
	if p.cfg.PrimarySensor != "" {
		for _, sensor := range power {
			if sensor.EntityID == p.cfg.PrimarySensor {
				return sensor
			}
		}
		log.Printf("Configured primary sensor %s not found, falling back to first power sensor", p.cfg.PrimarySensor)
	}
	return power[0]
}

func (p *DataProcessor) midnight() time.Time {
	now := p.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func topConsumers(tracked []models.Reading, limit int) []models.Consumer {
	consumers := make([]models.Consumer, 0, len(tracked))
	for _, sensor := range tracked {
		watts := ParsePowerWatts(sensor)
		if watts <= 0 {
			continue
		}
		consumers = append(consumers, models.Consumer{
			Name:     sensor.Name(),
			EntityID: sensor.EntityID,
			Power:    watts,
		})
	}
	sort.Slice(consumers, func(i, j int) bool { return consumers[i].Power > consumers[j].Power })
	if len(consumers) > limit {
		consumers = consumers[:limit]
	}
	return consumers
}

func parsePeriodHours(period string) int {
	switch period {
	case "7d":
		return 168
	case "30d":
		return 720
	default:
		return 24
	}
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
