package models

// Consumer is one entry in the overview top-consumers ranking.
type Consumer struct {
	Name     string  `json:"name"`
	EntityID string  `json:"entity_id"`
	Power    float64 `json:"power"`
}

// OverviewData is the overview dashboard payload.
type OverviewData struct {
	TotalPower           float64    `json:"total_power"`
	DailyEnergy          float64    `json:"daily_energy"`
	DailyEnergyEstimated bool       `json:"daily_energy_estimated"`
	DeviceCount          int        `json:"device_count"`
	TopConsumers         []Consumer `json:"top_consumers"`
	Timestamp            string     `json:"timestamp"`
}

// RoomPower is one room row in the realtime payload.
type RoomPower struct {
	Name  string  `json:"name"`
	Power float64 `json:"power"`
}

// DeviceState is one device row in the realtime payload.
type DeviceState struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Room  string  `json:"room"`
	Power float64 `json:"power"`
	Unit  string  `json:"unit"`
	State string  `json:"state"`
}

// RealtimeData is the realtime monitoring payload.
type RealtimeData struct {
	RoomPower      map[string]float64 `json:"room_power"`
	Rooms          []RoomPower        `json:"rooms"`
	Devices        []DeviceState      `json:"devices"`
	TotalPower     float64            `json:"total_power"`
	TrackedPower   float64            `json:"tracked_power"`
	UntrackedPower float64            `json:"untracked_power"`
	MeterPower     float64            `json:"meter_power"`
	Timestamp      string             `json:"timestamp"`
}

// DeviceCost is one device row in the cost payload.
type DeviceCost struct {
	Name        string  `json:"name"`
	Room        string  `json:"room"`
	Power       float64 `json:"power"`
	DailyCost   float64 `json:"daily_cost"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// CostProjection is one day in the 30-day projection series.
type CostProjection struct {
	Date string  `json:"date"`
	Cost float64 `json:"cost"`
}

// CostData is the cost analysis payload.
type CostData struct {
	DailyCost         float64          `json:"daily_cost"`
	WeeklyCost        float64          `json:"weekly_cost"`
	MonthlyCost       float64          `json:"monthly_cost"`
	HourlyCost        float64          `json:"hourly_cost"`
	MonthlyProjection float64          `json:"monthly_projection"`
	DeviceCosts       []DeviceCost     `json:"device_costs"`
	ProjectionData    []CostProjection `json:"projection_data"`
	Rate              float64          `json:"rate"`
	Currency          string           `json:"currency"`
	Timestamp         string           `json:"timestamp"`
}

// HistoryPoint is one calendar day in the history payload.
type HistoryPoint struct {
	Date     string  `json:"date"`
	AvgPower float64 `json:"avg_power"`
	MaxPower float64 `json:"max_power"`
}

// HistoryData is the historical trends payload.
type HistoryData struct {
	History    []HistoryPoint `json:"history"`
	Labels     []string       `json:"labels"`
	Values     []float64      `json:"values"`
	Period     string         `json:"period"`
	SensorName string         `json:"sensor_name"`
	Timestamp  string         `json:"timestamp"`
}

// DeviceData is the per-device detail payload.
type DeviceData struct {
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name"`
	CurrentPower float64   `json:"current_power"`
	AveragePower float64   `json:"average_power"`
	MaxPower     float64   `json:"max_power"`
	DailyEnergy  float64   `json:"daily_energy"`
	Unit         string    `json:"unit"`
	State        string    `json:"state"`
	Labels       []string  `json:"labels"`
	Values       []float64 `json:"values"`
	Timestamp    string    `json:"timestamp"`
}
