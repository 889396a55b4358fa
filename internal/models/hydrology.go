// Basinview - River Basin Monitoring and Forecast Visualization
// Copyright 2026 Basinview Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aquamind/basinview

// Package models defines the typed snapshots received from the prediction
// platform. Every entity is decoded at the upstream boundary into one of
// these structs; view logic never touches raw JSON.
//
// Optional upstream fields are pointers so that an absent reading renders as
// "unknown" downstream, never as zero. Entities implement Validate where the
// payload has a required shape; a failed Validate is reported as a decode
// failure by the upstream client.
package models

// Alert levels reported by the prediction models.
const (
	AlertLevelNormal    = "normal"
	AlertLevelVigilance = "vigilance"
	AlertLevelAlerte    = "alerte"
	AlertLevelAlerteMax = "alerte_max"
)

// Alert types the platform emits.
const (
	AlertTypeFlood    = "flood"
	AlertTypeDrought  = "drought"
	AlertTypeSalinity = "salinity"
)

// Coordinates is a WGS84 (lat, lon) pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SystemStatus is the overall backend health snapshot, polled by the shell
// every five minutes.
type SystemStatus struct {
	Status            string    `json:"status"`
	UptimePercent     float64   `json:"uptime_percent"`
	LastDataUpdate    Timestamp `json:"last_data_update"`
	NextForecastBatch Timestamp `json:"next_forecast_batch"`

	BackendStatus  string `json:"backend_status"`
	DatabaseStatus string `json:"database_status"`
	AIModelsStatus string `json:"ai_models_status"`

	ActiveUsers         int `json:"active_users"`
	TotalAlerts24h      int `json:"total_alerts_24h"`
	ModelPredictions24h int `json:"model_predictions_24h"`
}

// StationReading is one station's entry in the dashboard overview.
// Readings may be absent when a sensor feed is down.
type StationReading struct {
	DischargeM3s *float64 `json:"discharge_m3_s"`
	WaterStatus  string   `json:"water_status"`
	AlertLevel   string   `json:"alert_level"`
}

// DamReading is one dam's entry in the dashboard overview.
type DamReading struct {
	LevelPercent *float64 `json:"level_percent"`
	DischargeM3s *float64 `json:"discharge_m3_s"`
}

// OverviewAlert is the compact alert form embedded in the overview payload.
type OverviewAlert struct {
	Type       string  `json:"type"`
	Location   string  `json:"location"`
	Confidence float64 `json:"confidence"`
	DaysAhead  int     `json:"days_ahead"`
}

// OverviewStatistics summarizes platform coverage in the overview payload.
type OverviewStatistics struct {
	SensorsOperational    *int      `json:"sensors_operational"`
	SensorsTotal          *int      `json:"sensors_total"`
	ModelsRunning         int       `json:"models_running"`
	LastForecast          Timestamp `json:"last_forecast"`
	ForecastConfidenceAvg *float64  `json:"forecast_confidence_avg"`
}

// DashboardOverview is the near-real-time station/dam snapshot, polled every
// 30 seconds by the Dashboard page.
type DashboardOverview struct {
	Timestamp     Timestamp                 `json:"timestamp"`
	GeneralStatus map[string]StationReading `json:"general_status"`
	Dams          map[string]DamReading     `json:"dams"`
	ActiveAlerts  int                       `json:"active_alerts"`
	Alerts        []OverviewAlert           `json:"alerts"`
	Statistics    OverviewStatistics        `json:"statistics"`
}

// BasinSummary aggregates basin-wide figures.
type BasinSummary struct {
	TotalPopulation     int     `json:"total_population"`
	TotalAreaKm2        float64 `json:"total_area_km2"`
	TotalIrrigationKm2  float64 `json:"total_irrigation_km2"`
	TotalEnergyCapacity float64 `json:"total_energy_capacity_mw"`
}

// HydrologicalSummary aggregates current hydrological state.
type HydrologicalSummary struct {
	AvgDischargeM3s  float64 `json:"avg_discharge_m3_s"`
	TotalWaterStored float64 `json:"total_water_stored_m3"`
	StoragePercent   float64 `json:"storage_percent"`
}

// EconomicSummary aggregates economic projections.
type EconomicSummary struct {
	ExpectedEnergyProductionGwh float64 `json:"expected_energy_production_gwh"`
	IrrigationAreaServedKm2     float64 `json:"irrigation_area_served_km2"`
	AgriculturalPopulation      int     `json:"agricultural_population"`
}

// Statistics is the aggregated basin/economic/hydrological metrics payload,
// fetched once per page load by Dashboard and Analytics.
type Statistics struct {
	Timestamp             Timestamp           `json:"timestamp"`
	BasinSummary          BasinSummary        `json:"basin_summary"`
	Hydrological          HydrologicalSummary `json:"hydrological"`
	Economic              EconomicSummary     `json:"economic"`
	Alerts24h             int                 `json:"alerts_24h"`
	ForecastConfidenceAvg float64             `json:"forecast_confidence_avg"`
}

// Dam is a dam facility in the geospatial feature set.
type Dam struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Coordinates     Coordinates `json:"coordinates"`
	LevelPercent    float64     `json:"level_percent"`
	DischargeM3s    float64     `json:"discharge_m3_s"`
	CapacityM3      float64     `json:"capacity_m3"`
	PowerCapacityMw float64     `json:"power_capacity_mw"`
}

// Station is a hydrometric station, keyed by station id in MapData.
type Station struct {
	Name      string      `json:"name"`
	Coords    Coordinates `json:"coords"`
	Discharge float64     `json:"discharge"`
}

// Basin is a sub-basin polygon approximation, rendered as a circle whose
// radius derives from area.
type Basin struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	AreaKm2     float64     `json:"area_km2"`
	Population  int         `json:"population"`
}

// MapData is the geospatial feature set for the interactive map.
// Feature identity (id) is stable across polls.
type MapData struct {
	Dams     []Dam              `json:"dams"`
	Stations map[string]Station `json:"stations"`
	Basins   []Basin            `json:"basins"`
}

// Validate checks the required shape of a map-data payload.
func (m *MapData) Validate() error {
	for i := range m.Dams {
		if m.Dams[i].ID == "" {
			return fieldError("dams", "missing id")
		}
	}
	for i := range m.Basins {
		if m.Basins[i].ID == "" {
			return fieldError("basins", "missing id")
		}
		if m.Basins[i].AreaKm2 <= 0 {
			return fieldError("basins", "area_km2 must be positive")
		}
	}
	return nil
}

// Alert is a predicted or active hydrological event.
// lead_time_days comes from the backend; the client does not re-derive it.
type Alert struct {
	AlertID           string    `json:"alert_id"`
	AlertType         string    `json:"alert_type"`
	AlertLevel        string    `json:"alert_level"`
	Location          string    `json:"location"`
	TriggerDate       Timestamp `json:"trigger_date"`
	EventExpectedDate Timestamp `json:"event_expected_date"`
	LeadTimeDays      int       `json:"lead_time_days"`
	MessageEN         string    `json:"message_en,omitempty"`
	MessageFR         string    `json:"message_fr,omitempty"`
	Confidence        float64   `json:"confidence"`
}

// AlertList wraps the alerts payload so the list shape can be validated.
type AlertList []Alert

// Validate checks the required shape of an alerts payload.
func (a AlertList) Validate() error {
	for i := range a {
		if a[i].AlertType == "" {
			return fieldError("alerts", "missing alert_type")
		}
	}
	return nil
}

// ForecastShortTerm is the LSTM-class output for one location.
type ForecastShortTerm struct {
	StationID           string    `json:"station_id"`
	ForecastDate        Timestamp `json:"forecast_date"`
	ForecastHorizonDays int       `json:"forecast_horizon_days"`

	PredictedDischargeM3s   float64 `json:"predicted_discharge_m3_s"`
	PredictedWaterLevelM    float64 `json:"predicted_water_level_m"`
	PredictedInundationRisk float64 `json:"predicted_inundation_risk"`
	PredictedAlertLevel     string  `json:"predicted_alert_level"`

	ConfidenceScore        float64 `json:"confidence_score"`
	ConfidenceIntervalLow  float64 `json:"confidence_interval_low"`
	ConfidenceIntervalHigh float64 `json:"confidence_interval_high"`

	Drivers map[string]float64 `json:"drivers"`
}

// ForecastSeasonal is the Transformer-class output for one location.
// The three flow probabilities are reported independently; the client does
// not assert they sum to 1.
type ForecastSeasonal struct {
	StationID      string    `json:"station_id"`
	ForecastDate   Timestamp `json:"forecast_date"`
	ForecastMonths int       `json:"forecast_months"`

	PredictedSeasonType   string  `json:"predicted_season_type"`
	ProbabilityStrongFlow float64 `json:"probability_strong_flow"`
	ProbabilityNormalFlow float64 `json:"probability_normal_flow"`
	ProbabilityWeakFlow   float64 `json:"probability_weak_flow"`

	PredictedTotalRainfallMm float64 `json:"predicted_total_rainfall_mm"`
	PredictedAvgDischargeM3s float64 `json:"predicted_avg_discharge_m3_s"`

	SkillScore      float64           `json:"skill_score"`
	Teleconnections map[string]string `json:"teleconnections,omitempty"`
}

// CriticalZone is a named zone with an inundation probability.
type CriticalZone struct {
	Name           string  `json:"name"`
	InundationProb float64 `json:"inundation_prob"`
	AffectedPop    int     `json:"affected_pop,omitempty"`
}

// BoundingBox delimits the flood prediction grid.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// ForecastFlood is the ConvLSTM-class spatial flood prediction.
type ForecastFlood struct {
	PredictionID string    `json:"prediction_id"`
	ForecastDate Timestamp `json:"forecast_date"`

	GridResolutionM int         `json:"grid_resolution_m"`
	BBox            BoundingBox `json:"bbox"`

	AffectedAreaKm2    float64        `json:"affected_area_km2"`
	AffectedPopulation int            `json:"affected_population"`
	CriticalZones      []CriticalZone `json:"critical_zones"`
}

// DamOptimizationSummary is the optimizer section of the ensemble payload.
type DamOptimizationSummary struct {
	MultiObjectiveScore          float64 `json:"multi_objective_score"`
	ImprovementVsManual          float64 `json:"improvement_vs_manual"`
	ExpectedEnergyGwh            float64 `json:"expected_energy_gwh"`
	ExpectedIrrigationM3         float64 `json:"expected_irrigation_m3"`
	ExpectedEnvironmentalBenefit string  `json:"expected_environmental_benefit"`
}

// ForecastEnsemble is the combined multi-model output for one location.
type ForecastEnsemble struct {
	LocationID      string                  `json:"location_id,omitempty"`
	GeneratedAt     Timestamp               `json:"generated_at"`
	DamOptimization *DamOptimizationSummary `json:"dam_optimization"`
}

// OptimizationResult is the current recommended dam operating point.
// The upstream serializes the Félou dam fields as "felu_*"; the wire names
// are preserved as the backend emits them.
type OptimizationResult struct {
	OptimizationDate Timestamp `json:"optimization_date"`

	ManantaliTargetDischargeM3s float64 `json:"manantali_target_discharge_m3_s"`
	DiamaTargetDischargeM3s     float64 `json:"diama_target_discharge_m3_s"`
	FelouTargetDischargeM3s     float64 `json:"felu_target_discharge_m3_s"`

	ManantaliTargetLevelPercent float64 `json:"manantali_target_level_percent"`
	DiamaTargetLevelPercent     float64 `json:"diama_target_level_percent"`
	FelouTargetLevelPercent     float64 `json:"felu_target_level_percent"`

	ExpectedEnergyGwh            float64 `json:"expected_energy_gwh"`
	ExpectedIrrigationM3         float64 `json:"expected_irrigation_m3"`
	ExpectedSalinityControl      bool    `json:"expected_salinity_control"`
	ExpectedEnvironmentalBenefit string  `json:"expected_environmental_benefit"`

	MultiObjectiveScore float64 `json:"multi_objective_score"`
	ImprovementVsManual float64 `json:"improvement_vs_manual"`
}

// ScenarioInput is a user-proposed discharge plan, submitted verbatim.
// No client-side bound checking beyond the numeric type.
type ScenarioInput struct {
	ManantaliDischargeM3s float64 `json:"manantali_discharge_m3_s"`
	DiamaDischargeM3s     float64 `json:"diama_discharge_m3_s"`
	FelouDischargeM3s     float64 `json:"felou_discharge_m3_s"`
}

// ScenarioResult is the predicted impact of a submitted scenario.
type ScenarioResult struct {
	ScenarioID string         `json:"scenario_id"`
	Input      *ScenarioInput `json:"input,omitempty"`

	PredictedEnergyGwh     float64 `json:"predicted_energy_gwh"`
	PredictedIrrigationM3  float64 `json:"predicted_irrigation_m3"`
	PredictedSalinityRisk  float64 `json:"predicted_salinity_risk"`
	PredictedFloodRisk     float64 `json:"predicted_flood_risk"`
	EnvironmentalImpact    string  `json:"environmental_impact,omitempty"`
	MultiObjectiveScore    float64 `json:"multi_objective_score,omitempty"`
}

// AgricultureRecommendation is per-farmer agronomic advice.
type AgricultureRecommendation struct {
	FarmerID string      `json:"farmer_id"`
	Location Coordinates `json:"location"`

	CropType               string    `json:"crop_type"`
	RecommendedSowingDate  Timestamp `json:"recommended_sowing_date"`
	RecommendedVariety     string    `json:"recommended_variety,omitempty"`
	ExpectedRainfallMm     float64   `json:"expected_rainfall_mm"`
	ExpectedYieldIncrease  float64   `json:"expected_yield_increase"`
	Confidence             float64   `json:"confidence"`

	// IrrigationSchedule maps month name to percent of total water need.
	IrrigationSchedule map[string]float64 `json:"irrigation_schedule"`
}

// EcosystemService is a valued ecosystem service shown on the Analytics page.
type EcosystemService struct {
	ServiceID   string `json:"service_id"`
	ServiceType string `json:"service_type"`

	AnnualValueEur      float64  `json:"annual_value_eur"`
	TonnesCO2Equivalent *float64 `json:"tonnes_co2_equivalent"`
	AffectedAreaKm2     float64  `json:"affected_area_km2"`
	BiodiversityIndex   float64  `json:"biodiversity_index"`

	Trend string `json:"trend"`
}

// fieldError builds a uniform shape-validation error.
func fieldError(section, msg string) error {
	return &ShapeError{Section: section, Message: msg}
}

// ShapeError reports a payload that decoded as JSON but is missing the
// required shape. The upstream client converts it into a decode failure.
type ShapeError struct {
	Section string
	Message string
}

func (e *ShapeError) Error() string {
	return "invalid " + e.Section + " payload: " + e.Message
}
