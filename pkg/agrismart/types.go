package agrismart

// Request/response models for the AgriSmart prediction API. Field names track
// the backend's JSON contract exactly; two rainfall request variants and an
// extended soil variant are in circulation, so all of them are modeled.

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response payload.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// RainfallRequest is implemented by both rainfall request schema variants.
type RainfallRequest interface {
	rainfallRequest()
}

// RainfallObservation is the weather-observation rainfall request schema.
type RainfallObservation struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Month       int     `json:"month"`
	DayOfYear   int     `json:"day_of_year"`
}

func (RainfallObservation) rainfallRequest() {}

// RainfallSeasonal is the subdivision/season rainfall request schema.
type RainfallSeasonal struct {
	Year            int     `json:"year"`
	Subdivision     int     `json:"subdivision"`
	Month           int     `json:"month"`
	CurrentRainfall float64 `json:"current_rainfall"`
}

func (RainfallSeasonal) rainfallRequest() {}

// RainfallPrediction is the rainfall endpoint response.
type RainfallPrediction struct {
	PredictedRainfall float64 `json:"predicted_rainfall"`
	RainfallCategory  string  `json:"rainfall_category"`
	ModelUsed         string  `json:"model_used"`
	ModelLoaded       bool    `json:"model_loaded"`
}

// SoilSample is the soil-type request schema. PH and OrganicMatter belong to
// the extended 7-feature variant and are omitted from the wire format when
// unset.
type SoilSample struct {
	Nitrogen      float64  `json:"nitrogen"`
	Phosphorus    float64  `json:"phosphorus"`
	Potassium     float64  `json:"potassium"`
	Temperature   float64  `json:"temperature"`
	Moisture      float64  `json:"moisture"`
	Humidity      float64  `json:"humidity"`
	PH            *float64 `json:"ph,omitempty"`
	OrganicMatter *float64 `json:"organic_matter,omitempty"`
}

// SoilPrediction is the soil-type endpoint response.
type SoilPrediction struct {
	PredictedSoilType    string             `json:"predicted_soil_type"`
	Confidence           float64            `json:"confidence"`
	AlternativeSoilTypes []string           `json:"alternative_soil_types"`
	SoilProbabilities    map[string]float64 `json:"soil_probabilities"`
	ModelUsed            string             `json:"model_used"`
	ModelLoaded          bool               `json:"model_loaded"`
}

// PestReport is the pest detection request schema.
type PestReport struct {
	CropType        string  `json:"crop_type"`
	PestDescription string  `json:"pest_description"`
	DamageLevel     string  `json:"damage_level"`
	Area            float64 `json:"area"`
}

// PestPrediction is the pest endpoint response.
type PestPrediction struct {
	PredictedPest string  `json:"predicted_pest"`
	Confidence    float64 `json:"confidence"`
	Treatment     string  `json:"treatment,omitempty"`
	ModelUsed     string  `json:"model_used"`
	ModelLoaded   bool    `json:"model_loaded"`
}

// HealthStatus is the health endpoint response.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ModelInfo describes one entry of the model listing.
type ModelInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Loaded bool   `json:"loaded"`
}
