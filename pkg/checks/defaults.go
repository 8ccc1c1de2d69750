package checks

import (
	"net/http"

	"github.com/agrismart-hq/agrismart-smoketest/pkg/agrismart"
)

// Literal request bodies the AgriSmart backend is known to accept. The
// rainfall and soil endpoints have two documented schema variants; the
// defaults use the observation-based rainfall schema and the 7-feature soil
// sample, with the alternates kept here for checklists that target older
// deployments.
const (
	RainfallObservationBody = `{"temperature":25.0,"humidity":60.0,"pressure":1013.0,"wind_speed":10.0,"month":6,"day_of_year":150}`
	RainfallSeasonalBody    = `{"year":2024,"subdivision":1,"month":6,"current_rainfall":5.0}`
	SoilSampleBody          = `{"nitrogen":40.0,"phosphorus":30.0,"potassium":35.0,"temperature":25.0,"moisture":25.0,"humidity":60.0}`
	SoilSampleExtendedBody  = `{"nitrogen":40.0,"phosphorus":30.0,"potassium":35.0,"temperature":25.0,"moisture":25.0,"humidity":60.0,"ph":6.5,"organic_matter":2.5}`
	PestReportBody          = `{"crop_type":"wheat","pest_description":"Small insects on leaves","damage_level":"medium","area":1.0}`
)

// Defaults returns the built-in checklist covering the five fixed prediction
// endpoints, used when no checks file is configured.
func Defaults() []Check {
	return []Check{
		{
			ID:   "health",
			Name: "Health check",
			Path: agrismart.PathHealth,
		},
		{
			ID:           "rainfall",
			Name:         "Rainfall prediction",
			Method:       http.MethodPost,
			Path:         agrismart.PathRainfall,
			Body:         RainfallObservationBody,
			RequiresAuth: true,
		},
		{
			ID:           "soil-type",
			Name:         "Soil type prediction",
			Method:       http.MethodPost,
			Path:         agrismart.PathSoilType,
			Body:         SoilSampleExtendedBody,
			RequiresAuth: true,
		},
		{
			ID:           "pest",
			Name:         "Pest detection",
			Method:       http.MethodPost,
			Path:         agrismart.PathPest,
			Body:         PestReportBody,
			RequiresAuth: true,
		},
		{
			ID:           "models",
			Name:         "Model listing",
			Path:         agrismart.PathModels,
			RequiresAuth: true,
		},
	}
}

// DocsProbe returns the optional HTML probe against the interactive API docs
// page served by the backend.
func DocsProbe() Check {
	return Check{
		ID:   "docs",
		Name: "API docs page",
		Path: agrismart.PathDocs,
		Kind: KindHTML,
	}
}

// DefaultRegistry builds a registry from the built-in checklist.
func DefaultRegistry(withDocsProbe bool) (*Registry, error) {
	list := Defaults()
	if withDocsProbe {
		list = append(list, DocsProbe())
	}
	return NewRegistry(list)
}
