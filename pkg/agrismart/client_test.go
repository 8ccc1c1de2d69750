package agrismart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthDoesNotSendAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathHealth {
			t.Fatalf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("unexpected Authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok","version":"1.2.0"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret-token", 2*time.Second)
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "ok" || status.Version != "1.2.0" {
		t.Fatalf("unexpected status: %#v", status)
	}
}

func TestPredictRainfallSendsExactObservationSchema(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathRainfall {
			t.Fatalf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("Authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("request body not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_rainfall":12.4,"rainfall_category":"moderate","model_used":"rf-v2","model_loaded":true}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-1", 2*time.Second)
	pred, err := client.PredictRainfall(context.Background(), RainfallObservation{
		Temperature: 25.0,
		Humidity:    60.0,
		Pressure:    1013.0,
		WindSpeed:   10.0,
		Month:       6,
		DayOfYear:   150,
	})
	if err != nil {
		t.Fatalf("PredictRainfall: %v", err)
	}
	if pred.PredictedRainfall != 12.4 || pred.RainfallCategory != "moderate" || !pred.ModelLoaded {
		t.Fatalf("unexpected prediction: %#v", pred)
	}

	wantFields := []string{"temperature", "humidity", "pressure", "wind_speed", "month", "day_of_year"}
	if len(body) != len(wantFields) {
		t.Fatalf("request carried %d fields, want %d: %#v", len(body), len(wantFields), body)
	}
	for _, f := range wantFields {
		if _, ok := body[f]; !ok {
			t.Fatalf("request missing field %q: %#v", f, body)
		}
	}
}

func TestPredictRainfallSeasonalVariant(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_rainfall":3.1,"rainfall_category":"low","model_used":"seasonal","model_loaded":true}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-1", 2*time.Second)
	if _, err := client.PredictRainfall(context.Background(), RainfallSeasonal{
		Year:            2024,
		Subdivision:     1,
		Month:           6,
		CurrentRainfall: 5.0,
	}); err != nil {
		t.Fatalf("PredictRainfall: %v", err)
	}

	for _, f := range []string{"year", "subdivision", "month", "current_rainfall"} {
		if _, ok := body[f]; !ok {
			t.Fatalf("request missing field %q: %#v", f, body)
		}
	}
	if len(body) != 4 {
		t.Fatalf("seasonal request carried extra fields: %#v", body)
	}
}

func TestPredictSoilTypeOmitsExtendedFieldsWhenUnset(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_soil_type":"loamy","confidence":0.82,"alternative_soil_types":["clay"],"soil_probabilities":{"loamy":0.82,"clay":0.11},"model_used":"soil-v1","model_loaded":true}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-1", 2*time.Second)
	pred, err := client.PredictSoilType(context.Background(), SoilSample{
		Nitrogen:    40.0,
		Phosphorus:  30.0,
		Potassium:   35.0,
		Temperature: 25.0,
		Moisture:    25.0,
		Humidity:    60.0,
	})
	if err != nil {
		t.Fatalf("PredictSoilType: %v", err)
	}
	if pred.PredictedSoilType != "loamy" || pred.SoilProbabilities["clay"] != 0.11 {
		t.Fatalf("unexpected prediction: %#v", pred)
	}

	if len(body) != 6 {
		t.Fatalf("6-feature sample must send exactly 6 fields, got %#v", body)
	}
	if _, ok := body["ph"]; ok {
		t.Fatalf("ph must be omitted when unset")
	}
}

func TestPredictSoilTypeExtendedVariant(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_soil_type":"loamy","confidence":0.9,"model_used":"soil-v2","model_loaded":true}`)
	}))
	defer srv.Close()

	ph := 6.5
	om := 2.5
	client := NewClient(srv.URL, "tok-1", 2*time.Second)
	if _, err := client.PredictSoilType(context.Background(), SoilSample{
		Nitrogen: 40, Phosphorus: 30, Potassium: 35,
		Temperature: 25, Moisture: 25, Humidity: 60,
		PH: &ph, OrganicMatter: &om,
	}); err != nil {
		t.Fatalf("PredictSoilType: %v", err)
	}
	if len(body) != 8 {
		t.Fatalf("7-feature sample must send ph and organic_matter too, got %#v", body)
	}
}

func TestDetectPestAndListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case PathPest:
			io.WriteString(w, `{"predicted_pest":"aphids","confidence":0.71,"model_used":"pest-v1","model_loaded":true}`)
		case PathModels:
			io.WriteString(w, `[{"name":"rainfall_model","loaded":true},{"name":"soil_model","loaded":false}]`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-1", 2*time.Second)

	pest, err := client.DetectPest(context.Background(), PestReport{
		CropType:        "wheat",
		PestDescription: "Small insects on leaves",
		DamageLevel:     "medium",
		Area:            1.0,
	})
	if err != nil {
		t.Fatalf("DetectPest: %v", err)
	}
	if pest.PredictedPest != "aphids" {
		t.Fatalf("unexpected pest result: %#v", pest)
	}

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 || models[0].Name != "rainfall_model" {
		t.Fatalf("unexpected model list: %#v", models)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != PathLogin {
			t.Fatalf("path = %s", r.URL.Path)
		}
		var creds Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "farmer@example.com" {
			t.Fatalf("email = %s", creds.Email)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"access_token":"jwt-abc","token_type":"bearer"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 2*time.Second)
	tok, err := client.Login(context.Background(), Credentials{Email: "farmer@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "jwt-abc" {
		t.Fatalf("token = %#v", tok)
	}
}

func TestNon2xxSurfacesAsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"Not authenticated"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 2*time.Second)
	_, err := client.ListModels(context.Background())
	if err == nil {
		t.Fatalf("expected error on 401")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestEmptyTokenStillAttemptsProtectedCall(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization") != ""
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 2*time.Second)
	if _, err := client.ListModels(context.Background()); err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if sawAuth {
		t.Fatalf("empty token must not produce an Authorization header")
	}
}
