package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/engine/batch"
	"github.com/rshade/carbonfocus/internal/greenops"
	"github.com/rshade/carbonfocus/internal/logging"
	"github.com/rshade/carbonfocus/internal/validate"
)

// EmissionRequest is the body of POST /api/calculate. Omitted fields are zero.
// FoodDetail, when present, replaces the diet category with the itemised
// food calculation.
type EmissionRequest struct {
	KmCar         float64 `json:"km_car"`
	CarFuelType   string  `json:"car_fuel_type"`
	KmBus         float64 `json:"km_bus"`
	BusFuelType   string  `json:"bus_fuel_type"`
	KmTrain       float64 `json:"km_train"`
	TrainType     string  `json:"train_type"`
	ShortFlights  float64 `json:"short_flights"`
	MediumFlights float64 `json:"medium_flights"`
	LongFlights   float64 `json:"long_flights"`

	DietType   string                    `json:"diet_type"`
	FoodDetail *engine.DetailedFoodInput `json:"food_detail,omitempty"`

	EnergyRequest
}

// EnergyRequest is the body of POST /api/energy.
type EnergyRequest struct {
	KwhElectricity float64 `json:"kwh_electricity"`
	KwhOil         float64 `json:"kwh_oil"`
	KwhGas         float64 `json:"kwh_gas"`
	KwhWood        float64 `json:"kwh_wood"`
}

// FoodRequest is the body of POST /api/food. Detail takes precedence over DietType.
type FoodRequest struct {
	DietType string                    `json:"diet_type"`
	Detail   *engine.DetailedFoodInput `json:"detail,omitempty"`
}

// EmissionResponse is the body returned by POST /api/calculate. All values
// are kg CO2 per month unless named otherwise.
type EmissionResponse struct {
	CalculationID    string                               `json:"calculation_id"`
	Transport        float64                              `json:"transport"`
	Food             float64                              `json:"food"`
	Energy           float64                              `json:"energy"`
	Total            float64                              `json:"total"`
	Percentages      map[engine.Domain]float64            `json:"percentages"`
	AnnualProjection float64                              `json:"annual_projection"`
	DailyAverage     float64                              `json:"daily_average"`
	Rating           greenops.Rating                      `json:"rating"`
	Breakdown        map[engine.Domain]map[string]float64 `json:"breakdown"`
	Warnings         []validate.FieldWarning              `json:"warnings,omitempty"`
}

// BatchRequest is the body of POST /api/calculate/batch.
type BatchRequest struct {
	Households []EmissionRequest `json:"households"`
}

// BatchItem is one household in a batch response. Result is set on success
// and Errors when the household failed validation.
type BatchItem struct {
	Index  int                   `json:"index"`
	Result *EmissionResponse     `json:"result,omitempty"`
	Errors []validate.FieldError `json:"errors,omitempty"`
}

// BatchResponse is the body returned by POST /api/calculate/batch.
type BatchResponse struct {
	Results []BatchItem  `json:"results"`
	Summary batch.Totals `json:"summary"`
}

// DomainResponse is the body returned by the single-domain endpoints.
type DomainResponse struct {
	engine.Result
	Warnings []validate.FieldWarning `json:"warnings,omitempty"`
}

// FactorsResponse describes the loaded coefficient table.
type FactorsResponse struct {
	Source        string                        `json:"source"`
	SchemaVersion string                        `json:"schema_version"`
	Factors       map[string]map[string]float64 `json:"factors"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Field   string                `json:"field,omitempty"`
	Details []validate.FieldError `json:"details,omitempty"`
}

func (r EmissionRequest) transport() engine.TransportInput {
	return engine.TransportInput{
		KmCar:         r.KmCar,
		CarFuelType:   r.CarFuelType,
		KmBus:         r.KmBus,
		BusFuelType:   r.BusFuelType,
		KmTrain:       r.KmTrain,
		TrainType:     r.TrainType,
		ShortFlights:  r.ShortFlights,
		MediumFlights: r.MediumFlights,
		LongFlights:   r.LongFlights,
	}
}

func (r EnergyRequest) energy() engine.EnergyInput {
	return engine.EnergyInput{
		engine.EnergyElectricity: r.KwhElectricity,
		engine.EnergyOil:         r.KwhOil,
		engine.EnergyGas:         r.KwhGas,
		engine.EnergyWood:        r.KwhWood,
	}
}

// ToEngineRequest converts the request into an engine estimate request.
func (r EmissionRequest) ToEngineRequest() engine.Request {
	return engine.Request{
		Transport:    r.transport(),
		Energy:       r.energy(),
		DietCategory: r.DietType,
		DetailedFood: r.FoodDetail,
	}
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var body EmissionRequest
	if !s.decode(w, r, &body) {
		return
	}

	req := body.ToEngineRequest()
	res := validate.Request(&req, s.engine.Table())
	if !s.check(w, res) {
		return
	}

	est := s.estimate(r, req)
	s.observe(est)
	warnings := append(res.Warnings, validate.Monthly("total", est.Summary.TotalKg).Warnings...)
	writeJSON(w, http.StatusOK, newEmissionResponse(est, warnings))
}

func (s *Server) handleCalculateBatch(w http.ResponseWriter, r *http.Request) {
	var body BatchRequest
	if !s.decode(w, r, &body) {
		return
	}

	reqs := make([]engine.Request, len(body.Households))
	for i, h := range body.Households {
		reqs[i] = h.ToEngineRequest()
	}

	outcomes, err := s.batch.Run(r.Context(), reqs)
	switch {
	case errors.Is(err, batch.ErrNoItems), errors.Is(err, batch.ErrTooManyItems):
		writeError(w, http.StatusBadRequest, err.Error(), "households")
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "batch calculation cancelled", "")
		return
	}
	s.metrics.BatchHouseholds.Observe(float64(len(reqs)))

	resp := BatchResponse{
		Results: make([]BatchItem, len(outcomes)),
		Summary: batch.Summarize(outcomes),
	}
	for i, o := range outcomes {
		item := BatchItem{Index: o.Index}
		if o.OK() {
			s.observe(*o.Estimate)
			er := newEmissionResponse(*o.Estimate, o.Validation.Warnings)
			item.Result = &er
		} else {
			for _, fe := range o.Validation.Errors {
				s.metrics.ValidationFailures.WithLabelValues(fe.Field).Inc()
			}
			item.Errors = o.Validation.Errors
		}
		resp.Results[i] = item
	}
	writeJSON(w, http.StatusOK, resp)
}

// estimate returns a cached estimate for req or computes and stores one.
// req must already be validated.
func (s *Server) estimate(r *http.Request, req engine.Request) engine.Estimate {
	if s.cache == nil {
		return s.engine.Estimate(r.Context(), req)
	}
	key, ok := cacheKey(req)
	if ok {
		if est, hit := s.cache.get(key); hit {
			s.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return est
		}
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	est := s.engine.Estimate(r.Context(), req)
	if ok {
		s.cache.add(key, est)
	}
	return est
}

// observe records a successful full estimate.
func (s *Server) observe(est engine.Estimate) {
	for _, d := range engine.Domains() {
		s.metrics.CalculationsTotal.WithLabelValues(string(d)).Inc()
	}
	s.metrics.MonthlyTotalKg.Observe(est.Summary.TotalKg)
}

func newEmissionResponse(est engine.Estimate, warnings []validate.FieldWarning) EmissionResponse {
	return EmissionResponse{
		CalculationID:    logging.NewID(),
		Transport:        est.Summary.TransportKg,
		Food:             est.Summary.FoodKg,
		Energy:           est.Summary.EnergyKg,
		Total:            est.Summary.TotalKg,
		Percentages:      est.Summary.Percentages,
		AnnualProjection: est.Summary.AnnualProjectionKg(),
		DailyAverage:     est.Summary.DailyAverageKg(),
		Rating:           greenops.Rate(est.Summary.TotalKg),
		Breakdown: map[engine.Domain]map[string]float64{
			engine.DomainTransport: est.Transport.Breakdown,
			engine.DomainEnergy:    est.Energy.Breakdown,
			engine.DomainFood:      est.Food.Breakdown,
		},
		Warnings: warnings,
	}
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	var in engine.TransportInput
	if !s.decode(w, r, &in) {
		return
	}
	res := validate.Transport(&in, s.engine.Table())
	if !s.check(w, res) {
		return
	}

	out := s.engine.Transport(r.Context(), in)
	s.metrics.CalculationsTotal.WithLabelValues(string(engine.DomainTransport)).Inc()
	writeJSON(w, http.StatusOK, DomainResponse{Result: out, Warnings: res.Warnings})
}

func (s *Server) handleEnergy(w http.ResponseWriter, r *http.Request) {
	var body EnergyRequest
	if !s.decode(w, r, &body) {
		return
	}
	in := body.energy()
	res := validate.Energy(&in, s.engine.Table())
	if !s.check(w, res) {
		return
	}

	out := s.engine.Energy(r.Context(), in)
	s.metrics.CalculationsTotal.WithLabelValues(string(engine.DomainEnergy)).Inc()
	writeJSON(w, http.StatusOK, DomainResponse{Result: out, Warnings: res.Warnings})
}

func (s *Server) handleFood(w http.ResponseWriter, r *http.Request) {
	var body FoodRequest
	if !s.decode(w, r, &body) {
		return
	}

	var (
		res validate.Result
		out engine.Result
	)
	if body.Detail != nil {
		res = validate.DetailedFood(body.Detail)
		if !s.check(w, res) {
			return
		}
		out = s.engine.DetailedFood(r.Context(), *body.Detail)
	} else {
		res = validate.DietCategory(&body.DietType)
		if !s.check(w, res) {
			return
		}
		out = s.engine.Diet(r.Context(), body.DietType)
	}

	s.metrics.CalculationsTotal.WithLabelValues(string(engine.DomainFood)).Inc()
	writeJSON(w, http.StatusOK, DomainResponse{Result: out, Warnings: res.Warnings})
}

func (s *Server) handleFactors(w http.ResponseWriter, _ *http.Request) {
	t := s.engine.Table()
	writeJSON(w, http.StatusOK, FactorsResponse{
		Source:        t.Source(),
		SchemaVersion: t.SchemaVersion(),
		Factors:       t.Snapshot(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// decode reads a JSON body into dst, rejecting unknown fields and trailing
// data. On failure it writes the error response and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			err = errors.New("body must contain a single JSON object")
		}
	}
	if err == nil {
		return true
	}

	var maxErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), "")
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "request body is empty", "")
	case errors.As(err, &typeErr):
		s.metrics.ValidationFailures.WithLabelValues(typeErr.Field).Inc()
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("field %q must be of type %s", typeErr.Field, typeErr.Type), typeErr.Field)
	case errors.As(err, &syntaxErr):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), "")
	default:
		writeError(w, http.StatusBadRequest, err.Error(), "")
	}
	return false
}

// check writes a 400 for a failed validation and returns false.
func (s *Server) check(w http.ResponseWriter, res validate.Result) bool {
	if res.Valid() {
		return true
	}
	for _, fe := range res.Errors {
		s.metrics.ValidationFailures.WithLabelValues(fe.Field).Inc()
	}
	first := res.Errors[0]
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   first.Error(),
		Field:   first.Field,
		Details: res.Errors,
	})
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Field: field})
}
