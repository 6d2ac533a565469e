package engine

import (
	"context"

	"github.com/rshade/carbonfocus/internal/factors"
	"github.com/rshade/carbonfocus/internal/logging"
)

// Breakdown keys for transport results.
const (
	TransportCar     = "car"
	TransportBus     = "bus"
	TransportTrain   = "train"
	TransportFlights = "flights"
)

// ElectricFuel is the car fuel type that may use the table's grid intensity.
const ElectricFuel = "electric"

// TransportInput holds one month of travel.
// Flight counts are fractional so that occasional travel can be averaged
// into the month (two flights a year is ~0.17 per month).
type TransportInput struct {
	KmCar         float64 `json:"km_car"`
	CarFuelType   string  `json:"car_fuel_type"`
	KmBus         float64 `json:"km_bus"`
	BusFuelType   string  `json:"bus_fuel_type"`
	KmTrain       float64 `json:"km_train"`
	TrainType     string  `json:"train_type"`
	ShortFlights  float64 `json:"short_flights"`
	MediumFlights float64 `json:"medium_flights"`
	LongFlights   float64 `json:"long_flights"`
}

// Transport computes monthly transport emissions.
//
//	car     = km_car × transport.car[fuel] × car_fuel_consumption[fuel]
//	bus     = km_bus × transport.bus[fuel]
//	train   = km_train × transport.train[type]
//	flights = short × flight.short + medium × flight.medium + long × flight.long
//
// Unknown fuel or train types contribute zero. An electric car with zero
// consumption produces zero emissions; if the table declares a grid
// intensity, that intensity replaces the electric car factor.
func (e *Engine) Transport(ctx context.Context, in TransportInput) Result {
	logger := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Transport").
		Logger()

	carFactor, ok := e.table.TransportFactor(factors.ModeCar, in.CarFuelType)
	if !ok {
		logger.Debug().Str("car_fuel_type", in.CarFuelType).Msg("unknown car fuel type, using zero factor")
	}
	consumption, _ := e.table.CarConsumption(in.CarFuelType)
	if in.CarFuelType == ElectricFuel {
		if grid, hasGrid := e.table.GridIntensity(); hasGrid {
			carFactor = grid
		}
	}

	busFactor, ok := e.table.TransportFactor(factors.ModeBus, in.BusFuelType)
	if !ok {
		logger.Debug().Str("bus_fuel_type", in.BusFuelType).Msg("unknown bus fuel type, using zero factor")
	}

	trainFactor, ok := e.table.TransportFactor(factors.ModeTrain, in.TrainType)
	if !ok {
		logger.Debug().Str("train_type", in.TrainType).Msg("unknown train type, using zero factor")
	}

	shortF, _ := e.table.TransportFactor(factors.ModeFlight, factors.FlightShort)
	mediumF, _ := e.table.TransportFactor(factors.ModeFlight, factors.FlightMedium)
	longF, _ := e.table.TransportFactor(factors.ModeFlight, factors.FlightLong)

	car := in.KmCar * carFactor * consumption
	bus := in.KmBus * busFactor
	train := in.KmTrain * trainFactor
	flights := in.ShortFlights*shortF + in.MediumFlights*mediumF + in.LongFlights*longF

	return Result{
		Domain:  DomainTransport,
		TotalKg: car + bus + train + flights,
		Breakdown: map[string]float64{
			TransportCar:     car,
			TransportBus:     bus,
			TransportTrain:   train,
			TransportFlights: flights,
		},
		Inputs: map[string]any{
			"km_car":         in.KmCar,
			"car_fuel_type":  in.CarFuelType,
			"km_bus":         in.KmBus,
			"bus_fuel_type":  in.BusFuelType,
			"km_train":       in.KmTrain,
			"train_type":     in.TrainType,
			"short_flights":  in.ShortFlights,
			"medium_flights": in.MediumFlights,
			"long_flights":   in.LongFlights,
		},
	}
}
