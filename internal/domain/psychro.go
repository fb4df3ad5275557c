package domain

import "math"

// Magnus saturation vapor pressure constants over liquid water
// (Alduchov and Eskridge 1996).
const (
	magnusA = 17.625
	magnusB = 243.04 // degrees C
)

// Aspirated psychrometer coefficients relating wet-bulb depression to
// vapor pressure.
const (
	psychroA = 6.60e-4 // per degree C
	psychroB = 1.15e-3 // per degree C, wet-bulb correction
)

// saturationVaporPressure returns the saturation vapor pressure in hPa at
// temperature t in degrees C.
func saturationVaporPressure(t float64) float64 {
	return 6.112 * math.Exp(magnusA*t/(magnusB+t))
}

// dewPointFromVaporPressure inverts the Magnus formula. e is vapor pressure
// in hPa, floored just above zero to keep the logarithm defined.
func dewPointFromVaporPressure(e float64) float64 {
	if e < 0.01 {
		e = 0.01
	}
	g := math.Log(e / 6.112)
	return magnusB * g / (magnusA - g)
}

// DewPointFromRelHumidity computes dew point in degrees C from dry-bulb
// temperature (degrees C) and relative humidity (percent). Humidity is
// floored at 1% so bone-dry readings still yield a finite dew point.
func DewPointFromRelHumidity(dryBulb, relHumidity float64) float64 {
	if relHumidity < 1 {
		relHumidity = 1
	}
	return dewPointFromVaporPressure(relHumidity / 100 * saturationVaporPressure(dryBulb))
}

// RelHumidityFromDewPoint computes relative humidity in percent from
// dry-bulb and dew point temperatures (degrees C), clamped to [0, 100].
func RelHumidityFromDewPoint(dryBulb, dewPoint float64) float64 {
	rh := 100 * saturationVaporPressure(dewPoint) / saturationVaporPressure(dryBulb)
	switch {
	case rh < 0:
		return 0
	case rh > 100:
		return 100
	default:
		return rh
	}
}

// DewPointFromWetBulb computes dew point in degrees C from dry-bulb and
// wet-bulb temperatures (degrees C) and station pressure (Pa) via the
// psychrometer equation.
func DewPointFromWetBulb(dryBulb, wetBulb, pressure float64) float64 {
	pHPa := pressure / 100
	e := saturationVaporPressure(wetBulb) -
		psychroA*(1+psychroB*wetBulb)*pHPa*(dryBulb-wetBulb)
	return dewPointFromVaporPressure(e)
}
