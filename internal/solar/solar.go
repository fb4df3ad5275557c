// Package solar computes sun position and extraterrestrial irradiance from
// the NOAA solar position equations.
//
// The closed-form series used here is accurate to well under a tenth of a
// degree for the years this tool deals in, which is far tighter than the
// 0.05 degree grid cells the irradiance data comes from.
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// SolarConstant is the mean extraterrestrial normal irradiance in W/m2.
const SolarConstant = 1367.0

// refractionDeg is the standard atmospheric refraction at the horizon,
// about 34 arc minutes.
const refractionDeg = 0.5667

// Position holds solar geometry for one instant at one site.
type Position struct {
	ZenithDeg      float64 // angle from vertical, degrees
	ElevationDeg   float64 // refraction-corrected elevation above horizon
	AzimuthDeg     float64 // degrees clockwise from north
	DeclinationDeg float64
	EqOfTimeMin    float64 // apparent minus mean solar time, minutes
	CosZenith      float64 // geometric, drives irradiance projections
	SunEarthDistAU float64
}

// PositionAt computes the sun's position at time t for a site at latDeg
// degrees north and lonDeg degrees east.
func PositionAt(t time.Time, latDeg, lonDeg float64) Position {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	jc := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	meanLongDeg := fixAngle(280.46646 + jc*(36000.76983+jc*0.0003032))
	meanAnomDeg := fixAngle(357.52911 + jc*(35999.05029-jc*0.0001537))
	eccent := 0.016708634 - jc*(0.000042037+jc*0.0000001267)

	centerDeg := math.Sin(degToRad(meanAnomDeg))*(1.914602-jc*(0.004817+jc*0.000014)) +
		math.Sin(degToRad(2*meanAnomDeg))*(0.019993-jc*0.000101) +
		math.Sin(degToRad(3*meanAnomDeg))*0.000289
	trueLongDeg := meanLongDeg + centerDeg

	nodeDeg := 125.04 - 1934.136*jc
	apparentLongDeg := trueLongDeg - 0.00569 - 0.00478*math.Sin(degToRad(nodeDeg))

	obliquityDeg := 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
	declRad := math.Asin(math.Sin(degToRad(obliquityDeg)) * math.Sin(degToRad(apparentLongDeg)))

	y := math.Tan(degToRad(obliquityDeg) / 2)
	y *= y
	eqTimeMin := 4 * radToDeg(y*math.Sin(2*degToRad(meanLongDeg))-
		2*eccent*math.Sin(degToRad(meanAnomDeg))+
		4*eccent*y*math.Sin(degToRad(meanAnomDeg))*math.Cos(2*degToRad(meanLongDeg))-
		0.5*y*y*math.Sin(4*degToRad(meanLongDeg))-
		1.25*eccent*eccent*math.Sin(2*degToRad(meanAnomDeg)))

	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	trueSolarMin := math.Mod(utcMin+eqTimeMin+4*lonDeg, 1440)
	hourAngleDeg := trueSolarMin/4 - 180
	if hourAngleDeg < -180 {
		hourAngleDeg += 360
	}

	latRad := degToRad(latDeg)
	cosZen := math.Sin(latRad)*math.Sin(declRad) +
		math.Cos(latRad)*math.Cos(declRad)*math.Cos(degToRad(hourAngleDeg))
	cosZen = clamp(cosZen, -1, 1)
	zenDeg := radToDeg(math.Acos(cosZen))

	return Position{
		ZenithDeg:      zenDeg,
		ElevationDeg:   90 - zenDeg + refractionDeg,
		AzimuthDeg:     azimuthDeg(latRad, declRad, cosZen, zenDeg, hourAngleDeg),
		DeclinationDeg: radToDeg(declRad),
		EqOfTimeMin:    eqTimeMin,
		CosZenith:      cosZen,
		SunEarthDistAU: sunEarthDistAU(jc, meanAnomDeg),
	}
}

// ExtraterrestrialNormal returns the top-of-atmosphere irradiance on a
// surface tracking the beam, zero when the sun is below the horizon.
func (p Position) ExtraterrestrialNormal() float64 {
	if p.CosZenith <= 0 {
		return 0
	}
	return SolarConstant / (p.SunEarthDistAU * p.SunEarthDistAU)
}

// ExtraterrestrialHorizontal projects the normal irradiance onto a flat
// surface. This is the physical ceiling for global horizontal irradiance.
func (p Position) ExtraterrestrialHorizontal() float64 {
	if p.CosZenith <= 0 {
		return 0
	}
	return p.ExtraterrestrialNormal() * p.CosZenith
}

// azimuthDeg measures clockwise from north; afternoon angles reflect onto
// the western half.
func azimuthDeg(latRad, declRad, cosZen, zenDeg, hourAngleDeg float64) float64 {
	zenRad := degToRad(zenDeg)
	den := math.Cos(latRad) * math.Sin(zenRad)
	if den == 0 {
		return 0
	}
	az := radToDeg(math.Acos(clamp((math.Sin(declRad)-math.Sin(latRad)*cosZen)/den, -1, 1)))
	if hourAngleDeg > 0 {
		az = 360 - az
	}
	return az
}

// sunEarthDistAU derives the orbital radius from the eccentric anomaly.
func sunEarthDistAU(jc, meanAnomDeg float64) float64 {
	ecc := 0.016708617 - jc*(0.000042037+jc*0.0000001236)
	mRad := degToRad(meanAnomDeg)
	eaRad := mRad + ecc*math.Sin(mRad)*(1+ecc*math.Cos(mRad))
	nuRad := 2 * math.Atan(math.Sqrt((1+ecc)/(1-ecc))*math.Tan(eaRad/2))
	return (1 - ecc*ecc) / (1 + ecc*math.Cos(nuRad))
}

func fixAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
