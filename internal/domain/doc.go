// Package domain models Bureau of Meteorology (BoM) surface observations
// and the hourly timeline they are reconciled onto.
//
// # Data Sources
//
// Station observations come from BoM half-hourly surface data exports
// (HM01X product): one CSV per station covering years of readings in local
// standard time. Fallback irradiance comes from the BoM gridded solar
// product: one ASCII raster per variable per UTC hour covering Australia
// at 0.05 degree resolution.
//
// # Timeline Conventions
//
// Slot indexing:
//
//	A station-year is a fixed sequence of hourly slots, 8760 long (8784 in
//	leap years), indexed from 0 = Jan 1 00:00 local standard time. Daylight
//	saving never applies; the zone is a fixed UTC offset such as +10.0.
//	Observation minute: BoM hourly products nominally observe at HH:50,
//	which is also the minute solar geometry is evaluated at.
//
// Provenance:
//
//	Every (channel, slot) value carries how it was obtained, in resolution
//	order: Measured (aligned from the station file), Interpolated (short
//	anchored gap), GridSubstituted (raster fallback), Derived (computed
//	from other channels). Missing is the zero value; a slot that is still
//	Missing for a required channel after the full pipeline fails the run
//	with [IncompleteDataError] rather than being papered over with a
//	sentinel.
//
// Units:
//
//	Temperatures degrees C, humidity percent, wind speed m/s, wind
//	direction degrees true, pressure Pa, irradiance W/m2. Readers convert
//	at parse time (BoM wind km/h / 3.6, pressure hPa * 100); serializers
//	convert back at write time.
//
// # Psychrometric Derivations
//
// Dew point and relative humidity are interconvertible through the Magnus
// formula (A = 17.625, B = 243.04 C). When only the wet bulb is available,
// vapor pressure comes from the aspirated psychrometer equation before the
// Magnus inversion, so a dew point can still be recovered. Derivation
// order matters: dew point first, then humidity from it. See
// [DewPointFromRelHumidity], [DewPointFromWetBulb] and
// [RelHumidityFromDewPoint].
//
// # Wind Direction Arithmetic
//
// Wind direction is circular: interpolation between 350 and 10 degrees
// must pass through north, not south. Gap filling therefore interpolates
// along the shortest arc and normalizes into [0, 360).
package domain
