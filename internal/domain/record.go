package domain

// Record is one finished output hour with every field resolved, still in
// internal units. Serializers apply their own presentation conversions.
type Record struct {
	Time          Timestamp
	DryBulb       float64 // degrees C
	DewPoint      float64 // degrees C
	RelHumidity   float64 // percent
	Pressure      float64 // Pa
	WindSpeed     float64 // m/s
	WindDirection float64 // degrees true
	GHI           float64 // W/m2, global horizontal
	DNI           float64 // W/m2, direct normal
	DHI           float64 // W/m2, diffuse horizontal
	ETR           float64 // W/m2, extraterrestrial horizontal
	ETRN          float64 // W/m2, extraterrestrial normal
}
