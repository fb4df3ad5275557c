package domain

import "fmt"

// Channel identifies one weather quantity carried through the pipeline.
// Values are held in internal units from parse time onward: degrees C for
// temperatures, percent for humidity, m/s for wind speed, degrees true for
// wind direction, Pa for pressure, W/m2 for irradiance.
type Channel uint8

const (
	DryBulb Channel = iota
	WetBulb
	DewPoint
	RelHumidity
	WindSpeed
	WindDirection
	Pressure
	GHI
	DNI

	// NumChannels sizes per-slot value arrays. Keep it last.
	NumChannels
)

var channelNames = [NumChannels]string{
	DryBulb:       "dry_bulb",
	WetBulb:       "wet_bulb",
	DewPoint:      "dew_point",
	RelHumidity:   "rel_humidity",
	WindSpeed:     "wind_speed",
	WindDirection: "wind_direction",
	Pressure:      "pressure",
	GHI:           "ghi",
	DNI:           "dni",
}

// String returns the snake_case channel name used in logs and limit files.
func (c Channel) String() string {
	if c >= NumChannels {
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
	return channelNames[c]
}

// ParseChannel maps a snake_case name back to its Channel, reporting
// whether the name is known.
func ParseChannel(name string) (Channel, bool) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), true
		}
	}
	return 0, false
}

// AllChannels returns every channel in storage order.
func AllChannels() []Channel {
	chs := make([]Channel, 0, NumChannels)
	for c := Channel(0); c < NumChannels; c++ {
		chs = append(chs, c)
	}
	return chs
}
