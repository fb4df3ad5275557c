package grid

import "fmt"

// Georeference of the hourly irradiance rasters: 0.05 degree cells anchored
// at the south-west corner of the continental grid, rows counted from the
// north edge.
const (
	CellSize  = 0.05
	XLLCorner = 112.025
	YLLCorner = -43.925
	MaxCols   = 839
	MaxRows   = 679
)

// Cell maps a station coordinate to raster indices. Truncation matches the
// published georeference: any point inside a cell maps to that cell.
func Cell(lat, lon float64) (row, col int, err error) {
	col = int((lon - XLLCorner) / CellSize)
	if col < 0 || col >= MaxCols {
		return 0, 0, fmt.Errorf("longitude %v is outside the raster grid", lon)
	}
	row = int(MaxRows-(lat-YLLCorner)/CellSize) - 1
	if row < 0 || row >= MaxRows {
		return 0, 0, fmt.Errorf("latitude %v is outside the raster grid", lat)
	}
	return row, col, nil
}
