package models

// WeatherData is one canonical daily record derived from a stored payload.
// Temperatures are nil when the payload carries no value for that day.
type WeatherData struct {
	Date        string   `json:"date" example:"2024-01-01"`
	TempMax     *float64 `json:"temp_max" example:"5.1"`
	TempMin     *float64 `json:"temp_min" example:"-1.0"`
	ApparentMax *float64 `json:"apparent_max" example:"2.4"`
	ApparentMin *float64 `json:"apparent_min" example:"-4.7"`
}

// CanonicalSeries is the ordered list of daily records, in upstream order.
type CanonicalSeries []WeatherData

// FilterByDate returns the index of the record with the matching date, or -1 if not found
func FilterByDate(data CanonicalSeries, date string) int {
	for i, wd := range data {
		if wd.Date == date {
			return i
		}
	}
	return -1
}

// Float returns a pointer to v, handy for building records by hand.
func Float(v float64) *float64 {
	return &v
}
