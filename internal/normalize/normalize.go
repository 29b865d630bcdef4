// Package normalize turns raw upstream weather documents into canonical daily series.
//
// A payload is first classified into one of the known shapes, then converted by the
// function for that shape. Nothing here fails: a document that matches no shape
// yields an empty series.
package normalize

import (
	"github.com/goccy/go-json"

	"weather-explorer/internal/models"
)

// Shape identifies the layout of a raw payload.
type Shape int

const (
	Unrecognized Shape = iota
	NestedDaily
	FlatList
	SingleDay
)

func (s Shape) String() string {
	switch s {
	case NestedDaily:
		return "nested-daily"
	case FlatList:
		return "flat-list"
	case SingleDay:
		return "single-day"
	default:
		return "unrecognized"
	}
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	fieldDaily       = "daily"
	fieldTime        = "time"
	fieldDate        = "date"
	fieldTempMax     = "temperature_2m_max"
	fieldTempMin     = "temperature_2m_min"
	fieldApparentMax = "apparent_temperature_max"
	fieldApparentMin = "apparent_temperature_min"
)

// Payload is a classified raw document. Only the member matching Shape is set.
type Payload struct {
	Shape Shape

	daily  map[string]any
	items  []any
	single map[string]any
}

// Classify inspects raw and tags it with its shape.
// Precedence: nested-daily, flat-list, single-day, unrecognized.
func Classify(raw []byte) Payload {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Payload{Shape: Unrecognized}
	}

	switch v := doc.(type) {
	case map[string]any:
		if daily, ok := v[fieldDaily].(map[string]any); ok {
			if _, ok := daily[fieldTime].([]any); ok {
				return Payload{Shape: NestedDaily, daily: daily}
			}
		}
		if isSingleDay(v) {
			return Payload{Shape: SingleDay, single: v}
		}
	case []any:
		return Payload{Shape: FlatList, items: v}
	}

	return Payload{Shape: Unrecognized}
}

// Normalize converts raw into a canonical series. It never fails.
func Normalize(raw []byte) models.CanonicalSeries {
	series, _ := NormalizeReport(raw)
	return series
}

// NormalizeReport is Normalize that also reports the detected shape, so callers can
// tell an unrecognized document from a recognized one without data.
func NormalizeReport(raw []byte) (models.CanonicalSeries, Shape) {
	p := Classify(raw)
	return p.Series(), p.Shape
}

// Series converts a classified payload. The result is never nil.
func (p Payload) Series() models.CanonicalSeries {
	switch p.Shape {
	case NestedDaily:
		return fromNestedDaily(p.daily)
	case FlatList:
		return fromFlatList(p.items)
	case SingleDay:
		return models.CanonicalSeries{fromSingleDay(p.single)}
	default:
		return models.CanonicalSeries{}
	}
}

func fromNestedDaily(daily map[string]any) models.CanonicalSeries {
	times, _ := daily[fieldTime].([]any)
	tmax, _ := daily[fieldTempMax].([]any)
	tmin, _ := daily[fieldTempMin].([]any)
	amax, _ := daily[fieldApparentMax].([]any)
	amin, _ := daily[fieldApparentMin].([]any)

	series := make(models.CanonicalSeries, 0, len(times))
	for i := range times {
		date, _ := times[i].(string)
		series = append(series, models.WeatherData{
			Date:        date,
			TempMax:     floatAt(tmax, i),
			TempMin:     floatAt(tmin, i),
			ApparentMax: floatAt(amax, i),
			ApparentMin: floatAt(amin, i),
		})
	}

	return series
}

// fromFlatList emits one record per element. Elements that are not objects give a
// record with an empty date and no temperatures.
func fromFlatList(items []any) models.CanonicalSeries {
	series := make(models.CanonicalSeries, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		series = append(series, models.WeatherData{
			Date:    dateOf(obj),
			TempMax: toFloat(obj[fieldTempMax]),
			TempMin: toFloat(obj[fieldTempMin]),
		})
	}

	return series
}

// fromSingleDay reads the date from "date" only.
func fromSingleDay(obj map[string]any) models.WeatherData {
	date, _ := obj[fieldDate].(string)
	return models.WeatherData{
		Date:        date,
		TempMax:     toFloat(obj[fieldTempMax]),
		TempMin:     toFloat(obj[fieldTempMin]),
		ApparentMax: toFloat(obj[fieldApparentMax]),
		ApparentMin: toFloat(obj[fieldApparentMin]),
	}
}

func isSingleDay(obj map[string]any) bool {
	for _, k := range []string{fieldDate, fieldTempMax, fieldTempMin} {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func dateOf(obj map[string]any) string {
	if d, ok := obj[fieldDate].(string); ok {
		return d
	}
	if d, ok := obj[fieldTime].(string); ok {
		return d
	}
	return ""
}

func floatAt(values []any, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return toFloat(values[i])
}

func toFloat(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
