package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"weather-explorer/internal/models"
)

const nameDateLayout = "20060102"

var coordReplacer = strings.NewReplacer(".", "_", "-", "n")

// StorageName derives the stored file name for q:
//
//	weather_<lat>_<lon>_<start>_<end>.json
//
// Coordinates are rounded to 4 decimals with '.' written as '_' and '-' as 'n';
// dates are YYYYMMDD. Queries that agree after rounding share a name, so repeating
// a query overwrites the earlier result.
func StorageName(q models.GeoQuery) string {
	return fmt.Sprintf("weather_%s_%s_%s_%s.json",
		formatCoord(q.Latitude),
		formatCoord(q.Longitude),
		q.StartDate.Format(nameDateLayout),
		q.EndDate.Format(nameDateLayout),
	)
}

func formatCoord(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return coordReplacer.Replace(strconv.FormatFloat(r, 'f', 4, 64))
}
