package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/RMahshie/beamsway/internal/coherence"
)

var csvHeader = []string{
	"antenna_count",
	"theta_max_deg",
	"wind_speed",
	"along_wind_s",
	"cross_wind_s",
	"raw_along_wind_s",
	"raw_cross_wind_s",
	"along_crossings",
	"cross_crossings",
}

// WriteCurvesCSV writes one row per (antenna count, wind speed) point.
// Unbounded coherence times are written as "+Inf".
func WriteCurvesCSV(w io.Writer, curves []coherence.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, c := range curves {
		n := len(c.WindSpeeds)
		if len(c.AlongWind) != n || len(c.CrossWind) != n ||
			len(c.RawAlongWind) != n || len(c.RawCrossWind) != n ||
			len(c.AlongCrossings) != n || len(c.CrossCrossings) != n {
			return fmt.Errorf("%w: curve %d has mismatched lengths", ErrInvalidPlot, c.AntennaCount)
		}
		for i := 0; i < n; i++ {
			row := []string{
				strconv.Itoa(c.AntennaCount),
				formatFloat(c.ThetaMax),
				formatFloat(c.WindSpeeds[i]),
				formatFloat(c.AlongWind[i]),
				formatFloat(c.CrossWind[i]),
				formatFloat(c.RawAlongWind[i]),
				formatFloat(c.RawCrossWind[i]),
				strconv.Itoa(c.AlongCrossings[i]),
				strconv.Itoa(c.CrossCrossings[i]),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
