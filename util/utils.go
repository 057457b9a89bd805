package util

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwise1/viff_planner/internal/model"
	"github.com/twpayne/go-polyline"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// EncodeMarkers encodes marker coordinates, in order, as a Google polyline
// (precision 1e5). Markers without coordinates are skipped.
func EncodeMarkers(markers []model.Marker) (string, int) {
	coords := make([][]float64, 0, len(markers))
	for _, m := range markers {
		if !m.HasCoordinates() {
			continue
		}
		coords = append(coords, []float64{m.Latitude, m.Longitude})
	}
	return string(polyline.EncodeCoords(coords)), len(coords)
}

func DecodePolyLines(shape string) ([][]float64, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		log.Println("error deocoding polyline: ", err)
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	return decoded, nil
}

// Float64Ptr returns a pointer to the given float.
func Float64Ptr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to the given integer.
func IntPtr(i int) *int {
	return &i
}
