package dirsize

import "fmt"

//nolint:gochecknoglobals // Unit table
var units = []string{"bytes", "KB", "MB", "GB"}

// FormatSize renders size with 1024-based units and two fractional digits.
// Anything from 1024 GB upwards is expressed in TB.
func FormatSize(size uint64) string {
	value := float64(size)

	for _, unit := range units {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}

		value /= 1024
	}

	return fmt.Sprintf("%.2f TB", value)
}
