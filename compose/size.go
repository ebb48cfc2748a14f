package compose

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count for the combine summary using
// 1024 thresholds, one decimal place. Sizes of a terabyte and beyond
// stay rendered in GB.
func FormatFileSize(size int64) string {
	value := float64(size)
	for _, unit := range sizeUnits[:len(sizeUnits)-1] {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[len(sizeUnits)-1])
}
