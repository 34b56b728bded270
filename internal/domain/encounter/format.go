package encounter

import "fmt"

// FormatDuration renders a duration in seconds as zero-padded MM:SS.
// Negative durations clamp to 00:00.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
