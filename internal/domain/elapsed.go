package domain

import "fmt"

// FormatElapsed renders an elapsed duration in milliseconds as zero-padded
// "HH:MM:SS". The hour field grows without bound - there is no day rollover.
// Negative inputs clamp to "00:00:00".
func FormatElapsed(elapsedMs int64) string {
	if elapsedMs < 0 {
		elapsedMs = 0
	}
	totalSeconds := elapsedMs / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
