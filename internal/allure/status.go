package allure

import "octoallure/internal/octomind"

// StatusFromOctomind maps an Octomind status token to an Allure status. The
// mapping is total: anything unrecognized, including report-only states like
// WAITING or RUNNING, falls back to unknown so source schema evolution never
// breaks conversion.
func StatusFromOctomind(status string) Status {
	switch status {
	case octomind.StatusPassed:
		return StatusPassed
	case octomind.StatusFailed:
		return StatusFailed
	case octomind.StatusError:
		return StatusBroken
	case octomind.StatusSkipped:
		return StatusSkipped
	default:
		return StatusUnknown
	}
}
