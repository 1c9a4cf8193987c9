// Package utils provides utility functions for the nudge project.
package utils

// GetString safely extracts a string from a map, returning defaultVal if not found or wrong type.
func GetString(m map[string]interface{}, key, defaultVal string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return defaultVal
}
