package util

import "fmt"

// IsTextData checks if a byte slice contains only printable ASCII text
func IsTextData(data []byte) bool {
	for _, b := range data {
		if b < 32 && b != 9 && b != 10 && b != 13 || b > 126 {
			return false
		}
	}
	return true
}

// FormatValue renders a characteristic value for display: printable text
// as-is, anything else as hex.
func FormatValue(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	if IsTextData(data) {
		return string(data)
	}
	return fmt.Sprintf("%X", data)
}
