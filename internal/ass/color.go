package ass

import (
	"fmt"
	"strconv"
	"strings"
)

// opaque white, used whenever a color cannot be parsed
const fallbackColor = "&H00FFFFFF"

// RGBToASSColor converts an RGB hex color ("#RRGGBB" or "RRGGBB") to the
// ASS "&HAABBGGRR" encoding with an opaque alpha byte. Malformed input
// falls back to opaque white instead of failing.
func RGBToASSColor(rgb string) string {
	hex := strings.TrimPrefix(strings.TrimSpace(rgb), "#")
	if len(hex) != 6 {
		return fallbackColor
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallbackColor
	}

	r := value >> 16 & 0xFF
	g := value >> 8 & 0xFF
	b := value & 0xFF

	return fmt.Sprintf("&H00%02X%02X%02X", b, g, r)
}
