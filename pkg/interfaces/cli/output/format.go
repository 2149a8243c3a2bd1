package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatEUR renders an amount compactly, e.g. €4.2M, €890.0K or €512
func FormatEUR(value float64) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("€%.1fB", value/1e9)
	case abs >= 1_000_000:
		return fmt.Sprintf("€%.1fM", value/1e6)
	case abs >= 1_000:
		return fmt.Sprintf("€%.1fK", value/1e3)
	default:
		return "€" + groupThousands(int64(math.Round(value)))
	}
}

// FormatDelta renders a week-over-week change with a direction arrow
func FormatDelta(pct float64) string {
	switch {
	case pct > 0:
		return fmt.Sprintf("↑ %.1f%%", pct)
	case pct < 0:
		return fmt.Sprintf("↓ %.1f%%", -pct)
	default:
		return "— 0.0%"
	}
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
