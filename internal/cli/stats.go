package cli

import (
	"fmt"
	"strconv"

	"github.com/bastiangx/glosstip/pkg/cache"
)

func formatStats(s cache.Stats) string {
	ratio := 0.0
	if total := s.Hits + s.Misses; total > 0 {
		ratio = float64(s.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("%d/%d entries, hits %s, misses %s, evictions %s (%.1f%% hit rate)",
		s.Entries, s.Capacity,
		formatWithCommas(s.Hits), formatWithCommas(s.Misses), formatWithCommas(s.Evictions), ratio)
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int64) string {
	str := strconv.FormatInt(n, 10)
	if n < 1000 && n > -1000 {
		return str
	}
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	result := make([]byte, 0, len(str)+len(str)/3)
	for i := 0; i < len(str); i++ {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, str[i])
	}
	return sign + string(result)
}
