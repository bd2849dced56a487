// Package hours переводит время суток из HTML форм в дробные часы.
package hours

import (
	"fmt"
	"strconv"
	"strings"
)

// FromClock переводит время из поля <input type="time"> ("HH:MM" или "HH:MM:SS")
// в дробное число часов: "14:30" -> 14.5.
func FromClock(value string) (float64, error) {
	const op = "hours.FromClock"
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%s: invalid time %q", op, value)
	}

	limits := []int{23, 59, 59}
	nums := make([]int, len(parts))
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || strings.Trim(p, "0123456789") != "" {
			return 0, fmt.Errorf("%s: invalid time %q", op, value)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%s: time %q out of range", op, value)
		}
		nums[i] = n
	}

	result := float64(nums[0]) + float64(nums[1])/60
	if len(nums) == 3 {
		result += float64(nums[2]) / 3600
	}
	return result, nil
}
