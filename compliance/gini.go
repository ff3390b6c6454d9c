package compliance

// Gini computes the Gini coefficient of the given hour distribution using the
// mean absolute difference form. It returns 0 for empty, single-element or
// all-zero inputs, and 0 exactly when every element is identical. The result
// always lies in [0, 1].
func Gini(hours []float64) float64 {
	n := len(hours)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, h := range hours {
		sum += h
	}
	if sum == 0 {
		return 0
	}

	var diff float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := hours[i] - hours[j]
			if d < 0 {
				d = -d
			}
			diff += d
		}
	}

	return diff / (2 * float64(n) * sum)
}
