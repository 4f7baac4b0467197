package fracdex

import "math"

// Float64Approx converts a key to a float64 for display and rough
// arithmetic. The key space is far larger than float64 can represent, so
// distinct keys may map to the same value.
func Float64Approx(key string) (float64, error) {
	if err := Validate(key); err != nil {
		return 0.0, err
	}
	ip, _ := integerPart(key)

	rv := 0.0
	for i := 1; i < len(ip); i++ {
		exp := len(ip) - 1 - i
		rv += math.Pow(float64(base), float64(exp)) * float64(digitValue(ip[i]))
	}
	for i := len(ip); i < len(key); i++ {
		exp := i - len(ip) + 1
		rv += float64(digitValue(key[i])) / math.Pow(float64(base), float64(exp))
	}
	if ip[0] < 'a' {
		rv = -rv
	}
	return rv, nil
}
