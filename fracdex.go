// Package fracdex allocates fractional position keys: strings that sort
// lexicographically and always leave room for another key between any two
// of them, so a list can be reordered by rewriting a single item's key.
package fracdex

import (
	"strings"
)

const digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = len(digits)

// smallestInt is the lowest representable integer part. It is reserved:
// nothing can be placed before it without a fraction, so it is never handed
// out as a key itself.
var smallestInt = "A" + strings.Repeat("0", 26)

// zeroKey is the key given to the first item of an empty list.
const zeroKey = "a0"

var digitIndex [256]int8

func init() {
	for i := range digitIndex {
		digitIndex[i] = -1
	}
	for i := 0; i < base; i++ {
		digitIndex[digits[i]] = int8(i)
	}
}

func digitValue(c byte) int {
	return int(digitIndex[c])
}

// keyBetween returns a key strictly between a and b. An empty a means "before
// everything", an empty b means "after everything".
func keyBetween(a, b string, p picker) (string, error) {
	if a != "" {
		if err := Validate(a); err != nil {
			return "", err
		}
	}
	if b != "" {
		if err := Validate(b); err != nil {
			return "", err
		}
	}
	if a != "" && b != "" && a >= b {
		return "", &InvalidRangeError{Before: a, After: b}
	}

	if a == "" {
		if b == "" {
			return zeroKey, nil
		}
		ib, _ := integerPart(b)
		fb := b[len(ib):]
		if ib == smallestInt {
			return ib + midpoint("", fb, p), nil
		}
		if ib < b {
			return ib, nil
		}
		res, err := decrementInt(ib)
		if err != nil {
			return "", err
		}
		if res == "" {
			return "", ErrRangeExhausted
		}
		return res, nil
	}

	ia, _ := integerPart(a)
	fa := a[len(ia):]

	if b == "" {
		i, err := incrementInt(ia)
		if err != nil {
			return "", err
		}
		if i == "" {
			return ia + midpoint(fa, "", p), nil
		}
		return i, nil
	}

	ib, _ := integerPart(b)
	fb := b[len(ib):]
	if ia == ib {
		return ia + midpoint(fa, fb, p), nil
	}
	i, err := incrementInt(ia)
	if err != nil {
		return "", err
	}
	if i == "" {
		return "", ErrRangeExhausted
	}
	if i < b {
		return i, nil
	}
	return ia + midpoint(fa, "", p), nil
}

// midpoint returns a fraction strictly between fractions a and b, where
// a < b when b is non-empty. An empty a is the lowest fraction and an empty
// b the highest. The result never ends in '0'.
func midpoint(a, b string, p picker) string {
	if b != "" {
		// Strip the common prefix. a is padded with '0' while walking; b
		// cannot run out first because a < b.
		i := 0
		for ; i < len(b); i++ {
			c := byte('0')
			if i < len(a) {
				c = a[i]
			}
			if c != b[i] {
				break
			}
		}
		if i > 0 {
			if i > len(a) {
				return b[:i] + midpoint("", b[i:], p)
			}
			return b[:i] + midpoint(a[i:], b[i:], p)
		}
	}

	da := 0
	if a != "" {
		da = digitValue(a[0])
	}
	db := base
	if b != "" {
		db = digitValue(b[0])
	}
	if db-da > 1 {
		return string(digits[p.pick(da+1, db-1)])
	}

	// Leading digits are adjacent.
	if len(b) > 1 {
		return b[:1]
	}
	// b is empty or a single digit: keep a's digit and go one level deeper,
	// e.g. midpoint("49", "5") is "4" + midpoint("9", "").
	rest := ""
	if len(a) > 1 {
		rest = a[1:]
	}
	return string(digits[da]) + midpoint(rest, "", p)
}

// Validate reports whether key is a well-formed position key.
func Validate(key string) error {
	if key == "" {
		return &InvalidKeyError{}
	}
	if key == smallestInt {
		return &InvalidKeyError{Key: key}
	}
	i, err := integerPart(key)
	if err != nil {
		return err
	}
	for j := 1; j < len(key); j++ {
		if digitValue(key[j]) < 0 {
			return &InvalidKeyError{Key: key}
		}
	}
	if strings.HasSuffix(key[len(i):], "0") {
		return &InvalidKeyError{Key: key}
	}
	return nil
}

func intLen(head byte) (int, error) {
	switch {
	case head >= 'a' && head <= 'z':
		return int(head-'a') + 2, nil
	case head >= 'A' && head <= 'Z':
		return int('Z'-head) + 2, nil
	}
	return 0, &InvalidKeyError{Key: string(head), head: true}
}

func integerPart(key string) (string, error) {
	n, err := intLen(key[0])
	if err != nil {
		return "", err
	}
	if n > len(key) {
		return "", &InvalidKeyError{Key: key}
	}
	return key[:n], nil
}

func validateInt(x string) error {
	n, err := intLen(x[0])
	if err != nil {
		return err
	}
	if len(x) != n {
		return &InvalidKeyError{Key: x}
	}
	return nil
}

// incrementInt returns the next integer part, or "" once the largest
// integer ("z" followed by 26 'z' digits) has been reached.
func incrementInt(x string) (string, error) {
	if err := validateInt(x); err != nil {
		return "", err
	}
	head, ds := x[0], []byte(x[1:])
	for i := len(ds) - 1; i >= 0; i-- {
		d := digitValue(ds[i]) + 1
		if d < base {
			ds[i] = digits[d]
			return string(head) + string(ds), nil
		}
		ds[i] = '0'
	}
	switch head {
	case 'Z':
		return zeroKey, nil
	case 'z':
		return "", nil
	}
	h := head + 1
	if h > 'a' {
		ds = append(ds, '0')
	} else {
		ds = ds[1:]
	}
	return string(h) + string(ds), nil
}

// decrementInt returns the previous integer part, or "" below smallestInt.
func decrementInt(x string) (string, error) {
	if err := validateInt(x); err != nil {
		return "", err
	}
	top := digits[base-1]
	head, ds := x[0], []byte(x[1:])
	for i := len(ds) - 1; i >= 0; i-- {
		d := digitValue(ds[i]) - 1
		if d >= 0 {
			ds[i] = digits[d]
			return string(head) + string(ds), nil
		}
		ds[i] = top
	}
	switch head {
	case 'a':
		return "Z" + string(top), nil
	case 'A':
		return "", nil
	}
	h := head - 1
	if h < 'Z' {
		ds = append(ds, top)
	} else {
		ds = ds[1:]
	}
	return string(h) + string(ds), nil
}
