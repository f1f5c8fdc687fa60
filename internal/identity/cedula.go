// Package identity implements the Ecuadorian national-ID (cédula)
// checksum and the MSP 17-character provisional identity code for
// patients who present without legal identification.
package identity

import "errors"

// Validation failure kinds, in check order. ValidateCedula short-circuits
// on the first failure.
var (
	ErrInvalidFormat     = errors.New("cedula must be exactly 10 digits")
	ErrInvalidProvince   = errors.New("cedula province code must be 01-24 or 30")
	ErrInvalidPersonType = errors.New("cedula third digit must be below 6 for natural persons")
	ErrInvalidChecksum   = errors.New("cedula check digit mismatch")
)

// module-10 coefficients applied to the first nine digits.
var coefficients = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// ValidateCedula checks a claimed 10-digit national ID. It returns nil for
// a valid cédula or one of the Err* values identifying the first failed
// check. Pure function, no I/O.
func ValidateCedula(cedula string) error {
	if len(cedula) != 10 {
		return ErrInvalidFormat
	}
	digits := make([]int, 10)
	for i, c := range cedula {
		if c < '0' || c > '9' {
			return ErrInvalidFormat
		}
		digits[i] = int(c - '0')
	}

	province := digits[0]*10 + digits[1]
	if !((province >= 1 && province <= 24) || province == 30) {
		return ErrInvalidProvince
	}

	if digits[2] >= 6 {
		return ErrInvalidPersonType
	}

	sum := 0
	for i := 0; i < 9; i++ {
		v := digits[i] * coefficients[i]
		if v >= 10 {
			v -= 9
		}
		sum += v
	}
	check := 0
	if sum%10 != 0 {
		check = 10 - sum%10
	}
	if check != digits[9] {
		return ErrInvalidChecksum
	}
	return nil
}

// IsValidCedula is the boolean form of ValidateCedula.
func IsValidCedula(cedula string) bool {
	return ValidateCedula(cedula) == nil
}
