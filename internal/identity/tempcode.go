package identity

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TempCodeLength is the fixed length of the MSP provisional identity code.
const TempCodeLength = 17

// ForeignProvinceCode is the sentinel origin code for foreign nationals or
// unknown origin. It overrides any province the caller supplies.
const ForeignProvinceCode = "99"

// filler replaces missing or too-short name fragments.
const filler = 'X'

// TempCodeInput carries everything the provisional code is derived from.
// The code is a derived value: whenever any of these fields changes on a
// stored patient, the code must be regenerated and overwritten.
type TempCodeInput struct {
	FirstName     string
	MiddleName    string
	FirstSurname  string
	SecondSurname string
	// ProvinceCode is the 2-digit INEC code of the province of origin.
	ProvinceCode string
	// ForeignNational forces the origin block to "99".
	ForeignNational bool
	BirthDate       time.Time
}

// GenerateTempCode builds the 17-character MSP identity surrogate:
//
//	pos 1-2  first two letters of the first given name
//	pos 3    first letter of the second given name
//	pos 4-5  first two letters of the first family name
//	pos 6    first letter of the second family name
//	pos 7-8  province/origin code, zero-padded
//	pos 9-16 birth date as YYYYMMDD
//	pos 17   third character of the birth year (decade digit)
//
// Letters are uppercased with diacritics stripped; missing fragments use
// the filler letter. Identical inputs always yield the identical code.
func GenerateTempCode(in TempCodeInput) (string, error) {
	if in.BirthDate.IsZero() {
		return "", fmt.Errorf("temp code requires a birth date")
	}

	var b strings.Builder
	b.Grow(TempCodeLength)

	b.WriteString(letterBlock(in.FirstName, 2))
	b.WriteString(letterBlock(in.MiddleName, 1))
	b.WriteString(letterBlock(in.FirstSurname, 2))
	b.WriteString(letterBlock(in.SecondSurname, 1))

	province := in.ProvinceCode
	if in.ForeignNational || province == "" {
		province = ForeignProvinceCode
	}
	if len(province) > 2 {
		province = province[:2]
	}
	b.WriteString(fmt.Sprintf("%02s", province))

	year := in.BirthDate.Format("2006")
	b.WriteString(in.BirthDate.Format("20060102"))
	b.WriteByte(year[2]) // decade digit

	return b.String(), nil
}

// letterBlock normalizes s and returns its first n letters, padded with
// the filler letter when shorter.
func letterBlock(s string, n int) string {
	letters := normalizeLetters(s)
	if len(letters) > n {
		letters = letters[:n]
	}
	for len(letters) < n {
		letters += string(filler)
	}
	return letters
}

// normalizeLetters uppercases s, strips diacritics (NFD decomposition,
// combining marks dropped) and removes anything that is not an ASCII
// letter. Mirrors the registry convention: "José Ña" -> "JOSENA".
func normalizeLetters(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
