package validation

import (
	"regexp"
	"strings"
)

// GSTINResult is the outcome of the structural GSTIN check. Malformed
// input produces Valid=false, never an error.
type GSTINResult struct {
	GSTIN     string
	Valid     bool
	Status    string
	StateCode string
	StateName string
}

// 2-digit state code, 10-char PAN, entity code, literal 'Z', check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// gstStateCodes maps the embedded state code to the state name.
var gstStateCodes = map[string]string{
	"01": "Jammu and Kashmir", "02": "Himachal Pradesh", "03": "Punjab",
	"04": "Chandigarh", "05": "Uttarakhand", "06": "Haryana",
	"07": "Delhi", "08": "Rajasthan", "09": "Uttar Pradesh",
	"10": "Bihar", "11": "Sikkim", "12": "Arunachal Pradesh",
	"13": "Nagaland", "14": "Manipur", "15": "Mizoram",
	"16": "Tripura", "17": "Meghalaya", "18": "Assam",
	"19": "West Bengal", "20": "Jharkhand", "21": "Odisha",
	"22": "Chhattisgarh", "23": "Madhya Pradesh", "24": "Gujarat",
	"26": "Dadra and Nagar Haveli and Daman and Diu", "27": "Maharashtra",
	"29": "Karnataka", "30": "Goa", "31": "Lakshadweep",
	"32": "Kerala", "33": "Tamil Nadu", "34": "Puducherry",
	"35": "Andaman and Nicobar Islands", "36": "Telangana",
	"37": "Andhra Pradesh", "38": "Ladakh",
}

// ValidateGSTIN checks structure, state code and the mod-36 check digit of
// a GST identifier. Input is trimmed and upper-cased first; OCR output
// frequently carries stray spaces and lower-case characters.
func ValidateGSTIN(raw string) GSTINResult {
	gstin := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	res := GSTINResult{GSTIN: gstin}

	if len(gstin) != 15 {
		res.Status = "invalid length"
		return res
	}
	if !gstinPattern.MatchString(gstin) {
		res.Status = "invalid format"
		return res
	}

	code := gstin[:2]
	name, ok := gstStateCodes[code]
	if !ok {
		res.Status = "unknown state code"
		return res
	}
	res.StateCode = code
	res.StateName = name

	check, err := CheckDigit(gstin[:14])
	if err != nil || check != rune(gstin[14]) {
		res.Status = "checksum mismatch"
		return res
	}

	res.Valid = true
	res.Status = "valid"
	return res
}

// CheckDigit computes the mod-36 check character over the first 14
// characters of a GSTIN. Character values are 0-9 then A-Z mapped to
// 10-35; alternating 1/2 factors, digit sums carried in base 36.
func CheckDigit(first14 string) (rune, error) {
	if len(first14) != 14 {
		return 0, errInvalidChecksumInput
	}
	sum := 0
	for i, c := range first14 {
		v := charValue(c)
		if v < 0 {
			return 0, errInvalidChecksumInput
		}
		factor := 1
		if i%2 == 1 {
			factor = 2
		}
		product := v * factor
		sum += product/36 + product%36
	}
	return valueChar((36 - sum%36) % 36), nil
}

func charValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}

func valueChar(v int) rune {
	if v < 10 {
		return rune('0' + v)
	}
	return rune('A' + v - 10)
}
