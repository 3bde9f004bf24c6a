package validation

import "strings"

// RateTable maps HSN/SAC code prefixes to the expected GST rate in
// percent. Lookups use longest-prefix match so chapter-level entries can
// be overridden by more specific headings.
type RateTable map[string]float64

// DefaultRateTable covers the HSN chapters and SAC headings the system
// sees in practice. Rates follow the published CGST+SGST schedule.
var DefaultRateTable = RateTable{
	// Goods
	"01":   0,  // live animals
	"04":   5,  // dairy
	"0402": 18, // sweetened/concentrated milk
	"10":   0,  // cereals, unbranded
	"1006": 5,  // rice, branded
	"17":   5,  // sugars
	"1704": 18, // sugar confectionery
	"30":   12, // pharmaceuticals
	"39":   18, // plastics
	"48":   12, // paper
	"4817": 18, // envelopes, stationery
	"61":   5,  // apparel below threshold
	"64":   18, // footwear
	"72":   18, // iron and steel
	"84":   18, // machinery
	"8415": 28, // air conditioners
	"85":   18, // electrical machinery
	"8507": 28, // accumulators
	"87":   28, // vehicles
	"94":   18, // furniture
	// Services
	"9954": 18, // construction
	"9961": 18, // wholesale trade services
	"9963": 5,  // restaurant services
	"9983": 18, // professional/technical services
	"9984": 18, // telecom
	"9987": 18, // maintenance and repair
	"9992": 18, // education services (commercial)
	"9997": 18, // other services
}

// HSNResult is the rate lookup outcome for one code.
type HSNResult struct {
	Code         string
	Known        bool
	ExpectedRate float64
	RateMatches  bool
}

// CheckHSNRate resolves the expected rate for an HSN/SAC code and
// compares it with the billed rate. An unknown code is reported as its
// own kind of fail, distinct from a rate mismatch.
func CheckHSNRate(table RateTable, code string, billedRate float64) HSNResult {
	code = strings.TrimSpace(code)
	res := HSNResult{Code: code}

	if code == "" {
		return res
	}
	for l := len(code); l >= 2; l-- {
		if rate, ok := table[code[:l]]; ok {
			res.Known = true
			res.ExpectedRate = rate
			res.RateMatches = rate == billedRate
			return res
		}
	}
	return res
}
