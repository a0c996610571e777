package app

import (
	"regexp"
	"strings"
	"unicode"

	"tripbook/internal/domain"
)

type cityCode struct {
	City string
	Code string
}

// cityTable is scanned in order by ExtractCityFromPackageName, so an earlier
// entry wins when several city names occur in one title.
var cityTable = []cityCode{
	{"Kodaikanal", "MAA"},
	{"Kullu", "KUU"},
	{"Kumarakom", "COK"},
	{"Kuta", "DPS"},
	{"Manali", "KUU"},
	{"Meghalaya", "SHL"},
	{"Munnar", "COK"},
	{"Mysore", "MYQ"},
	{"Neil Island", "IXZ"},
	{"Ooty", "CJB"},
	{"Pahalgam", "SXR"},
	{"Port Blair", "IXZ"},
	{"Seminyak", "DPS"},
	{"Shillong", "SHL"},
	{"Shimla", "SLV"},
	{"Sikkim", "PYG"},
	{"Siliguri", "IXB"},
	{"Srinagar", "SXR"},
	{"Ubud", "DPS"},
	{"Varkala", "TRV"},
	{"Agra", "AGR"},
	{"Alleppey", "COK"},
	{"Andaman", "IXZ"},
	{"Bali", "DPS"},
	{"Chandigarh", "IXC"},
	{"Cherrapunjee", "SHL"},
	{"Coimbatore", "CJB"},
	{"Coonoor", "CJB"},
	{"Coorg", "IXM"},
	{"Darjeeling", "IXB"},
	{"Delhi", "DEL"},
	{"Dwaki", "SHL"},
	{"Gangtok", "PYG"},
	{"Goa", "GOX"},
	{"Havelock", "IXZ"},
	{"Himachal", "KUU"},
	{"Kashmir", "SXR"},
	{"Kasol", "KUU"},
	{"Kaziranga", "JRH"},
	{"Kochi", "COK"},
	{"Wayanad", "CCJ"},
	{"Kerala", "COK"},
	{"Bangkok", "BKK"},
	{"Singapore", "SIN"},
}

var cityIndex = func() map[string]string {
	m := make(map[string]string, len(cityTable))
	for _, c := range cityTable {
		m[c.City] = c.Code
	}
	return m
}()

var inCityRe = regexp.MustCompile(`in ([A-Za-z ]+)`)

// CityToIATA maps a city name to its nearest airport code. Input is trimmed
// and title-cased before lookup; unknown cities yield "".
func CityToIATA(city string) string {
	return cityIndex[titleCase(strings.TrimSpace(city))]
}

// ExtractCityFromPackageName guesses the city a package is about from its
// title, then its destination names, then an "in <City>" phrase.
func ExtractCityFromPackageName(name string, pkg domain.Package) string {
	if c := findCity(name); c != "" {
		return c
	}
	if c := findCity(pkg.DestinationName); c != "" {
		return c
	}
	if m := inCityRe.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func findCity(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, c := range cityTable {
		if strings.Contains(lower, strings.ToLower(c.City)) {
			return c.City
		}
	}
	return ""
}

// titleCase upper-cases the first letter of every letter run and lower-cases
// the rest ("neil island" -> "Neil Island").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
