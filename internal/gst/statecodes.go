package gst

import (
	"regexp"
	"strconv"
	"strings"
)

// stateCodes is the GST state/UT code table. Codes 25 and 28 are retained for
// historical vouchers (Daman and Diu before the 2020 merger, Andhra Pradesh
// before bifurcation). 96/97 are used by the e-invoice schema for exports and
// other territories.
var stateCodes = map[string]string{
	"01": "Jammu and Kashmir",
	"02": "Himachal Pradesh",
	"03": "Punjab",
	"04": "Chandigarh",
	"05": "Uttarakhand",
	"06": "Haryana",
	"07": "Delhi",
	"08": "Rajasthan",
	"09": "Uttar Pradesh",
	"10": "Bihar",
	"11": "Sikkim",
	"12": "Arunachal Pradesh",
	"13": "Nagaland",
	"14": "Manipur",
	"15": "Mizoram",
	"16": "Tripura",
	"17": "Meghalaya",
	"18": "Assam",
	"19": "West Bengal",
	"20": "Jharkhand",
	"21": "Odisha",
	"22": "Chhattisgarh",
	"23": "Madhya Pradesh",
	"24": "Gujarat",
	"25": "Daman and Diu",
	"26": "Dadra and Nagar Haveli and Daman and Diu",
	"27": "Maharashtra",
	"28": "Andhra Pradesh (Old)",
	"29": "Karnataka",
	"30": "Goa",
	"31": "Lakshadweep",
	"32": "Kerala",
	"33": "Tamil Nadu",
	"34": "Puducherry",
	"35": "Andaman and Nicobar Islands",
	"36": "Telangana",
	"37": "Andhra Pradesh",
	"38": "Ladakh",
	"96": "Other Country",
	"97": "Other Territory",
}

// stateAliases maps alternate spellings seen in voucher data to codes.
var stateAliases = map[string]string{
	"orissa":                 "21",
	"pondicherry":            "34",
	"uttaranchal":            "05",
	"new delhi":              "07",
	"nct of delhi":           "07",
	"jammu kashmir":          "01",
	"dadra and nagar haveli": "26",
	"andaman and nicobar":    "35",
	"andhra pradesh new":     "37",
	"andhra pradesh old":     "28",
	"foreign country":        "96",
	"other country":          "96",
	"dnh and dd":             "26",
}

var (
	stateByName   map[string]string
	statePrefixRe = regexp.MustCompile(`^(\d{1,2})\s*[-:]?\s*(.*)$`)
	nonAlphaRe    = regexp.MustCompile(`[^a-z0-9 ]+`)
	multiSpaceRe  = regexp.MustCompile(`\s+`)
)

func init() {
	stateByName = make(map[string]string, len(stateCodes)+len(stateAliases))
	for code, name := range stateCodes {
		stateByName[normalizeStateName(name)] = code
	}
	for alias, code := range stateAliases {
		stateByName[normalizeStateName(alias)] = code
	}
}

func normalizeStateName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonAlphaRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StateCode resolves a state given as a code ("27", "7"), a name
// ("Maharashtra"), or the portal form ("27-Maharashtra") to its 2-digit code.
func StateCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if m := statePrefixRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			code := strconv.Itoa(n)
			if n < 10 {
				code = "0" + code
			}
			if _, ok := stateCodes[code]; ok {
				return code, true
			}
		}
		return "", false
	}
	code, ok := stateByName[normalizeStateName(s)]
	return code, ok
}

// StateName returns the official name for a 2-digit state code.
func StateName(code string) (string, bool) {
	name, ok := stateCodes[code]
	return name, ok
}

// SameState compares two state references. Both are resolved through the
// code table when possible; otherwise a trimmed case-insensitive comparison
// is used. resolved is false when either side could not be mapped to a code.
func SameState(a, b string) (same, resolved bool) {
	ca, okA := StateCode(a)
	cb, okB := StateCode(b)
	if okA && okB {
		return ca == cb, true
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)), false
}
