// Package country normalizes free-text country names to ISO2 codes. One
// table maps aliases and canonical names straight to codes; input is folded
// (case, diacritics, apostrophe variants) before lookup so punctuation
// variants and accented spellings resolve without a second table.
package country

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// aliases maps common synonyms and constituent-region names to their
// sovereign ISO2 code. Keys are pre-folded.
var aliases = map[string]string{
	"uk":            "GB",
	"great britain": "GB",
	"england":       "GB",
	"scotland":      "GB",
	"wales":         "GB",
	"northern ireland": "GB",
	"us":     "US",
	"u.s.":   "US",
	"usa":    "US",
	"u.s.a.": "US",
	"united states of america": "US",
	"russia":         "RU",
	"czech republic": "CZ",
	"ivory coast":    "CI",
	"south korea":    "KR",
	"korea":          "KR",
	"north korea":    "KP",
	"swaziland":      "SZ",
	"cape verde":     "CV",
	"macedonia":      "MK",
	"holland":        "NL",
	"burma":          "MM",
	"east timor":     "TL",
	"vatican":        "VA",
	"vatican city":   "VA",
	"congo":          "CG",
	"democratic republic of the congo": "CD",
	"drc": "CD",
}

// names maps canonical and commonly written country names to ISO2 codes.
// Keys are pre-folded; long-form UN names and short forms both appear.
var names = map[string]string{
	"afghanistan":         "AF",
	"albania":             "AL",
	"algeria":             "DZ",
	"andorra":             "AD",
	"angola":              "AO",
	"antigua and barbuda": "AG",
	"argentina":           "AR",
	"armenia":             "AM",
	"australia":           "AU",
	"austria":             "AT",
	"azerbaijan":          "AZ",
	"bahamas":             "BS",
	"bahrain":             "BH",
	"bangladesh":          "BD",
	"barbados":            "BB",
	"belarus":             "BY",
	"belgium":             "BE",
	"belize":              "BZ",
	"benin":               "BJ",
	"bhutan":              "BT",
	"bolivia":             "BO",
	"bolivia, plurinational state of": "BO",
	"bosnia and herzegovina":          "BA",
	"botswana":                        "BW",
	"brazil":                          "BR",
	"brunei":                          "BN",
	"brunei darussalam":               "BN",
	"bulgaria":                        "BG",
	"burkina faso":                    "BF",
	"burundi":                         "BI",
	"cabo verde":                      "CV",
	"cambodia":                        "KH",
	"cameroon":                        "CM",
	"canada":                          "CA",
	"central african republic":        "CF",
	"chad":                            "TD",
	"chile":                           "CL",
	"china":                           "CN",
	"colombia":                        "CO",
	"comoros":                         "KM",
	"congo, the democratic republic of the": "CD",
	"costa rica":     "CR",
	"cote d'ivoire":  "CI",
	"croatia":        "HR",
	"cuba":           "CU",
	"cyprus":         "CY",
	"czechia":        "CZ",
	"denmark":        "DK",
	"djibouti":       "DJ",
	"dominica":       "DM",
	"dominican republic": "DO",
	"ecuador":            "EC",
	"egypt":              "EG",
	"el salvador":        "SV",
	"equatorial guinea":  "GQ",
	"eritrea":            "ER",
	"estonia":            "EE",
	"eswatini":           "SZ",
	"ethiopia":           "ET",
	"fiji":               "FJ",
	"finland":            "FI",
	"france":             "FR",
	"gabon":              "GA",
	"gambia":             "GM",
	"georgia":            "GE",
	"germany":            "DE",
	"ghana":              "GH",
	"greece":             "GR",
	"greenland":          "GL",
	"grenada":            "GD",
	"guatemala":          "GT",
	"guinea":             "GN",
	"guinea-bissau":      "GW",
	"guyana":             "GY",
	"haiti":              "HT",
	"honduras":           "HN",
	"hong kong":          "HK",
	"hungary":            "HU",
	"iceland":            "IS",
	"india":              "IN",
	"indonesia":          "ID",
	"iran":               "IR",
	"iran, islamic republic of": "IR",
	"iraq":                      "IQ",
	"ireland":                   "IE",
	"israel":                    "IL",
	"italy":                     "IT",
	"jamaica":                   "JM",
	"japan":                     "JP",
	"jordan":                    "JO",
	"kazakhstan":                "KZ",
	"kenya":                     "KE",
	"kiribati":                  "KI",
	"korea, democratic people's republic of": "KP",
	"korea, republic of":                     "KR",
	"kosovo":                                 "XK",
	"kuwait":                                 "KW",
	"kyrgyzstan":                             "KG",
	"lao people's democratic republic":       "LA",
	"laos":                                   "LA",
	"latvia":                                 "LV",
	"lebanon":                                "LB",
	"lesotho":                                "LS",
	"liberia":                                "LR",
	"libya":                                  "LY",
	"liechtenstein":                          "LI",
	"lithuania":                              "LT",
	"luxembourg":                             "LU",
	"madagascar":                             "MG",
	"malawi":                                 "MW",
	"malaysia":                               "MY",
	"maldives":                               "MV",
	"mali":                                   "ML",
	"malta":                                  "MT",
	"marshall islands":                       "MH",
	"mauritania":                             "MR",
	"mauritius":                              "MU",
	"mexico":                                 "MX",
	"micronesia":                             "FM",
	"moldova":                                "MD",
	"moldova, republic of":                   "MD",
	"monaco":                                 "MC",
	"mongolia":                               "MN",
	"montenegro":                             "ME",
	"morocco":                                "MA",
	"mozambique":                             "MZ",
	"myanmar":                                "MM",
	"namibia":                                "NA",
	"nauru":                                  "NR",
	"nepal":                                  "NP",
	"netherlands":                            "NL",
	"new zealand":                            "NZ",
	"nicaragua":                              "NI",
	"niger":                                  "NE",
	"nigeria":                                "NG",
	"north macedonia":                        "MK",
	"norway":                                 "NO",
	"oman":                                   "OM",
	"pakistan":                               "PK",
	"palau":                                  "PW",
	"palestine":                              "PS",
	"palestine, state of":                    "PS",
	"panama":                                 "PA",
	"papua new guinea":                       "PG",
	"paraguay":                               "PY",
	"peru":                                   "PE",
	"philippines":                            "PH",
	"poland":                                 "PL",
	"portugal":                               "PT",
	"puerto rico":                            "PR",
	"qatar":                                  "QA",
	"romania":                                "RO",
	"russian federation":                     "RU",
	"rwanda":                                 "RW",
	"saint kitts and nevis":                  "KN",
	"saint lucia":                            "LC",
	"saint vincent and the grenadines":       "VC",
	"samoa":                                  "WS",
	"san marino":                             "SM",
	"sao tome and principe":                  "ST",
	"saudi arabia":                           "SA",
	"senegal":                                "SN",
	"serbia":                                 "RS",
	"seychelles":                             "SC",
	"sierra leone":                           "SL",
	"singapore":                              "SG",
	"slovakia":                               "SK",
	"slovenia":                               "SI",
	"solomon islands":                        "SB",
	"somalia":                                "SO",
	"south africa":                           "ZA",
	"south sudan":                            "SS",
	"spain":                                  "ES",
	"sri lanka":                              "LK",
	"sudan":                                  "SD",
	"suriname":                               "SR",
	"sweden":                                 "SE",
	"switzerland":                            "CH",
	"syria":                                  "SY",
	"syrian arab republic":                   "SY",
	"taiwan":                                 "TW",
	"tajikistan":                             "TJ",
	"tanzania":                               "TZ",
	"tanzania, united republic of":           "TZ",
	"thailand":                               "TH",
	"timor-leste":                            "TL",
	"togo":                                   "TG",
	"tonga":                                  "TO",
	"trinidad and tobago":                    "TT",
	"tunisia":                                "TN",
	"turkey":                                 "TR",
	"turkiye":                                "TR",
	"turkmenistan":                           "TM",
	"tuvalu":                                 "TV",
	"uganda":                                 "UG",
	"ukraine":                                "UA",
	"united arab emirates":                   "AE",
	"united kingdom":                         "GB",
	"united states":                          "US",
	"uruguay":                                "UY",
	"uzbekistan":                             "UZ",
	"vanuatu":                                "VU",
	"venezuela":                              "VE",
	"venezuela, bolivarian republic of":      "VE",
	"viet nam":                               "VN",
	"vietnam":                                "VN",
	"yemen":                                  "YE",
	"zambia":                                 "ZM",
	"zimbabwe":                               "ZW",
}

// codes is the set of ISO2 codes this table can emit, so bare codes pass
// through unchanged.
var codes = func() map[string]bool {
	set := make(map[string]bool, len(names))
	for _, cc := range names {
		set[cc] = true
	}
	for _, cc := range aliases {
		set[cc] = true
	}
	return set
}()

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases, trims, drops diacritics, and canonicalizes apostrophes so
// spelling variants hit the same table key.
func fold(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.NewReplacer("’", "'", "`", "'", "´", "'").Replace(s)
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}

// ToISO2 resolves a free-text country name to an ISO2 code. ISO2 codes pass
// through. Returns ok=false for empty or unresolvable names.
func ToISO2(name string) (string, bool) {
	s := fold(name)
	if s == "" {
		return "", false
	}
	if cc, ok := aliases[s]; ok {
		return cc, true
	}
	if cc, ok := names[s]; ok {
		return cc, true
	}
	if len(s) == 2 {
		cc := strings.ToUpper(s)
		if codes[cc] {
			return cc, true
		}
	}
	return "", false
}
