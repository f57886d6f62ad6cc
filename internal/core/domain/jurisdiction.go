package domain

import (
	"regexp"
	"sort"
	"strings"
)

// courtSet holds the court codes for one state, split by court system.
// State courts are the supreme and intermediate appellate courts;
// federal courts are the circuit plus the district and bankruptcy
// courts sitting in the state.
type courtSet struct {
	State   []string
	Federal []string
}

// All returns state courts followed by federal courts.
func (c courtSet) All() []string {
	out := make([]string, 0, len(c.State)+len(c.Federal))
	out = append(out, c.State...)
	out = append(out, c.Federal...)
	return out
}

var stateCourts = map[string]courtSet{
	"alabama":        {State: []string{"ala", "alactapp", "alacrimapp"}, Federal: []string{"ca11", "almd", "alnd", "alsd", "almb", "alnb", "alsb"}},
	"alaska":         {State: []string{"alaska", "alaskactapp"}, Federal: []string{"ca9", "akd", "akb"}},
	"arizona":        {State: []string{"ariz", "arizctapp"}, Federal: []string{"ca9", "azd", "azb"}},
	"arkansas":       {State: []string{"ark", "arkctapp"}, Federal: []string{"ca8", "ared", "arwd", "areb", "arwb"}},
	"california":     {State: []string{"cal", "calctapp", "calappdeptsuper"}, Federal: []string{"ca9", "cacd", "caed", "cand", "casd", "californiad", "cacb", "caeb", "canb", "casb"}},
	"colorado":       {State: []string{"colo", "coloctapp"}, Federal: []string{"ca10", "cod", "cob"}},
	"connecticut":    {State: []string{"conn", "connappct"}, Federal: []string{"ca2", "ctd", "ctb"}},
	"delaware":       {State: []string{"del"}, Federal: []string{"ca3", "ded", "deb"}},
	"florida":        {State: []string{"fla", "flactapp"}, Federal: []string{"ca11", "flmd", "flnd", "flsd", "flmb", "flnb", "flsb"}},
	"georgia":        {State: []string{"ga", "gactapp"}, Federal: []string{"ca11", "gamd", "gand", "gasd", "gamb", "ganb", "gasb"}},
	"hawaii":         {State: []string{"haw", "hawctapp"}, Federal: []string{"ca9", "hid", "hib"}},
	"idaho":          {State: []string{"idaho", "idahoctapp"}, Federal: []string{"ca9", "idd", "idb"}},
	"illinois":       {State: []string{"ill", "illappct"}, Federal: []string{"ca7", "ilcd", "ilnd", "ilsd", "ilcb", "ilnb", "ilsb"}},
	"indiana":        {State: []string{"ind", "indctapp"}, Federal: []string{"ca7", "innd", "insd", "innb", "insb"}},
	"iowa":           {State: []string{"iowa", "iowactapp"}, Federal: []string{"ca8", "iand", "iasd", "ianb", "iasb"}},
	"kansas":         {State: []string{"kan", "kanctapp"}, Federal: []string{"ca10", "ksd", "ksb"}},
	"kentucky":       {State: []string{"ky", "kyctapp"}, Federal: []string{"ca6", "kyed", "kywd", "kyeb", "kywb"}},
	"louisiana":      {State: []string{"la", "lactapp"}, Federal: []string{"ca5", "laed", "lamd", "lawd", "laeb", "lamb", "lawb"}},
	"maine":          {State: []string{"me"}, Federal: []string{"ca1", "med", "meb"}},
	"maryland":       {State: []string{"md", "mdctspecapp"}, Federal: []string{"ca4", "mdd", "mdb"}},
	"massachusetts":  {State: []string{"mass", "massappct"}, Federal: []string{"ca1", "mad", "mab"}},
	"michigan":       {State: []string{"mich", "michctapp"}, Federal: []string{"ca6", "mied", "miwd", "mieb", "miwb"}},
	"minnesota":      {State: []string{"minn", "minnctapp"}, Federal: []string{"ca8", "mnd", "mnb"}},
	"mississippi":    {State: []string{"miss", "missctapp"}, Federal: []string{"ca5", "msnd", "mssd", "msnb", "mssb"}},
	"missouri":       {State: []string{"mo", "moctapp"}, Federal: []string{"ca8", "moed", "mowd", "moeb", "mowb"}},
	"montana":        {State: []string{"mont"}, Federal: []string{"ca9", "mtd", "mtb"}},
	"nebraska":       {State: []string{"neb", "nebctapp"}, Federal: []string{"ca8", "ned", "nebraskab"}},
	"nevada":         {State: []string{"nev", "nevapp"}, Federal: []string{"ca9", "nvd", "nvb"}},
	"new hampshire":  {State: []string{"nh"}, Federal: []string{"ca1", "nhd", "nhb"}},
	"new jersey":     {State: []string{"nj", "njsuperctappdiv"}, Federal: []string{"ca3", "njd", "njb"}},
	"new mexico":     {State: []string{"nm", "nmctapp"}, Federal: []string{"ca10", "nmd", "nmb"}},
	"new york":       {State: []string{"ny", "nyappdiv", "nyappterm"}, Federal: []string{"ca2", "nyed", "nynd", "nysd", "nywd", "nyeb", "nynb", "nysb", "nywb"}},
	"north carolina": {State: []string{"nc", "ncctapp"}, Federal: []string{"ca4", "nced", "ncmd", "ncwd", "nceb", "ncmb", "ncwb"}},
	"north dakota":   {State: []string{"nd", "ndctapp"}, Federal: []string{"ca8", "ndd", "ndb"}},
	"ohio":           {State: []string{"ohio", "ohioctapp"}, Federal: []string{"ca6", "ohnd", "ohsd", "ohnb", "ohsb"}},
	"oklahoma":       {State: []string{"okla", "oklacivapp", "oklacrimapp"}, Federal: []string{"ca10", "oked", "oknd", "okwd", "okeb", "oknb", "okwb"}},
	"oregon":         {State: []string{"or", "orctapp"}, Federal: []string{"ca9", "ord", "orb"}},
	"pennsylvania":   {State: []string{"pa", "pasuperct", "pacommwct"}, Federal: []string{"ca3", "paed", "pamd", "pawd", "paeb", "pamb", "pawb"}},
	"rhode island":   {State: []string{"ri"}, Federal: []string{"ca1", "rid", "rib"}},
	"south carolina": {State: []string{"sc", "scctapp"}, Federal: []string{"ca4", "scd", "scb"}},
	"south dakota":   {State: []string{"sd"}, Federal: []string{"ca8", "sdd", "sdb"}},
	"tennessee":      {State: []string{"tenn", "tennctapp", "tenncrimapp"}, Federal: []string{"ca6", "tned", "tnmd", "tnwd", "tneb", "tnmb", "tnwb"}},
	"texas":          {State: []string{"tex", "texcrimapp", "texapp"}, Federal: []string{"ca5", "txed", "txnd", "txsd", "txwd", "txeb", "txnb", "txsb", "txwb"}},
	"utah":           {State: []string{"utah", "utahctapp"}, Federal: []string{"ca10", "utd", "utb"}},
	"vermont":        {State: []string{"vt"}, Federal: []string{"ca2", "vtd", "vtb"}},
	"virginia":       {State: []string{"va", "vactapp"}, Federal: []string{"ca4", "vaed", "vawd", "vaeb", "vawb"}},
	"washington":     {State: []string{"wash", "washctapp"}, Federal: []string{"ca9", "waed", "wawd", "waeb", "wawb"}},
	"west virginia":  {State: []string{"wva"}, Federal: []string{"ca4", "wvnd", "wvsd", "wvnb", "wvsb"}},
	"wisconsin":      {State: []string{"wis", "wisctapp"}, Federal: []string{"ca7", "wied", "wiwd", "wieb", "wiwb"}},
	"wyoming":        {State: []string{"wyo"}, Federal: []string{"ca10", "wyd", "wyb"}},
}

// stateAbbrev maps postal abbreviations and common short forms to the
// canonical state name used in stateCourts.
var stateAbbrev = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "calif": "california", "co": "colorado",
	"ct": "connecticut", "de": "delaware", "fl": "florida", "fla": "florida",
	"ga": "georgia", "hi": "hawaii", "id": "idaho", "il": "illinois",
	"in": "indiana", "ia": "iowa", "ks": "kansas", "ky": "kentucky",
	"la": "louisiana", "me": "maine", "md": "maryland", "ma": "massachusetts",
	"mi": "michigan", "mn": "minnesota", "ms": "mississippi", "mo": "missouri",
	"mt": "montana", "ne": "nebraska", "nv": "nevada", "nh": "new hampshire",
	"nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio",
	"ok": "oklahoma", "or": "oregon", "pa": "pennsylvania", "penn": "pennsylvania",
	"ri": "rhode island", "sc": "south carolina", "sd": "south dakota",
	"tn": "tennessee", "tx": "texas", "ut": "utah", "vt": "vermont",
	"va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming",
}

// supremeCodeToState expands a bare state supreme court code to its full
// state jurisdiction, so "ind" selects every Indiana court rather than
// just the supreme court.
var supremeCodeToState = map[string]string{
	"ala": "alabama", "alaska": "alaska", "ariz": "arizona", "ark": "arkansas",
	"cal": "california", "colo": "colorado", "conn": "connecticut", "del": "delaware",
	"fla": "florida", "ga": "georgia", "haw": "hawaii", "idaho": "idaho",
	"ill": "illinois", "ind": "indiana", "iowa": "iowa", "kan": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"mass": "massachusetts", "mich": "michigan", "minn": "minnesota", "miss": "mississippi",
	"mo": "missouri", "mont": "montana", "neb": "nebraska", "nev": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "ohio": "ohio", "okla": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tenn": "tennessee", "tex": "texas", "utah": "utah",
	"vt": "vermont", "va": "virginia", "wash": "washington", "wva": "west virginia",
	"wis": "wisconsin", "wyo": "wyoming",
}

var federalCircuits = map[string][]string{
	"first circuit": {"ca1"}, "1st circuit": {"ca1"},
	"second circuit": {"ca2"}, "2nd circuit": {"ca2"},
	"third circuit": {"ca3"}, "3rd circuit": {"ca3"},
	"fourth circuit": {"ca4"}, "4th circuit": {"ca4"},
	"fifth circuit": {"ca5"}, "5th circuit": {"ca5"},
	"sixth circuit": {"ca6"}, "6th circuit": {"ca6"},
	"seventh circuit": {"ca7"}, "7th circuit": {"ca7"},
	"eighth circuit": {"ca8"}, "8th circuit": {"ca8"},
	"ninth circuit": {"ca9"}, "9th circuit": {"ca9"},
	"tenth circuit": {"ca10"}, "10th circuit": {"ca10"},
	"eleventh circuit": {"ca11"}, "11th circuit": {"ca11"},
	"dc circuit": {"cadc"}, "d.c. circuit": {"cadc"},
	"federal circuit": {"cafc"},
}

var allFederal = []string{"scotus", "ca1", "ca2", "ca3", "ca4", "ca5", "ca6", "ca7", "ca8", "ca9", "ca10", "ca11", "cadc", "cafc"}

// FederalCourt is one entry in the federal appellate reference table.
type FederalCourt struct {
	Code string
	Name string
}

// FederalAppellateCourts lists the federal appellate bench in display
// order for the jurisdiction listing surface.
var FederalAppellateCourts = []FederalCourt{
	{"scotus", "Supreme Court of the United States"},
	{"ca1", "First Circuit Court of Appeals"},
	{"ca2", "Second Circuit Court of Appeals"},
	{"ca3", "Third Circuit Court of Appeals"},
	{"ca4", "Fourth Circuit Court of Appeals"},
	{"ca5", "Fifth Circuit Court of Appeals"},
	{"ca6", "Sixth Circuit Court of Appeals"},
	{"ca7", "Seventh Circuit Court of Appeals"},
	{"ca8", "Eighth Circuit Court of Appeals"},
	{"ca9", "Ninth Circuit Court of Appeals"},
	{"ca10", "Tenth Circuit Court of Appeals"},
	{"ca11", "Eleventh Circuit Court of Appeals"},
	{"cadc", "D.C. Circuit Court of Appeals"},
	{"cafc", "Federal Circuit Court of Appeals"},
}

// SupremeCourtDisplayNames maps each state supreme court code to a
// display name for the jurisdiction listing surface.
var SupremeCourtDisplayNames = map[string]string{
	"ala": "Supreme Court of Alabama", "alaska": "Alaska Supreme Court",
	"ariz": "Arizona Supreme Court", "ark": "Arkansas Supreme Court",
	"cal": "California Supreme Court", "colo": "Colorado Supreme Court",
	"conn": "Connecticut Supreme Court", "del": "Delaware Supreme Court",
	"fla": "Supreme Court of Florida", "ga": "Supreme Court of Georgia",
	"haw": "Hawaii Supreme Court", "idaho": "Idaho Supreme Court",
	"ill": "Illinois Supreme Court", "ind": "Indiana Supreme Court",
	"iowa": "Iowa Supreme Court", "kan": "Kansas Supreme Court",
	"ky": "Kentucky Supreme Court", "la": "Louisiana Supreme Court",
	"me": "Maine Supreme Judicial Court", "md": "Maryland Supreme Court",
	"mass": "Massachusetts Supreme Judicial Court", "mich": "Michigan Supreme Court",
	"minn": "Minnesota Supreme Court", "miss": "Mississippi Supreme Court",
	"mo": "Supreme Court of Missouri", "mont": "Montana Supreme Court",
	"neb": "Nebraska Supreme Court", "nev": "Nevada Supreme Court",
	"nh": "New Hampshire Supreme Court", "nj": "New Jersey Supreme Court",
	"nm": "New Mexico Supreme Court", "ny": "New York Court of Appeals",
	"nc": "North Carolina Supreme Court", "nd": "North Dakota Supreme Court",
	"ohio": "Ohio Supreme Court", "okla": "Oklahoma Supreme Court",
	"or": "Oregon Supreme Court", "pa": "Pennsylvania Supreme Court",
	"ri": "Rhode Island Supreme Court", "sc": "South Carolina Supreme Court",
	"sd": "South Dakota Supreme Court", "tenn": "Tennessee Supreme Court",
	"tex": "Supreme Court of Texas", "utah": "Utah Supreme Court",
	"vt": "Vermont Supreme Court", "va": "Supreme Court of Virginia",
	"wash": "Washington Supreme Court", "wva": "West Virginia Supreme Court",
	"wis": "Wisconsin Supreme Court", "wyo": "Wyoming Supreme Court",
}

// validCourtCodes is the set of every code the mapping tables can emit,
// used to pass through inputs that are already bare court codes.
var validCourtCodes = buildValidCodes()

func buildValidCodes() map[string]bool {
	codes := make(map[string]bool)
	for _, set := range stateCourts {
		for _, c := range set.All() {
			codes[c] = true
		}
	}
	for _, cs := range federalCircuits {
		for _, c := range cs {
			codes[c] = true
		}
	}
	for _, c := range allFederal {
		codes[c] = true
	}
	return codes
}

var (
	stateOfPattern       = regexp.MustCompile(`state\s+of\s+(\w+(?:\s+\w+)?)`)
	federalInPattern     = regexp.MustCompile(`federal\s+courts?\s+in\s+(\w+(?:\s+\w+)?)`)
	stateFederalPattern  = regexp.MustCompile(`(\w+(?:\s+\w+)?)\s+federal\s+courts?`)
	jurisdictionNoise    = regexp.MustCompile(`\b(courts?|the|in|of)\b`)
	jurisdictionSpaceRun = regexp.MustCompile(`\s+`)
)

// MapJurisdiction resolves a natural-language jurisdiction mention to
// the matching court codes. Recognized forms include state names and
// postal abbreviations ("california", "NY"), state, federal, or supreme
// scoping ("texas state", "texas federal", "texas supreme", "federal
// courts in texas"), circuit names, "supreme court", the aggregate
// "federal", and bare court
// codes. Unrecognized input returns nil: the search runs unfiltered
// rather than failing the turn.
func MapJurisdiction(input string) []string {
	raw := strings.ToLower(strings.TrimSpace(input))
	if raw == "" {
		return nil
	}

	if codes := lookupJurisdiction(raw); codes != nil {
		return codes
	}
	if norm := normalizeJurisdiction(raw); norm != raw {
		if codes := lookupJurisdiction(norm); codes != nil {
			return codes
		}
	}

	// A bare state supreme court code selects the whole state.
	if state, ok := supremeCodeToState[raw]; ok {
		return stateCourts[state].All()
	}

	// Pass through inputs that are already valid court codes.
	fields := strings.Fields(raw)
	if len(fields) > 0 {
		for _, f := range fields {
			if !validCourtCodes[f] {
				return nil
			}
		}
		return fields
	}
	return nil
}

func lookupJurisdiction(key string) []string {
	switch key {
	case "supreme court", "us supreme court", "united states supreme court", "scotus":
		return []string{"scotus"}
	case "federal", "all federal":
		return append([]string(nil), allFederal...)
	case "federal appellate":
		return append([]string(nil), allFederal[1:]...)
	case "district of columbia", "washington dc", "d.c.", "dc":
		return []string{"dc", "cadc", "dcd"}
	case "nyc":
		return []string{"ny", "nyappdiv", "ca2", "nysd", "nyed", "nysb", "nyeb"}
	}

	if codes, ok := federalCircuits[key]; ok {
		return append([]string(nil), codes...)
	}

	name, scope := splitScope(key)
	if full, ok := stateAbbrev[name]; ok {
		name = full
	}
	set, ok := stateCourts[name]
	if !ok {
		return nil
	}
	switch scope {
	case "state":
		return append([]string(nil), set.State...)
	case "federal":
		return append([]string(nil), set.Federal...)
	case "supreme":
		// The court of last resort is listed first in each state set.
		return []string{set.State[0]}
	default:
		return set.All()
	}
}

// splitScope peels a trailing "state", "federal", or "supreme" scope
// word off a jurisdiction phrase.
func splitScope(key string) (name, scope string) {
	if s := strings.TrimSuffix(key, " state"); s != key {
		return s, "state"
	}
	if s := strings.TrimSuffix(key, " federal"); s != key {
		return s, "federal"
	}
	if s := strings.TrimSuffix(key, " supreme"); s != key {
		return s, "supreme"
	}
	return key, ""
}

func normalizeJurisdiction(raw string) string {
	norm := raw
	if m := stateOfPattern.FindStringSubmatch(norm); m != nil {
		norm = m[1]
	}
	if m := federalInPattern.FindStringSubmatch(norm); m != nil {
		norm = m[1] + " federal"
	}
	if m := stateFederalPattern.FindStringSubmatch(norm); m != nil {
		norm = m[1] + " federal"
	}
	norm = jurisdictionNoise.ReplaceAllString(norm, " ")
	norm = jurisdictionSpaceRun.ReplaceAllString(norm, " ")
	return strings.TrimSpace(norm)
}

// StateNames returns the canonical state names in sorted order for the
// jurisdiction listing surface.
func StateNames() []string {
	names := make([]string, 0, len(stateCourts))
	for name := range stateCourts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
