// Package zones maps a region (US state code) to the NWS public forecast
// zones that must be polled to cover its major metro areas. Loaded once at
// process start and immutable afterward.
package zones

import "sort"

// directory lists the forecast zones per covered state. An unconfigured
// region is a valid state meaning "skip region", not an error.
var directory = map[string][]string{
	"TX": {"TXZ104", "TXZ119", "TXZ120", "TXZ159", "TXZ192", "TXZ211", "TXZ213", "TXZ226"},
	"OK": {"OKZ012", "OKZ025", "OKZ026", "OKZ045", "OKZ055", "OKZ060"},
	"KS": {"KSZ023", "KSZ032", "KSZ057", "KSZ083", "KSZ091", "KSZ103"},
	"CO": {"COZ035", "COZ039", "COZ040", "COZ041", "COZ043", "COZ094"},
	"NE": {"NEZ011", "NEZ043", "NEZ050", "NEZ052", "NEZ066", "NEZ078"},
	"MO": {"MOZ028", "MOZ037", "MOZ046", "MOZ061", "MOZ075", "MOZ101"},
	"MN": {"MNZ044", "MNZ050", "MNZ060", "MNZ061", "MNZ069", "MNZ070"},
	"IA": {"IAZ023", "IAZ038", "IAZ048", "IAZ060", "IAZ077", "IAZ089"},
	"IL": {"ILZ003", "ILZ013", "ILZ014", "ILZ038", "ILZ051", "ILZ066"},
	"GA": {"GAZ021", "GAZ032", "GAZ033", "GAZ044", "GAZ057", "GAZ101"},
	"FL": {"FLZ050", "FLZ052", "FLZ061", "FLZ068", "FLZ072", "FLZ073", "FLZ172"},
	"LA": {"LAZ037", "LAZ038", "LAZ039", "LAZ057", "LAZ064", "LAZ070"},
	"AL": {"ALZ006", "ALZ019", "ALZ023", "ALZ037", "ALZ045", "ALZ051"},
	"MS": {"MSZ018", "MSZ025", "MSZ035", "MSZ048", "MSZ059", "MSZ072"},
	"TN": {"TNZ005", "TNZ027", "TNZ056", "TNZ066", "TNZ075", "TNZ095"},
	"NC": {"NCZ021", "NCZ041", "NCZ056", "NCZ071", "NCZ088", "NCZ098"},
	"SC": {"SCZ016", "SCZ028", "SCZ040", "SCZ045", "SCZ050", "SCZ052"},
	"AR": {"ARZ012", "ARZ024", "ARZ032", "ARZ044", "ARZ055", "ARZ062"},
	"IN": {"INZ005", "INZ021", "INZ035", "INZ039", "INZ051", "INZ067"},
	"OH": {"OHZ011", "OHZ026", "OHZ045", "OHZ055", "OHZ063", "OHZ077"},
}

// ZonesFor returns the forecast zones configured for a region, or nil when
// the region is unconfigured.
func ZonesFor(region string) []string {
	zs, ok := directory[region]
	if !ok {
		return nil
	}
	out := make([]string, len(zs))
	copy(out, zs)
	return out
}

// Regions returns all configured regions in sorted order.
func Regions() []string {
	regions := make([]string, 0, len(directory))
	for r := range directory {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// Configured reports whether a region has at least one forecast zone.
func Configured(region string) bool {
	return len(directory[region]) > 0
}
