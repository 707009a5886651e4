// Package classify maps free-text product names to fixed commodity codes.
package classify

import "strings"

// DefaultCode is returned when no keyword matches the product name.
const DefaultCode = "0709999000"

type entry struct {
	keyword string
	code    string
}

// The table is a slice, not a map: first match wins, and declaration
// order is the only precedence there is. Keywords are lowercase stems so
// inflected forms match by containment.
var table = []entry{
	{"лук", "0703101900"},
	{"чеснок", "0703200000"},
	{"картофел", "0701905000"},
	{"морков", "0706100001"},
	{"свекл", "0706905000"},
	{"томат", "0702000007"},
	{"помидор", "0702000007"},
	{"огур", "0707000509"},
	{"перец", "0709601000"},
	{"капуст", "0704901000"},
	{"баклажан", "0709300000"},
	{"кабач", "0709999000"},
	{"яблок", "0808108010"},
	{"груш", "0808309000"},
	{"виноград", "0806101000"},
	{"абрикос", "0809100000"},
	{"персик", "0809302000"},
	{"слив", "0809400500"},
	{"черешн", "0809290000"},
	{"вишн", "0809210000"},
	{"клубник", "0810100000"},
	{"земляник", "0810100000"},
	{"малин", "0810209000"},
	{"арбуз", "0807110000"},
	{"дын", "0807190000"},
	{"гранат", "0810907500"},
	{"хурм", "0810907000"},
	{"орех", "0802310000"},
	{"лимон", "0805501000"},
	{"апельсин", "0805102200"},
	{"мандарин", "0805210000"},
}

// Detect returns the commodity code for a product name. Deterministic,
// always returns a value: unknown products get DefaultCode.
func Detect(productName string) string {
	lowered := strings.ToLower(productName)
	for _, e := range table {
		if strings.Contains(lowered, e.keyword) {
			return e.code
		}
	}
	return DefaultCode
}
