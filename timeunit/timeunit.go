// Package timeunit holds the fixed table of chrono-style duration ratios
// shared by producer (which picks the coarsest exact ratio for a value so
// the wire count stays small) and consumer (which matches an encoded ratio
// back to a unit suffix for rendering).
package timeunit

// Ratio is one entry of the standard table: a value of Num/Den seconds per
// unit, with the suffix the consumer renders for an exact match.
type Ratio struct {
	Num    uint64
	Den    uint64
	Suffix string
}

// nanosPerUnit returns how many nanoseconds one unit of r represents, as a
// float64. The table's units range from attoseconds (1e-18 s, far below a
// nanosecond) to years (far above), so this is a ratio, not an integer
// count, at both extremes.
func (r Ratio) nanosPerUnit() float64 {
	return float64(r.Num) / float64(r.Den) * 1e9
}

// Standard is the fixed ratio table, ordered coarsest (exaseconds) to
// finest (attoseconds). It mirrors the full set of canonical SI prefixes
// (atto through exa) plus the chrono calendar periods
// (minutes/hours/days/weeks/months/years).
var Standard = []Ratio{
	{1_000_000_000_000_000_000, 1, "Es"},
	{1_000_000_000_000_000, 1, "Ps"},
	{1_000_000_000_000, 1, "Ts"},
	{1_000_000_000, 1, "Gs"},
	{31556952, 1, "y"},  // years (365.2425 days, chrono::years)
	{2629746, 1, "mo"},  // months (chrono::months, average Gregorian month)
	{1_000_000, 1, "Ms"},
	{604800, 1, "weeks"},
	{86400, 1, "d"},
	{3600, 1, "h"},
	{1_000, 1, "ks"},
	{100, 1, "hs"},
	{60, 1, "min"},
	{10, 1, "das"},
	{1, 1, "s"},
	{1, 10, "ds"},
	{1, 100, "cs"},
	{1, 1_000, "ms"},
	{1, 1_000_000, "us"},
	{1, 1_000_000_000, "ns"},
	{1, 1_000_000_000_000, "ps"},
	{1, 1_000_000_000_000_000, "fs"},
	{1, 1_000_000_000_000_000_000, "as"},
}

// Lookup finds the table entry whose (num, den) matches exactly, the ratio
// form in which a time tag's numerator/denominator are carried on the wire.
func Lookup(num, den uint64) (Ratio, bool) {
	for _, r := range Standard {
		if r.Num == num && r.Den == den {
			return r, true
		}
	}

	return Ratio{}, false
}

// PickForNanos chooses the coarsest standard ratio that divides nanos
// exactly, so the producer emits the smallest, most readable count. It
// falls back to nanoseconds (always exact for an int64 nanosecond count)
// if nothing coarser divides evenly.
func PickForNanos(nanos int64) (Ratio, int64) {
	abs := nanos
	if abs < 0 {
		abs = -abs
	}

	for _, r := range Standard {
		if r.Suffix == "ns" {
			break
		}
		per := r.nanosPerUnit()
		if per <= 0 {
			continue
		}
		count := float64(nanos) / per
		rounded := int64(count)
		if count == float64(rounded) {
			return r, rounded
		}
	}

	nsRatio, _ := Lookup(1, 1_000_000_000)
	return nsRatio, nanos
}
