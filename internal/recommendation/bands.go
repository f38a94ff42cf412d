package recommendation

// ageBand maps ages below an exclusive upper bound to a value. Band tables
// are ordered data evaluated first-match-wins so policy changes stay
// auditable without touching the orchestration logic.
type ageBand[T any] struct {
	// Below is the exclusive upper age bound. The final band in a table
	// uses noUpperBound to catch everything else.
	Below int
	Value T
}

// noUpperBound marks the catch-all band at the end of a table.
const noUpperBound = int(^uint(0) >> 1)

// lookup evaluates a band table in order and returns the first match.
// Tables must end with a noUpperBound band, so a match always exists.
func lookup[T any](bands []ageBand[T], age int) T {
	for _, b := range bands {
		if age < b.Below {
			return b.Value
		}
	}
	// Unreachable for well-formed tables; return the last value regardless.
	return bands[len(bands)-1].Value
}
