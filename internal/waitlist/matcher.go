package waitlist

// MatchSlot picks the best candidate for a freed slot: the entry with
// the highest PriorityScore. Ties go to the entry that appears first
// in the list. An empty list yields no match, which is a normal
// outcome rather than an error.
//
// slotTime is accepted so callers can pass the freed slot's time; day
// availability filtering will hang off it once AvailableDays carries
// structured data.
func MatchSlot(slotTime string, entries []*Entry) (*Entry, bool) {
	if len(entries) == 0 {
		return nil, false
	}

	best := entries[0]
	for _, e := range entries[1:] {
		if e.PriorityScore > best.PriorityScore {
			best = e
		}
	}
	return best, true
}
