package analytics

// GuestSet is a set of guest ids.
type GuestSet map[string]struct{}

func (s GuestSet) add(ids []string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// TotalGuests counts unique guests across every completed match, all time.
func TotalGuests(matches []Match) int {
	set := GuestSet{}
	for _, m := range completedOnly(matches) {
		set.add(m.ParticipantIDs)
	}
	return len(set)
}

// PeriodGuestCounts splits the guests of completed matches into the current
// and previous periods by each match's effective time. A guest seen in both
// periods is in both sets.
func PeriodGuestCounts(matches []Match, w Window) (current, previous GuestSet) {
	current, previous = GuestSet{}, GuestSet{}
	for _, m := range completedOnly(matches) {
		switch w.Classify(m.EffectiveTime()) {
		case PeriodCurrent:
			current.add(m.ParticipantIDs)
		case PeriodPrevious:
			previous.add(m.ParticipantIDs)
		}
	}
	return current, previous
}

// GuestGrowth compares unique guests in the current period with the previous one.
func GuestGrowth(matches []Match, w Window) float64 {
	current, previous := PeriodGuestCounts(matches, w)
	return GrowthPercent(float64(len(current)), float64(len(previous)))
}

// RepeatVisitorRate is the whole-number percentage of unique guests with two or
// more completed matches.
func RepeatVisitorRate(matches []Match) float64 {
	visits := make(map[string]int)
	for _, m := range completedOnly(matches) {
		for _, id := range m.ParticipantIDs {
			visits[id]++
		}
	}
	if len(visits) == 0 {
		return 0
	}
	repeat := 0
	for _, n := range visits {
		if n >= 2 {
			repeat++
		}
	}
	return Round0(float64(repeat) / float64(len(visits)) * 100)
}
