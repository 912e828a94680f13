package fixeddeposit

import "github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/model"

// matchRedemptions maps constitution IDs to the redemption that closed them.
// Both slices must be in chronological order.
//
// A redemption carrying an explicit deposit link always wins. Unlinked
// redemptions are matched by institution and date only when heuristic is set:
// the oldest open deposit takes the first redemption at the same institution
// dated on or after its start. This can pair the wrong deposits when an
// institution holds several unlinked ones; it goes away once every
// redemption carries a link.
func matchRedemptions(constitutions, redemptions []model.Movement, heuristic bool) map[string]model.Movement {
	known := make(map[string]bool, len(constitutions))
	for _, c := range constitutions {
		known[c.ID] = true
	}

	matched := make(map[string]model.Movement)
	var unlinked []model.Movement
	for _, r := range redemptions {
		id := r.PFID()
		if id == "" {
			unlinked = append(unlinked, r)
			continue
		}
		if _, done := matched[id]; known[id] && !done {
			matched[id] = r
		}
	}

	if !heuristic || len(unlinked) == 0 {
		return matched
	}

	used := make([]bool, len(unlinked))
	for _, c := range constitutions {
		if _, done := matched[c.ID]; done {
			continue
		}
		institution := institutionOf(c)
		if institution == "" {
			continue
		}
		for i, r := range unlinked {
			if used[i] || r.Timestamp.Before(c.Timestamp) || institutionOf(r) != institution {
				continue
			}
			used[i] = true
			matched[c.ID] = r
			break
		}
	}
	return matched
}

// institutionOf names where a deposit is held: the institution in its terms,
// else the instrument it was booked against.
func institutionOf(m model.Movement) string {
	if t := m.Terms(); t != nil && t.Institution != "" {
		return t.Institution
	}
	return m.InstrumentID
}
