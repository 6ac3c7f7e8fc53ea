package schedule

import (
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// Aggregate merges a sparse raw schedule with the full roster. Every roster
// driver gets exactly one entry, in roster order, synthesized empty when the
// raw schedule has none; the unassigned bucket, if present, goes last. Raw
// entries for drivers outside the roster are dropped.
//
// A nil raw schedule or an empty roster means "not loaded yet" and raw is
// returned unchanged.
func Aggregate(raw []Entry, roster []models.Driver) []Entry {
	if raw == nil || len(roster) == 0 {
		return raw
	}

	byDriver := make(map[string]Entry, len(raw))
	var unassigned *Entry
	for i := range raw {
		entry := raw[i]
		if entry.IsUnassigned() {
			if unassigned == nil {
				unassigned = &entry
			}
			continue
		}
		if _, seen := byDriver[entry.DriverID]; !seen {
			byDriver[entry.DriverID] = entry
		}
	}

	out := make([]Entry, 0, len(roster)+1)
	emitted := make(map[string]struct{}, len(roster))
	for _, driver := range roster {
		if _, dup := emitted[driver.ID]; dup {
			continue
		}
		emitted[driver.ID] = struct{}{}

		if entry, ok := byDriver[driver.ID]; ok {
			out = append(out, entry)
			continue
		}
		out = append(out, Entry{
			DriverID:   driver.ID,
			DriverName: driver.DisplayName(),
			Dates:      map[string]Cell{},
		})
	}

	if unassigned != nil {
		out = append(out, *unassigned)
	}
	return out
}
