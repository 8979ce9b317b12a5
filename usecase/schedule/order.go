package schedule

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fastygo/loftplanner/domain"
)

// Order sorts instances in place and returns them: by date, then by priority
// (highest first), then by time of day with untimed instances after timed
// ones. The sort is stable, so remaining ties keep the store's order.
func Order(instances []domain.Instance) []domain.Instance {
	slices.SortStableFunc(instances, compareInstances)
	return instances
}

func compareInstances(a, b domain.Instance) int {
	if c := a.InstanceDate.Compare(b.InstanceDate); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Priority.Weight(), a.Priority.Weight()); c != 0 {
		return c
	}
	switch {
	case a.Time == b.Time:
		return 0
	case a.Time == "":
		return 1
	case b.Time == "":
		return -1
	default:
		return strings.Compare(a.Time, b.Time)
	}
}
