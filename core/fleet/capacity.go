package fleet

import (
	"math/rand"
	"time"

	"github.com/kilianp07/evtol/core/model"
)

// AssignCapacity splits total aircraft across n manufacturers at random.
// Each manufacturer gets at least one aircraft while aircraft remain; the
// last one takes whatever is left. With fewer aircraft than manufacturers
// the first total manufacturers get one each. A nil rng uses a time seed.
func AssignCapacity(total, n int, rng *rand.Rand) []int {
	if n <= 0 {
		return nil
	}
	counts := make([]int, n)
	if total <= 0 {
		return counts
	}
	if total < n {
		for i := 0; i < total; i++ {
			counts[i] = 1
		}
		return counts
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	remaining := total
	for i := 0; i < n; i++ {
		if i == n-1 {
			counts[i] = remaining
			break
		}
		// keep one aircraft for every manufacturer still to come
		upper := remaining - (n - 1 - i)
		counts[i] = 1 + rng.Intn(upper)
		remaining -= counts[i]
	}
	return counts
}

// Build creates counts[i] aircraft of makers[i]. Labels are numbered per
// manufacturer from 1 and stamped with at.
func Build(makers []model.Manufacturer, counts []int, timeScale float64, at time.Time) []*model.Aircraft {
	var fleet []*model.Aircraft
	for i, m := range makers {
		if i >= len(counts) {
			break
		}
		for j := 0; j < counts[i]; j++ {
			fleet = append(fleet, model.NewAircraft(model.SerialNumber(m.Name, j+1, at), m, timeScale))
		}
	}
	return fleet
}
