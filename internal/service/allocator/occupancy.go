package allocator

import "github.com/m04kA/SMC-AllotmentService/pkg/types"

// occupancy дневной индекс занятости: дата -> юнит -> занят.
// Принадлежит одному прогону аллокатора.
type occupancy struct {
	days map[types.Date]map[int64]bool
}

func newOccupancy(window []types.Date) *occupancy {
	o := &occupancy{days: make(map[types.Date]map[int64]bool, len(window))}
	for _, d := range window {
		o.days[d] = make(map[int64]bool)
	}
	return o
}

// mark занимает юниты на все дни, попадающие в окно
func (o *occupancy) mark(days []types.Date, unitIDs []int64) {
	for _, d := range days {
		units, ok := o.days[d]
		if !ok {
			continue
		}
		for _, id := range unitIDs {
			units[id] = true
		}
	}
}

// free проверяет, что ни один юнит не занят ни в один из дней
func (o *occupancy) free(days []types.Date, unitIDs []int64) bool {
	for _, d := range days {
		units := o.days[d]
		for _, id := range unitIDs {
			if units[id] {
				return false
			}
		}
	}
	return true
}
