package availability

import "sort"

// dayVacancy свободные юниты номера на одну дату.
// Ключи - юниты номера, значение - свободные дочерние юниты других номеров (bucket).
type dayVacancy struct {
	units    map[int64]map[int64]bool
	toDelete map[int64]bool
}

func newDayVacancy(roomUnits []int64, buckets map[int64][]int64) *dayVacancy {
	v := &dayVacancy{
		units:    make(map[int64]map[int64]bool, len(roomUnits)),
		toDelete: make(map[int64]bool),
	}
	for _, id := range roomUnits {
		bucket := make(map[int64]bool, len(buckets[id]))
		for _, child := range buckets[id] {
			bucket[child] = true
		}
		v.units[id] = bucket
	}
	return v
}

func (v *dayVacancy) has(unitID int64) bool {
	_, ok := v.units[unitID]
	return ok
}

func (v *dayVacancy) remove(unitID int64) {
	delete(v.units, unitID)
}

func (v *dayVacancy) markToDelete(unitID int64) {
	v.toDelete[unitID] = true
}

// keys свободные юниты по возрастанию id
func (v *dayVacancy) keys() []int64 {
	out := make([]int64, 0, len(v.units))
	for id := range v.units {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// bucketKeys свободные дочерние юниты по возрастанию id
func (v *dayVacancy) bucketKeys(unitID int64) []int64 {
	bucket := v.units[unitID]
	out := make([]int64, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// apply удаляет отложенные юниты и возвращает итоговое число свободных
func (v *dayVacancy) apply() int {
	for id := range v.toDelete {
		delete(v.units, id)
	}
	return len(v.units)
}
