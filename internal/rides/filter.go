package rides

import (
	"sort"
	"strings"
)

// ApplyFilter returns the rows matching every active predicate, in input order.
// Predicates apply in order ride_type, post_type, city, search.
func ApplyFilter(rows []RidePost, f Filter) []RidePost {
	out := make([]RidePost, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	city := strings.TrimSpace(f.City)

	for i := range rows {
		r := &rows[i]
		if f.RideType != "" && f.RideType != FilterAll && string(r.RideType) != f.RideType {
			continue
		}
		if f.PostType != "" && f.PostType != FilterAll && string(r.PostType) != f.PostType {
			continue
		}
		if city != "" && !inCity(r, city) {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

func inCity(r *RidePost, city string) bool {
	return strings.EqualFold(CityOf(r.PickupLocation), city) || strings.EqualFold(CityOf(r.DropoffLocation), city)
}

// matchesSearch expects search already lower-cased
func matchesSearch(r *RidePost, search string) bool {
	fields := []string{r.PickupDisplay(), r.DropoffDisplay(), r.DriverName}
	if r.Vehicle != nil {
		fields = append(fields, *r.Vehicle)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// CityOf returns the part of a location before its first comma
func CityOf(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

// CityCounts counts city appearances over the pickup and dropoff of every row.
// The result is ordered by count descending, then city name.
func CityCounts(rows []RidePost) []CityCount {
	counts := make(map[string]int)
	for i := range rows {
		for _, loc := range []string{rows[i].PickupLocation, rows[i].DropoffLocation} {
			if city := CityOf(loc); city != "" {
				counts[city]++
			}
		}
	}

	out := make([]CityCount, 0, len(counts))
	for city, n := range counts {
		out = append(out, CityCount{City: city, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].City < out[j].City
	})
	return out
}

// ToggleCity returns the city filter after a capsule click: selecting the
// active city clears it.
func ToggleCity(active, clicked string) string {
	if strings.EqualFold(strings.TrimSpace(active), strings.TrimSpace(clicked)) {
		return ""
	}
	return clicked
}
