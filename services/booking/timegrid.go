package booking

import "barberbook/models"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// AvailableStartTimes computes the bookable start times for one day, as
// minutes from midnight in ascending order.
//
// Candidates are generated every granularityMinutes from opening time; a
// candidate survives when its full [start, start+duration) window fits before
// closing time and does not intersect any booked interval. A closed day, a
// non-positive duration or an open window shorter than the duration all yield
// nil. Pure function of its inputs.
func AvailableStartTimes(durationMinutes, granularityMinutes int, hours models.DayHours, booked []models.BookedInterval) []int {
	if durationMinutes <= 0 || granularityMinutes <= 0 {
		return nil
	}
	if hours.Closed || hours.Close-hours.Open < durationMinutes {
		return nil
	}

	var slots []int
	for start := hours.Open; start+durationMinutes <= hours.Close; start += granularityMinutes {
		end := start + durationMinutes
		taken := false
		for _, b := range booked {
			if Overlaps(start, end, b.Start, b.End()) {
				taken = true
				break
			}
		}
		if !taken {
			slots = append(slots, start)
		}
	}
	return slots
}
