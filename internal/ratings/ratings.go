// Package ratings derives the display form of a stored ranking value.
//
// The backend stores an admin's qualitative rating as an integer where 1 is
// the best ("Excellent") and 5 the worst ("Terrible"); 999 marks an entry
// that has not been rated yet. Display inverts the scale: a ranking of 1
// shows five stars, a ranking of 5 shows one. Every view (catalog list,
// detail, TUI, exports) renders ratings through [Present] so the output is
// identical everywhere.
package ratings

import "strings"

// NotRated is the backend sentinel for an entry without a rating.
const NotRated = 999

// MaxStars is the size of the star scale.
const MaxStars = 5

// NotRatedLabel is the qualitative label for unrated and out-of-domain values.
const NotRatedLabel = "Not Yet Rated"

// labels maps a ranking value to its qualitative label.
var labels = map[int]string{
	1: "Excellent",
	2: "Good",
	3: "Okay",
	4: "Bad",
	5: "Terrible",
}

// Rating is the presentation of a ranking value: a bounded star count and a
// qualitative label.
type Rating struct {
	Stars int    // Filled stars out of MaxStars; 0 when unrated
	Label string // Qualitative label
	Rated bool   // False for the 999 sentinel and any out-of-domain value
}

// Present maps a stored ranking value to its display form. Total over the
// integer domain: any value outside {1..5} (including the 999 sentinel)
// yields the unrated presentation rather than an error.
func Present(value int) Rating {
	label, ok := labels[value]
	if !ok {
		return Rating{Stars: 0, Label: NotRatedLabel, Rated: false}
	}
	return Rating{Stars: MaxStars + 1 - value, Label: label, Rated: true}
}

// Stars renders the rating as a five-character star bar ("★★★★☆"), or the
// unrated label when no rating applies.
func (r Rating) String() string {
	if !r.Rated {
		return NotRatedLabel
	}
	return strings.Repeat("★", r.Stars) + strings.Repeat("☆", MaxStars-r.Stars)
}
