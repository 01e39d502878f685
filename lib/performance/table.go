package performance

import "fidescrape/internal/assert"

// ratingDifference maps a score ratio p (in hundredths, index 0 is p = 0.00 and
// index 100 is p = 1.00) to the rating difference dP of the FIDE Handbook.
var ratingDifference = [...]int{
	-800, -677, -589, -538, -501, -470, -444, -422, -401, -383,
	-366, -351, -336, -322, -309, -296, -284, -273, -262, -251,
	-240, -230, -220, -211, -202, -193, -184, -175, -166, -158,
	-149, -141, -133, -125, -117, -110, -102, -95, -87, -80,
	-72, -65, -57, -50, -43, -36, -29, -21, -14, -7,
	0, 7, 14, 21, 29, 36, 43, 50, 57, 65,
	72, 80, 87, 95, 102, 110, 117, 125, 133, 141,
	149, 158, 166, 175, 184, 193, 202, 211, 220, 230,
	240, 251, 262, 273, 284, 296, 309, 322, 336, 351,
	366, 383, 401, 422, 444, 470, 501, 538, 589, 677,
	800,
}

func init() {
	assert.True(len(ratingDifference) == 101, "rating difference table has %d entries, want 101", len(ratingDifference))
	for i := 1; i < len(ratingDifference); i++ {
		assert.True(
			ratingDifference[i] > ratingDifference[i-1],
			"rating difference table is not increasing at p = 0.%02d", i,
		)
		assert.True(
			ratingDifference[i] == -ratingDifference[100-i],
			"rating difference table is not symmetric at p = 0.%02d", i,
		)
	}
}
