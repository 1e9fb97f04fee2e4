package converter

import "fmt"

// remapHit returns the stored coordinates for a decoded hit. The axes
// are transposed unconditionally: the downstream consumer has no native
// rotation support.
func remapHit(hit Hit) (uint16, uint16) {
	return hit.Col, hit.Row
}

// keepQuickLook reports whether the quick-look path keeps a decoded
// hit, evaluated on the raw coordinates. A zero/zero hit inside the
// empty-frame numeric range is a front-end artifact and is suppressed.
func keepQuickLook(hit Hit) bool {
	return !(hit.Col == 0 && hit.Row == 0) || hit.Col > 31 || hit.Row > 39
}

// filterAggregated remaps and validates one hit for the merge path.
// Out-of-range hits are dropped with a warning naming the coordinates.
func filterAggregated(hit Hit) (uint16, uint16, bool) {
	row, col := remapHit(hit)
	if row < SENSOR_NUM_COLS && col < SENSOR_NUM_ROWS {
		return row, col, true
	}
	message := fmt.Sprintf("hit out of range: col = %d, row = %d", col, row)
	logger.Warning(message, "hits")
	return row, col, false
}
