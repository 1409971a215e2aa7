package analytics

// Band identifies a discrete heatmap intensity. The zero value is the
// neutral/no-data band; positive values are the profit family and negative
// values the loss family, each with four intensity levels. Mapping bands to
// concrete colors is the rendering layer's job.
type Band int

const (
	BandNeg4 Band = iota - 4 // deepest loss
	BandNeg3
	BandNeg2
	BandNeg1
	BandNeutral
	BandPos1
	BandPos2
	BandPos3
	BandPos4 // deepest profit
)

// Intensity returns the band's magnitude, 0 (neutral) through 4.
func (b Band) Intensity() int {
	if b < 0 {
		return int(-b)
	}
	return int(b)
}

// Positive reports whether the band belongs to the profit family.
func (b Band) Positive() bool {
	return b > 0
}

// HeatBand maps a P&L value, relative to the maximum P&L magnitude in the
// active data set, to a discrete band. Zero P&L is always neutral, distinct
// from the lowest profit/loss bands. A zero maxAbsPnL is clamped to 1 so a
// degenerate data set still maps non-zero values to the lowest band instead
// of dividing by zero.
func HeatBand(pnl, maxAbsPnl float64) Band {
	if pnl == 0 {
		return BandNeutral
	}
	if maxAbsPnl < 1 {
		maxAbsPnl = 1
	}

	intensity := abs(pnl) / maxAbsPnl
	if intensity > 1 {
		intensity = 1
	}

	var level Band
	switch {
	case intensity > 0.75:
		level = 4
	case intensity > 0.5:
		level = 3
	case intensity > 0.25:
		level = 2
	default:
		level = 1
	}

	if pnl < 0 {
		return -level
	}
	return level
}
