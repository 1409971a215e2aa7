// Package models provides domain models for the trading journal.
package models

// Direction represents the direction of a trade.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeResult represents the logged outcome of a trade.
type TradeResult string

const (
	ResultWin       TradeResult = "WIN"
	ResultLoss      TradeResult = "LOSS"
	ResultBreakeven TradeResult = "BREAKEVEN"
)

// MoodType represents the trader's mood when a record was logged.
type MoodType string

const (
	MoodExcellent MoodType = "excellent"
	MoodGood      MoodType = "good"
	MoodNeutral   MoodType = "neutral"
	MoodPoor      MoodType = "poor"
	MoodTerrible  MoodType = "terrible"
)

// Score maps a mood to a 1-5 scale for averaging.
func (m MoodType) Score() int {
	switch m {
	case MoodExcellent:
		return 5
	case MoodGood:
		return 4
	case MoodNeutral:
		return 3
	case MoodPoor:
		return 2
	case MoodTerrible:
		return 1
	}
	return 0
}

// MoodFromScore maps an averaged score back to the nearest mood.
func MoodFromScore(score float64) MoodType {
	switch {
	case score >= 4.5:
		return MoodExcellent
	case score >= 3.5:
		return MoodGood
	case score >= 2.5:
		return MoodNeutral
	case score >= 1.5:
		return MoodPoor
	}
	return MoodTerrible
}
