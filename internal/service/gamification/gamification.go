package gamification

import (
	"time"
)

// Level thresholds: level n covers xp in [thresholds[n-1], thresholds[n]).
// Capped at 10.
var thresholds = []int{100, 400, 900, 1600, 2500, 3600, 4900, 6400, 8100}

const (
	baseXP           = 15
	streakBonusStep  = 5
	streakBonusCap   = 50
	streakStartXP    = 20
	earlyBirdBonus   = 30
	extraCheckInXP   = 10
	earlyBirdCutoffH = 9
)

// Level maps XP onto the fixed 1-10 level table. It is the only place a
// level value is ever computed; profiles never store an independent level.
func Level(xp int) int {
	for i, limit := range thresholds {
		if xp < limit {
			return i + 1
		}
	}
	return 10
}

// NextStreak computes the streak after a first check-in on day today.
// lastActive and today are YYYY-MM-DD; lastActive may be empty for a new
// user. A gap day resets to 1; the day immediately after the previous
// active day increments; a repeat of the same day leaves the streak alone.
func NextStreak(streak int, lastActive string, today string) int {
	if lastActive == today {
		return streak
	}
	if lastActive != "" {
		prev, err1 := time.Parse("2006-01-02", lastActive)
		cur, err2 := time.Parse("2006-01-02", today)
		if err1 == nil && err2 == nil && prev.AddDate(0, 0, 1).Equal(cur) {
			return streak + 1
		}
	}
	return 1
}

// CheckInXP returns the XP earned by the first check-in of a day, given
// the already-advanced streak. A fresh streak earns the start reward, plus
// the early-bird bonus before 09:00 local; a continuing streak earns the
// base plus a capped streak bonus.
func CheckInXP(streak int, at time.Time) int {
	if streak <= 1 {
		xp := streakStartXP
		if at.Hour() < earlyBirdCutoffH {
			xp += earlyBirdBonus
		}
		return xp
	}
	bonus := streak * streakBonusStep
	if bonus > streakBonusCap {
		bonus = streakBonusCap
	}
	return baseXP + bonus
}

// ExtraCheckInXP is the flat award for check-ins after the first of a day.
func ExtraCheckInXP() int {
	return extraCheckInXP
}
