// Package split computes the money view of a session: per-head cost,
// collection target, and funds collected so far. Everything here is pure;
// callers recompute on every roster or session change.
package split

import (
	"math"

	"github.com/jswain/turfsplit/internal/model"
)

// CostPerHead returns what each player owes. Under manual split it is the
// fixed manual price. Under even split it is the total price divided by the
// active player count, rounded to the nearest unit; an empty roster divides
// by one so the nominal cost is the full price rather than a zero division.
func CostPerHead(session *model.Session, activeCount int) int {
	if session.SplitMode == model.SplitManual {
		return session.ManualPrice
	}
	if activeCount < 1 {
		activeCount = 1
	}
	return int(math.Round(float64(session.TotalPrice) / float64(activeCount)))
}

// TargetTotal returns the amount the session aims to collect
func TargetTotal(session *model.Session, playerCount int) int {
	if session.SplitMode == model.SplitManual {
		return session.ManualPrice * playerCount
	}
	return session.TotalPrice
}

// Collected returns verified payments as a multiple of the per-head cost
func Collected(players []*model.PlayerEntry, costPerHead int) int {
	verified := 0
	for _, p := range players {
		if p.PaymentStatus == model.StatusVerified {
			verified++
		}
	}
	return verified * costPerHead
}

// Occupancy returns the number of live roster entries
func Occupancy(players []*model.PlayerEntry) int {
	return len(players)
}
