package domain

import "time"

// NextEndDate decides whether accepting a bid at bidTime must push the
// auction's close forward (anti-snipe). If auto-extend is on and the bid
// falls inside the trailing window W before the end date, the new end date is
// bidTime + W, so repeated late bids keep extending by the same margin.
//
// Must be evaluated against the end date in effect before any extension from
// the same bid is applied
func NextEndDate(a *Auction, bidTime time.Time) (time.Time, bool) {
	if !a.AutoExtend || a.ExtendWindow <= 0 {
		return time.Time{}, false
	}
	windowStart := a.EndDate.Add(-a.ExtendWindow)
	if bidTime.Before(windowStart) || bidTime.After(a.EndDate) {
		return time.Time{}, false
	}
	return bidTime.Add(a.ExtendWindow), true
}
