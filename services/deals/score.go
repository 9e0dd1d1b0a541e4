package deals

import "math"

// Scoring constants. These mirror the dashboard's original heuristic
// exactly; see DESIGN.md before touching them, downstream consumers
// treat the formula as a contract.
const (
	scoreAtMarket    = 75
	scoreBaseFloor   = 50
	scoreBaseCeiling = 95
	bonusNew         = 5
	bonusExcellent   = 3
	bonusVerified    = 2
)

// ScoreListing computes the 0-100 deal score for a listing against a
// reference market price. A listing exactly at market scores 75, each
// percentage point below market adds one point and each point above
// subtracts one, clamped to [50, 95] before condition and seller
// bonuses.
func ScoreListing(l Listing, marketPrice float64) (int, error) {
	if marketPrice <= 0 {
		return 0, ErrInvalidReference
	}

	priceDelta := (marketPrice - l.Price) / marketPrice
	base := scoreAtMarket + priceDelta*100
	if base < scoreBaseFloor {
		base = scoreBaseFloor
	}
	if base > scoreBaseCeiling {
		base = scoreBaseCeiling
	}

	bonus := 0
	switch l.Condition {
	case ConditionNew:
		bonus += bonusNew
	case ConditionExcellent:
		bonus += bonusExcellent
	}
	if l.SellerVerified {
		bonus += bonusVerified
	}

	score := int(math.Floor(base + float64(bonus)))
	if score > 100 {
		score = 100
	}
	return score, nil
}

// ScoreAll attaches scores to every listing in place and returns the
// slice for convenience.
func ScoreAll(listings []Listing, marketPrice float64) ([]Listing, error) {
	for i := range listings {
		score, err := ScoreListing(listings[i], marketPrice)
		if err != nil {
			return nil, err
		}
		listings[i].Score = score
	}
	return listings, nil
}
