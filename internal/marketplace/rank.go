package marketplace

import "sort"

// RankOffers returns offers ordered by ascending total cost. Offers with equal
// cost keep their input order. The input slice is not modified.
func RankOffers(offers []Offer) []Offer {
	ranked := make([]Offer, len(offers))
	copy(ranked, offers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCost < ranked[j].TotalCost
	})
	return ranked
}
