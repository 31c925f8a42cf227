package scoring

import "github.com/ecoshot/ecoshot/internal/model"

// Point values for the three award paths
const (
	// HitPoints is awarded for decoding another player's badge
	HitPoints = 50

	// RedeemMinPoints is the floor for an item deposited into a
	// matching container
	RedeemMinPoints = 15

	// RedeemBenefitScale multiplies an item's benefit value
	RedeemBenefitScale = 50

	// FallbackPoints is the flat award for each item a deposit consumed
	// without a matching container
	FallbackPoints = 20
)

// containerAccepts maps each container category to the item category it
// redeems. Unsorted containers accept nothing.
var containerAccepts = map[model.ContainerCategory]model.ItemCategory{
	model.ContainerRecycling: model.CategoryRecyclable,
	model.ContainerCompost:   model.CategoryOrganic,
	model.ContainerHazmat:    model.CategoryHazardous,
	model.ContainerGarbage:   model.CategoryLandfill,
}

// Service computes all point awards. It is pure: no storage and no
// locks; the match registry owns applying its results to players.
type Service struct{}

// New creates a new scoring service
func New() *Service {
	return &Service{}
}

// AcceptedCategory returns the item category a container redeems,
// or false for categories that redeem nothing
func (s *Service) AcceptedCategory(c model.ContainerCategory) (model.ItemCategory, bool) {
	cat, ok := containerAccepts[c]
	return cat, ok
}

// ScoreHit returns the award for landing a badge hit
func (s *Service) ScoreHit() int {
	return HitPoints
}

// ScoreRedeem returns the award for one matched item, scaled by its
// benefit value with a floor so every redemption is worth something
func (s *Service) ScoreRedeem(benefit float64) int {
	points := int(benefit * RedeemBenefitScale)
	if points < RedeemMinPoints {
		points = RedeemMinPoints
	}
	return points
}

// RedeemedItem pairs an item with the container that accepted it
type RedeemedItem struct {
	Item      model.Item
	Container model.Container
	Points    int
}

// ReconcileResult describes the outcome of depositing a full inventory
type ReconcileResult struct {
	Redeemed       []RedeemedItem
	Unmatched      []model.Item
	FallbackPoints int
	Total          int
}

// Reconcile matches every carried item, in ledger order, against the
// detected containers. An item is redeemed if any container's category
// accepts it; everything else is consumed unmatched for a flat fallback
// award per item. Either way the whole inventory is spent.
func (s *Service) Reconcile(items []model.Item, containers []model.Container) ReconcileResult {
	// First usable container per accepted item category
	accepts := make(map[model.ItemCategory]model.Container)
	for _, c := range containers {
		cat, ok := containerAccepts[c.Category]
		if !ok {
			continue
		}
		if _, seen := accepts[cat]; !seen {
			accepts[cat] = c
		}
	}

	var result ReconcileResult
	for _, item := range items {
		container, ok := accepts[item.Category]
		if !ok {
			result.Unmatched = append(result.Unmatched, item)
			continue
		}
		points := s.ScoreRedeem(item.BenefitValue)
		result.Redeemed = append(result.Redeemed, RedeemedItem{
			Item:      item,
			Container: container,
			Points:    points,
		})
		result.Total += points
	}

	if len(result.Unmatched) > 0 {
		result.FallbackPoints = FallbackPoints * len(result.Unmatched)
		result.Total += result.FallbackPoints
	}

	return result
}
