package store

import models "storefront/model"

type cartLineUpdate struct {
	ID       int64
	Quantity int
}

// cartSyncPlan is the diff between the stored cart and a client snapshot.
type cartSyncPlan struct {
	Remove []int64
	Update []cartLineUpdate
	Add    []models.CartLine
}

// planCartSync reconciles stored lines with an incoming snapshot.
//
// A stored line survives only when its id is present in the snapshot with a
// positive quantity; survivors whose quantity differs are updated. Snapshot
// entries with a positive quantity that match no stored line become
// additions, in snapshot order. Non-positive entries never create lines.
// If the snapshot repeats an id, its last occurrence wins.
func planCartSync(existing []models.CartItem, incoming []models.CartLine) cartSyncPlan {
	byID := make(map[int64]models.CartLine, len(incoming))
	for _, in := range incoming {
		if in.ID != 0 {
			byID[in.ID] = in
		}
	}

	var plan cartSyncPlan
	stored := make(map[int64]struct{}, len(existing))
	for _, item := range existing {
		stored[item.ID] = struct{}{}
		in, ok := byID[item.ID]
		switch {
		case !ok || in.Quantity <= 0:
			plan.Remove = append(plan.Remove, item.ID)
		case in.Quantity != item.Quantity:
			plan.Update = append(plan.Update, cartLineUpdate{ID: item.ID, Quantity: in.Quantity})
		}
	}

	for _, in := range incoming {
		if in.Quantity <= 0 {
			continue
		}
		if _, ok := stored[in.ID]; ok && in.ID != 0 {
			continue
		}
		plan.Add = append(plan.Add, models.CartLine{ProductID: in.ProductID, Quantity: in.Quantity})
	}
	return plan
}
