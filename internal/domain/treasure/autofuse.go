package treasure

import "sort"

// AutoFuseMaxQuality bounds the sweep: only entries below this level fuse.
const AutoFuseMaxQuality = 3

type FuseDetail struct {
	SourceItemID      int64 `json:"source_item_id"`
	TargetItemID      int64 `json:"target_item_id"`
	MaterialsRequired int64 `json:"materials_required"`
	FuseCount         int64 `json:"fuse_count"`
	ConsumedTotal     int64 `json:"consumed_total"`
	QualityLevel      int   `json:"quality_level"`
}

type AutoFusePlan struct {
	Details  []FuseDetail
	Consumed map[int64]int64
	Obtained map[int64]int64
}

func (p AutoFusePlan) Empty() bool {
	return len(p.Details) == 0
}

// RequiredForAutoFuse is the number of owned copies one sweep fusion eats.
func RequiredForAutoFuse(e Entry) int64 {
	if e.NeedTwoMaterial {
		return 3
	}
	return 2
}

// AutoFuseCandidates lists the item ids the sweep may consume.
func (c *Catalog) AutoFuseCandidates() []int64 {
	entries := c.Below(AutoFuseMaxQuality)
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ItemID)
	}
	return ids
}

// PlanAutoFuse computes every fusion the balances allow. Types without an
// upgrade path are skipped.
func (c *Catalog) PlanAutoFuse(balances map[int64]int64) AutoFusePlan {
	plan := AutoFusePlan{
		Consumed: map[int64]int64{},
		Obtained: map[int64]int64{},
	}

	ids := make([]int64, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		e, ok := c.Entry(id)
		if !ok || e.QualityLevel >= AutoFuseMaxQuality {
			continue
		}
		required := RequiredForAutoFuse(e)
		owned := balances[id]
		if owned < required {
			continue
		}
		count := owned / required
		target, ok := c.UpgradeItemID(id)
		if !ok {
			continue
		}
		consumed := required * count
		plan.Details = append(plan.Details, FuseDetail{
			SourceItemID:      id,
			TargetItemID:      target,
			MaterialsRequired: required,
			FuseCount:         count,
			ConsumedTotal:     consumed,
			QualityLevel:      e.QualityLevel,
		})
		plan.Consumed[id] += consumed
		plan.Obtained[target] += count
	}
	return plan
}
