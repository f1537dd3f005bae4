package treasure

import "sort"

const CoreItemType = "Core"

type Entry struct {
	ItemID                   int64   `json:"item_id" toml:"item_id"`
	UniqueID                 int64   `json:"unique_id" toml:"unique_id"`
	Name                     string  `json:"name" toml:"name"`
	Element                  string  `json:"element" toml:"element"`
	TargetHero               string  `json:"target_hero" toml:"target_hero"`
	QualityLevel             int     `json:"quality_level" toml:"quality_level"`
	NeedTwoMaterial          bool    `json:"need_two_material" toml:"need_two_material"`
	MaterialItemID           int64   `json:"material_item_id" toml:"material_item_id"`
	FuseMaterialItemID       *int64  `json:"fuse_material_item_id" toml:"fuse_material_item_id"`
	FuseCommonMaterialItemID *int64  `json:"fuse_common_material_item_id" toml:"fuse_common_material_item_id"`
	AtkBonus                 float64 `json:"atk_bonus" toml:"atk_bonus"`
	HPBonus                  float64 `json:"hp_bonus" toml:"hp_bonus"`
	DefBonus                 float64 `json:"def_bonus" toml:"def_bonus"`
	AtkAddP                  float64 `json:"atk_add_p" toml:"atk_add_p"`
	HPAddP                   float64 `json:"hp_add_p" toml:"hp_add_p"`
}

// ItemMeta is the subset of the items table the fusion rules read.
type ItemMeta struct {
	ItemID       int64  `json:"item_id" toml:"item_id"`
	Type         string `json:"type" toml:"type"`
	Rarity       string `json:"rarity" toml:"rarity"`
	Category     string `json:"category" toml:"category"`
	ManagerID    int64  `json:"manager_id" toml:"manager_id"`
	UseNecessary int    `json:"use_necessary" toml:"use_necessary"`
}

// rarityTier maps an item rarity to the quality level of the generic
// fusion materials it accepts.
var rarityTier = map[string]int{
	"SR":  3,
	"SSR": 6,
	"MR":  10,
}

type tierKey struct {
	element    string
	targetHero string
	quality    int
}

// Catalog is an immutable index over treasure entries.
type Catalog struct {
	entries []Entry
	byID    map[int64]int
	byTier  map[tierKey]int
	// byQuality holds the first entry (in catalog order) for each level.
	byQuality map[int]int
}

// NewCatalog indexes entries. Entries are ordered by item id; on duplicate
// (element, target_hero, quality_level) keys the first entry wins.
func NewCatalog(entries []Entry) *Catalog {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })

	c := &Catalog{
		entries:   sorted,
		byID:      make(map[int64]int, len(sorted)),
		byTier:    make(map[tierKey]int, len(sorted)),
		byQuality: make(map[int]int),
	}
	for i, e := range sorted {
		if _, ok := c.byID[e.ItemID]; !ok {
			c.byID[e.ItemID] = i
		}
		k := tierKey{element: e.Element, targetHero: e.TargetHero, quality: e.QualityLevel}
		if _, ok := c.byTier[k]; !ok {
			c.byTier[k] = i
		}
		if _, ok := c.byQuality[e.QualityLevel]; !ok {
			c.byQuality[e.QualityLevel] = i
		}
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Catalog) Entry(itemID int64) (Entry, bool) {
	i, ok := c.byID[itemID]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// IsTreasure reports whether every distinct id is a catalog entry or a core
// item according to metas.
func (c *Catalog) IsTreasure(itemIDs []int64, metas map[int64]ItemMeta) bool {
	if len(itemIDs) == 0 {
		return false
	}
	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.byID[id]; ok {
			continue
		}
		if meta, ok := metas[id]; ok && meta.Type == CoreItemType {
			continue
		}
		return false
	}
	return true
}

// UpgradeItemID finds the entry one quality level above within the same
// element and target hero.
func (c *Catalog) UpgradeItemID(itemID int64) (int64, bool) {
	e, ok := c.Entry(itemID)
	if !ok {
		return 0, false
	}
	i, ok := c.byTier[tierKey{element: e.Element, targetHero: e.TargetHero, quality: e.QualityLevel + 1}]
	if !ok {
		return 0, false
	}
	return c.entries[i].ItemID, true
}

// DowngradeItemID finds the first entry one quality level below, matching on
// quality level only. The result may belong to another element or hero.
func (c *Catalog) DowngradeItemID(itemID int64) (int64, bool) {
	e, ok := c.Entry(itemID)
	if !ok {
		return 0, false
	}
	i, ok := c.byQuality[e.QualityLevel-1]
	if !ok {
		return 0, false
	}
	return c.entries[i].ItemID, true
}

// DowngradeItemIDKeyed is DowngradeItemID restricted to the same element and
// target hero, mirroring UpgradeItemID.
func (c *Catalog) DowngradeItemIDKeyed(itemID int64) (int64, bool) {
	e, ok := c.Entry(itemID)
	if !ok {
		return 0, false
	}
	i, ok := c.byTier[tierKey{element: e.Element, targetHero: e.TargetHero, quality: e.QualityLevel - 1}]
	if !ok {
		return 0, false
	}
	return c.entries[i].ItemID, true
}

func (c *Catalog) NeedTwoMaterial(itemID int64) bool {
	e, ok := c.Entry(itemID)
	return ok && e.NeedTwoMaterial
}

// RefundItemID is the material handed back when itemID is downgraded to.
func (c *Catalog) RefundItemID(itemID int64) (int64, bool) {
	e, ok := c.Entry(itemID)
	if !ok || e.MaterialItemID == 0 {
		return 0, false
	}
	return e.MaterialItemID, true
}

// AllowedMaterials lists the specific materials accepted when fusing itemID.
// rarity is the items-table rarity of itemID and is only consulted when the
// entry has no dedicated fuse material.
func (c *Catalog) AllowedMaterials(itemID int64, rarity string) []int64 {
	e, ok := c.Entry(itemID)
	if !ok {
		return nil
	}
	if e.FuseMaterialItemID != nil {
		return []int64{*e.FuseMaterialItemID}
	}
	quality, ok := rarityTier[rarity]
	if !ok {
		return nil
	}
	var out []int64
	for _, candidate := range c.entries {
		if candidate.Element == e.Element && candidate.QualityLevel == quality {
			out = append(out, candidate.ItemID)
		}
	}
	return out
}

// CommonMaterial is the wildcard material accepted for itemID, if any.
func (c *Catalog) CommonMaterial(itemID int64) (int64, bool) {
	e, ok := c.Entry(itemID)
	if !ok || e.FuseCommonMaterialItemID == nil {
		return 0, false
	}
	return *e.FuseCommonMaterialItemID, true
}

// CheckInvalidItems returns the materials that are neither an allowed
// specific material nor the common material for currentItemID.
func (c *Catalog) CheckInvalidItems(currentItemID int64, rarity string, materialIDs []int64) []int64 {
	allowed := make(map[int64]struct{})
	for _, id := range c.AllowedMaterials(currentItemID, rarity) {
		allowed[id] = struct{}{}
	}
	common, hasCommon := c.CommonMaterial(currentItemID)

	var invalid []int64
	for _, id := range materialIDs {
		if _, ok := allowed[id]; ok {
			continue
		}
		if hasCommon && id == common {
			continue
		}
		invalid = append(invalid, id)
	}
	return invalid
}

// ValidateMaterialCount requires exactly one material, or exactly two when
// the entry needs two materials.
func (c *Catalog) ValidateMaterialCount(itemID int64, materialIDs []int64) bool {
	if c.NeedTwoMaterial(itemID) {
		return len(materialIDs) == 2
	}
	return len(materialIDs) == 1
}

// Below returns the entries whose quality level is strictly lower than level.
func (c *Catalog) Below(level int) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.QualityLevel < level {
			out = append(out, e)
		}
	}
	return out
}
