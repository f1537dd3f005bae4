package inventory

import "surgame/internal/app/ports"

type Request struct {
	User ports.User
}

type Entry struct {
	ItemID    int64 `json:"item_id"`
	ManagerID int64 `json:"manager_id"`
	Qty       int64 `json:"qty"`
}

type Items struct {
	Item  []Entry `json:"item"`
	Shard []Entry `json:"shard"`
}

// Response mirrors the package screen: stackable items, equipment and runes.
type Response struct {
	Items      Items          `json:"items"`
	Equipments []any          `json:"equipments"`
	Runes      map[string]any `json:"runes"`
}
