package treasure

import (
	"surgame/internal/app/ports"
	"surgame/internal/domain/item"
	domain "surgame/internal/domain/treasure"
)

type FuseRequest struct {
	User           ports.User
	MainMaterialID int64
	MaterialIDs    []int64
}

type FuseResponse struct {
	Success bool           `json:"success"`
	Items   []item.Balance `json:"data"`
}

type ResetRequest struct {
	User   ports.User
	ItemID int64
}

type ResetResponse struct {
	Success      bool  `json:"success"`
	RefundItemID int64 `json:"refund_item_id"`
	RefundAmount int64 `json:"refund_amount"`
}

type AutoFuseRequest struct {
	User ports.User
}

type AutoFuseResponse struct {
	Available bool                `json:"available"`
	Message   *string             `json:"message"`
	Details   []domain.FuseDetail `json:"details"`
	Consumed  map[int64]int64     `json:"consumed"`
	Obtained  map[int64]int64     `json:"obtained"`
}

type ObtainRequest struct {
	User   ports.User
	ItemID int64
}

type ObtainResponse struct {
	// Entry is nil for core items, which have no treasure row.
	Entry *domain.Entry `json:"treasure"`
	Qty   int64        `json:"qty"`
}
