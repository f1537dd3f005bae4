package stamina

import (
	"context"
	"errors"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"
)

// EntryCost is what entering a main or star challenge stage costs.
const EntryCost = 5

var ErrInvalidRequest = errors.New("invalid stamina request")

type DeductRequest struct {
	UID    int64
	Amount int64
	Memo   string
}

type DeductResponse struct {
	Success bool  `json:"success"`
	Stamina int64 `json:"stamina"`
}

type UseCase struct {
	Ledger  ports.StaminaLedger
	Metrics ports.OperationMetrics
}

// DeductForEntry charges the entry cost when Amount is zero. Running short
// fails with STAMINA:0001 and leaves the balance untouched.
func (u UseCase) DeductForEntry(ctx context.Context, req DeductRequest) (DeductResponse, error) {
	if req.UID <= 0 || req.Amount < 0 {
		return DeductResponse{}, ErrInvalidRequest
	}
	amount := req.Amount
	if amount == 0 {
		amount = EntryCost
	}
	remaining, err := u.Ledger.Deduct(ctx, req.UID, amount, req.Memo)
	if err != nil {
		u.record(err)
		return DeductResponse{}, err
	}
	u.record(nil)
	return DeductResponse{Success: true, Stamina: remaining}, nil
}

func (u UseCase) record(err error) {
	if u.Metrics == nil {
		return
	}
	if err != nil {
		code, ok := apperr.Code(err)
		if !ok {
			code = apperr.CodeSystem
		}
		u.Metrics.RecordFailure("stamina_deduct", code)
		return
	}
	u.Metrics.RecordSuccess("stamina_deduct")
}
