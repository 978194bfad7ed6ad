package memory

import (
	"sync"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/primitive"
)

// Identity records registrar judgements per account.
type Identity struct {
	mu         sync.Mutex
	judgements map[primitive.AccountID]primitive.Judgement
}

// NewIdentity creates an empty registrar.
func NewIdentity() *Identity {
	return &Identity{judgements: make(map[primitive.AccountID]primitive.Judgement)}
}

// JudgementOf returns the latest judgement for account, or unknown.
func (i *Identity) JudgementOf(account primitive.AccountID) primitive.Judgement {
	i.mu.Lock()
	defer i.mu.Unlock()
	if j, ok := i.judgements[account]; ok {
		return j
	}
	return primitive.JudgementUnknown
}

// ProvideJudgement records judgement for account.
func (i *Identity) ProvideJudgement(account primitive.AccountID, judgement primitive.Judgement) error {
	if !judgement.Valid() {
		return apperrors.New(apperrors.CodeUnauthorized, "unknown judgement")
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.judgements[account] = judgement
	return nil
}
