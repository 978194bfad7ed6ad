package effect

import (
	"errors"
	"fmt"

	"github.com/louisbranch/fairsquares/internal/services/estate/domain/port"
)

// Ports bundles the collaborators effects run against.
type Ports struct {
	Roles    port.Roles
	Assets   port.Assets
	Identity port.Identity
	Currency port.Currency
}

// Run applies effects in order. When one fails, every effect already applied
// is compensated in reverse order and the original failure is returned,
// joined with any compensation failure.
func Run(ports Ports, effects []Effect) error {
	for i, eff := range effects {
		if err := apply(ports, eff); err != nil {
			failure := fmt.Errorf("effect %s: %w", eff, err)
			return errors.Join(failure, Compensate(ports, effects[:i]))
		}
	}
	return nil
}

// Compensate undoes applied effects in reverse order.
func Compensate(ports Ports, applied []Effect) error {
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		inverse, ok := Inverse(applied[i])
		if !ok {
			continue
		}
		if err := apply(ports, inverse); err != nil {
			errs = append(errs, fmt.Errorf("compensate %s: %w", applied[i], err))
		}
	}
	return errors.Join(errs...)
}

// Inverse returns the effect that undoes eff. Judgements and role approvals
// have no inverse.
func Inverse(eff Effect) (Effect, bool) {
	switch eff.Kind {
	case KindTransfer:
		return Transfer(eff.To, eff.From, eff.Amount, port.AllowDeath), true
	case KindReserve:
		return Unreserve(eff.From, eff.Amount), true
	case KindUnreserve:
		return Reserve(eff.From, eff.Amount), true
	case KindAssetTransfer:
		return TransferAsset(eff.Asset, eff.To, eff.From), true
	}
	return Effect{}, false
}

func apply(ports Ports, eff Effect) error {
	switch eff.Kind {
	case KindTransfer:
		if ports.Currency == nil {
			return errors.New("currency collaborator is not configured")
		}
		return ports.Currency.Transfer(eff.From, eff.To, eff.Amount, eff.Existence)
	case KindReserve:
		if ports.Currency == nil {
			return errors.New("currency collaborator is not configured")
		}
		return ports.Currency.Reserve(eff.From, eff.Amount)
	case KindUnreserve:
		if ports.Currency == nil {
			return errors.New("currency collaborator is not configured")
		}
		return ports.Currency.Unreserve(eff.From, eff.Amount)
	case KindAssetTransfer:
		if ports.Assets == nil {
			return errors.New("assets collaborator is not configured")
		}
		return ports.Assets.Transfer(eff.Asset, eff.To)
	case KindJudgement:
		if ports.Identity == nil {
			return errors.New("identity collaborator is not configured")
		}
		return ports.Identity.ProvideJudgement(eff.To, eff.Judgement)
	case KindApproveRole:
		if ports.Roles == nil {
			return errors.New("roles collaborator is not configured")
		}
		return ports.Roles.Approve(eff.To, eff.Role)
	}
	return fmt.Errorf("unknown effect kind %q", eff.Kind)
}
