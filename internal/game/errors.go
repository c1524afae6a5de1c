package game

import "errors"

// Rejection kinds. Every engine rejection wraps exactly one of these.
var (
	ErrWrongPhase       = errors.New("wrong phase")
	ErrNotFound         = errors.New("not found")
	ErrInsufficientMana = errors.New("insufficient mana")
	ErrRuleViolation    = errors.New("rule violation")
)

// ActionError is a rejected engine operation. State is unchanged.
type ActionError struct {
	Kind   error
	Reason string
}

func (e *ActionError) Error() string {
	return e.Reason
}

func (e *ActionError) Unwrap() error {
	return e.Kind
}

func reject(kind error, reason string) error {
	return &ActionError{Kind: kind, Reason: reason}
}

// Reason extracts the short reason string from an engine rejection.
func Reason(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Reason
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

var (
	errNotMulligan   = reject(ErrWrongPhase, "not in mulligan phase")
	errNotPlaying    = reject(ErrWrongPhase, "not in playing phase")
	errCardNotInHand = reject(ErrNotFound, "card not in hand")
	errNotEnoughMana = reject(ErrInsufficientMana, "not enough mana")
	errBoardFull     = reject(ErrRuleViolation, "board is full")
	errNoAttacker    = reject(ErrNotFound, "attacker not found")
	errSummonSick    = reject(ErrRuleViolation, "summoning sickness")
	errFrozen        = reject(ErrRuleViolation, "minion is frozen")
	errAttacked      = reject(ErrRuleViolation, "already attacked")
	errMustHitTaunt  = reject(ErrRuleViolation, "must attack a taunt minion")
	errStealthed     = reject(ErrRuleViolation, "target is stealthed")
	errNoTarget      = reject(ErrNotFound, "target not found")
)
