package entity

// StatusType identifies a status effect.
type StatusType string

const (
	Stunned      StatusType = "stunned"
	Poisoned     StatusType = "poisoned"
	Burned       StatusType = "burned"
	Weakened     StatusType = "weakened"
	Strengthened StatusType = "strengthened"
	Fortified    StatusType = "fortified"
	Vulnerable   StatusType = "vulnerable"
)

// StatusEffect is an applied modifier owned by the entity it is attached to.
// Duration counts the entity's remaining affected turns; Magnitude is damage
// per tick for poisoned/burned and a modifier delta for the stat effects.
type StatusEffect struct {
	Type      StatusType `json:"type"`
	Duration  int        `json:"duration"`
	Magnitude int        `json:"magnitude"`
	Source    string     `json:"source_id,omitempty"`
}

// KnownStatus reports whether t is one of the defined status types.
func KnownStatus(t StatusType) bool {
	switch t {
	case Stunned, Poisoned, Burned, Weakened, Strengthened, Fortified, Vulnerable:
		return true
	}
	return false
}

// TicksAtTurnStart reports whether the effect deals its magnitude as damage
// at the start of the owner's turn.
func (t StatusType) TicksAtTurnStart() bool {
	return t == Poisoned || t == Burned
}
