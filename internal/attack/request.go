package attack

import (
	"fmt"

	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
)

// ToHitKind classifies a precomputed to-hit evaluation.
type ToHitKind int

const (
	ToHitPossible ToHitKind = iota
	ToHitImpossible
	ToHitAutoFail
	ToHitAutoSuccess
)

var toHitNames = map[string]ToHitKind{
	"possible":     ToHitPossible,
	"impossible":   ToHitImpossible,
	"auto_fail":    ToHitAutoFail,
	"auto_success": ToHitAutoSuccess,
}

func (k ToHitKind) String() string {
	for name, v := range toHitNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

func (k *ToHitKind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := toHitNames[s]
	if !ok {
		return fmt.Errorf("unknown to-hit kind %q", s)
	}
	*k = v
	return nil
}

// ToHit is the target number an attack was evaluated against.
type ToHit struct {
	Kind   ToHitKind `yaml:"kind"`
	Value  int       `yaml:"value"`
	Reason string    `yaml:"reason,omitempty"`
}

// Phase is the game phase an attack is offered in.
type Phase int

const (
	PhaseFiring Phase = iota
	PhaseOffboard
	PhaseEnd
)

var phaseNames = map[string]Phase{
	"firing":   PhaseFiring,
	"offboard": PhaseOffboard,
	"end":      PhaseEnd,
}

func (p Phase) String() string {
	for name, v := range phaseNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

func (p *Phase) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := phaseNames[s]
	if !ok {
		return fmt.Errorf("unknown phase %q", s)
	}
	*p = v
	return nil
}

// Status is what Resolve hands back to the scheduler.
type Status int

const (
	StatusResolved Status = iota
	StatusPending
)

func (s Status) String() string {
	if s == StatusPending {
		return "pending"
	}
	return "resolved"
}

// Stage is where a context sits in the resolution state machine.
type Stage int

const (
	StagePrefire Stage = iota
	StageHitCount
	StageDamage
	StageApply
	StagePost
	StageResolved
	StagePending
)

var stageNames = [...]string{"prefire", "hit_count", "damage", "apply", "post", "resolved", "pending_continuation"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// Request is one weapon fired at one target, already evaluated for to-hit.
// Exactly one of Target and Hex names what is being shot at.
type Request struct {
	Attacker string          `yaml:"attacker"`
	Weapon   string          `yaml:"weapon"`
	Bin      string          `yaml:"bin,omitempty"`
	Target   string          `yaml:"target,omitempty"`
	Hex      *terrain.Coords `yaml:"hex,omitempty"`
	ToHit    ToHit           `yaml:"to_hit"`
	// Roll is a pre-drawn 2d6 result. Zero draws from the dice stream.
	Roll int       `yaml:"roll,omitempty"`
	Side unit.Side `yaml:"side,omitempty"`
	// Distance overrides the hex distance between attacker and target.
	Distance int `yaml:"distance,omitempty"`
	// Shots overrides the burst length of rotary weapons.
	Shots int `yaml:"shots,omitempty"`

	AreaMode        bool `yaml:"area,omitempty"`
	Strafing        bool `yaml:"strafing,omitempty"`
	FirstStrafeShot bool `yaml:"first_strafe_shot,omitempty"`
	Swarm           bool `yaml:"swarm,omitempty"`
	Underwater      bool `yaml:"underwater,omitempty"`
	ThroughFront    bool `yaml:"through_front,omitempty"`
}
