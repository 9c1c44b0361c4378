// Package attack resolves fired weapons: it turns an attack already
// evaluated for to-hit into hits, damage, status effects and report entries.
//
// Each weapon family and munition pairing maps to a Variant, a descriptor of
// per-stage functions over a shared base. The Dispatcher drives a Context
// through the stages prefire, hit count, damage, apply and post. Artillery in
// flight and TAG designations end a phase pending and are re-offered through
// Advance until they resolve.
//
// # Determinism
//
// All randomness comes from the injected dice.Roller, drawn in a fixed order.
// Replaying the same requests against the same state with the same seed
// produces identical report entries and final state.
package attack

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FireResolver/internal/catalog"
	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/rules"
)

var (
	ErrUnknownUnit   = errors.New("unknown unit")
	ErrUnknownWeapon = errors.New("unknown weapon")
	ErrUnknownAmmo   = errors.New("unknown ammunition")
	ErrNoTarget      = errors.New("attack has no target")
)

// Dispatcher resolves attacks one at a time against a world.
type Dispatcher struct {
	catalog *catalog.Catalog
	rules   rules.Options
	dice    dice.Roller
	world   World
	log     *report.Log
	logger  *zap.Logger
	ids     io.Reader

	seq     int
	pending []*Context
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithIDSource draws attack ids from r instead of the attack sequence
// number.
func WithIDSource(r io.Reader) Option {
	return func(d *Dispatcher) { d.ids = r }
}

// NewDispatcher wires a dispatcher. The ruleset is copied and never changes
// afterwards.
func NewDispatcher(cat *catalog.Catalog, opts rules.Options, w World, r dice.Roller, log *report.Log, options ...Option) *Dispatcher {
	d := &Dispatcher{
		catalog: cat,
		rules:   opts,
		dice:    r,
		world:   w,
		log:     log,
		logger:  zap.NewNop(),
	}
	for _, o := range options {
		o(d)
	}
	return d
}

// Pending returns the number of contexts waiting on a later phase.
func (d *Dispatcher) Pending() int { return len(d.pending) }

// Resolve fires one weapon. It returns StatusPending when the attack keeps
// working in later phases; the dispatcher holds on to it and Advance drives
// it from there.
func (d *Dispatcher) Resolve(req Request, phase Phase) Status {
	c, err := d.newContext(req, phase)
	if err != nil {
		d.logger.Error("attack dropped",
			zap.Error(err),
			zap.String("attacker", req.Attacker),
			zap.String("weapon", req.Weapon),
		)
		d.log.Add(report.Entry{
			Message:  report.MsgInternalError,
			Attacker: req.Attacker,
			Target:   req.Target,
			Weapon:   req.Weapon,
			Fields:   []report.Field{report.Str("error", err.Error())},
		})
		return StatusResolved
	}

	switch req.ToHit.Kind {
	case ToHitImpossible:
		c.report(report.MsgImpossible, report.Str("reason", req.ToHit.Reason))
		return StatusResolved
	case ToHitAutoFail:
		c.report(report.MsgAutoFail, report.Str("reason", req.ToHit.Reason))
		return StatusResolved
	}
	if !c.Weapon.Ready() {
		c.report(report.MsgNotReady)
		return StatusResolved
	}
	if c.Band == catalog.BandOut || (c.Band == catalog.BandExtreme && !d.rules.ExtremeRange) {
		c.report(report.MsgOutOfRange, report.Int("distance", c.Distance))
		return StatusResolved
	}

	d.evaluate(c)
	d.run(c)
	if c.Status == StatusPending {
		d.pending = append(d.pending, c)
	}
	return c.Status
}

// Advance re-offers pending contexts, in fire order, to the variants that
// care about phase.
func (d *Dispatcher) Advance(phase Phase) {
	queue := d.pending
	d.pending = nil
	for _, c := range queue {
		if !c.Variant.cares(phase) {
			d.pending = append(d.pending, c)
			continue
		}
		c.Phase = phase
		switch next := c.Variant.Continue(c, phase); next {
		case StagePending:
			d.pending = append(d.pending, c)
		case StageResolved:
			c.finish()
		default:
			c.hold = false
			c.Stage = next
			c.Status = StatusResolved
			d.run(c)
			if c.Status == StatusPending {
				d.pending = append(d.pending, c)
			}
		}
		d.logger.Debug("advanced", zap.String("attack", c.ID), zap.Stringer("phase", phase), zap.Stringer("stage", c.Stage))
	}
}

func (d *Dispatcher) newContext(req Request, phase Phase) (*Context, error) {
	attacker := d.world.Unit(req.Attacker)
	if attacker == nil {
		return nil, fmt.Errorf("%w: attacker %q", ErrUnknownUnit, req.Attacker)
	}
	mounted := attacker.Weapon(req.Weapon)
	if mounted == nil {
		return nil, fmt.Errorf("%w: %s has no slot %q", ErrUnknownWeapon, attacker.ID, req.Weapon)
	}
	wt, ok := d.catalog.Weapon(mounted.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type %q", ErrUnknownWeapon, mounted.Type)
	}

	c := &Context{
		ID:              d.nextID(),
		Request:         req,
		Phase:           phase,
		Attacker:        attacker,
		Weapon:          mounted,
		Type:            wt,
		Shots:           1,
		AreaMode:        req.AreaMode,
		Strafing:        req.Strafing,
		FirstStrafeShot: req.FirstStrafeShot,
		Swarm:           req.Swarm,
		Underwater:      req.Underwater,
		FlightTurns:     wt.FlightTurns,
		d:               d,
	}
	switch {
	case req.Target != "":
		c.Target = d.world.Unit(req.Target)
		if c.Target == nil {
			return nil, fmt.Errorf("%w: target %q", ErrUnknownUnit, req.Target)
		}
		c.TargetHex = c.Target.Position
	case req.Hex != nil:
		c.TargetHex = *req.Hex
	default:
		return nil, ErrNoTarget
	}

	slot := req.Bin
	if slot == "" {
		slot = mounted.Ammo
	}
	if slot != "" {
		if c.Bin = attacker.Bin(slot); c.Bin == nil {
			return nil, fmt.Errorf("%w: %s has no bin %q", ErrUnknownAmmo, attacker.ID, slot)
		}
		at, ok := d.catalog.Ammo(c.Bin.Type)
		if !ok {
			return nil, fmt.Errorf("%w: type %q", ErrUnknownAmmo, c.Bin.Type)
		}
		if wt.NeedsAmmo() && !catalog.Compatible(wt, at) {
			return nil, fmt.Errorf("%w: %q cannot fire %q", ErrUnknownAmmo, wt.Name, at.Name)
		}
		c.Ammo = at
		c.Munition = at.Munition
	}
	c.Variant = Lookup(wt.Family, c.Munition)

	c.Distance = req.Distance
	if c.Distance == 0 {
		c.Distance = attacker.Position.Distance(c.TargetHex)
	}
	c.Band = wt.Band(c.Distance)
	return c, nil
}

// evaluate draws the attack's one roll and classifies the result.
func (d *Dispatcher) evaluate(c *Context) {
	c.Roll = c.Request.Roll
	if c.Roll == 0 {
		c.Roll = dice.Roll2D6(d.dice)
	}
	if c.Request.ToHit.Kind == ToHitAutoSuccess {
		c.report(report.MsgAutoHit, report.Int("roll", c.Roll))
		return
	}
	c.Margin = c.Roll - c.Request.ToHit.Value
	c.Missed = c.Margin < 0
	c.report(report.MsgRoll,
		report.Int("roll", c.Roll),
		report.Int("target", c.Request.ToHit.Value),
		report.Int("margin", c.Margin),
	)
	if c.Missed {
		return
	}
	c.Glancing = d.rules.GlancingBlows && c.Margin == 0
	c.DirectHit = d.rules.DirectBlows && c.Margin >= d.rules.DirectBlowMargin
}

// run drives c from its current stage until it resolves or waits on a later
// phase.
func (d *Dispatcher) run(c *Context) {
	v := c.Variant
	for {
		d.logger.Debug("stage",
			zap.String("attack", c.ID),
			zap.String("variant", v.Name),
			zap.Stringer("stage", c.Stage),
		)
		switch c.Stage {
		case StagePrefire:
			if !v.prefire(c) {
				c.finish()
				return
			}
			c.Stage = StageHitCount
		case StageHitCount:
			c.Hits = min(max(v.hitCount(c), 0), c.rack())
			c.Stage = StageDamage
		case StageDamage:
			c.Damage = max(v.damage(c), 0)
			c.Stage = StageApply
		case StageApply:
			v.apply(c)
			c.Stage = StagePost
		case StagePost:
			v.post(c)
			if c.hold {
				c.Stage = StagePending
				c.Status = StatusPending
				return
			}
			c.finish()
			return
		default:
			return
		}
	}
}

func (d *Dispatcher) nextID() string {
	d.seq++
	if d.ids != nil {
		if id, err := uuid.NewRandomFromReader(d.ids); err == nil {
			return id.String()
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("attack/"+strconv.Itoa(d.seq))).String()
}
