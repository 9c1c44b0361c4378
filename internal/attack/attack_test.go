package attack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FireResolver/internal/catalog"
	"FireResolver/internal/dice"
	"FireResolver/internal/report"
	"FireResolver/internal/rules"
	"FireResolver/internal/terrain"
	"FireResolver/internal/unit"
	"FireResolver/internal/world"
)

const catalogFile = "../../data/catalog.yaml"

type fixture struct {
	world *world.State
	log   *report.Log
	d     *Dispatcher
}

// testingT is satisfied by both *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

func newFixture(t testingT, opts rules.Options, r dice.Roller, units ...*unit.Unit) *fixture {
	t.Helper()
	cat, err := catalog.Load(catalogFile)
	require.NoError(t, err)
	w := world.New(nil, r, units)
	log := &report.Log{}
	return &fixture{world: w, log: log, d: NewDispatcher(cat, opts, w, r, log)}
}

func build(u *unit.Unit) *unit.Unit {
	if err := u.Normalize(); err != nil {
		panic(err)
	}
	return u
}

func mek(id string, x, y int) *unit.Unit {
	return build(&unit.Unit{ID: id, Owner: id, Kind: unit.KindMek, Armor: 20, Internal: 10, Position: terrain.Coords{X: x, Y: y}})
}

// armed returns a mek carrying one weapon in the right arm, fed from bins.
func armed(id, weaponType string, bins ...unit.AmmoBin) *unit.Unit {
	w := unit.Mounted{Slot: "gun", Type: weaponType, Location: unit.LocRightArm}
	if len(bins) > 0 {
		w.Ammo = bins[0].Slot
	}
	return build(&unit.Unit{
		ID:       id,
		Owner:    id,
		Kind:     unit.KindMek,
		Armor:    20,
		Internal: 10,
		Weapons:  []unit.Mounted{w},
		Bins:     bins,
	})
}

func shot(toHit, roll, distance int) Request {
	return Request{
		Attacker: "atlas",
		Weapon:   "gun",
		Target:   "hunch",
		ToHit:    ToHit{Kind: ToHitPossible, Value: toHit},
		Roll:     roll,
		Distance: distance,
	}
}

func messages(l *report.Log) []report.Message {
	var out []report.Message
	for _, e := range l.Entries() {
		out = append(out, e.Message)
	}
	return out
}

func first(t *testing.T, l *report.Log, m report.Message) report.Entry {
	t.Helper()
	for _, e := range l.Entries() {
		if e.Message == m {
			return e
		}
	}
	t.Fatalf("no %s entry in %v", m, messages(l))
	return report.Entry{}
}

func TestSingleHit(t *testing.T) {
	atlas := armed("atlas", "Medium Laser")
	hunch := mek("hunch", 0, 3)
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)

	status := f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, StatusResolved, status)
	assert.Equal(t, []report.Message{report.MsgRoll, report.MsgHit, report.MsgDamage, report.MsgHeat}, messages(f.log))
	assert.Equal(t, 15, hunch.Location(unit.LocCenterTorso).Armor)
	assert.Equal(t, 3, atlas.Heat)

	dmg := first(t, f.log, report.MsgDamage)
	assert.Equal(t, "CT", dmg.Fields[0].Text)
	assert.Equal(t, 5, dmg.IntValue("amount"))
}

func TestNoRollOutcomes(t *testing.T) {
	for _, tc := range []struct {
		name  string
		kind  ToHitKind
		entry report.Message
	}{
		{"impossible", ToHitImpossible, report.MsgImpossible},
		{"auto fail", ToHitAutoFail, report.MsgAutoFail},
	} {
		t.Run(tc.name, func(t *testing.T) {
			atlas := armed("atlas", "Medium Laser")
			r := dice.Script(6, 6)
			f := newFixture(t, rules.Default(), r, atlas, mek("hunch", 0, 3))

			req := shot(0, 0, 3)
			req.ToHit = ToHit{Kind: tc.kind, Reason: "no line of sight"}
			assert.Equal(t, StatusResolved, f.d.Resolve(req, PhaseFiring))
			assert.Equal(t, []report.Message{tc.entry}, messages(f.log))
			assert.Equal(t, 2, r.Remaining(), "nothing rolled")
			assert.Zero(t, atlas.Heat)
		})
	}
}

func TestAutoSuccessStillRolls(t *testing.T) {
	atlas := armed("atlas", "Medium Laser")
	r := dice.Script(1, 1, 3, 4)
	f := newFixture(t, rules.Default(), r, atlas, mek("hunch", 0, 3))

	req := shot(0, 0, 3)
	req.ToHit = ToHit{Kind: ToHitAutoSuccess}
	f.d.Resolve(req, PhaseFiring)
	assert.Equal(t, 2, first(t, f.log, report.MsgAutoHit).IntValue("roll"))
	assert.Equal(t, 1, f.log.Count(report.MsgHit))
	assert.Zero(t, f.log.Count(report.MsgGlancing))
	assert.Equal(t, 5, f.log.DamageDealt())
}

func TestUnknownAttackerIsReported(t *testing.T) {
	f := newFixture(t, rules.Default(), dice.Script(), mek("hunch", 0, 3))
	assert.Equal(t, StatusResolved, f.d.Resolve(shot(8, 9, 3), PhaseFiring))
	e := first(t, f.log, report.MsgInternalError)
	assert.Contains(t, e.Fields[0].Text, "unknown unit")
}

func TestOutOfRangeAndNotReady(t *testing.T) {
	atlas := armed("atlas", "Medium Laser")
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	// Extreme band without the extreme range option.
	f.d.Resolve(shot(8, 9, 11), PhaseFiring)
	assert.Equal(t, []report.Message{report.MsgOutOfRange}, messages(f.log))

	atlas.Weapon("gun").Destroyed = true
	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, report.MsgNotReady, f.log.Entries()[1].Message)
	assert.Zero(t, atlas.Heat)
}

func TestGlancingClusterRack(t *testing.T) {
	for _, tc := range []struct {
		weapon, ammo string
		hits, dealt  int
	}{
		// 1 point per missile halves to nothing.
		{"LRM 10", "LRM Ammo", 6, 0},
		{"SRM 6", "SRM Ammo", 4, 4},
	} {
		t.Run(tc.weapon, func(t *testing.T) {
			atlas := armed("atlas", tc.weapon, unit.AmmoBin{Slot: "a", Type: tc.ammo, Shots: 10})
			f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, mek("hunch", 0, 3))

			f.d.Resolve(shot(8, 8, 7), PhaseFiring)
			require.Equal(t, 1, f.log.Count(report.MsgGlancing))
			hits := first(t, f.log, report.MsgHits)
			assert.Equal(t, tc.hits, hits.IntValue("hits"))
			assert.Equal(t, 7, hits.IntValue("roll"))
			assert.Zero(t, hits.IntValue("modifier"), "glancing leaves the cluster roll alone by default")
			assert.Equal(t, tc.dealt, f.log.DamageDealt())
		})
	}
}

func TestGlancingClusterPenalty(t *testing.T) {
	opts := rules.Default()
	opts.GlancingClusterPenalty = true
	atlas := armed("atlas", "LRM 10", unit.AmmoBin{Slot: "a", Type: "LRM Ammo", Shots: 10})
	f := newFixture(t, opts, dice.Script(3, 4), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 8, 7), PhaseFiring)
	hits := first(t, f.log, report.MsgHits)
	assert.Equal(t, -4, hits.IntValue("modifier"))
	assert.Equal(t, 3, hits.IntValue("hits"))
}

func TestDirectBlowBonus(t *testing.T) {
	atlas := armed("atlas", "AC/10", unit.AmmoBin{Slot: "a", Type: "AC/10 Ammo", Shots: 10})
	hunch := mek("hunch", 0, 3)
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)

	f.d.Resolve(shot(6, 12, 3), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgDirectBlow))
	assert.Equal(t, 12, f.log.DamageDealt(), "margin 6 adds 2")
	assert.Equal(t, 9, atlas.Bin("a").Shots)
}

func TestDirectBlowAllShots(t *testing.T) {
	opts := rules.Default()
	opts.DirectBlowAllShots = true
	opts.AllShotsRangeReduction = true
	atlas := armed("atlas", "SRM 6", unit.AmmoBin{Slot: "a", Type: "SRM Ammo", Shots: 10})
	f := newFixture(t, opts, dice.Script(), atlas, mek("hunch", 0, 3))

	// Long range: 3/4 of six.
	f.d.Resolve(shot(4, 10, 8), PhaseFiring)
	hits := first(t, f.log, report.MsgHits)
	assert.Equal(t, "all_shots", hits.Fields[2].Text)
	assert.Equal(t, 4, hits.IntValue("hits"))
}

func TestAmmoFeedProblems(t *testing.T) {
	for _, tc := range []struct {
		name      string
		faces     []int
		entry     report.Message
		destroyed bool
		jammed    bool
		heat      int
		shots     int
	}{
		{"detonation", []int{6, 6}, report.MsgDetonation, true, false, 0, 10},
		{"jam", []int{5, 5}, report.MsgJammed, false, true, 0, 10},
		{"no effect", []int{3, 4}, report.MsgFeedNoEffect, false, false, 3, 9},
	} {
		t.Run(tc.name, func(t *testing.T) {
			atlas := armed("atlas", "AC/10", unit.AmmoBin{Slot: "a", Type: "AC/10 Ammo", Shots: 10})
			atlas.Weapon("gun").Quirks = []string{"ammo_feed_problems"}
			f := newFixture(t, rules.Default(), dice.Script(tc.faces...), atlas, mek("hunch", 0, 3))

			f.d.Resolve(shot(8, 2, 3), PhaseFiring)
			assert.Equal(t, 1, f.log.Count(tc.entry))
			w := atlas.Weapon("gun")
			assert.Equal(t, tc.destroyed, w.Destroyed)
			assert.Equal(t, tc.jammed, w.Jammed)
			assert.Equal(t, tc.heat, atlas.Heat)
			assert.Equal(t, tc.shots, atlas.Bin("a").Shots)
		})
	}
}

func TestFeedQuirkNeedsQuirkOption(t *testing.T) {
	opts := rules.Default()
	opts.Quirks = false
	atlas := armed("atlas", "AC/10", unit.AmmoBin{Slot: "a", Type: "AC/10 Ammo", Shots: 10})
	atlas.Weapon("gun").Quirks = []string{"ammo_feed_problems"}
	f := newFixture(t, opts, dice.Script(6, 6), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 2, 3), PhaseFiring)
	assert.Zero(t, f.log.Count(report.MsgDetonation))
	assert.Equal(t, 1, f.log.Count(report.MsgMiss))
}

func TestUltraJamsOnNaturalTwo(t *testing.T) {
	atlas := armed("atlas", "Ultra AC/5", unit.AmmoBin{Slot: "a", Type: "Ultra AC/5 Ammo", Shots: 20})
	atlas.Weapon("gun").Mode = unit.ModeUltra
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 2, 5), PhaseFiring)
	assert.True(t, atlas.Weapon("gun").Jammed)
	assert.Equal(t, 20, atlas.Bin("a").Shots)
	assert.Zero(t, atlas.Heat)
}

func TestUltraBurstRollsCluster(t *testing.T) {
	atlas := armed("atlas", "Ultra AC/5", unit.AmmoBin{Slot: "a", Type: "Ultra AC/5 Ammo", Shots: 20})
	atlas.Weapon("gun").Mode = unit.ModeUltra
	// Cluster roll 10: both rounds hit.
	f := newFixture(t, rules.Default(), dice.Script(5, 5, 3, 4, 3, 4), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 9, 5), PhaseFiring)
	assert.Equal(t, 2, first(t, f.log, report.MsgHits).IntValue("hits"))
	assert.Equal(t, 10, f.log.DamageDealt())
	assert.Equal(t, 18, atlas.Bin("a").Shots)
	assert.Equal(t, 2, atlas.Heat)
}

func TestRotaryBurstJams(t *testing.T) {
	atlas := armed("atlas", "Rotary AC/5", unit.AmmoBin{Slot: "a", Type: "Rotary AC/5 Ammo", Shots: 20})
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	req := shot(4, 4, 5)
	req.Shots = 6
	f.d.Resolve(req, PhaseFiring)
	assert.True(t, atlas.Weapon("gun").Jammed)
	assert.Equal(t, 6, first(t, f.log, report.MsgJammed).IntValue("shots"))
}

func TestAmmoRunsDryMidBurst(t *testing.T) {
	atlas := armed("atlas", "Rotary AC/5", unit.AmmoBin{Slot: "a", Type: "Rotary AC/5 Ammo", Shots: 3})
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	req := shot(8, 5, 5)
	req.Shots = 6
	f.d.Resolve(req, PhaseFiring)
	dry := first(t, f.log, report.MsgAmmoDry)
	assert.Equal(t, 3, dry.IntValue("fired"))
	assert.Zero(t, atlas.Bin("a").Shots)
}

func TestRelinksEmptyBin(t *testing.T) {
	atlas := armed("atlas", "LRM 10",
		unit.AmmoBin{Slot: "a", Type: "LRM Ammo", Shots: 0},
		unit.AmmoBin{Slot: "b", Type: "LRM Ammo", Shots: 12},
	)
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 5, 7), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgAmmoRelinked))
	assert.Equal(t, "b", atlas.Weapon("gun").Ammo)
	assert.Equal(t, 11, atlas.Bin("b").Shots)
}

func TestNoAmmoLeft(t *testing.T) {
	atlas := armed("atlas", "LRM 10", unit.AmmoBin{Slot: "a", Type: "LRM Ammo", Shots: 0})
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 9, 7), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgNoAmmo))
	assert.Zero(t, atlas.Heat)
}

func TestStreak(t *testing.T) {
	atlas := armed("atlas", "Streak SRM 4", unit.AmmoBin{Slot: "a", Type: "Streak SRM Ammo", Shots: 25})
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 5, 3), PhaseFiring)
	assert.Zero(t, atlas.Heat, "a streak that fails to lock does not fire")
	assert.Equal(t, 25, atlas.Bin("a").Shots)

	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, 4, first(t, f.log, report.MsgHits).IntValue("hits"))
	assert.Equal(t, 8, f.log.DamageDealt())
	assert.Equal(t, 3, atlas.Heat)
	assert.Equal(t, 24, atlas.Bin("a").Shots)
}

func TestAMSAgainstMissiles(t *testing.T) {
	atlas := armed("atlas", "LRM 10", unit.AmmoBin{Slot: "a", Type: "LRM Ammo", Shots: 12})
	hunch := mek("hunch", 0, 3)
	hunch.AMS = &unit.AMS{Ammo: 12}
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)

	f.d.Resolve(shot(8, 9, 7), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgAMS))
	hits := first(t, f.log, report.MsgHits)
	assert.Equal(t, -4, hits.IntValue("modifier"))
	assert.Equal(t, 3, hits.IntValue("hits"))
	assert.Equal(t, 11, hunch.AMS.Ammo)
	assert.True(t, hunch.AMS.UsedThisTurn)
}

func TestInfantryTargetCollapsesHits(t *testing.T) {
	for _, tc := range []struct {
		name       string
		mechanized bool
		troopers   int
	}{
		// 2 x 6 missiles = 12, /5 rounds up to 3, doubled in the open.
		{"open", false, 22},
		{"mechanized", true, 25},
	} {
		t.Run(tc.name, func(t *testing.T) {
			atlas := armed("atlas", "SRM 6", unit.AmmoBin{Slot: "a", Type: "SRM Ammo", Shots: 15})
			rifles := build(&unit.Unit{ID: "hunch", Kind: unit.KindInfantry, Troopers: 28, Mechanized: tc.mechanized})
			f := newFixture(t, rules.Default(), dice.Script(), atlas, rifles)

			f.d.Resolve(shot(8, 9, 3), PhaseFiring)
			hits := first(t, f.log, report.MsgHits)
			assert.Equal(t, 1, hits.IntValue("hits"))
			assert.Equal(t, "infantry", hits.Fields[2].Text)
			assert.Equal(t, tc.troopers, rifles.Troopers)
		})
	}
}

func TestInfantryPlatoonFires(t *testing.T) {
	platoon := build(&unit.Unit{
		ID:       "atlas",
		Kind:     unit.KindInfantry,
		Troopers: 28,
		Weapons:  []unit.Mounted{{Slot: "gun", Type: "Laser Rifle", Location: unit.LocTroopers}},
	})
	hunch := mek("hunch", 0, 1)
	f := newFixture(t, rules.Default(), dice.Script(), platoon, hunch)

	// 0.37 x 28 = 10.36, rounded to 10, landed in 2-point clusters.
	f.d.Resolve(shot(8, 9, 1), PhaseFiring)
	assert.Equal(t, 5, f.log.Count(report.MsgDamage))
	assert.Equal(t, 10, f.log.DamageDealt())
}

func TestBuildingAbsorbsFirst(t *testing.T) {
	atlas := armed("atlas", "Medium Laser")
	hunch := mek("hunch", 0, 3)
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)
	hall := &terrain.Building{Name: "hall", CF: 40, Absorption: 3}
	f.world.Board.Hex(hunch.Position).Building = hall

	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	absorbed := first(t, f.log, report.MsgBuildingAbsorbs)
	assert.Equal(t, 3, absorbed.IntValue("absorbed"))
	assert.Equal(t, 2, f.log.DamageDealt())
	assert.Equal(t, 18, hunch.Location(unit.LocCenterTorso).Armor)
	assert.Equal(t, 37, hall.CF)
	assert.Zero(t, hall.Absorption)
}

func TestPartialCoverStopsLegHits(t *testing.T) {
	atlas := armed("atlas", "Medium Laser")
	hunch := mek("hunch", 0, 3)
	hunch.PartialCover = true
	// 5 on the front table is the right leg.
	f := newFixture(t, rules.Default(), dice.Script(2, 3), atlas, hunch)

	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgStrikesCover))
	assert.Zero(t, f.log.DamageDealt())
}

func TestArmorPiercingCrits(t *testing.T) {
	atlas := armed("atlas", "AC/5", unit.AmmoBin{Slot: "a", Type: "AC/5 AP Ammo", Shots: 10})
	hunch := mek("hunch", 0, 4)
	// Location 7 (CT), then the forced critical roll 12-3.
	f := newFixture(t, rules.Default(), dice.Script(3, 4, 6, 6), atlas, hunch)

	f.d.Resolve(shot(8, 9, 4), PhaseFiring)
	assert.Equal(t, 1, hunch.Crits)
	assert.Equal(t, 1, first(t, f.log, report.MsgDamage).IntValue("crits"))
}

func TestAPCritModifierTable(t *testing.T) {
	assert.Equal(t, -1, apCritModifier(20))
	assert.Equal(t, -2, apCritModifier(10))
	assert.Equal(t, -3, apCritModifier(5))
	assert.Equal(t, -4, apCritModifier(2))
}

func TestTaser(t *testing.T) {
	atlas := armed("atlas", "Mek Taser", unit.AmmoBin{Slot: "a", Type: "Taser Ammo", Shots: 5})
	hunch := mek("hunch", 0, 1)
	// Location, taser effect 8, feedback 2.
	f := newFixture(t, rules.Default(), dice.Script(3, 4, 4, 4, 1, 1), atlas, hunch)

	f.d.Resolve(shot(8, 9, 1), PhaseFiring)
	assert.Equal(t, 3, hunch.ShutdownTurns)
	assert.Equal(t, 1, f.log.Count(report.MsgShutdown))
	assert.Zero(t, first(t, f.log, report.MsgTaserFeedback).IntValue("turns"))
	assert.Zero(t, atlas.ShutdownTurns)
	assert.Equal(t, 6, atlas.Heat)
}

func TestTaserInterference(t *testing.T) {
	atlas := armed("atlas", "Mek Taser", unit.AmmoBin{Slot: "a", Type: "Taser Ammo", Shots: 5})
	hunch := mek("hunch", 0, 1)
	// Taser effect 5, feedback 10.
	f := newFixture(t, rules.Default(), dice.Script(3, 4, 2, 3, 5, 5), atlas, hunch)

	f.d.Resolve(shot(8, 9, 1), PhaseFiring)
	assert.Equal(t, 1, hunch.Interference)
	assert.Equal(t, 3, hunch.InterferenceTurns)
	assert.Equal(t, 1, atlas.ShutdownTurns)
}

func TestTagHeldUntilEndPhase(t *testing.T) {
	atlas := armed("atlas", "TAG")
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	assert.Equal(t, StatusPending, f.d.Resolve(shot(8, 9, 3), PhaseFiring))
	require.Len(t, f.world.Tags(), 1)
	tag := f.world.Tags()[0]
	assert.True(t, tag.Hit)
	assert.Equal(t, "hunch", tag.Target)
	assert.Equal(t, 1, tag.Priority)

	f.d.Advance(PhaseOffboard)
	assert.Equal(t, 1, f.d.Pending())

	f.d.Advance(PhaseEnd)
	assert.Zero(t, f.d.Pending())
	assert.Empty(t, f.world.Tags())
	assert.Equal(t, 1, f.log.Count(report.MsgTagExpired))
}

func TestTagMissStillRecorded(t *testing.T) {
	atlas := armed("atlas", "TAG")
	atlas.Weapon("gun").Mode = unit.ModeFocused
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 4, 3), PhaseFiring)
	require.Len(t, f.world.Tags(), 1)
	assert.False(t, f.world.Tags()[0].Hit)
	assert.Equal(t, 2, f.world.Tags()[0].Priority)
}

func battery(ammo string) *unit.Unit {
	return build(&unit.Unit{
		ID:       "atlas",
		Owner:    "blue",
		Kind:     unit.KindTank,
		Armor:    10,
		Internal: 5,
		Weapons:  []unit.Mounted{{Slot: "gun", Type: "Arrow IV", Location: unit.LocTurret, Ammo: "a"}},
		Bins:     []unit.AmmoBin{{Slot: "a", Type: ammo, Shots: 5}},
	})
}

func TestArtilleryLandsAfterFlight(t *testing.T) {
	arty := battery("Arrow IV Ammo")
	hunch := mek("hunch", 10, 10)
	f := newFixture(t, rules.Default(), dice.Script(), arty, hunch)

	at := hunch.Position
	req := Request{Attacker: "atlas", Weapon: "gun", Hex: &at, ToHit: ToHit{Value: 8}, Roll: 10, Distance: 10}
	assert.Equal(t, StatusPending, f.d.Resolve(req, PhaseFiring))
	assert.Equal(t, 1, f.log.Count(report.MsgInFlight))
	assert.Equal(t, 10, arty.Heat, "charged at launch")
	assert.Equal(t, 4, arty.Bin("a").Shots)
	assert.Zero(t, f.log.DamageDealt())

	f.d.Advance(PhaseFiring)
	assert.Equal(t, 1, f.d.Pending(), "only the offboard phase moves rounds")

	f.d.Advance(PhaseOffboard)
	assert.Zero(t, f.d.Pending())
	assert.Equal(t, 1, f.log.Count(report.MsgLanded))
	assert.Equal(t, 20, f.log.DamageDealt())
	assert.Equal(t, 4, f.log.Count(report.MsgDamage), "5-point clusters")
	assert.Equal(t, 10, arty.Heat, "not charged again on landing")
	assert.Equal(t, 4, arty.Bin("a").Shots)
}

func TestArtillerySplash(t *testing.T) {
	arty := battery("Arrow IV Ammo")
	hunch := mek("hunch", 10, 10)
	center := hunch.Position
	next := center.Adjacent()[0]
	spider := mek("spider", next.X, next.Y)
	f := newFixture(t, rules.Default(), dice.Script(), arty, hunch, spider)

	req := Request{Attacker: "atlas", Weapon: "gun", Hex: &center, ToHit: ToHit{Value: 8}, Roll: 10, Distance: 10}
	f.d.Resolve(req, PhaseFiring)
	f.d.Advance(PhaseOffboard)
	assert.Equal(t, 30, f.log.DamageDealt(), "20 at the center, 10 next door")
}

func TestArtilleryOnOccupiedBuilding(t *testing.T) {
	arty := battery("Arrow IV Ammo")
	hunch := mek("hunch", 10, 10)
	f := newFixture(t, rules.Default(), sevens(4), arty, hunch)
	hall := &terrain.Building{Name: "hall", CF: 40, Absorption: 10}
	f.world.Board.Hex(hunch.Position).Building = hall

	at := hunch.Position
	req := Request{Attacker: "atlas", Weapon: "gun", Hex: &at, ToHit: ToHit{Value: 8}, Roll: 10, Distance: 10}
	f.d.Resolve(req, PhaseFiring)
	f.d.Advance(PhaseOffboard)

	// Two clusters soaked by the walls, two reach the mek, and the
	// building takes only the part it did not already absorb.
	assert.Equal(t, 2, f.log.Count(report.MsgBuildingAbsorbs))
	assert.Equal(t, 10, f.log.DamageDealt())
	damaged := first(t, f.log, report.MsgBuildingDamaged)
	assert.Equal(t, 10, damaged.IntValue("damage"))
	assert.Equal(t, 20, damaged.IntValue("cf"))
	assert.Equal(t, 20, hall.CF)
	assert.Zero(t, hall.Absorption)
}

func TestArtilleryMissScatters(t *testing.T) {
	arty := battery("Arrow IV Ammo")
	hunch := mek("hunch", 10, 10)
	// Scatter direction die.
	f := newFixture(t, rules.Default(), dice.Script(1), arty, hunch)

	at := hunch.Position
	req := Request{Attacker: "atlas", Weapon: "gun", Hex: &at, ToHit: ToHit{Value: 8}, Roll: 5, Distance: 10}
	f.d.Resolve(req, PhaseFiring)
	f.d.Advance(PhaseOffboard)
	scatter := first(t, f.log, report.MsgScatter)
	assert.Equal(t, 3, scatter.IntValue("distance"))
	assert.Equal(t, at.Translated(0, 3).String(), first(t, f.log, report.MsgLanded).Target)
}

func TestHomingArtillery(t *testing.T) {
	t.Run("no designation", func(t *testing.T) {
		arty := battery("Arrow IV Homing Ammo")
		hunch := mek("hunch", 10, 10)
		f := newFixture(t, rules.Default(), dice.Script(), arty, hunch)

		at := hunch.Position
		f.d.Resolve(Request{Attacker: "atlas", Weapon: "gun", Hex: &at, ToHit: ToHit{Value: 8}, Roll: 10, Distance: 10}, PhaseFiring)
		f.d.Advance(PhaseOffboard)
		assert.Equal(t, 1, f.log.Count(report.MsgHomingNoTag))
		assert.Zero(t, f.log.DamageDealt())
	})

	t.Run("rides the tag", func(t *testing.T) {
		arty := battery("Arrow IV Homing Ammo")
		spotter := armed("spotter", "TAG")
		hunch := mek("hunch", 10, 10)
		f := newFixture(t, rules.Default(), dice.Script(), arty, spotter, hunch)

		paint := shot(8, 9, 5)
		paint.Attacker = "spotter"
		f.d.Resolve(paint, PhaseFiring)

		aim := terrain.Coords{X: 12, Y: 12}
		f.d.Resolve(Request{Attacker: "atlas", Weapon: "gun", Hex: &aim, ToHit: ToHit{Value: 8}, Roll: 10, Distance: 10}, PhaseFiring)
		f.d.Advance(PhaseOffboard)
		assert.Equal(t, hunch.Position.String(), first(t, f.log, report.MsgLanded).Target)
		assert.Equal(t, 20, f.log.DamageDealt())

		f.d.Advance(PhaseEnd)
		assert.Zero(t, f.d.Pending())
	})
}

func warship(opts ...func(*unit.Unit)) *unit.Unit {
	u := &unit.Unit{
		ID:       "atlas",
		Kind:     unit.KindCapital,
		Armor:    100,
		Internal: 50,
		Weapons: []unit.Mounted{
			{Slot: "bay", Type: "Laser Bay", Location: unit.LocNose, Bay: []string{"nl", "ar"}},
			{Slot: "nl", Type: "Naval Laser 35", Location: unit.LocNose},
			{Slot: "ar", Type: "AR10 Launcher", Location: unit.LocNose, Ammo: "ar-a"},
		},
		Bins: []unit.AmmoBin{{Slot: "ar-a", Type: "AR10 Barracuda", Shots: 4}},
	}
	for _, o := range opts {
		o(u)
	}
	return build(u)
}

func corvette() *unit.Unit {
	return build(&unit.Unit{ID: "hunch", Kind: unit.KindCapital, Armor: 30, Internal: 10, Threshold: 5})
}

func bayShot() Request {
	r := shot(8, 9, 5)
	r.Weapon = "bay"
	return r
}

func TestBayAggregatesAttackValue(t *testing.T) {
	ship := warship()
	target := corvette()
	f := newFixture(t, rules.Default(), dice.Script(), ship, target)

	f.d.Resolve(bayShot(), PhaseFiring)
	// 3.5 + 1 x 2 (Barracuda) = 5.5, rounded up once.
	assert.Equal(t, 6, first(t, f.log, report.MsgBayValue).IntValue("value"))
	assert.Equal(t, 6, f.log.DamageDealt())
	assert.Equal(t, 1, f.log.Count(report.MsgThreshold))
	assert.Equal(t, 72, ship.Heat)
	assert.Equal(t, 3, ship.Bin("ar-a").Shots)
}

func TestBaySkipsBrokenMembers(t *testing.T) {
	ship := warship(func(u *unit.Unit) { u.Weapons[1].Breached = true })
	f := newFixture(t, rules.Default(), dice.Script(), ship, corvette())

	f.d.Resolve(bayShot(), PhaseFiring)
	assert.Equal(t, 1, first(t, f.log, report.MsgBayValue).IntValue("members"))
	assert.Equal(t, 2, f.log.DamageDealt())
	assert.Zero(t, f.log.Count(report.MsgThreshold))
	assert.Equal(t, 20, ship.Heat)
}

func TestBayHeatPerArc(t *testing.T) {
	opts := rules.Default()
	opts.BayHeat = rules.HeatPerArc
	ship := warship()
	f := newFixture(t, opts, dice.Script(), ship, corvette())

	f.d.Resolve(bayShot(), PhaseFiring)
	f.d.Resolve(bayShot(), PhaseFiring)
	assert.Equal(t, 72, ship.Heat, "the arc pays once")
	assert.Equal(t, 2, ship.Bin("ar-a").Shots)

	ship.NewTurn()
	f.d.Resolve(bayShot(), PhaseFiring)
	assert.Equal(t, 144, ship.Heat)
}

func TestCapitalDamageScalesAgainstSmallCraft(t *testing.T) {
	ship := warship()
	target := build(&unit.Unit{ID: "hunch", Kind: unit.KindAero, Armor: 100, Internal: 20})
	f := newFixture(t, rules.Default(), dice.Script(), ship, target)

	f.d.Resolve(bayShot(), PhaseFiring)
	assert.Equal(t, 60, f.log.DamageDealt())
}

func TestNarcGuidesLaterSalvos(t *testing.T) {
	atlas := build(&unit.Unit{
		ID:       "atlas",
		Owner:    "blue",
		Kind:     unit.KindMek,
		Armor:    20,
		Internal: 10,
		Weapons: []unit.Mounted{
			{Slot: "narc", Type: "Narc Missile Beacon", Location: unit.LocLeftArm, Ammo: "pods"},
			{Slot: "gun", Type: "LRM 10", Location: unit.LocRightArm, Ammo: "a"},
		},
		Bins: []unit.AmmoBin{
			{Slot: "pods", Type: "Narc Pods", Shots: 6},
			{Slot: "a", Type: "LRM Narc-Capable Ammo", Shots: 12},
		},
	})
	hunch := mek("hunch", 0, 3)
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)

	beacon := shot(8, 9, 3)
	beacon.Weapon = "narc"
	f.d.Resolve(beacon, PhaseFiring)
	assert.Equal(t, []string{"blue"}, hunch.NarcPods)

	f.d.Resolve(shot(8, 9, 7), PhaseFiring)
	assert.Equal(t, 2, first(t, f.log, report.MsgHits).IntValue("modifier"))
}

func TestThunderLaysMinefield(t *testing.T) {
	atlas := armed("atlas", "LRM 10", unit.AmmoBin{Slot: "a", Type: "LRM Thunder Ammo", Shots: 12})
	hunch := mek("hunch", 0, 7)
	f := newFixture(t, rules.Default(), dice.Script(), atlas, hunch)

	at := hunch.Position
	req := shot(8, 9, 7)
	req.Target, req.Hex = "", &at
	f.d.Resolve(req, PhaseFiring)
	require.Len(t, f.world.Hex(at).Minefields, 1)
	assert.Equal(t, 2, f.world.Hex(at).Minefields[0].Density)
	assert.Zero(t, f.log.DamageDealt())
}

func TestInfernoHeatsMeks(t *testing.T) {
	atlas := armed("atlas", "SRM 6", unit.AmmoBin{Slot: "a", Type: "SRM Inferno Ammo", Shots: 15})
	hunch := mek("hunch", 0, 3)
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, hunch)

	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, 8, hunch.HeatInflicted, "four missiles, two heat each")
	assert.Zero(t, f.log.DamageDealt())
}

func TestPPCCapacitor(t *testing.T) {
	atlas := armed("atlas", "PPC")
	atlas.Weapon("gun").Capacitor = true
	f := newFixture(t, rules.Default(), dice.Script(3, 4), atlas, mek("hunch", 0, 5))

	f.d.Resolve(shot(8, 9, 5), PhaseFiring)
	assert.Equal(t, 15, f.log.DamageDealt())
	assert.Equal(t, 15, atlas.Heat)
	assert.False(t, atlas.Weapon("gun").Capacitor)
}

func TestPPCInhibitorExplosion(t *testing.T) {
	atlas := armed("atlas", "PPC")
	atlas.Weapon("gun").Mode = unit.ModeInhibitorOff
	f := newFixture(t, rules.Default(), dice.Script(1, 2), atlas, mek("hunch", 0, 2))

	f.d.Resolve(shot(8, 9, 2), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgInhibitorExplosion))
	assert.True(t, atlas.Weapon("gun").Destroyed)
	assert.Zero(t, atlas.Heat)
}

func TestRocketLauncherIsOneShot(t *testing.T) {
	atlas := armed("atlas", "Rocket Launcher 10")
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))

	f.d.Resolve(shot(8, 5, 3), PhaseFiring)
	assert.True(t, atlas.Weapon("gun").Spent)
	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, 1, f.log.Count(report.MsgNotReady))
}

func TestAttackIDs(t *testing.T) {
	atlas := armed("atlas", "TAG")
	f := newFixture(t, rules.Default(), dice.Script(), atlas, mek("hunch", 0, 3))
	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	f.d.Resolve(shot(8, 9, 3), PhaseFiring)
	tags := f.world.Tags()
	require.Len(t, tags, 2)
	assert.NotEqual(t, tags[0].ID, tags[1].ID)

	g := newFixture(t, rules.Default(), dice.Script(), armed("atlas", "TAG"), mek("hunch", 0, 3))
	g.d.Resolve(shot(8, 9, 3), PhaseFiring)
	assert.Equal(t, tags[0].ID, g.world.Tags()[0].ID, "ids follow the attack sequence")
}
