// Package report is the append-only, structured battle log. Entries carry a
// message id and typed fields; turning them into prose is left to whatever
// presents the log.
package report

import (
	"fmt"
	"strings"
)

// Message identifies what an entry records.
type Message int

const (
	MsgInternalError Message = iota
	MsgImpossible
	MsgAutoFail
	MsgAutoHit
	MsgRoll
	MsgMiss
	MsgHit
	MsgGlancing
	MsgDirectBlow
	MsgNotReady
	MsgOutOfRange
	MsgNoAmmo
	MsgAmmoDry
	MsgAmmoRelinked
	MsgFeedNoEffect
	MsgJammed
	MsgDetonation
	MsgInhibitorExplosion
	MsgCapacitor
	MsgHits
	MsgAMS
	MsgDamage
	MsgStrikesCover
	MsgBuildingAbsorbs
	MsgBuildingDamaged
	MsgWoodsCleared
	MsgHeat
	MsgHeatInflicted
	MsgShutdown
	MsgInterference
	MsgTaserNoEffect
	MsgTaserFeedback
	MsgTagged
	MsgTagExpired
	MsgNarcAttached
	MsgMinefield
	MsgSmoke
	MsgScatter
	MsgFireStarted
	MsgInFlight
	MsgLanded
	MsgHomingNoTag
	MsgBayValue
	MsgThreshold
	MsgTSMDisabled
	MsgDestroyed
	MsgNoEffect
)

var messageNames = [...]string{
	MsgInternalError:      "internal_error",
	MsgImpossible:         "impossible",
	MsgAutoFail:           "auto_fail",
	MsgAutoHit:            "auto_hit",
	MsgRoll:               "roll",
	MsgMiss:               "miss",
	MsgHit:                "hit",
	MsgGlancing:           "glancing",
	MsgDirectBlow:         "direct_blow",
	MsgNotReady:           "not_ready",
	MsgOutOfRange:         "out_of_range",
	MsgNoAmmo:             "no_ammo",
	MsgAmmoDry:            "ammo_dry",
	MsgAmmoRelinked:       "ammo_relinked",
	MsgFeedNoEffect:       "feed_no_effect",
	MsgJammed:             "jammed",
	MsgDetonation:         "detonation",
	MsgInhibitorExplosion: "inhibitor_explosion",
	MsgCapacitor:          "capacitor",
	MsgHits:               "hits",
	MsgAMS:                "ams",
	MsgDamage:             "damage",
	MsgStrikesCover:       "strikes_cover",
	MsgBuildingAbsorbs:    "building_absorbs",
	MsgBuildingDamaged:    "building_damaged",
	MsgWoodsCleared:       "woods_cleared",
	MsgHeat:               "heat",
	MsgHeatInflicted:      "heat_inflicted",
	MsgShutdown:           "shutdown",
	MsgInterference:       "interference",
	MsgTaserNoEffect:      "taser_no_effect",
	MsgTaserFeedback:      "taser_feedback",
	MsgTagged:             "tagged",
	MsgTagExpired:         "tag_expired",
	MsgNarcAttached:       "narc_attached",
	MsgMinefield:          "minefield",
	MsgSmoke:              "smoke",
	MsgScatter:            "scatter",
	MsgFireStarted:        "fire_started",
	MsgInFlight:           "in_flight",
	MsgLanded:             "landed",
	MsgHomingNoTag:        "homing_no_tag",
	MsgBayValue:           "bay_value",
	MsgThreshold:          "threshold",
	MsgTSMDisabled:        "tsm_disabled",
	MsgDestroyed:          "destroyed",
	MsgNoEffect:           "no_effect",
}

func (m Message) String() string {
	if int(m) >= 0 && int(m) < len(messageNames) {
		return messageNames[m]
	}
	return fmt.Sprintf("message(%d)", int(m))
}

// Field is one typed payload value. Exactly one of Int and Text is meaningful.
type Field struct {
	Key  string
	Int  int
	Text string
	text bool
}

// Int returns a numeric field.
func Int(key string, v int) Field { return Field{Key: key, Int: v} }

// Str returns a categorical field.
func Str(key, v string) Field { return Field{Key: key, Text: v, text: true} }

func (f Field) String() string {
	if f.text {
		return f.Key + "=" + f.Text
	}
	return fmt.Sprintf("%s=%d", f.Key, f.Int)
}

// Entry is one battle log line.
type Entry struct {
	Message  Message
	Attacker string
	Target   string
	Weapon   string
	Fields   []Field
}

// Get returns the field named key.
func (e Entry) Get(key string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// IntValue returns the numeric field named key, 0 when absent.
func (e Entry) IntValue(key string) int {
	f, _ := e.Get(key)
	return f.Int
}

func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Message.String())
	for _, part := range []struct{ k, v string }{{"attacker", e.Attacker}, {"target", e.Target}, {"weapon", e.Weapon}} {
		if part.v != "" {
			fmt.Fprintf(&b, " %s=%q", part.k, part.v)
		}
	}
	for _, f := range e.Fields {
		b.WriteByte(' ')
		b.WriteString(f.String())
	}
	return b.String()
}

// Log is an append-only sequence of entries.
type Log struct {
	entries []Entry
}

// Add appends an entry.
func (l *Log) Add(e Entry) { l.entries = append(l.entries, e) }

// Entries returns a copy of every entry in order.
func (l *Log) Entries() []Entry { return append([]Entry(nil), l.entries...) }

// Since returns the entries appended after the first n.
func (l *Log) Since(n int) []Entry {
	if n >= len(l.entries) {
		return nil
	}
	return append([]Entry(nil), l.entries[n:]...)
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Count returns how many entries carry message m.
func (l *Log) Count(m Message) int {
	n := 0
	for _, e := range l.entries {
		if e.Message == m {
			n++
		}
	}
	return n
}

// DamageDealt sums the amount of every damage entry.
func (l *Log) DamageDealt() int {
	total := 0
	for _, e := range l.entries {
		if e.Message == MsgDamage {
			total += e.IntValue("amount")
		}
	}
	return total
}
