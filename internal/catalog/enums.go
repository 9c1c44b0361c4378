package catalog

import (
	"fmt"
	"sort"
)

// Family is the closed set of weapon behavior families. Catalog files name a
// family by string; the string is resolved once here at load time.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyLaser
	FamilyPulseLaser
	FamilyPPC
	FamilyFlamer
	FamilyPlasma
	FamilyVSP
	FamilyTaser
	FamilyTAG
	FamilyAutocannon
	FamilyUltraAC
	FamilyRotaryAC
	FamilyLBX
	FamilyGauss
	FamilyHAG
	FamilyMachineGun
	FamilyRifle
	FamilyLRM
	FamilySRM
	FamilyMRM
	FamilyStreakSRM
	FamilyStreakLRM
	FamilyATM
	FamilyMML
	FamilyRocketLauncher
	FamilyThunderbolt
	FamilyNarc
	FamilyArrowIV
	FamilyArtillery
	FamilyInfantry
	FamilyCapitalBay
)

var familyNames = map[string]Family{
	"laser":           FamilyLaser,
	"pulse_laser":     FamilyPulseLaser,
	"ppc":             FamilyPPC,
	"flamer":          FamilyFlamer,
	"plasma":          FamilyPlasma,
	"vsp":             FamilyVSP,
	"taser":           FamilyTaser,
	"tag":             FamilyTAG,
	"autocannon":      FamilyAutocannon,
	"ultra_ac":        FamilyUltraAC,
	"rotary_ac":       FamilyRotaryAC,
	"lbx":             FamilyLBX,
	"gauss":           FamilyGauss,
	"hag":             FamilyHAG,
	"machine_gun":     FamilyMachineGun,
	"rifle":           FamilyRifle,
	"lrm":             FamilyLRM,
	"srm":             FamilySRM,
	"mrm":             FamilyMRM,
	"streak_srm":      FamilyStreakSRM,
	"streak_lrm":      FamilyStreakLRM,
	"atm":             FamilyATM,
	"mml":             FamilyMML,
	"rocket_launcher": FamilyRocketLauncher,
	"thunderbolt":     FamilyThunderbolt,
	"narc":            FamilyNarc,
	"arrow_iv":        FamilyArrowIV,
	"artillery":       FamilyArtillery,
	"infantry":        FamilyInfantry,
	"capital_bay":     FamilyCapitalBay,
}

func (f Family) String() string {
	for name, v := range familyNames {
		if v == f {
			return name
		}
	}
	return "unknown"
}

// Missile reports whether the family fires missiles AMS can engage.
func (f Family) Missile() bool {
	switch f {
	case FamilyLRM, FamilySRM, FamilyMRM, FamilyStreakSRM, FamilyStreakLRM,
		FamilyATM, FamilyMML, FamilyRocketLauncher, FamilyThunderbolt, FamilyNarc, FamilyArrowIV:
		return true
	}
	return false
}

func (f *Family) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := familyNames[s]
	if !ok {
		return fmt.Errorf("unknown weapon family %q (known: %v)", s, knownNames(familyNames))
	}
	*f = v
	return nil
}

// Munition is the closed set of ammunition sub-types.
type Munition int

const (
	MunitionStandard Munition = iota
	MunitionArmorPiercing
	MunitionFlechette
	MunitionPrecision
	MunitionFlak
	MunitionTracer
	MunitionSlug
	MunitionCluster
	MunitionDeadFire
	MunitionFragmentation
	MunitionInferno
	MunitionAcid
	MunitionAntiTSM
	MunitionSmoke
	MunitionThunder
	MunitionExtendedRange
	MunitionHighExplosive
	MunitionHoming
	MunitionIncendiary
	MunitionNarcCapable
	MunitionKillerWhale
	MunitionWhiteShark
	MunitionBarracuda
)

var munitionNames = map[string]Munition{
	"standard":       MunitionStandard,
	"armor_piercing": MunitionArmorPiercing,
	"flechette":      MunitionFlechette,
	"precision":      MunitionPrecision,
	"flak":           MunitionFlak,
	"tracer":         MunitionTracer,
	"slug":           MunitionSlug,
	"cluster":        MunitionCluster,
	"dead_fire":      MunitionDeadFire,
	"fragmentation":  MunitionFragmentation,
	"inferno":        MunitionInferno,
	"acid":           MunitionAcid,
	"anti_tsm":       MunitionAntiTSM,
	"smoke":          MunitionSmoke,
	"thunder":        MunitionThunder,
	"extended_range": MunitionExtendedRange,
	"high_explosive": MunitionHighExplosive,
	"homing":         MunitionHoming,
	"incendiary":     MunitionIncendiary,
	"narc_capable":   MunitionNarcCapable,
	"killer_whale":   MunitionKillerWhale,
	"white_shark":    MunitionWhiteShark,
	"barracuda":      MunitionBarracuda,
}

func (m Munition) String() string {
	for name, v := range munitionNames {
		if v == m {
			return name
		}
	}
	return "unknown"
}

func (m *Munition) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := munitionNames[s]
	if !ok {
		return fmt.Errorf("unknown munition %q (known: %v)", s, knownNames(munitionNames))
	}
	*m = v
	return nil
}

// BurstClass selects the conversion used when a non-infantry weapon hits
// conventional infantry.
type BurstClass int

const (
	BurstDirect BurstClass = iota
	BurstClusterBallistic
	BurstPulse
	BurstClusterMissile
	BurstClusterMissile1D6
	BurstClusterMissile2D6
	BurstClusterMissile3D6
	BurstHalfD6
	BurstD6
	BurstTwoD6
	BurstThreeD6
	BurstFourD6
	BurstFiveD6
)

var burstNames = map[string]BurstClass{
	"direct":              BurstDirect,
	"cluster_ballistic":   BurstClusterBallistic,
	"pulse":               BurstPulse,
	"cluster_missile":     BurstClusterMissile,
	"cluster_missile_1d6": BurstClusterMissile1D6,
	"cluster_missile_2d6": BurstClusterMissile2D6,
	"cluster_missile_3d6": BurstClusterMissile3D6,
	"half_d6":             BurstHalfD6,
	"1d6":                 BurstD6,
	"2d6":                 BurstTwoD6,
	"3d6":                 BurstThreeD6,
	"4d6":                 BurstFourD6,
	"5d6":                 BurstFiveD6,
}

func (b BurstClass) String() string {
	for name, v := range burstNames {
		if v == b {
			return name
		}
	}
	return "unknown"
}

func (b *BurstClass) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := burstNames[s]
	if !ok {
		return fmt.Errorf("unknown burst class %q (known: %v)", s, knownNames(burstNames))
	}
	*b = v
	return nil
}

// RangeBand is the range bracket a shot is taken at.
type RangeBand int

const (
	BandShort RangeBand = iota
	BandMedium
	BandLong
	BandExtreme
	BandOut
)

func (r RangeBand) String() string {
	switch r {
	case BandShort:
		return "short"
	case BandMedium:
		return "medium"
	case BandLong:
		return "long"
	case BandExtreme:
		return "extreme"
	default:
		return "out"
	}
}

func knownNames[T comparable](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
