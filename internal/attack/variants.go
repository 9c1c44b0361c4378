package attack

import (
	"FireResolver/internal/catalog"
)

const (
	// Long-range missile families roll one location per five missiles.
	missileGroup = 5
	// Infantry volleys land in two-point clusters.
	infantryCluster = 2
)

// directFire is the plain one-roll, one-hit weapon every unlisted pairing
// resolves as.
var directFire = &Variant{Name: "direct_fire"}

var (
	laser = &Variant{Name: "laser", Flags: FlagEnergy}
	ppc   = &Variant{
		Name:       "ppc",
		Flags:      FlagEnergy,
		Prefire:    ppcPrefire,
		BaseDamage: capacitorDamage,
		Post:       ppcPost,
	}
	flamer = &Variant{
		Name:  "flamer",
		Flags: FlagEnergy,
		Apply: flamerApply,
		Post:  flamerPost,
	}
	plasma = &Variant{
		Name:       "plasma",
		Flags:      FlagEnergy,
		BaseDamage: plasmaDamage,
		Apply:      plasmaApply,
		Post:       incendiaryPost,
	}
	taser = &Variant{Name: "taser", Post: taserPost}
	tag   = &Variant{
		Name:     "tag",
		Flags:    FlagNonDamage | FlagMultiPhase,
		Post:     tagPost,
		Continue: tagExpire,
		Cares:    caresEnd,
	}

	autocannon  = &Variant{Name: "autocannon"}
	acPiercing  = &Variant{Name: "autocannon_ap", Adjust: armorPiercing}
	acFlechette = &Variant{Name: "autocannon_flechette", Adjust: flechette}
	ultraAC     = &Variant{Name: "ultra_ac", Prefire: ultraPrefire, HitCount: burstHitCount}
	ultraAP     = &Variant{Name: "ultra_ac_ap", Prefire: ultraPrefire, HitCount: burstHitCount, Adjust: armorPiercing}
	rotaryAC    = &Variant{Name: "rotary_ac", Prefire: rotaryPrefire, HitCount: burstHitCount}
	lbxSlug     = &Variant{Name: "lbx_slug"}
	lbxCluster  = &Variant{Name: "lbx_cluster", Flags: FlagCluster, BaseDamage: pelletDamage}
	hag         = &Variant{
		Name:            "hag",
		Flags:           FlagCluster,
		Group:           missileGroup,
		ClusterModifier: hagModifier,
	}

	lrm = &Variant{Name: "lrm", Flags: FlagCluster, Group: missileGroup}
	srm = &Variant{Name: "srm", Flags: FlagCluster}

	inferno = &Variant{
		Name:  "inferno",
		Flags: FlagCluster,
		Apply: infernoApply,
		Post:  incendiaryPost,
	}
	thunder = &Variant{
		Name:  "thunder",
		Flags: FlagNonDamage | FlagAreaEffect,
		Post:  minefieldPost,
	}
	smoke = &Variant{
		Name:  "smoke",
		Flags: FlagNonDamage | FlagAreaEffect,
		Post:  smokePost,
	}

	mml = &Variant{Name: "mml", Flags: FlagCluster, Grouping: mmlGrouping}
	atm = &Variant{Name: "atm", Flags: FlagCluster, Group: missileGroup, ClusterOffset: 2}

	artillery = &Variant{
		Name:     "artillery",
		Flags:    FlagAreaEffect | FlagMultiPhase,
		HitCount: artilleryHitCount,
		Apply:    artilleryApply,
		Continue: artilleryContinue,
		Cares:    caresOffboard,
	}
)

var variants = map[variantKey]*Variant{
	{catalog.FamilyLaser, catalog.MunitionStandard}:      laser,
	{catalog.FamilyPulseLaser, catalog.MunitionStandard}: {Name: "pulse_laser", Flags: FlagEnergy},
	{catalog.FamilyVSP, catalog.MunitionStandard}:        {Name: "vsp", Flags: FlagEnergy},
	{catalog.FamilyPPC, catalog.MunitionStandard}:        ppc,
	{catalog.FamilyFlamer, catalog.MunitionStandard}:     flamer,
	{catalog.FamilyPlasma, catalog.MunitionStandard}:     plasma,
	{catalog.FamilyTaser, catalog.MunitionStandard}:      taser,
	{catalog.FamilyTAG, catalog.MunitionStandard}:        tag,

	{catalog.FamilyAutocannon, catalog.MunitionStandard}:      autocannon,
	{catalog.FamilyAutocannon, catalog.MunitionArmorPiercing}: acPiercing,
	{catalog.FamilyAutocannon, catalog.MunitionFlechette}:     acFlechette,
	{catalog.FamilyUltraAC, catalog.MunitionStandard}:         ultraAC,
	{catalog.FamilyUltraAC, catalog.MunitionArmorPiercing}:    ultraAP,
	{catalog.FamilyRotaryAC, catalog.MunitionStandard}:        rotaryAC,
	{catalog.FamilyLBX, catalog.MunitionStandard}:             lbxSlug,
	{catalog.FamilyLBX, catalog.MunitionSlug}:                 lbxSlug,
	{catalog.FamilyLBX, catalog.MunitionCluster}:              lbxCluster,
	{catalog.FamilyGauss, catalog.MunitionStandard}:           {Name: "gauss"},
	{catalog.FamilyHAG, catalog.MunitionStandard}:             hag,
	{catalog.FamilyMachineGun, catalog.MunitionStandard}:      {Name: "machine_gun"},
	{catalog.FamilyRifle, catalog.MunitionStandard}:           {Name: "rifle"},

	{catalog.FamilyLRM, catalog.MunitionStandard}:      lrm,
	{catalog.FamilyLRM, catalog.MunitionDeadFire}:      {Name: "lrm_dead_fire", Flags: FlagCluster, Group: missileGroup, ClusterOffset: -3},
	{catalog.FamilyLRM, catalog.MunitionFragmentation}: {Name: "lrm_fragmentation", Flags: FlagCluster, Group: missileGroup, Adjust: fragmentation},
	{catalog.FamilyLRM, catalog.MunitionAntiTSM}:       {Name: "lrm_anti_tsm", Flags: FlagCluster, Group: missileGroup, Adjust: antiTSM},
	{catalog.FamilyLRM, catalog.MunitionNarcCapable}:   lrm,
	{catalog.FamilyLRM, catalog.MunitionThunder}:       thunder,
	{catalog.FamilyLRM, catalog.MunitionSmoke}:         smoke,

	{catalog.FamilySRM, catalog.MunitionStandard}:      srm,
	{catalog.FamilySRM, catalog.MunitionDeadFire}:      {Name: "srm_dead_fire", Flags: FlagCluster, ClusterOffset: -3},
	{catalog.FamilySRM, catalog.MunitionInferno}:       inferno,
	{catalog.FamilySRM, catalog.MunitionAcid}:          {Name: "srm_acid", Flags: FlagCluster, Adjust: acid},
	{catalog.FamilySRM, catalog.MunitionFragmentation}: {Name: "srm_fragmentation", Flags: FlagCluster, Adjust: fragmentation},
	{catalog.FamilySRM, catalog.MunitionAntiTSM}:       {Name: "srm_anti_tsm", Flags: FlagCluster, Adjust: antiTSM},
	{catalog.FamilySRM, catalog.MunitionNarcCapable}:   srm,

	{catalog.FamilyMRM, catalog.MunitionStandard}: {Name: "mrm", Flags: FlagCluster, Group: missileGroup, ClusterOffset: -1},
	{catalog.FamilyStreakSRM, catalog.MunitionStandard}: {
		Name:     "streak_srm",
		Flags:    FlagCluster | FlagStreak,
		HitCount: streakHitCount,
		Post:     streakPost,
	},
	{catalog.FamilyStreakLRM, catalog.MunitionStandard}: {
		Name:     "streak_lrm",
		Flags:    FlagCluster | FlagStreak,
		Group:    missileGroup,
		HitCount: streakHitCount,
		Post:     streakPost,
	},
	{catalog.FamilyATM, catalog.MunitionStandard}:      atm,
	{catalog.FamilyATM, catalog.MunitionExtendedRange}: atm,
	{catalog.FamilyATM, catalog.MunitionHighExplosive}: atm,
	{catalog.FamilyMML, catalog.MunitionStandard}:      mml,
	{catalog.FamilyMML, catalog.MunitionInferno}:       {Name: "mml_inferno", Flags: FlagCluster, Apply: infernoApply, Post: incendiaryPost},
	{catalog.FamilyMML, catalog.MunitionFragmentation}: {Name: "mml_fragmentation", Flags: FlagCluster, Grouping: mmlGrouping, Adjust: fragmentation},
	{catalog.FamilyRocketLauncher, catalog.MunitionStandard}: {
		Name:  "rocket_launcher",
		Flags: FlagCluster,
		Group: missileGroup,
		Post:  oneShotPost,
	},
	{catalog.FamilyThunderbolt, catalog.MunitionStandard}: {Name: "thunderbolt"},
	{catalog.FamilyNarc, catalog.MunitionStandard}:        {Name: "narc", Flags: FlagNonDamage, Post: narcPost},

	{catalog.FamilyArrowIV, catalog.MunitionStandard}:     artillery,
	{catalog.FamilyArrowIV, catalog.MunitionHoming}:       artillery,
	{catalog.FamilyArrowIV, catalog.MunitionSmoke}:        artillery,
	{catalog.FamilyArrowIV, catalog.MunitionThunder}:      artillery,
	{catalog.FamilyArrowIV, catalog.MunitionIncendiary}:   artillery,
	{catalog.FamilyArtillery, catalog.MunitionStandard}:   artillery,
	{catalog.FamilyArtillery, catalog.MunitionSmoke}:      artillery,
	{catalog.FamilyArtillery, catalog.MunitionThunder}:    artillery,
	{catalog.FamilyArtillery, catalog.MunitionIncendiary}: artillery,

	{catalog.FamilyInfantry, catalog.MunitionStandard}: {
		Name:       "infantry",
		BaseDamage: infantryWeaponDamage,
		Apply:      infantryApply,
	},
	{catalog.FamilyCapitalBay, catalog.MunitionStandard}: {
		Name:       "capital_bay",
		Flags:      FlagBay,
		Prefire:    bayPrefire,
		HitCount:   bayHitCount,
		BaseDamage: bayDamage,
		Apply:      bayApply,
		Post:       bayPost,
	},
}

// mmlGrouping fires LRM rounds in groups of five and SRM rounds singly.
func mmlGrouping(c *Context) int {
	if c.Ammo != nil && c.Ammo.Damage == 1 {
		return missileGroup
	}
	return 1
}

func infantryApply(c *Context) {
	if c.Hits == 0 {
		return
	}
	applyPoints(c, c.Damage*c.Hits, infantryCluster)
}
