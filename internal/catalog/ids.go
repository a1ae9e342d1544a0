package catalog

// UpgradeID identifies an entry of the closed upgrade set.
type UpgradeID string

const (
	Sword       UpgradeID = "sword"
	Shield      UpgradeID = "shield"
	Crown       UpgradeID = "crown"
	Star        UpgradeID = "star"
	Rocket      UpgradeID = "rocket"
	CPU         UpgradeID = "cpu"
	Critical    UpgradeID = "critical"
	CritPower   UpgradeID = "critpower"
	AutoClicker UpgradeID = "autoclicker"
)

// PetID identifies a collectible pet.
type PetID string

const (
	RoboCat    PetID = "robo_cat"
	StarFox    PetID = "star_fox"
	LuckyComet PetID = "lucky_comet"
	NovaOwl    PetID = "nova_owl"
	DroneBee   PetID = "drone_bee"
	VoidWhale  PetID = "void_whale"
)

// TalentID identifies a talent tree node.
type TalentID string

const (
	ClickMastery      TalentID = "click_mastery"
	PassiveMastery    TalentID = "passive_mastery"
	CriticalExpertise TalentID = "critical_expertise"
	CriticalPower     TalentID = "critical_power"
	PetMastery        TalentID = "pet_mastery"
	PrestigeMastery   TalentID = "prestige_mastery"
)

// EventID identifies a random timed event.
type EventID string

const (
	MeteorShower EventID = "meteor_shower"
	CosmicRay    EventID = "cosmic_ray"
	BlackHole    EventID = "black_hole"
)

// AchievementID identifies an achievement.
type AchievementID string

const (
	FirstClick AchievementID = "firstClick"
	Click100   AchievementID = "click100"
	Click1000  AchievementID = "click1000"
	Score100   AchievementID = "score100"
	Score1000  AchievementID = "score1000"
	Score10000 AchievementID = "score10000"
	Upgrade5   AchievementID = "upgrade5"
	Upgrade20  AchievementID = "upgrade20"
	Passive10  AchievementID = "passive10"
	Prestige1  AchievementID = "prestige1"
)

// QuestID identifies a story quest.
type QuestID string

const (
	FirstProbe      QuestID = "first_probe"
	DefendStation   QuestID = "defend_station"
	AncientArtifact QuestID = "ancient_artifact"
)

var (
	knownUpgrades = map[UpgradeID]bool{
		Sword: true, Shield: true, Crown: true, Star: true, Rocket: true,
		CPU: true, Critical: true, CritPower: true, AutoClicker: true,
	}
	knownPets = map[PetID]bool{
		RoboCat: true, StarFox: true, LuckyComet: true,
		NovaOwl: true, DroneBee: true, VoidWhale: true,
	}
	knownTalents = map[TalentID]bool{
		ClickMastery: true, PassiveMastery: true, CriticalExpertise: true,
		CriticalPower: true, PetMastery: true, PrestigeMastery: true,
	}
	knownEvents = map[EventID]bool{
		MeteorShower: true, CosmicRay: true, BlackHole: true,
	}
	knownAchievements = map[AchievementID]bool{
		FirstClick: true, Click100: true, Click1000: true, Score100: true,
		Score1000: true, Score10000: true, Upgrade5: true, Upgrade20: true,
		Passive10: true, Prestige1: true,
	}
	knownQuests = map[QuestID]bool{
		FirstProbe: true, DefendStation: true, AncientArtifact: true,
	}
)
