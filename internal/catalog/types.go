package catalog

// Category groups upgrades by the stat family they raise.
type Category string

const (
	CategoryClick   Category = "click"
	CategoryPassive Category = "passive"
	CategorySpecial Category = "special"
)

// Target names the base stat an upgrade, pet, talent or event acts on.
type Target string

const (
	TargetClick              Target = "click"
	TargetPassive            Target = "passive"
	TargetCriticalChance     Target = "criticalChance"
	TargetCriticalMultiplier Target = "criticalMultiplier"
	TargetAutoClickSpeed     Target = "autoClickSpeed"
	TargetPrestigePoints     Target = "prestigePoints"
	TargetPetBonus           Target = "petBonus"
)

// EventMode selects how an event rewrites its target base value.
type EventMode string

const (
	EventMultiply EventMode = "multiply"
	EventSet      EventMode = "set"
)

// Metric names a snapshot counter that achievements and quests gate on.
type Metric string

const (
	MetricClicks         Metric = "clicks"
	MetricBalance        Metric = "balance"
	MetricUpgrades       Metric = "upgrades"
	MetricPassive        Metric = "passive"
	MetricPrestigePoints Metric = "prestigePoints"
	MetricTotalEarned    Metric = "totalEarned"
)

// RewardType is the kind of payout a story quest grants when claimed.
type RewardType string

const (
	RewardCoins    RewardType = "coins"
	RewardResearch RewardType = "research"
	RewardSpecial  RewardType = "special"
	RewardTalent   RewardType = "talent"
)

// Upgrade is a purchasable effect. Cost is the literal initial price;
// the live price is tracked by the economy and restored from here on prestige.
type Upgrade struct {
	ID          UpgradeID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Cost        float64   `json:"cost"`
	Magnitude   float64   `json:"magnitude"`
	MaxOwned    int       `json:"maxOwned,omitempty"` // 0 means uncapped
	Target      Target    `json:"target,omitempty"`
}

// Capped reports whether the upgrade has an ownership cap.
func (u Upgrade) Capped() bool { return u.MaxOwned > 0 }

// Pet is a collectible whose bonus applies only while it is the active pet.
type Pet struct {
	ID        PetID   `json:"id"`
	Name      string  `json:"name"`
	BonusType Target  `json:"bonusType"`
	Bonus     float64 `json:"bonus"`
}

// Talent is a permanent allocation node in the talent tree.
type Talent struct {
	ID        TalentID   `json:"id"`
	Name      string     `json:"name"`
	MaxPoints int        `json:"maxPoints"`
	Requires  []TalentID `json:"requires,omitempty"`
	Effect    Target     `json:"effect"`
	Value     float64    `json:"value"` // percentage per level, 0.2 == +20%
}

// Event is a timed global modifier picked by the random event scheduler.
type Event struct {
	ID          EventID   `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Target      Target    `json:"target"`
	Mode        EventMode `json:"mode"`
	Value       float64   `json:"value"`
	Duration    int       `json:"duration"` // seconds
}

// Achievement unlocks once Metric reaches Threshold. Only the unlocked flag
// is ever persisted.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Metric      Metric        `json:"metric"`
	Threshold   float64       `json:"threshold"`
}

// Requirement is one gating condition of a story quest.
type Requirement struct {
	Metric Metric  `json:"metric"`
	Amount float64 `json:"amount"`
}

// Reward is one payout of a story quest.
type Reward struct {
	Type   RewardType `json:"type"`
	Amount float64    `json:"amount"`
}

// Quest is a link in the narrative quest chain.
type Quest struct {
	ID           QuestID       `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Story        string        `json:"story"`
	Requirements []Requirement `json:"requirements"`
	Rewards      []Reward      `json:"rewards"`
}
