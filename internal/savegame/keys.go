package savegame

// Store keys. Scalars are stored as decimal text, collections as JSON.
const (
	KeyBalance            = "gameScore"
	KeyTotalEarned        = "gameTotalEarned"
	KeyTotalClicks        = "gameTotalClicks"
	KeyClickPower         = "gameClickPower"
	KeyPassiveIncome      = "gamePassiveIncome"
	KeyPrestigeMultiplier = "gamePrestigeMultiplier"
	KeyPrestigePoints     = "gamePrestigePoints"
	KeyPrestigeCost       = "gamePrestigeCost"
	KeyCriticalChance     = "gameCriticalChance"
	KeyCriticalMultiplier = "gameCriticalMultiplier"
	KeyComboMultiplier    = "gameComboMultiplier"
	KeyComboTimer         = "gameComboTimer"
	KeyAutoClickActive    = "gameAutoClickerActive"
	KeyAutoClickSpeed     = "gameAutoClickerSpeed"
	KeyUpgrades           = "gameUpgrades"
	KeyPets               = "gamePets"
	KeyActivePet          = "gameActivePet"
	KeyTalents            = "gameTalents"
	KeyTalentPoints       = "gameTalentPoints"
	KeyResearchPoints     = "gameResearchPoints"
	KeyActiveEvent        = "gameActiveEvent"
	KeyCriticalHits       = "gameCriticalHits"
	KeyUpgradesPurchased  = "gameUpgradesPurchased"
	KeyMiniGamesPlayed    = "gameMiniGamesPlayed"
	KeyAchievements       = "gameAchievements"
	KeyQuests             = "gameQuests"
)
