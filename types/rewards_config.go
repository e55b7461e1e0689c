package types

import "strings"

const (
	DEFAULT_COIN_REWARD = 10
	DEFAULT_EXP_REWARD  = 20
	MIN_COIN_REWARD     = 5
	MAX_COIN_REWARD     = 60
)

type RewardsConfig struct {
	DefaultCoinReward int64
	DefaultExpReward  int64
}

func GetRewardsConfig() RewardsConfig {
	return RewardsConfig{
		DefaultCoinReward: DEFAULT_COIN_REWARD,
		DefaultExpReward:  DEFAULT_EXP_REWARD,
	}
}

// Coin values per place category. A place takes the highest value among
// its categories; unlisted categories fall back to DEFAULT_COIN_REWARD.
func GetCategoryCoins() map[string]int64 {
	return map[string]int64{
		// Rare cultural and historical places
		"castle":              60,
		"palace":              60,
		"historical_site":     55,
		"museum":              50,
		"ruins":               50,
		"archaeological_site": 50,
		"art_gallery":         45,
		"monument":            40,

		// Nature and major attractions
		"tourist_attraction": 40,
		"natural_feature":    40,
		"national_park":      40,
		"waterfall":          40,
		"island":             35,
		"mountain":           35,
		"cave":               35,
		"beach":              30,
		"botanical_garden":   30,

		// Common leisure places
		"park":           25,
		"zoo":            25,
		"aquarium":       25,
		"amusement_park": 25,
		"theater":        25,
		"stadium":        20,
		"shopping_mall":  15,
		"restaurant":     15,
		"movie_theater":  15,

		// Everyday places
		"cafe":       10,
		"bar":        10,
		"night_club": 10,
		"hotel":      10,
		"gym":        5,
		"bakery":     5,
		"store":      5,
	}
}

// SuggestedPlaceRewards picks default coin/exp rewards for a new place from
// its categories. Exp is always double the coin value.
func SuggestedPlaceRewards(categories []string) (int64, int64) {
	categoryCoins := GetCategoryCoins()
	coins := int64(DEFAULT_COIN_REWARD)

	for _, category := range categories {
		if value, exists := categoryCoins[strings.ToLower(category)]; exists && value > coins {
			coins = value
		}
	}

	if coins < MIN_COIN_REWARD {
		coins = MIN_COIN_REWARD
	} else if coins > MAX_COIN_REWARD {
		coins = MAX_COIN_REWARD
	}

	return coins, coins * 2
}

// LevelForExp converts lifetime experience points into a display level.
// Level 1 starts at 0; each next level costs 50 exp more than the previous one.
func LevelForExp(exp int64) int {
	if exp < 0 {
		return 1
	}

	level := 1
	need := int64(100)
	for exp >= need {
		exp -= need
		need += 50
		level++
	}
	return level
}
