package models

// All returns every model in migration-safe order. Shared by the
// database bootstrap and the test helpers so the two schemas cannot
// drift apart.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&RefreshToken{},
		&Place{},
		&Checkin{},
		&Review{},
		&CoinTransaction{},
		&ExpTransaction{},
		&Achievement{},
		&UserAchievement{},
		&Challenge{},
		&UserChallenge{},
		&Reward{},
		&UserReward{},
		&Follow{},
		&Like{},
	}
}
