package models

import "time"

// Match - запись лайка. UserID лайкнул MatchedUserID.
// При взаимном лайке обе строки переводятся в accepted одной транзакцией.
type Match struct {
	BaseModel
	UserID        string      `gorm:"not null;index;uniqueIndex:idx_match_pair"`
	MatchedUserID string      `gorm:"not null;index;uniqueIndex:idx_match_pair"`
	Status        MatchStatus `gorm:"type:varchar(20);default:'pending'"`
	MatchedAt     *time.Time  // когда пара стала взаимной

	// Relations
	User        *User `gorm:"foreignKey:UserID"`
	MatchedUser *User `gorm:"foreignKey:MatchedUserID"`
}
