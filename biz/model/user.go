package model

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
