package models

import (
	"fmt"
	"time"
)

type User struct {
	ID        int64
	State     string
	FullName  string
	MemberID  string
	JoinDate  string
	Phone     string
	Level     string
	InviterID int64
	RefCode   string
	CreatedAt time.Time
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return fmt.Sprintf("%s [%d]", u.FullName, u.ID)
	}
	return fmt.Sprintf("[%d]", u.ID)
}
