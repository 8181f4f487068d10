package util

import (
	"fmt"
	"sync"

	"github.com/sony/sonyflake"
)

var (
	sonyFlake *sonyflake.Sonyflake
	once      sync.Once
)

// InitSonyFlake initializes the Snowflake instance.
func InitSonyFlake() {
	once.Do(func() {
		sonyFlake = sonyflake.NewSonyflake(sonyflake.Settings{})
	})
}

// GenerateTransactionID returns a unique, time-ordered transaction ID.
// Zero-padding keeps lexicographic order equal to numeric order, so tx_id
// works as a tie-break when sorting the ledger.
func GenerateTransactionID() (string, error) {
	if sonyFlake == nil {
		InitSonyFlake()
	}
	id, err := sonyFlake.NextID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%020d", id), nil
}
