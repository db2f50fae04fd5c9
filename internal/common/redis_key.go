package common

import "fmt"

func RedisKeyRoundEntries(roundID string) string {
	return fmt.Sprintf("roundentries:%s", roundID)
}

func RedisKeyRoundSettlement(roundID string) string {
	return fmt.Sprintf("roundsettlement:%s", roundID)
}
