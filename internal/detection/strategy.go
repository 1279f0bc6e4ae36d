package detection

import "eth-token-sniper/internal/ethrpc"

// Strategy extracts a deployment candidate from a log event. The second
// return value is false when the event does not match the strategy's
// pattern at all.
type Strategy interface {
	Extract(log *ethrpc.Log) (Candidate, bool)
}
