package detection

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"eth-token-sniper/internal/ethrpc"
)

// IndexedTopicStrategy extracts candidates from events whose indexed
// topics encode an ownership transfer from the zero address to the
// target deployer. The emitting contract is the token; there is never
// an ambiguous outcome.
type IndexedTopicStrategy struct {
	target common.Address
}

// NewIndexedTopicStrategy builds a strategy around the target deployer.
func NewIndexedTopicStrategy(target common.Address) *IndexedTopicStrategy {
	return &IndexedTopicStrategy{target: target}
}

func (s *IndexedTopicStrategy) Extract(log *ethrpc.Log) (Candidate, bool) {
	if len(log.Topics) < 3 {
		return Candidate{}, false
	}

	// topic[1] is the previous owner, right-aligned in 32 bytes. Only a
	// mint-from-zero counts as a deployment.
	prev, ok := topicAddress(log.Topics[1])
	if !ok || prev != (common.Address{}) {
		return Candidate{}, false
	}
	target, ok := topicAddress(log.Topics[2])
	if !ok || target != s.target {
		return Candidate{}, false
	}

	return Candidate{Token: log.Address, Confidence: ConfidenceWanted}, true
}

// topicAddress decodes the low 20 bytes of a 32-byte topic as an
// address. Malformed topics must not pass for the zero address, so a
// bad decode or a wrong length reports false.
func topicAddress(topic string) (common.Address, bool) {
	b, err := hexutil.Decode(topic)
	if err != nil || len(b) != common.HashLength {
		return common.Address{}, false
	}
	return common.BytesToAddress(b), true
}
