package detection

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eth-token-sniper/internal/ethrpc"
)

// topic encodes an address as a 32-byte topic, right-aligned.
func topic(addr string) string {
	return "0x" + strings.Repeat("0", 24) + strings.ToLower(strings.TrimPrefix(addr, "0x"))
}

var zeroTopic = "0x" + strings.Repeat("0", 64)

func TestIndexedTopicStrategy_MintToTarget(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	cand, ok := s.Extract(&ethrpc.Log{
		Address:         testToken,
		Topics:          []string{"0xsig", zeroTopic, topic(testWanted)},
		TransactionHash: "0xfeed",
	})
	require.True(t, ok)
	assert.Equal(t, ConfidenceWanted, cand.Confidence)
	assert.Equal(t, testToken, cand.Token)
}

func TestIndexedTopicStrategy_TooFewTopics(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	_, ok := s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", zeroTopic},
	})
	assert.False(t, ok)
}

func TestIndexedTopicStrategy_NonZeroPreviousOwner(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	_, ok := s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", topic(testPool), topic(testWanted)},
	})
	assert.False(t, ok)
}

func TestIndexedTopicStrategy_WrongTarget(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	_, ok := s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", zeroTopic, topic(testUnknown)},
	})
	assert.False(t, ok)
}

func TestIndexedTopicStrategy_MalformedTopicsRejected(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	// Non-hex garbage must not decode to the zero address.
	garbage := "0x" + strings.Repeat("zz", 32)
	_, ok := s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", garbage, topic(testWanted)},
	})
	assert.False(t, ok)

	// A topic that is too short is malformed, not zero.
	_, ok = s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", "0x00", topic(testWanted)},
	})
	assert.False(t, ok)

	_, ok = s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", zeroTopic, "0x00"},
	})
	assert.False(t, ok)
}

func TestIndexedTopicStrategy_CaseInsensitiveTarget(t *testing.T) {
	s := NewIndexedTopicStrategy(common.HexToAddress(testWanted))

	cand, ok := s.Extract(&ethrpc.Log{
		Address: testToken,
		Topics:  []string{"0xsig", zeroTopic, strings.ToUpper(topic(testWanted))},
	})
	require.True(t, ok)
	assert.Equal(t, ConfidenceWanted, cand.Confidence)
}
