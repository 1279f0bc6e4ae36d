package detection

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"eth-token-sniper/internal/ethrpc"
)

// addresses embedded in a data blob are 32-byte words with 12 zero bytes
// of left padding before the 20-byte value.
var addressPattern = regexp.MustCompile(`000000000000000000000000([0-9a-fA-F]{40})`)

const (
	// minDataLen is the shortest data blob that can carry two address
	// words (0x + two 64-char words).
	minDataLen = 130
	// maxAddresses caps how many embedded addresses we collect per event.
	maxAddresses = 10
)

// DataFieldStrategy extracts candidates by scanning the log's data blob
// for embedded addresses. The address at index 1 is the token; the
// deployer is classified by comparing every extracted address against
// the wanted and unwanted deployers, falling back to a substring search
// over the whole blob.
type DataFieldStrategy struct {
	wantedBody   string
	unwantedBody string
}

// NewDataFieldStrategy builds a strategy around the wanted and unwanted
// deployer addresses.
func NewDataFieldStrategy(wanted, unwanted common.Address) *DataFieldStrategy {
	return &DataFieldStrategy{
		wantedBody:   strings.ToLower(wanted.Hex()[2:]),
		unwantedBody: strings.ToLower(unwanted.Hex()[2:]),
	}
}

func (s *DataFieldStrategy) Extract(log *ethrpc.Log) (Candidate, bool) {
	if len(log.Data) < minDataLen {
		return Candidate{}, false
	}

	var bodies []string
	for _, m := range addressPattern.FindAllStringSubmatch(log.Data, -1) {
		body := m[1]
		if strings.EqualFold(body, zeroAddressBody) {
			continue
		}
		bodies = append(bodies, body)
		if len(bodies) == maxAddresses {
			break
		}
	}

	if len(bodies) < 2 {
		return Candidate{}, false
	}
	token := "0x" + bodies[1]

	// Exact match first, wanted before unwanted for each address in
	// extraction order.
	for _, body := range bodies {
		lower := strings.ToLower(body)
		if lower == s.wantedBody {
			return Candidate{Token: token, Confidence: ConfidenceWanted}, true
		}
		if lower == s.unwantedBody {
			return Candidate{Token: token, Confidence: ConfidenceUnwanted}, true
		}
	}

	// Substring fallback over the whole blob. Unwanted wins a tie.
	lowerData := strings.ToLower(log.Data)
	if strings.Contains(lowerData, s.unwantedBody) {
		return Candidate{Token: token, Confidence: ConfidenceUnwanted}, true
	}
	if strings.Contains(lowerData, s.wantedBody) {
		return Candidate{Token: token, Confidence: ConfidenceWanted}, true
	}

	return Candidate{Token: token, Confidence: ConfidenceVerify}, true
}
