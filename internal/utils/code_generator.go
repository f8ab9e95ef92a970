package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Character set for ticket code fragments: uppercase letters and digits.
const ticketCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTicketCode builds a support ticket code in the form
// FE-<6 digits>-<4 chars>, e.g. FE-839214-K3QX. The digit block is the
// tail of the unix-millisecond clock and the fragment comes from
// crypto/rand. Codes are unique enough for support identifiers; no
// collision check is performed.
func GenerateTicketCode(now time.Time) string {
	ts := fmt.Sprintf("%d", now.UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}

	fragment := make([]byte, 4)
	charsetLen := big.NewInt(int64(len(ticketCodeChars)))
	for i := range fragment {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			// crypto/rand failing is not worth aborting a support
			// request over; degrade to a clock-derived index.
			n = big.NewInt(now.UnixNano() >> uint(i))
		}
		fragment[i] = ticketCodeChars[n.Int64()%int64(len(ticketCodeChars))]
	}

	return fmt.Sprintf("FE-%s-%s", ts, fragment)
}
