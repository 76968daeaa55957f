package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// Hasher derives stable unique identifiers for imported bank-statement rows
// within a single import run. Two textually identical rows in the same run
// get distinct identities via an occurrence counter; the first occurrence
// keeps the plain digest, so input order must be fixed for reproducible
// results.
type Hasher struct {
	seen map[string]int
}

// New returns a Hasher with an empty occurrence counter. Use one Hasher per
// import run.
func New() *Hasher {
	return &Hasher{seen: make(map[string]int)}
}

// Compute returns the identity for a statement row. Reference, date and
// amount must already be string-normalized by the caller. The running
// balance is deliberately not part of the input: an upstream correction to
// an earlier row must not shift the identities of every later one.
func (h *Hasher) Compute(reference, date, amount string) string {
	id := digest(reference + "x" + date + "x" + amount)

	h.seen[id]++
	if n := h.seen[id]; n > 1 {
		id = digest(id + strconv.Itoa(n))
	}
	return id
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
