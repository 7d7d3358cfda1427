package scanner

import (
	"encoding/hex"
	"iter"

	"github.com/zeebo/blake3"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Digest is a 32-byte BLAKE3 digest of a decompressed payload.
type Digest [32]byte

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, enough to tell members apart in
// diagnostic output.
func (d Digest) Short() string {
	return d.String()[:12]
}

// payloadKey separates payload digests from any other BLAKE3 use. ASCII name,
// zero padded to 32 bytes.
var payloadKey = [32]byte{
	'e', 'd', 'g', 'e', '-', 'l', 'i', 'n', 'k', 's', '.', 'p', 'a', 'y', 'l', 'o',
	'a', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// PayloadDigest computes the keyed digest used to detect repeated payloads.
func PayloadDigest(payload []byte) Digest {
	h, err := blake3.NewKeyed(payloadKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("scanner: blake3 keyed hasher: " + err.Error())
	}
	_, _ = h.Write(payload)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Unique wraps a member sequence and drops members whose payload is
// byte-identical to one already yielded. Containers often carry the same
// snapshot more than once; dropping repeats saves a parse without changing
// the reconciled result.
func Unique(seq iter.Seq[types.GzipMember]) iter.Seq[types.GzipMember] {
	return func(yield func(types.GzipMember) bool) {
		seen := make(map[Digest]struct{})
		for m := range seq {
			d := PayloadDigest(m.Payload)
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			if !yield(m) {
				return
			}
		}
	}
}
