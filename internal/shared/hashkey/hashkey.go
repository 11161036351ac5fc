// Package hashkey derives stable cache key fragments from call arguments.
package hashkey

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Of returns a hex digest of the JSON encoding of args. Equal arguments
// always give equal digests; argument order matters.
func Of(args ...any) string {
	b, err := json.Marshal(args)
	if err != nil {
		b = []byte(fmt.Sprintf("%#v", args))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:16])
}
