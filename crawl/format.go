package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes a link sequence with xxhash. Order matters and links
// are separated so that ["ab"] and ["a", "b"] differ.
func Fingerprint(links []string) string {
	d := xxhash.New()
	for _, link := range links {
		_, _ = d.WriteString(link)
		_, _ = d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
