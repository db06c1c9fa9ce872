package common

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// HashBytes returns the hex xxhash64 digest of b.
func HashBytes(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}

// HashStrings digests parts in order, with a separator so ("ab","c") and ("a","bc") differ.
func HashStrings(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// HashIntSet digests a set of ids independently of their order.
func HashIntSet(ids []int) string {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	d := xxhash.New()
	var buf []byte
	for _, id := range sorted {
		buf = strconv.AppendInt(buf[:0], int64(id), 10)
		buf = append(buf, ',')
		_, _ = d.Write(buf)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
