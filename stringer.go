package tlsf

import (
	"fmt"
	"strings"

	"github.com/arenabyte/tlsf/internal/mapping"
)

// String implements fmt.Stringer, rendering the FL/SL bitmaps in binary for
// diagnostics — grounded on original_source/src/tlsf.rs's
// bitmap_bin_repr/Debug impl.
func (a *Allocator) String() string {
	var sl strings.Builder
	for fl := 0; fl < mapping.FLCount; fl++ {
		if bm := a.index.SLBitmap(fl); bm != 0 {
			fmt.Fprintf(&sl, "  fl=%-2d sl=%032b\n", fl, bm)
		}
	}
	return fmt.Sprintf("tlsf.Allocator{capacity: %d, fl=%032b\n%s}", a.Capacity(), a.index.FLBitmap(), sl.String())
}
