//go:build !windows && !darwin && !freebsd && !netbsd

package filetime

import (
	"os"
	"time"
)

// Linux 的 stat(2) 不返回出生时间
func birthTime(os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
