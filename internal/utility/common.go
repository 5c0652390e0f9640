package utility

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// GoProtect runs f and swallows a panic, logging it with the stack.
func GoProtect(f func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered from panic")
		}
	}()
	f()
}

// CurrentTimeInMilli returns the current unix time in milliseconds.
func CurrentTimeInMilli() int64 {
	return time.Now().UnixMilli()
}

// Slugify lowercases s and joins its words with '-'. Characters other than
// letters and digits separate words.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
		if !isWord {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
