package partner

import (
	"strings"
	"unicode"
)

// NormalizePhone strips formatting so that "+1 (555) 010-2000" and
// "+15550102000" resolve to the same natural key
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
