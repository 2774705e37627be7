// Package utils holds small text helpers shared by the launcher packages.
package utils

import "strings"

const ellipsis = "..."

// TruncateRunes shortens s to at most maxRunes runes, ending in "..." when
// anything was cut. It never splits a multi-byte character.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 || s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= len(ellipsis) {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-len(ellipsis)]) + ellipsis
}

// StripTerminalCodes drops ANSI CSI and OSC sequences and control bytes
// other than newline and tab, so log text replayed on a terminal cannot move
// the cursor, retitle the window or change colours.
func StripTerminalCodes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\x1b' && i+1 < len(s) {
			switch s[i+1] {
			case '[':
				i = skipCSI(s, i+2)
				continue
			case ']':
				i = skipOSC(s, i+2)
				continue
			}
		}
		if (c >= 0x20 && c != 0x7f) || c == '\n' || c == '\t' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipCSI returns the index of the final byte of a CSI sequence whose
// parameters start at i.
func skipCSI(s string, i int) int {
	for i < len(s) && !isCSIFinal(s[i]) {
		i++
	}
	return i
}

// skipOSC returns the index of the last byte of the terminator of an OSC
// sequence whose payload starts at i. BEL and ESC \ both end it.
func skipOSC(s string, i int) int {
	for ; i < len(s); i++ {
		switch {
		case s[i] == '\a':
			return i
		case s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\':
			return i + 1
		}
	}
	return len(s)
}

func isCSIFinal(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
