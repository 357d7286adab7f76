// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package blame

// scoreText scores a candidate move/copy source region: 1 plus the
// count of alphanumeric bytes across the lines, so that a region of
// blank lines or punctuation-only lines (e.g. a run of closing braces)
// never clears even a low acceptance threshold.
func scoreText(lines []string) int {
	score := 1
	for _, l := range lines {
		for i := 0; i < len(l); i++ {
			c := l[i]
			switch {
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
				score++
			}
		}
	}
	return score
}
