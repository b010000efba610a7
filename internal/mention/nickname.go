package mention

import "strings"

// ExtractNickname looks for a "  Nickname: <name>" prefix line in text and
// returns the name.
func ExtractNickname(text string) (string, bool) {
	const prefix = "  Nickname: "
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			name := strings.TrimSpace(line[len(prefix):])
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
