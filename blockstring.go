package confl

import "strings"

// collectBlockString implements C3. lines[idx:] are the body lines
// following a '"""' header at headerIndent; it returns the decoded
// string and the index of the line following the closing '"""'.
func collectBlockString(lines []string, idx int, headerIndent int) (string, int, *DecodeError) {
	var collected []string
	blockIndent := -1

	for idx < len(lines) {
		line := lines[idx]
		left := strings.TrimLeft(line, " ")
		indent := len(line) - len(left)
		content := strings.TrimRight(left, " ")

		if indent <= headerIndent && content == `"""` {
			return strings.Join(collected, "\n"), idx + 1, nil
		}

		if strings.TrimSpace(line) == "" {
			if blockIndent >= 0 {
				collected = append(collected, "")
			}
			idx++
			continue
		}

		if blockIndent < 0 {
			blockIndent = indent
		}
		if indent >= blockIndent {
			collected = append(collected, line[blockIndent:])
		} else {
			collected = append(collected, left)
		}
		idx++
	}

	return "", idx, newError(UnclosedBlockString, "unclosed block string", 0, "")
}
