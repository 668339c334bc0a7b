package domain

import (
	"fmt"
	"strings"
)

// ImportMode は、一括インポートの種類を表します
type ImportMode string

const (
	// ImportModeIdeas は、各行を新しいアイテムのプロンプトとして追加します
	ImportModeIdeas ImportMode = "ideas"
	// ImportModeTitles は、各行を既存アイテムのタイトルとして順に割り当てます
	ImportModeTitles ImportMode = "titles"
)

// ParseImportMode は、文字列からImportModeを解析します
func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case ImportModeIdeas:
		return ImportModeIdeas, nil
	case ImportModeTitles:
		return ImportModeTitles, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImportMode, s)
	}
}

// SplitBulkLines は、改行区切りのテキストを行に分割します
// 各行は前後の空白を除去され、空行は破棄されます
func SplitBulkLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
