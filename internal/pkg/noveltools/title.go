package noveltools

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameTitleRunes 文件名中标题部分的最大字符数
const MaxFilenameTitleRunes = 30

// SafeTitle 将标题转换为可用作目录名的字符串
// NFKC 归一化（全角英数转半角）后只保留字母、数字、空格、- 和 _，空格替换为 _
func SafeTitle(title string) string {
	title = norm.NFKC.String(title)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, title)
	return strings.ReplaceAll(strings.TrimSpace(cleaned), " ", "_")
}

// TruncateRunes 按字符（rune）截断
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
