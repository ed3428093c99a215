package services

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	maxInputLength          = 200
	maxSpecimenNumberLength = 50
	maxOptionLength         = 100
	maxOptionsPerList       = 50
	minPasswordLength       = 6
	maxPasswordLength       = 50
)

var (
	scriptTagPattern    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	javascriptPattern   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on[\p{L}\p{N}_]+\s*=`)

	specimenNumberPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	filenameStripPattern = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

	passwordForbiddenChars = `<>"'&\/`
)

// SanitizeInput 移除脚本标签、javascript: 与内联事件属性，截断到 200 个字符后去除首尾空白
func SanitizeInput(text string) string {
	if text == "" {
		return text
	}

	text = scriptTagPattern.ReplaceAllString(text, "")
	text = javascriptPattern.ReplaceAllString(text, "")
	text = eventHandlerPattern.ReplaceAllString(text, "")

	text = truncateRunes(text, maxInputLength)
	return strings.TrimSpace(text)
}

func truncateRunes(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}

// ValidateSpecimenNumber 验证试块编号格式，返回错误消息，合法时返回空串
func ValidateSpecimenNumber(specimenNumber string) string {
	if specimenNumber == "" {
		return "试块编号不能为空"
	}
	if !specimenNumberPattern.MatchString(specimenNumber) {
		return "试块编号只能包含字母、数字、连字符和下划线"
	}
	if len(specimenNumber) > maxSpecimenNumberLength {
		return "试块编号长度不能超过50个字符"
	}
	return ""
}

// ValidateNewPassword 检查新密码长度与字符，返回错误消息，合法时返回空串
func ValidateNewPassword(password string) string {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return "新密码长度至少6位"
	}
	if n > maxPasswordLength {
		return "新密码长度不能超过50位"
	}
	if strings.ContainsAny(password, passwordForbiddenChars) {
		return `密码不能包含特殊字符: < > " ' & \ /`
	}
	return ""
}

// SecureFilename 把上传文件名规整为只含 ASCII 字母数字、下划线、点和连字符的安全文件名，
// 非 ASCII 字符会被丢弃，结果可能为空
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = filenameStripPattern.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// FileExtension 返回安全文件名的小写扩展名（不含点），无扩展名时返回空串
func FileExtension(secureName string) string {
	ext := filepath.Ext(secureName)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// cleanOptionList 清理一个下拉列表：只保留非空且不超过 100 个字符的字符串，去重后最多 50 项
func cleanOptionList(items []interface{}) []string {
	seen := make(map[string]struct{}, len(items))
	cleaned := make([]string, 0, len(items))

	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = SanitizeInput(strings.TrimSpace(s))
		if s == "" || utf8.RuneCountInString(s) > maxOptionLength {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
		if len(cleaned) == maxOptionsPerList {
			break
		}
	}
	return cleaned
}

// isSinglePathElement 判断 name 是否可以安全地作为目录下的文件名
func isSinglePathElement(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
