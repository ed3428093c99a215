package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "  碳钢  ", "碳钢"},
		{"script block", "<script type=\"text/javascript\">alert(1)</script>钢材", "钢材"},
		{"multiline script", "A<SCRIPT>\nalert(1)\n</SCRIPT>B", "AB"},
		{"javascript scheme", "JavaScript:alert(1)", "alert(1)"},
		{"event handler", `<img src=x onerror = alert(1)>`, "<img src=x  alert(1)>"},
		{"unicode event handler", "a on中=b", "a b"},
		{"mixed event handler", "ON点击_1 =x", "x"},
		{"truncated", strings.Repeat("长", 250), strings.Repeat("长", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}

func TestValidateSpecimenNumber(t *testing.T) {
	assert.Empty(t, ValidateSpecimenNumber("TB-001"))
	assert.Empty(t, ValidateSpecimenNumber("a_b-C9"))
	assert.Equal(t, "试块编号不能为空", ValidateSpecimenNumber(""))
	assert.Equal(t, "试块编号只能包含字母、数字、连字符和下划线", ValidateSpecimenNumber("bad id!"))
	assert.Equal(t, "试块编号只能包含字母、数字、连字符和下划线", ValidateSpecimenNumber("试块1"))
	assert.Equal(t, "试块编号长度不能超过50个字符", ValidateSpecimenNumber(strings.Repeat("a", 51)))
	assert.Empty(t, ValidateSpecimenNumber(strings.Repeat("a", 50)))
}

func TestValidateNewPassword(t *testing.T) {
	assert.Empty(t, ValidateNewPassword("abcdef"))
	assert.Equal(t, "新密码长度至少6位", ValidateNewPassword("12345"))
	assert.Equal(t, "新密码长度不能超过50位", ValidateNewPassword(strings.Repeat("x", 51)))
	for _, c := range []string{"<", ">", `"`, "'", "&", `\`, "/"} {
		assert.Equal(t, `密码不能包含特殊字符: < > " ' & \ /`, ValidateNewPassword("abcdef"+c), c)
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"report.pdf", "report.pdf"},
		{"My File (1).PDF", "My_File_1.PDF"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\cert.png`, "C_Users_cert.png"},
		{"café.png", "cafe.png"},
		{"检测报告 v1.pdf", "v1.pdf"},
		{"证书", ""},
		{"...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.input))
		})
	}
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("My_File_1.PDF"))
	assert.Equal(t, "gz", FileExtension("archive.tar.gz"))
	assert.Equal(t, "", FileExtension("README"))
}

func TestCleanOptionList(t *testing.T) {
	t.Run("dedupe and cap", func(t *testing.T) {
		items := make([]interface{}, 0, 60)
		for i := 0; i < 60; i++ {
			items = append(items, fmt.Sprintf("选项%d", i%55))
		}

		got := cleanOptionList(items)
		assert.Len(t, got, 50)
		assert.Equal(t, "选项0", got[0])
		assert.Equal(t, "选项49", got[49])
	})

	t.Run("filters invalid entries", func(t *testing.T) {
		got := cleanOptionList([]interface{}{
			"  钢材  ", 42, nil, "", "   ", strings.Repeat("长", 101), "钢材", "<script>x</script>", "铝",
		})
		assert.Equal(t, []string{"钢材", "铝"}, got)
	})
}

func TestIsSinglePathElement(t *testing.T) {
	assert.True(t, isSinglePathElement("abc.pdf"))
	for _, name := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		assert.False(t, isSinglePathElement(name), name)
	}
}
