package providers

import (
	"fmt"
	"strings"
)

// TranslatorSystemPrompt LLM 后端的系统提示词
const TranslatorSystemPrompt = "You are a professional translator. Translate accurately while preserving the original meaning, tone and line breaks. Reply with the translation only."

// BuildUserPrompt 构造 LLM 后端的用户提示词
func BuildUserPrompt(req *ProviderRequest) string {
	var b strings.Builder
	if IsAutoDetect(req.SourceLanguage) {
		fmt.Fprintf(&b, "Translate the following text into %s:\n\n", req.TargetLanguage)
	} else {
		fmt.Fprintf(&b, "Translate the following text from %s to %s:\n\n", req.SourceLanguage, req.TargetLanguage)
	}
	b.WriteString(req.Text)
	return b.String()
}

// CleanCompletion 去掉模型回复首尾多余的空行
func CleanCompletion(s string) string {
	return strings.Trim(s, "\r\n")
}
