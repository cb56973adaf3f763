package summarizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const summaryPrompt = `你是一个爆款短视频的作者，我会给你一个 HTML 格式的新闻稿，你要根据要求总结里面的新闻，并提取正文的图片，具体要求为：
1. 将新闻内容浓缩为200字内的短视频风格摘要，严格控制在200字以内，使用吸引眼球的短视频风格，语气夸张俏皮。
喜欢使用网络热词和热梗，保持事实准确，突出核心事件、关键人物和戏剧性细节，纯文字输出，禁止使用表情符号，时间地点人物等关键信息必须准确，注意中文标点符号使用规范。正文要根据逗号、句号分割，放在数组内。

2. 从新闻稿HTML中提取仅正文部分的图片链接（排除封面、视频缩略图、图标、广告等非正文内容），并去除URL中?及后面的参数，若无符合条件图片则返回空数组[]。

上面两点要求按照 JSON 格式输出，如：

{
  "summary": ["句子1", "句子2"],
  "images": ["图片1", "图片2"]
}`

// ErrEmptySummary is returned when the model answers without any sentence.
var ErrEmptySummary = errors.New("model returned no summary sentences")

// decodeSummary parses the model reply, tolerating markdown code fences.
func decodeSummary(raw string) (Summary, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return Summary{}, ErrEmptySummary
	}

	var s Summary
	if err := json.Unmarshal([]byte(cleaned), &s); err != nil {
		obj := firstJSONObject(cleaned)
		if obj == "" {
			return Summary{}, fmt.Errorf("decode summary: %w", err)
		}
		if err := json.Unmarshal([]byte(obj), &s); err != nil {
			return Summary{}, fmt.Errorf("decode summary: %w", err)
		}
	}

	s.Sentences = compact(s.Sentences)
	s.Images = compact(s.Images)
	if len(s.Sentences) == 0 {
		return Summary{}, ErrEmptySummary
	}
	return s, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	} else {
		s = strings.TrimLeft(s, "jsonJSON")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
