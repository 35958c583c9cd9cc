package services

import (
	"strings"

	"storevisit/internal/taxonomy"
)

// observationPromptHeader is sent ahead of the category list. Keep the JSON
// shape in sync with the extract package.
const observationPromptHeader = `あなたは小売店の店舗視察を支援するアシスタントです。
視察員の発言（音声または文字）を書き起こし、以下のカテゴリに分類してください。

カテゴリ:
`

const observationPromptFooter = `
ルール:
- 発言内容をそのまま "transcript" に書き起こしてください。
- 発言を観察事項ごとに分け、最も適切なカテゴリを上記の名前のまま "category" に入れてください。
- "text" には観察事項の要点を、"confidence" には0から1の確信度を入れてください。
- 該当する観察事項がなければ "categorized_items" は空配列にしてください。

次の形式のJSONオブジェクトのみで回答してください:
{"transcript": "...", "categorized_items": [{"category": "...", "text": "...", "confidence": 0.9}]}`

// ObservationPrompt builds the system prompt for tax. Every model backend uses
// the same text so responses decode the same way.
func ObservationPrompt(tax *taxonomy.Taxonomy) string {
	var b strings.Builder
	b.WriteString(observationPromptHeader)
	for _, cat := range tax.Categories() {
		b.WriteString("- ")
		b.WriteString(cat.Name)
		if desc := strings.TrimSpace(cat.Description); desc != "" {
			b.WriteString(": ")
			b.WriteString(desc)
		}
		b.WriteByte('\n')
	}
	b.WriteString(observationPromptFooter)
	return b.String()
}
