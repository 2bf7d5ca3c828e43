package problem

import (
	"fmt"
	"strings"
)

const systemPrompt = `You create data entry practice exercises for office workers in Japan.

Rules:
- The data must be realistic for a business context but completely fictional. It must not contain any real personal information or company details.
- "sourceData" is an array of rows. Each row lists string values in exactly the order of "templateHeaders".
- "displayData" is a numbered list: every record starts on a new line with its number, a period and a space. Do not use markdown tables.
- Write "instructions", headers and values in Japanese where natural.`

// buildUserMessage describes one exercise request.
func buildUserMessage(c Category, d Difficulty) string {
	min, max := d.RecordRange()

	var b strings.Builder
	b.WriteString("Generate a data entry practice problem set with the following specifications:\n")
	fmt.Fprintf(&b, "- Task Type: %s\n", c.Prompt())
	fmt.Fprintf(&b, "- Difficulty: %s\n", d)
	fmt.Fprintf(&b, "- Number of records: between %d and %d", min, max)
	if d == Hard {
		b.WriteString(", with more complex data")
	}
	b.WriteString("\n\nExample displayData lines:\n")
	b.WriteString("1. 顧客ID: C-001, 氏名: 田中 健太...\n")
	b.WriteString("2. 顧客ID: C-002, 氏名: 佐藤 美咲...")
	return b.String()
}
