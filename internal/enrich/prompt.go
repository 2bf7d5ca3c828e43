package enrich

import (
	"fmt"
	"strings"

	"github.com/abhisek/datadrill/internal/grading"
)

// feedbackExamples caps the mistakes quoted in the feedback prompt.
const feedbackExamples = 5

const feedbackSystemPrompt = `あなたはデータ入力スキルを指導する専門コーチです。練習を終えたユーザーに、日本語で短いフィードバックを返してください。

ルール:
- 2〜4文程度、平易なテキストの一段落で書く。Markdownは使わない。
- 結果が悪くても、前向きで励ますトーンを保つ。
- 正答率が低ければ、ダブルチェックなど精度を上げる具体的な方法を提案する。
- 入力が遅ければ、ショートカットキーやテンキーの活用など速度を上げる方法を提案する。
- 全体的に良ければ褒めたうえで、より難しいレベルへの挑戦を勧める。`

const analysisSystemPrompt = `あなたはデータ入力の専門アナリストです。ユーザーの入力ミスを分析し、ケアレスミスの傾向について日本語で具体的な洞察を示してください。

ルール:
- 単純な打ち間違い、表記ルールの見落とし（スペースの有無、大文字・小文字など）、固有名詞の誤りなど、どの種類のミスが多いかを特定する。
- 傾向に基づいて、ユーザーがすぐ実践できる改善策を提案する。
- 実施時刻に関連する気づき（例: この時間帯は集中力が落ちやすい）があれば一言添える。
- 専門的でありながら、前向きで丁寧な口調で書く。
- 次の3つの見出しをこの順に必ず使い、見出しはアスタリスク2つで囲む。見出しの下は平易な文章で書き、箇条書き（- や *）は使わない。

**ミスの傾向**
**考えられる要因**
**今後の対策**`

// mistakeLine renders one mistake for the feedback prompt, 1-based row.
func mistakeLine(e grading.CellError) string {
	return fmt.Sprintf("- 行 %d, 項目 「%s」: 入力「%s」, 正解「%s」", e.Row+1, e.Field, e.UserValue, e.CorrectValue)
}

func buildFeedbackMessage(res *grading.Result, info Info) string {
	var b strings.Builder

	b.WriteString("## 練習問題\n")
	fmt.Fprintf(&b, "- 業務の種類: %s\n", info.Category.Prompt())
	fmt.Fprintf(&b, "- 難易度: %s\n", info.Difficulty)

	b.WriteString("\n## 結果\n")
	fmt.Fprintf(&b, "- 正答率: %.2f%%\n", res.Accuracy)
	fmt.Fprintf(&b, "- 入力時間: %d 秒\n", res.ElapsedSeconds)
	fmt.Fprintf(&b, "- 全項目数: %d\n", res.TotalCells)
	fmt.Fprintf(&b, "- 正解項目数: %d\n", res.CorrectCells)
	fmt.Fprintf(&b, "- ミスした箇所の数: %d\n", len(res.Errors))

	if len(res.Errors) > 0 {
		b.WriteString("\n## ミスの例\n")
		for i, e := range res.Errors {
			if i == feedbackExamples {
				break
			}
			b.WriteString(mistakeLine(e))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildAnalysisMessage(res *grading.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "実施時刻: %s\n\n", res.Timestamp.Local().Format("15:04"))
	b.WriteString("ミスの詳細:\n[\n")
	for i, e := range res.Errors {
		fmt.Fprintf(&b, "  { row: %d, field: %q, userInput: %q, correctAnswer: %q }",
			e.Row+1, e.Field, e.UserValue, e.CorrectValue)
		if i < len(res.Errors)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]")
	return b.String()
}
