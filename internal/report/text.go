package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/datadrill/internal/grading"
)

const timestampLayout = "2006/1/2 15:04:05"

// Text renders res as the plain-text results report, with the grading time
// in the local zone.
func Text(res *grading.Result) string {
	return TextIn(res, time.Local)
}

// TextIn is Text with the grading time rendered in loc.
//
// Commentary sections appear only once settled. The analysis section is
// omitted for a perfect result and has its "**" heading markers stripped.
func TextIn(res *grading.Result, loc *time.Location) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("■□■ データ入力スキル評価結果 ■□■")
	add("実施日時: %s", res.Timestamp.In(loc).Format(timestampLayout))
	add("")

	add("--- 概要 ---")
	add("正答率: %.2f%% (%d / %d)", res.Accuracy, res.CorrectCells, res.TotalCells)
	add("入力時間: %s", FormatDuration(res.ElapsedSeconds))
	add("ミスした箇所: %d件", len(res.Errors))
	add("")

	if fb, ok := res.Feedback(); ok && fb != "" {
		add("--- AIからのフィードバック ---")
		lines = append(lines, fb, "")
	}

	if ma, ok := res.MistakeAnalysis(); ok && ma != "" && len(res.Errors) > 0 {
		add("--- ケアレスミス分析 ---")
		lines = append(lines, strings.ReplaceAll(ma, "**", ""), "")
	}

	if len(res.Errors) > 0 {
		add("--- ミスの詳細 ---")
		for _, e := range res.Errors {
			add("・行 %d, 項目「%s」: 入力「%s」, 正解「%s」", e.Row+1, e.Field, orQuotes(e.UserValue), e.CorrectValue)
		}
		add("")
	}
	return strings.Join(lines, "\n")
}

func orQuotes(s string) string {
	if s == "" {
		return `""`
	}
	return s
}
