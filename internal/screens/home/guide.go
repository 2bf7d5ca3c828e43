package home

import "github.com/abhisek/datadrill/internal/problem"

const guideIntro = "AIが作成する問題でデータ入力を練習し、スキルを評価します。"

var guideSteps = []string{
	"1. 業務の種類と難易度を選び、Enterで問題を作成します。",
	"2. 問題が表示されたらEnterでタイマーを開始し、入力用シートに入力します。",
	"3. 入力が終わったらCtrl+Dで採点します。結果画面でフィードバックとミスの分析を確認できます。",
}

var categoryHelp = map[problem.Category]string{
	problem.CustomerList: "氏名、住所、連絡先などの個人情報を正確に入力する練習です。",
	problem.ProductList:  "商品コードや価格など、英数字が混在するデータを素早く入力する練習です。",
	problem.SalesData:    "日付や金額など、数字データを効率的に入力する練習です。",
	problem.InvoiceInfo:  "請求書番号や取引先、品目など、複数の項目を正確に転記する練習です。",
}

var difficultyHelp = map[problem.Difficulty]string{
	problem.Easy:   "入力するデータ量が少なく、単純な内容です。まずは操作に慣れたい方に。",
	problem.Medium: "標準的なデータ量です。正確さとスピードのバランスが求められます。",
	problem.Hard:   "データ量が多く、英数字や記号が混在します。高い集中力と正確性が試されます。",
}
