// Package problem defines practice tasks and produces them with a model.
package problem

import (
	"fmt"
	"strings"
)

// Category is the kind of business table to practice on.
type Category string

const (
	CustomerList Category = "customer_list"
	ProductList  Category = "product_list"
	SalesData    Category = "sales_data"
	InvoiceInfo  Category = "invoice_info"
)

// Categories lists every category in menu order.
var Categories = []Category{CustomerList, ProductList, SalesData, InvoiceInfo}

var categoryLabels = map[Category]string{
	CustomerList: "顧客名簿 (Customer List)",
	ProductList:  "商品リスト (Product List)",
	SalesData:    "売上データ (Sales Data)",
	InvoiceInfo:  "請求書情報 (Invoice Info)",
}

// Label is the bilingual menu label.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Prompt is the category as it is named in model prompts.
func (c Category) Prompt() string {
	return strings.Replace(string(c), "_", " ", 1)
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts a category value such as "sales_data".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown task category %q", s)
	}
	return c, nil
}

// Difficulty controls the number and complexity of records.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists every level in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

type difficultyInfo struct {
	label      string
	minRecords int
	maxRecords int
}

var difficultyTable = map[Difficulty]difficultyInfo{
	Easy:   {"簡単 (Easy)", 5, 8},
	Medium: {"普通 (Medium)", 10, 15},
	Hard:   {"難しい (Hard)", 15, 20},
}

func (d Difficulty) Label() string {
	if info, ok := difficultyTable[d]; ok {
		return info.label
	}
	return string(d)
}

// RecordRange is the record count requested from the model.
func (d Difficulty) RecordRange() (min, max int) {
	info := difficultyTable[d]
	return info.minRecords, info.maxRecords
}

func (d Difficulty) Valid() bool {
	_, ok := difficultyTable[d]
	return ok
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// ProblemSet is one generated exercise. Records are the answer key; each
// record holds values in Fields order.
type ProblemSet struct {
	Instructions string     `json:"instructions"`
	Fields       []string   `json:"templateHeaders"`
	Records      [][]string `json:"sourceData"`
	DisplayText  string     `json:"displayData"`
}

// RowCount is the number of grid rows the exercise needs.
func (p *ProblemSet) RowCount() int {
	return len(p.Records)
}
