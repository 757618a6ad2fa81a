package model

// ClassificationResult 表示一条匹配记录的分类结果
// CSV 列为 Speech_ID, Mention, Category
type ClassificationResult struct {
	SpeechID string   `gorm:"column:speech_id;type:varchar(255);index" json:"speech_id"`
	Mention  string   `gorm:"column:mention;type:longtext" json:"mention"`
	Category Category `gorm:"column:category;type:varchar(32)" json:"category"`
}

// ResultTable 按发现顺序保存分类结果，只追加
type ResultTable []ClassificationResult

// CSVHeader 结果文件的表头
func CSVHeader() []string {
	return []string{"Speech_ID", "Mention", "Category"}
}

// Row 转为 CSV 行
func (r ClassificationResult) Row() []string {
	return []string{r.SpeechID, r.Mention, string(r.Category)}
}

// Counts 按分类统计数量
func (t ResultTable) Counts() map[Category]int {
	counts := make(map[Category]int)
	for _, r := range t {
		counts[r.Category]++
	}
	return counts
}

// StoredResult 表示持久化到 MySQL 的分类结果
type StoredResult struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	RunID string `gorm:"column:run_id;type:varchar(36);index" json:"run_id"`
	Seq   int    `gorm:"column:seq" json:"seq"` // 在结果表中的位置
	ClassificationResult
}

// TableName 指定表名
func (StoredResult) TableName() string {
	return "classification_results"
}
