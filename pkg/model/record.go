package model

// Record 表示源文件中的一行记录，ID 取第一个竖线分隔字段，Text 为其余部分
type Record struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Match 表示包含检索词的记录
type Match struct {
	Record
	LineNo int `json:"line_no"` // 源文件行号，表头为第 1 行
}
