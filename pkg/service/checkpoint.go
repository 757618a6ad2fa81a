package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CheckpointWriter 每批结束后将完整结果表写入 interim_results_{term}_{count}.csv
type CheckpointWriter struct {
	dir string
}

func NewCheckpointWriter(dir string) *CheckpointWriter {
	if dir == "" {
		dir = "."
	}
	return &CheckpointWriter{dir: dir}
}

// Path 返回检查点文件路径，检索词中的路径分隔符替换为下划线
func (w *CheckpointWriter) Path(searchTerm string, count int) string {
	name := fmt.Sprintf("interim_results_%s_%d.csv", safeName(searchTerm), count)
	return filepath.Join(w.dir, name)
}

// Write 全量重写检查点文件（先写临时文件再 rename，不会留下写了一半的文件）
func (w *CheckpointWriter) Write(results model.ResultTable, searchTerm string, count int) (string, error) {
	path := w.Path(searchTerm, count)
	if err := WriteResultsFile(path, results); err != nil {
		return "", errors.Wrapf(err, "写入检查点 %s 失败", path)
	}
	zap.S().Infof("中间结果已保存到 %s", path)
	return path, nil
}

// WriteResultsFile 原子地写出结果 CSV，覆盖同名文件
func WriteResultsFile(path string, results model.ResultTable) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := WriteResultsCSV(tmp, results); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

// WriteResultsCSV 写出表头和全部结果
func WriteResultsCSV(out io.Writer, results model.ResultTable) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(model.CSVHeader()); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadResultsCSV 读回 WriteResultsCSV 写出的内容
func ReadResultsCSV(in io.Reader) (model.ResultTable, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = len(model.CSVHeader())
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "读取表头失败")
	}
	if strings.Join(header, ",") != strings.Join(model.CSVHeader(), ",") {
		return nil, errors.Errorf("表头不符: %v", header)
	}
	var table model.ResultTable
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		table = append(table, model.ClassificationResult{
			SpeechID: row[0],
			Mention:  row[1],
			Category: model.Category(row[2]),
		})
	}
	return table, nil
}

// ReadResultsFile 读取结果 CSV 文件
func ReadResultsFile(path string) (model.ResultTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadResultsCSV(f)
}

// OutputPath 最终结果文件路径：{输入文件名}_{检索词}_classified.csv
func OutputPath(inputPath, searchTerm string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return fmt.Sprintf("%s_%s_classified.csv", base, safeName(searchTerm))
}

func safeName(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(s)
}
