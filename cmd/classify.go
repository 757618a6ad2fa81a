package cmd

import (
	"context"
	"errors"
	"os"

	"treaty-classifier/config"
	"treaty-classifier/pkg/classifier"
	"treaty-classifier/pkg/db"
	"treaty-classifier/pkg/report"
	"treaty-classifier/pkg/service"
	"treaty-classifier/pkg/signals"
	"treaty-classifier/pkg/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewClassifyCommand() *cobra.Command {
	var configFilePath string
	var outputFile string
	var batchSize int
	var limit int

	cmd := &cobra.Command{
		Use:   "classify <文件> <检索词>",
		Short: "检索并分类条约提及",
		Long:  "流式读取竖线分隔的语料文件，找出包含检索词的记录，分批调用分类服务，每批结束后保存中间结果",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(configFilePath)
			if err != nil {
				zap.S().Error(err.Error())
				return
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.PipelineConfig.BatchSize = batchSize
			}
			if cmd.Flags().Changed("limit") {
				cfg.PipelineConfig.Limit = limit
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				zap.S().Errorf("配置验证错误:%s", errors.Join(errs...))
				return
			}

			file, term := args[0], args[1]
			if _, err := os.Stat(file); err != nil {
				zap.S().Errorf("文件 '%s' 不存在", file)
				return
			}
			zap.S().Infof("处理文件: %s", file)
			zap.S().Infof("检索词: %s", term)
			zap.S().Infof("批大小: %d", cfg.PipelineConfig.BatchSize)

			ctx := signals.SetupSignalHandler()
			if err := runAnalysis(ctx, cmd, cfg, file, term, outputFile); err != nil {
				zap.S().Errorf("处理失败:%s", err.Error())
			}
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "结果 CSV 文件路径（可选）")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 5, "每批处理的记录数，批与批之间会等待较长时间")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "最多处理的匹配条数（0 表示不限）")
	return cmd
}

func loadConfig(path string) (*config.GlobalConfig, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, errors.New("读取本地配置文件错误:" + err.Error())
	}
	return cfg, nil
}

// openStores 按配置初始化结果库，失败时只记录警告
func openStores(ctx context.Context, cfg *config.GlobalConfig) []store.ResultStore {
	var stores []store.ResultStore
	if cfg.DuckDBConfig.Enabled() {
		if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
			zap.S().Warnf("DuckDB 连接错误:%s", err.Error())
		} else {
			stores = append(stores, store.NewDuckDBStore(db.GetDuckDBWithContext(ctx)))
		}
	}
	if cfg.MySQLConfig.Enabled() {
		if err := db.InitMySQL(cfg.MySQLConfig); err != nil {
			zap.S().Warnf("MySQL 连接错误:%s", err.Error())
		} else {
			stores = append(stores, store.NewMySQLStore(db.GetMySQL(), cfg.MySQLConfig.CreateBatchSize))
		}
	}
	return stores
}

func runAnalysis(ctx context.Context, cmd *cobra.Command, cfg *config.GlobalConfig, file, term, outputFile string) error {
	c, err := classifier.New(cfg.ClassifierConfig)
	if err != nil {
		return err
	}
	pipeline, err := service.NewPipeline(cfg.PipelineConfig, c, nil, openStores(ctx, cfg)...)
	if err != nil {
		return err
	}
	pipeline.OutputFile = outputFile

	outcome, err := pipeline.ProcessFile(ctx, file, term)
	if err != nil {
		if service.IsUnreadable(err) {
			return errors.New("无法以任何候选编码读取文件: " + err.Error())
		}
		return err
	}
	if outcome.Empty() {
		zap.S().Info("没有找到匹配记录或分析被中止，没有结果可保存")
		return nil
	}
	if outcome.Cancelled() {
		zap.S().Warnf("分析被中止，已保存 %d/%d 条结果", len(outcome.Results), outcome.Run.MatchCount)
	}
	return report.Write(cmd.OutOrStdout(), outcome.Results, outcome.OutputFile, 5)
}
