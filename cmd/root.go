package cmd

import (
	"treaty-classifier/pkg/logger"
	"treaty-classifier/pkg/util"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCommand() *cobra.Command {
	var verbose bool
	var syncLogger func()

	rootCmd := &cobra.Command{
		Use:   "treaty-classifier",
		Short: "条约提及分类工具",
		Long:  "在竖线分隔的演讲语料中检索条约名称，并将每条提及归入 Support / Against / Implementation / Reversal / Other/Factual",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			sync, err := logger.Init(verbose)
			if err != nil {
				return err
			}
			syncLogger = sync
			// .env 中的 API key，文件不存在时忽略
			_ = godotenv.Load()
			if verbose {
				v := util.GetVersion()
				zap.S().Debugf("版本 %s，Go %s", v.Version, v.GoVersion)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if syncLogger != nil {
				syncLogger()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewInteractiveCommand())

	// 不带子命令时进入交互菜单
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		zap.S().Info("使用 'classify <文件> <检索词>' 子命令直接运行，或在菜单中操作")
		return runMenu(cmd, "")
	}
	rootCmd.Version = util.GetVersion().Version
	return rootCmd
}
