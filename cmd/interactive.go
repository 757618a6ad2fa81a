package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"treaty-classifier/pkg/signals"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

const defaultInteractiveBatchSize = 3

func NewInteractiveCommand() *cobra.Command {
	var configFilePath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "交互式菜单",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, configFilePath)
		},
	}
	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	return cmd
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) filePath() (string, error) {
	for {
		path, err := p.ask("Enter the path to the speeches file (or 'q' to quit): ")
		if err != nil {
			return "", err
		}
		if strings.EqualFold(path, "q") {
			return "", errQuit
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		fmt.Fprintf(p.out, "Error: File '%s' not found. Please try again.\n", path)
	}
}

func (p *prompter) searchTerm() (string, error) {
	for {
		term, err := p.ask("Enter the search term (treaty name or keyword, or 'q' to quit): ")
		if err != nil {
			return "", err
		}
		if strings.EqualFold(term, "q") {
			return "", errQuit
		}
		if term != "" {
			return term, nil
		}
		fmt.Fprintln(p.out, "Error: Search term cannot be empty. Please try again.")
	}
}

func (p *prompter) batchSize() (int, error) {
	for {
		raw, err := p.ask(fmt.Sprintf("Enter the batch size (1-10, default is %d, or 'q' to quit): ", defaultInteractiveBatchSize))
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(raw, "q") {
			return 0, errQuit
		}
		if raw == "" {
			return defaultInteractiveBatchSize, nil
		}
		n, err := cast.ToIntE(raw)
		if err != nil {
			fmt.Fprintln(p.out, "Error: Please enter a valid number.")
			continue
		}
		if n >= 1 && n <= 10 {
			return n, nil
		}
		fmt.Fprintln(p.out, "Error: Batch size must be between 1 and 10.")
	}
}

func printHeader(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("=", 70))
	fmt.Fprintln(out, strings.Repeat(" ", 22)+"Treaty Mention Classifier")
	fmt.Fprintln(out, strings.Repeat("=", 70))
	fmt.Fprintln(out)
}

func runMenu(cmd *cobra.Command, configFilePath string) error {
	if configFilePath == "" {
		configFilePath = "./etc/config.yaml"
	}
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	for {
		printHeader(p.out)
		fmt.Fprintln(p.out, "Options:")
		fmt.Fprintln(p.out, "1. Run Treaty Analysis")
		fmt.Fprintln(p.out, "2. Quit")

		choice, err := p.ask("\nEnter your choice (1-2): ")
		if errors.Is(err, errQuit) || choice == "2" {
			fmt.Fprintln(p.out, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		if choice != "1" {
			fmt.Fprintln(p.out, "\nInvalid choice. Please try again.")
			continue
		}

		file, term, size, err := p.analysisInput()
		if errors.Is(err, errQuit) {
			continue
		}
		if err != nil {
			return err
		}
		runInteractiveAnalysis(cmd, configFilePath, file, term, size)

		if _, err := p.ask("\nPress Enter to return to the main menu..."); errors.Is(err, errQuit) {
			fmt.Fprintln(p.out, "\nGoodbye!")
			return nil
		}
	}
}

func (p *prompter) analysisInput() (string, string, int, error) {
	file, err := p.filePath()
	if err != nil {
		return "", "", 0, err
	}
	term, err := p.searchTerm()
	if err != nil {
		return "", "", 0, err
	}
	size, err := p.batchSize()
	if err != nil {
		return "", "", 0, err
	}
	return file, term, size, nil
}

func runInteractiveAnalysis(cmd *cobra.Command, configFilePath, file, term string, batchSize int) {
	cfg, err := loadConfig(configFilePath)
	if err != nil {
		zap.S().Error(err.Error())
		return
	}
	cfg.PipelineConfig.BatchSize = batchSize
	if errs := cfg.Validate(); len(errs) > 0 {
		zap.S().Errorf("配置验证错误:%s", errors.Join(errs...))
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nStarting analysis...")
	fmt.Fprintf(out, "File: %s\nSearch term: '%s'\nBatch size: %d\n", file, term, batchSize)
	fmt.Fprintln(out, strings.Repeat("-", 70))

	// 每次分析单独监听中断，Ctrl+C 只结束本次分析
	ctx, stop := signals.WithInterrupt(context.Background())
	defer stop()
	if err := runAnalysis(ctx, cmd, cfg, file, term, ""); err != nil {
		zap.S().Errorf("分析过程中出错: %s", err.Error())
	}
}
