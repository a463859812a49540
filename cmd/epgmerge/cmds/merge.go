package cmds

import (
	"context"
	"path/filepath"

	"epgmerge/internal/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMergeCLI() *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "执行一次EPG下载合并，并在输出目录中生成订阅文件。",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context())
		},
	}

	return mergeCmd
}

// runMerge 执行一次完整的EPG处理流水线
func runMerge(ctx context.Context) error {
	// L()：获取全局logger
	logger := zap.L()

	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return err
	}

	// 将相对的输出目录解析到程序所在目录
	if err := resolveOutputDir(); err != nil {
		return err
	}

	// 执行流水线
	result, err := conf.NewPipeline().Run(ctx)
	if err != nil {
		return err
	}

	logger.Sugar().Infof("EPG merge completed, sources: %d, channels: %d, programmes: %d, output: %s.",
		result.SourcesFetched, result.Channels, result.Programmes, conf.OutputDir)

	return nil
}

// resolveOutputDir 相对路径的输出目录以程序所在目录为基准
func resolveOutputDir() error {
	if filepath.IsAbs(conf.OutputDir) {
		return nil
	}

	currDir, err := util.GetCurrentAbPathByExecutable()
	if err != nil {
		return err
	}
	conf.OutputDir = filepath.Join(currDir, conf.OutputDir)
	return nil
}
