package cmds

import (
	"os"
	"path/filepath"

	"epgmerge/internal/app/config"
	"epgmerge/internal/pkg/logging"
	"epgmerge/internal/pkg/util"

	"github.com/spf13/cobra"
)

var (
	cfgFile string

	conf *config.Config
)

func init() {
	cobra.OnInitialize(initConfig)
}

func NewRootCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "epgmerge",
		Short:         "EPG合并工具：下载、时区修正并合并XMLTV节目单。",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// 无参数时直接执行一次完整的合并流程
			return runMerge(cmd.Context())
		},
	}

	rootCmd.AddCommand(NewMergeCLI())
	rootCmd.AddCommand(NewServeCLI())
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML配置文件的路径")

	return rootCmd
}

// initConfig 初始化配置文件和日志
func initConfig() {
	var err error
	var fPath string

	if cfgFile != "" {
		// 使用命令参数中的配置文件
		fPath = cfgFile
	} else {
		cfgHome, err := util.GetCurrentAbPathByExecutable()
		cobra.CheckErr(err)

		fPath = filepath.Join(cfgHome, "config.yml")

		// 写入缺省配置文件
		if _, err = os.Stat(fPath); os.IsNotExist(err) {
			err = config.CreateDefaultCfg(fPath)
			cobra.CheckErr(err)
		}
	}

	// 读取配置文件
	conf, err = config.Load(fPath)
	cobra.CheckErr(err)

	// 初始化日志
	lCfg := conf.Log
	if lCfg == nil {
		lCfg = &logging.LogConfig{IsStdout: true}
	}
	cobra.CheckErr(logging.InitLogger(lCfg))
}
