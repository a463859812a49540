package cmds

import (
	"errors"
	"fmt"
	"time"

	"epgmerge/internal/app/router"

	"github.com/spf13/cobra"
)

var httpConfig HttpConfig

type HttpConfig struct {
	Port     int           `json:"port"`
	Interval time.Duration `json:"interval"`
}

func NewServeCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务，定时刷新EPG数据，并提供EPG与订阅文件的查询接口。",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 检查自动更新间隔不能太短
			if httpConfig.Interval < 15*time.Minute {
				return errors.New("interval cannot be less than 15 minutes")
			}

			// 校验配置文件
			if err := conf.Validate(); err != nil {
				return err
			}

			// 将相对的输出目录解析到程序所在目录
			if err := resolveOutputDir(); err != nil {
				return err
			}

			// 创建并启动HTTP服务
			r, err := router.NewEngine(cmd.Context(), conf, httpConfig.Interval)
			if err != nil {
				return err
			}
			if err = r.Run(fmt.Sprintf(":%d", httpConfig.Port)); err != nil {
				return err
			}

			return nil
		},
	}

	serveCmd.Flags().IntVarP(&httpConfig.Port, "port", "p", 8080, "HTTP服务的监听端口。")
	serveCmd.Flags().DurationVarP(&httpConfig.Interval, "interval", "i", 24*time.Hour, "自动刷新EPG数据的间隔时间，e.g `24h或15m`。")

	return serveCmd
}
