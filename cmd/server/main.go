package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bbyas22/QRcode/internal/app/routes"
	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "qrcode-server",
	Short:         "试块二维码管理服务",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "环境变量文件路径")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	// 加载.env文件，失败时继续使用已有的环境变量
	envErr := godotenv.Load(envFile)

	cfg := config.LoadConfig()

	if err := Logger.SetupLogger(cfg.LogDir, cfg.LogLevel); err != nil {
		return fmt.Errorf("初始化日志配置失败: %w", err)
	}
	defer Logger.Sync()

	if envErr != nil {
		Logger.Warning("无法加载%s文件: %v", envFile, envErr)
	} else {
		Logger.Info("成功加载%s文件", envFile)
	}

	gin.SetMode(cfg.GinMode)

	serviceContainer := container.NewServiceContainer(cfg)
	defer serviceContainer.Close()

	if err := serviceContainer.Bootstrap(); err != nil {
		return fmt.Errorf("创建存储目录失败: %w", err)
	}

	r := routes.SetupRouter(serviceContainer, cfg)

	// 监听地址取自 app_config.json 的 server 段
	appConfigService := serviceContainer.GetService("app_config").(services.InterfaceAppConfigService)
	addr := appConfigService.ServerConfig().Addr()

	Logger.Info("服务器启动在: http://%s", addr)
	if err := r.Run(addr); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		return err
	}
	return nil
}
