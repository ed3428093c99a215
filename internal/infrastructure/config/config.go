package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// 图片存储后端
const (
	ImageStoreFile  = "file"
	ImageStoreRedis = "redis"
)

// Config 保存进程级配置，由 LoadConfig 显式构造后传入各组件
type Config struct {
	// 存储目录
	DataDir   string
	UploadDir string
	QRCodeDir string
	LogDir    string

	// 会话签名密钥
	SessionSecret string

	// 首次启动时写入的管理员初始密码
	DefaultAdminPassword string

	// 上传文件大小上限（字节）
	MaxUploadSize int64

	// 二维码图片存储: "file"(默认) 或 "redis"
	ImageStore string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Gin 运行模式: debug, release, test
	GinMode string

	// 日志级别: debug, info, warn, error
	LogLevel string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() *Config {
	imageStore := strings.ToLower(getEnv("IMAGE_STORE", ImageStoreFile))
	if imageStore != ImageStoreFile && imageStore != ImageStoreRedis {
		fmt.Printf("Warning: Unknown IMAGE_STORE '%s', defaulting to file\n", imageStore)
		imageStore = ImageStoreFile
	}

	return &Config{
		DataDir:   getEnv("DATA_DIR", "data"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		QRCodeDir: getEnv("QRCODE_DIR", "qrcodes"),
		LogDir:    getEnv("LOG_DIR", "logs"),

		SessionSecret:        getEnv("SESSION_SECRET", "qrcode-secret-key-change-in-production"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "123456"),
		MaxUploadSize:        int64(getEnvAsInt("MAX_UPLOAD_SIZE_MB", 100)) * 1024 * 1024,

		ImageStore:    imageStore,
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		GinMode:  getEnv("GIN_MODE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// NewTestConfig 返回所有目录都位于 root 下的配置
func NewTestConfig(root string) *Config {
	return &Config{
		DataDir:              filepath.Join(root, "data"),
		UploadDir:            filepath.Join(root, "uploads"),
		QRCodeDir:            filepath.Join(root, "qrcodes"),
		LogDir:               filepath.Join(root, "logs"),
		SessionSecret:        "test-secret",
		DefaultAdminPassword: "123456",
		MaxUploadSize:        100 * 1024 * 1024,
		ImageStore:           ImageStoreFile,
		GinMode:              "test",
		LogLevel:             "debug",
	}
}

// Dirs 返回需要在启动时创建的目录
func (c *Config) Dirs() []string {
	return []string{c.UploadDir, c.QRCodeDir, c.DataDir, c.LogDir}
}

// EnsureDirs 创建所有存储目录
func (c *Config) EnsureDirs() error {
	for _, dir := range c.Dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
	}
	return nil
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
