package models

import "strconv"

// ServerConfig 服务监听配置
type ServerConfig struct {
	Host  string `json:"host"`
	Port  int    `json:"port"`
	Debug bool   `json:"debug"`
}

// Addr 返回 host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// AppConfig 对应 app_config.json
type AppConfig struct {
	BaseURL     string       `json:"baseUrl"`
	AppName     string       `json:"appName"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Server      ServerConfig `json:"server"`
}

// DefaultAppConfig 返回默认应用配置
func DefaultAppConfig() AppConfig {
	return AppConfig{
		BaseURL:     "http://localhost:8000",
		AppName:     "二维码生成系统",
		Version:     "1.0.0",
		Description: "用于生成和管理试块二维码的系统",
		Server: ServerConfig{
			Host:  "127.0.0.1",
			Port:  8000,
			Debug: true,
		},
	}
}

// AdminCredential 对应 admin.json
type AdminCredential struct {
	Password string `json:"password"`
}
