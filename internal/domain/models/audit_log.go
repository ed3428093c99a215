package models

// 管理员操作类型
const (
	OperationUpdateRecord   = "update_record"
	OperationDeleteRecord   = "delete_record"
	OperationUpdateConfig   = "update_config"
	OperationChangePassword = "change_password"
)

// AuditEntry 管理员操作日志，只追加不修改
type AuditEntry struct {
	Timestamp     string      `json:"timestamp"`
	OperationType string      `json:"operation_type"`
	IPAddress     string      `json:"ip_address"`
	BeforeState   interface{} `json:"before_state"`
	AfterState    interface{} `json:"after_state"`
}
