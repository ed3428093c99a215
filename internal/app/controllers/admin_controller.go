package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/app/middleware"
	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/error/code"
	"github.com/bbyas22/QRcode/internal/error/response"
	Logger "github.com/bbyas22/QRcode/pkg/logger"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	Login()
	Logout()
	GetRecords()
	UpdateRecord()
	DeleteRecord()
	UpdateDropdownConfig()
	ChangePassword()
	GetLogs()
}

// AdminController 处理管理员相关的请求
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Cache     *middleware.ResponseCache
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer, cache *middleware.ResponseCache) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
		Cache:     cache,
	}
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, cache *middleware.ResponseCache, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container, cache)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "getRecords":
			controller.GetRecords()
		case "updateRecord":
			controller.UpdateRecord()
		case "deleteRecord":
			controller.DeleteRecord()
		case "updateDropdownConfig":
			controller.UpdateDropdownConfig()
		case "changePassword":
			controller.ChangePassword()
		case "getLogs":
			controller.GetLogs()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

func (c *AdminController) recordService() services.InterfaceRecordService {
	return c.Container.GetService("record").(services.InterfaceRecordService)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// 1. Login 管理员登录
// POST /admin/login (form: password)
func (c *AdminController) Login() {
	password := c.Ctx.PostForm("password")
	if password == "" {
		response.Fail(c.Ctx, code.ErrPasswordRequired)
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	if !credentialService.Verify(password) {
		Logger.Warning("管理员登录失败: %s", c.Ctx.ClientIP())
		response.Fail(c.Ctx, code.ErrPasswordIncorrect)
		return
	}

	sessionService := c.Container.GetService("session").(services.InterfaceSessionService)
	token, err := sessionService.Issue()
	if err != nil {
		Logger.Error("签发会话失败: %v", err)
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "登录失败: "+err.Error())
		return
	}

	middleware.SetSessionCookie(c.Ctx, token)
	Logger.Info("管理员登录成功: %s", c.Ctx.ClientIP())
	response.Success(c.Ctx, nil)
}

// 2. Logout 管理员登出；GET 请求重定向回首页
// POST /admin/logout, GET /admin/logout
func (c *AdminController) Logout() {
	middleware.ClearSessionCookie(c.Ctx)

	if c.Ctx.Request.Method == http.MethodGet {
		c.Ctx.Redirect(http.StatusFound, "/")
		return
	}
	response.SuccessMessage(c.Ctx, "已成功登出")
}

// 3. GetRecords 获取所有记录，按创建时间倒序
// GET /api/admin/records
func (c *AdminController) GetRecords() {
	records, err := c.recordService().ListAll(c.Ctx.Request.Context())
	if err != nil {
		failWithServiceError(c.Ctx, err, "获取记录")
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	response.Success(c.Ctx, gin.H{"records": records})
}

// 4. UpdateRecord 更新记录的四个文本字段
// PUT /api/admin/record/:id
func (c *AdminController) UpdateRecord() {
	var body map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrValidation, "缺少必填字段")
		return
	}

	for _, key := range []string{"specimen_number", "material", "reflector_type", "storage_area"} {
		if _, ok := body[key]; !ok {
			response.FailWithMessage(c.Ctx, code.ErrValidation, "缺少必填字段")
			return
		}
	}

	input := models.RecordInput{
		SpecimenNumber: fieldString(body["specimen_number"]),
		Material:       fieldString(body["material"]),
		ReflectorType:  fieldString(body["reflector_type"]),
		StorageArea:    fieldString(body["storage_area"]),
	}

	if _, err := c.recordService().Update(c.Ctx.Request.Context(), c.Ctx.Param("id"), input, c.Ctx.ClientIP()); err != nil {
		failWithServiceError(c.Ctx, err, "更新")
		return
	}
	response.SuccessMessage(c.Ctx, "记录更新成功")
}

// 5. DeleteRecord 删除记录及其证书与二维码
// DELETE /api/admin/record/:id
func (c *AdminController) DeleteRecord() {
	id := c.Ctx.Param("id")

	if err := c.recordService().Delete(c.Ctx.Request.Context(), id, c.Ctx.ClientIP()); err != nil {
		failWithServiceError(c.Ctx, err, "删除")
		return
	}

	if c.Cache != nil {
		c.Cache.PurgeByPrefix("/api/qrcode/" + id)
	}
	response.SuccessMessage(c.Ctx, "记录删除成功")
}

// 6. UpdateDropdownConfig 整体替换下拉列表配置
// PUT /api/admin/config
func (c *AdminController) UpdateDropdownConfig() {
	var body map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&body); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrValidation, "配置格式错误")
		return
	}

	dropdownService := c.Container.GetService("dropdown").(services.InterfaceDropdownService)
	if _, err := dropdownService.Replace(c.Ctx.Request.Context(), body, c.Ctx.ClientIP()); err != nil {
		failWithServiceError(c.Ctx, err, "更新")
		return
	}

	if c.Cache != nil {
		c.Cache.PurgeByPrefix("/api/dropdown-config")
	}
	response.SuccessMessage(c.Ctx, "配置更新成功")
}

// 7. ChangePassword 修改管理员密码
// PUT /api/admin/password
func (c *AdminController) ChangePassword() {
	var req ChangePasswordRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrValidation, "请填写完整信息")
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	if err := credentialService.Change(c.Ctx.Request.Context(), req.CurrentPassword, req.NewPassword, c.Ctx.ClientIP()); err != nil {
		failWithServiceError(c.Ctx, err, "修改")
		return
	}
	response.SuccessMessage(c.Ctx, "密码修改成功")
}

// 8. GetLogs 获取操作日志，最新的在前
// GET /api/admin/logs
func (c *AdminController) GetLogs() {
	auditService := c.Container.GetService("audit").(services.InterfaceAuditService)

	logs, err := auditService.ReadAll(c.Ctx.Request.Context())
	if err != nil {
		failWithServiceError(c.Ctx, err, "获取日志")
		return
	}
	if logs == nil {
		logs = []models.AuditEntry{}
	}
	response.Success(c.Ctx, gin.H{"logs": logs})
}

// fieldString 把 JSON 中的任意值转成字符串，null 视为空串
func fieldString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
