package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/error/code"
	"github.com/bbyas22/QRcode/internal/error/response"
)

// InterfaceRecordController 定义试块记录控制器接口
type InterfaceRecordController interface {
	GenerateQRCode()
	GetQRCode()
	ViewRecord()
	DownloadFile()
}

// RecordController 处理公开的记录与二维码请求
type RecordController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRecordController 创建一个新的记录控制器
func NewRecordController(ctx *gin.Context, container *container.ServiceContainer) *RecordController {
	return &RecordController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRecordFunc 返回一个处理记录请求的Gin处理函数
func HandleRecordFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRecordController(ctx, container)

		switch method {
		case "generateQRCode":
			controller.GenerateQRCode()
		case "getQRCode":
			controller.GetQRCode()
		case "viewRecord":
			controller.ViewRecord()
		case "downloadFile":
			controller.DownloadFile()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

func (c *RecordController) recordService() services.InterfaceRecordService {
	return c.Container.GetService("record").(services.InterfaceRecordService)
}

// 1. GenerateQRCode 创建记录并生成二维码
// POST /api/generate-qrcode (multipart/form-data)
func (c *RecordController) GenerateQRCode() {
	input := models.RecordInput{
		SpecimenNumber: c.Ctx.PostForm("specimen_number"),
		Material:       c.Ctx.PostForm("material"),
		ReflectorType:  c.Ctx.PostForm("reflector_type"),
		StorageArea:    c.Ctx.PostForm("storage_area"),
	}

	var upload *services.UploadedFile
	if fh, err := c.Ctx.FormFile("certificate"); err == nil && fh.Filename != "" {
		f, err := fh.Open()
		if err != nil {
			failWithServiceError(c.Ctx, err, "生成")
			return
		}
		defer f.Close()

		upload = &services.UploadedFile{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		}
	}

	result, err := c.recordService().Create(c.Ctx.Request.Context(), input, upload)
	if err != nil {
		failWithServiceError(c.Ctx, err, "生成")
		return
	}

	response.Success(c.Ctx, gin.H{
		"record_id":    result.Record.ID,
		"qr_image_url": result.QRImageURL,
	})
}

// 2. GetQRCode 获取二维码图片
// GET /api/qrcode/:id
func (c *RecordController) GetQRCode() {
	qrcodeService := c.Container.GetService("qrcode").(services.InterfaceQRCodeService)

	png, err := qrcodeService.Fetch(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		if services.IsNotFound(err) {
			response.TextNotFound(c.Ctx, code.ErrQRCodeNotFound)
			return
		}
		c.Ctx.String(http.StatusInternalServerError, services.UserMessage(err))
		return
	}

	c.Ctx.Data(http.StatusOK, "image/png", png)
}

// 3. ViewRecord 查看记录详情页面
// GET /view/:id
func (c *RecordController) ViewRecord() {
	record, err := c.recordService().Get(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		if services.IsNotFound(err) {
			response.TextNotFound(c.Ctx, code.ErrRecordNotFound)
			return
		}
		c.Ctx.String(http.StatusInternalServerError, services.UserMessage(err))
		return
	}

	appConfigService := c.Container.GetService("app_config").(services.InterfaceAppConfigService)
	c.Ctx.HTML(http.StatusOK, "view.html", gin.H{
		"record":  record,
		"baseUrl": appConfigService.BaseURL(),
	})
}

// 4. DownloadFile 下载证书文件
// GET /api/download/:filename
func (c *RecordController) DownloadFile() {
	filename := c.Ctx.Param("filename")

	path, err := c.recordService().CertificatePath(filename)
	if err != nil {
		response.TextNotFound(c.Ctx, code.ErrFileNotFound)
		return
	}

	c.Ctx.FileAttachment(path, filename)
}
