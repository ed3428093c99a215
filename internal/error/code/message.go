package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrUnauthorized:    "未授权访问",
	ErrTooManyRequests: "请求频率过高，请稍后再试",

	// 管理员相关错误码
	ErrPasswordRequired:         "请输入密码",
	ErrPasswordIncorrect:        "密码错误",
	ErrCurrentPasswordIncorrect: "当前密码错误",
	ErrWeakPassword:             "新密码不符合要求",

	// 记录相关错误码
	ErrRecordNotFound: "记录不存在",
	ErrFileInvalid:    "文件名无效",
	ErrQRCodeNotFound: "二维码不存在",
	ErrFileNotFound:   "文件不存在",

	// 存储相关错误码
	ErrStorage: "数据读写失败",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusOK,
	ErrUnauthorized:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 管理员相关错误码
	ErrPasswordRequired:         StatusOK,
	ErrPasswordIncorrect:        StatusOK,
	ErrCurrentPasswordIncorrect: StatusOK,
	ErrWeakPassword:             StatusOK,

	// 记录相关错误码
	ErrRecordNotFound: StatusNotFound,
	ErrFileInvalid:    StatusOK,
	ErrQRCodeNotFound: StatusNotFound,
	ErrFileNotFound:   StatusNotFound,

	// 存储相关错误码
	ErrStorage: StatusOK,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
