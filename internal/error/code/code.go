package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 200: 请求参数验证错误，前端按 success=false 处理.
	ErrValidation
	// ErrUnauthorized - 401: 未授权访问.
	ErrUnauthorized
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 管理员相关错误码 (101xxx).
const (
	// ErrPasswordRequired - 200: 未输入密码.
	ErrPasswordRequired int = iota + 101000
	// ErrPasswordIncorrect - 200: 密码错误.
	ErrPasswordIncorrect
	// ErrCurrentPasswordIncorrect - 200: 当前密码错误.
	ErrCurrentPasswordIncorrect
	// ErrWeakPassword - 200: 新密码不符合要求.
	ErrWeakPassword
)

// 记录相关错误码 (102xxx).
const (
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound int = iota + 102000
	// ErrFileInvalid - 200: 上传文件无效.
	ErrFileInvalid
	// ErrQRCodeNotFound - 404: 二维码不存在.
	ErrQRCodeNotFound
	// ErrFileNotFound - 404: 文件不存在.
	ErrFileNotFound
)

// 存储相关错误码 (105xxx).
const (
	// ErrStorage - 200: 读写数据文件失败.
	ErrStorage int = iota + 105000
)
