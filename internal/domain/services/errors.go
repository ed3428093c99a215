package services

import "errors"

// ErrorKind 业务错误分类
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindFile
	KindWrongPassword
	KindWeakPassword
	KindStorage
)

// ServiceError 服务层返回的业务错误，Message 可直接展示给用户
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func validationError(message string) error {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func notFoundError(message string) error {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func fileError(message string) error {
	return &ServiceError{Kind: KindFile, Message: message}
}

func storageError(op string, err error) error {
	return &ServiceError{Kind: KindStorage, Message: op, Err: err}
}

// KindOf 返回错误分类，非 ServiceError 归为存储错误
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}

// IsNotFound 判断是否为资源不存在
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// UserMessage 返回可展示给用户的消息；存储错误返回底层原因
func UserMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		if se.Kind == KindStorage && se.Err != nil {
			return se.Err.Error()
		}
		return se.Message
	}
	return err.Error()
}
