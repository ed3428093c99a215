package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bbyas22/QRcode/internal/app/middleware"
	"github.com/bbyas22/QRcode/internal/domain/services"
	"github.com/bbyas22/QRcode/internal/domain/services/container"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
)

type testServer struct {
	t         *testing.T
	router    *gin.Engine
	container *container.ServiceContainer
	cookie    *http.Cookie
}

// newTestServer 在临时目录中启动完整路由；extra 可基于配置替换容器中的服务
func newTestServer(t *testing.T, extra ...func(*config.Config) container.Option) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig(t.TempDir())
	credential := services.NewCredentialService(cfg, services.NewAuditService(cfg)).WithCost(bcrypt.MinCost)
	opts := []container.Option{container.WithCredentialService(credential)}
	for _, e := range extra {
		opts = append(opts, e(cfg))
	}
	c := container.NewServiceContainer(cfg, opts...)
	require.NoError(t, c.Bootstrap())
	t.Cleanup(func() { c.Close() })

	return &testServer{t: t, router: SetupRouter(c, cfg), container: c}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(target string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (s *testServer) sendJSON(method, target string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(s.t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) login(password string) *httptest.ResponseRecorder {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := s.do(req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName && cookie.Value != "" {
			s.cookie = cookie
		}
	}
	return w
}

// generate 以 multipart 表单创建记录；certName 为空时不上传证书
func (s *testServer) generate(fields map[string]string, certName string, cert []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(s.t, writer.WriteField(k, v))
	}
	if certName != "" {
		part, err := writer.CreateFormFile("certificate", certName)
		require.NoError(s.t, err)
		_, err = part.Write(cert)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-qrcode", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func assertFailure(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, message, body["message"])
}

func assertSuccessMessage(t *testing.T, w *httptest.ResponseRecorder, message string) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"], w.Body.String())
	assert.Equal(t, message, body["message"])
}

func specimenFields(number string) map[string]string {
	return map[string]string{
		"specimen_number": number,
		"material":        "碳钢",
		"reflector_type":  "平底孔",
		"storage_area":    "A区",
	}
}

func (s *testServer) createRecord(number string) string {
	w := s.generate(specimenFields(number), "", nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	body := decode(s.t, w)
	require.Equal(s.t, true, body["success"], w.Body.String())
	return body["record_id"].(string)
}

func TestPingAndConfig(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "status": "healthy", "message": "pong"}`, w.Body.String())

	w = s.get("/api/config")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"baseUrl": "http://localhost:8000"}`, w.Body.String())

	w = s.get("/api/dropdown-config")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{"钢材", "混凝土", "铝合金", "其他"}, body["materials"])
}

func TestGenerateViewAndDownload(t *testing.T) {
	s := newTestServer(t)
	cert := []byte("%PDF-1.4 certificate")

	w := s.generate(specimenFields("TB-001"), "检测证书 2024.pdf", cert)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.Equal(t, true, body["success"], w.Body.String())
	id := body["record_id"].(string)
	assert.Equal(t, "http://localhost:8000/api/qrcode/"+id, body["qr_image_url"])

	w = s.get("/api/qrcode/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	want, err := services.EncodePNG("http://localhost:8000/view/" + id)
	require.NoError(t, err)
	assert.Equal(t, want, w.Body.Bytes())

	record, err := s.container.GetService("record").(services.InterfaceRecordService).Get(context.Background(), id)
	require.NoError(t, err)
	certName := record.CertificateName()
	require.NotEmpty(t, certName)

	w = s.get("/view/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	for _, text := range []string{"TB-001", "碳钢", "平底孔", "A区", "/api/download/" + certName} {
		assert.Contains(t, page, text)
	}

	w = s.get("/api/download/" + certName)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, cert, w.Body.Bytes())
}

func TestGenerateValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.generate(specimenFields("bad id!"), "", nil)
	assertFailure(t, w, http.StatusOK, "试块编号只能包含字母、数字、连字符和下划线")

	fields := specimenFields("TB-001")
	delete(fields, "material")
	w = s.generate(fields, "", nil)
	assertFailure(t, w, http.StatusOK, "请填写所有必填字段")

	w = s.generate(specimenFields("TB-001"), "证书", []byte("x"))
	assertFailure(t, w, http.StatusOK, "文件名无效")
}

func TestNotFoundPages(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target  string
		message string
	}{
		{"/view/nope", "记录不存在"},
		{"/view/admin", "记录不存在"},
		{"/api/qrcode/nope", "二维码不存在"},
		{"/api/download/nope.pdf", "文件不存在"},
		{"/api/download/admin.json", "文件不存在"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := s.get(tt.target)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, tt.message, w.Body.String())
		})
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	assertFailure(t, s.login(""), http.StatusOK, "请输入密码")
	assertFailure(t, s.login("wrong"), http.StatusOK, "密码错误")
	assert.Nil(t, s.cookie)

	w := s.login("123456")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
	require.NotNil(t, s.cookie)
	assert.True(t, s.cookie.HttpOnly)

	w = s.get("/api/admin/records")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["records"])
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = s.login("wrong")
	}
	assertFailure(t, last, http.StatusTooManyRequests, "请求频率过高，请稍后再试")
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/admin/records", nil),
		httptest.NewRequest(http.MethodPut, "/api/admin/record/x", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/admin/record/x", nil),
		httptest.NewRequest(http.MethodPut, "/api/admin/config", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPut, "/api/admin/password", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil),
	}
	for _, req := range requests {
		assertFailure(t, s.do(req), http.StatusUnauthorized, "未授权访问")
	}
}

func TestExpiredSession(t *testing.T) {
	var sessionService *services.SessionService
	s := newTestServer(t, func(cfg *config.Config) container.Option {
		sessionService = services.NewSessionService(cfg)
		return container.WithSessionService(sessionService)
	})

	token, err := sessionService.IssueAt(time.Now().Add(-61 * time.Minute))
	require.NoError(t, err)
	s.cookie = &http.Cookie{Name: middleware.SessionCookieName, Value: token}

	w := s.get("/api/admin/records")
	assertFailure(t, w, http.StatusUnauthorized, "未授权访问")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestAdminUpdateAndDeleteRecord(t *testing.T) {
	s := newTestServer(t)
	id := s.createRecord("TB-001")
	s.createRecord("TB-002")

	// 预先读取一次二维码，删除后不应再命中缓存
	require.Equal(t, http.StatusOK, s.get("/api/qrcode/"+id).Code)

	require.Equal(t, http.StatusOK, s.login("123456").Code)

	w := s.get("/api/admin/records")
	require.Equal(t, http.StatusOK, w.Code)
	records := decode(t, w)["records"].([]interface{})
	require.Len(t, records, 2)

	w = s.sendJSON(http.MethodPut, "/api/admin/record/"+id, map[string]interface{}{
		"specimen_number": "TB-001",
		"material":        "不锈钢",
	})
	assertFailure(t, w, http.StatusOK, "缺少必填字段")

	update := map[string]interface{}{
		"specimen_number": "TB-001",
		"material":        "不锈钢",
		"reflector_type":  "横通孔",
		"storage_area":    "B区",
	}
	assertSuccessMessage(t, s.sendJSON(http.MethodPut, "/api/admin/record/"+id, update), "记录更新成功")
	assert.Contains(t, s.get("/view/"+id).Body.String(), "不锈钢")

	bad := map[string]interface{}{
		"specimen_number": "TB 001",
		"material":        "不锈钢",
		"reflector_type":  "横通孔",
		"storage_area":    "B区",
	}
	assertFailure(t, s.sendJSON(http.MethodPut, "/api/admin/record/"+id, bad), http.StatusOK, "试块编号只能包含字母、数字、连字符和下划线")

	assertFailure(t, s.sendJSON(http.MethodPut, "/api/admin/record/missing", update), http.StatusNotFound, "记录不存在")

	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/admin/record/"+id, nil))
	assertSuccessMessage(t, w, "记录删除成功")
	assert.Equal(t, http.StatusNotFound, s.get("/view/"+id).Code)
	assert.Equal(t, http.StatusNotFound, s.get("/api/qrcode/"+id).Code)

	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/admin/record/"+id, nil))
	assertFailure(t, w, http.StatusNotFound, "记录不存在")

	w = s.get("/api/admin/logs")
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode(t, w)["logs"].([]interface{})
	require.Len(t, logs, 2)
	assert.Equal(t, "delete_record", logs[0].(map[string]interface{})["operation_type"])
	assert.Equal(t, "update_record", logs[1].(map[string]interface{})["operation_type"])
}

func TestAdminUpdateDropdownConfig(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.login("123456").Code)

	// 先读取一次，使响应进入缓存
	require.Equal(t, http.StatusOK, s.get("/api/dropdown-config").Code)

	w := s.sendJSON(http.MethodPut, "/api/admin/config", map[string]interface{}{
		"materials":       []string{"钛合金", "钛合金", " 铜 "},
		"reflector_types": []string{"平底孔"},
	})
	assertFailure(t, w, http.StatusOK, "配置格式错误: storage_areas")

	w = s.sendJSON(http.MethodPut, "/api/admin/config", map[string]interface{}{
		"materials":       []string{"钛合金", "钛合金", " 铜 "},
		"reflector_types": []string{"平底孔"},
		"storage_areas":   []string{""},
	})
	assertFailure(t, w, http.StatusOK, "storage_areas 至少需要一个有效选项")

	w = s.sendJSON(http.MethodPut, "/api/admin/config", map[string]interface{}{
		"materials":       []string{"钛合金", "钛合金", " 铜 "},
		"reflector_types": []string{"平底孔"},
		"storage_areas":   []string{"E区"},
	})
	assertSuccessMessage(t, w, "配置更新成功")

	w = s.get("/api/dropdown-config")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"materials": ["钛合金", "铜"], "reflector_types": ["平底孔"], "storage_areas": ["E区"]}`, w.Body.String())
}

func TestAdminChangePassword(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.login("123456").Code)

	change := func(current, next string) *httptest.ResponseRecorder {
		return s.sendJSON(http.MethodPut, "/api/admin/password", map[string]string{
			"current_password": current,
			"new_password":     next,
		})
	}

	assertFailure(t, change("", "abcdef"), http.StatusOK, "请填写完整信息")
	assertFailure(t, change("123456", "abc"), http.StatusOK, "新密码长度至少6位")
	assertFailure(t, change("000000", "abcdef"), http.StatusOK, "当前密码错误")
	assertSuccessMessage(t, change("123456", "abcdef"), "密码修改成功")

	s.cookie = nil
	assertFailure(t, s.login("123456"), http.StatusOK, "密码错误")
	require.Equal(t, http.StatusOK, s.login("abcdef").Code)

	w := s.get("/api/admin/logs")
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode(t, w)["logs"].([]interface{})
	require.Len(t, logs, 1)
	entry := logs[0].(map[string]interface{})
	assert.Equal(t, "change_password", entry["operation_type"])
	assert.NotContains(t, w.Body.String(), "abcdef")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.login("123456").Code)

	w := s.do(httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	assertSuccessMessage(t, w, "已成功登出")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	w = s.do(httptest.NewRequest(http.MethodGet, "/admin/logout", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
