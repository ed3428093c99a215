package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bbyas22/QRcode/internal/domain/models"
	"github.com/bbyas22/QRcode/internal/infrastructure/config"
)

type testEnv struct {
	cfg        *config.Config
	audit      *AuditService
	appConfig  *AppConfigService
	qrcode     *QRCodeService
	records    *RecordService
	dropdown   *DropdownService
	credential *CredentialService
}

// newTestEnv 在临时目录中创建一套使用文件存储的服务
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.NewTestConfig(t.TempDir())
	for _, m := range mutate {
		m(cfg)
	}
	require.NoError(t, cfg.EnsureDirs())

	clock := steppingClock(time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local), time.Second)

	audit := NewAuditService(cfg).WithClock(clock)
	appConfig := NewAppConfigService(cfg)
	qrcodeService := NewQRCodeService(NewFileImageStore(cfg.QRCodeDir))

	return &testEnv{
		cfg:        cfg,
		audit:      audit,
		appConfig:  appConfig,
		qrcode:     qrcodeService,
		records:    NewRecordService(cfg, appConfig, qrcodeService, audit).WithClock(clock),
		dropdown:   NewDropdownService(cfg, audit),
		credential: NewCredentialService(cfg, audit).WithCost(bcrypt.MinCost),
	}
}

// steppingClock 每次调用前进 step
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
}

func validInput() models.RecordInput {
	return models.RecordInput{
		SpecimenNumber: "TB-001",
		Material:       "碳钢",
		ReflectorType:  "平底孔",
		StorageArea:    "A区",
	}
}

func requireKind(t *testing.T, err error, kind ErrorKind, message string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
	if message != "" {
		require.Equal(t, message, UserMessage(err))
	}
}
