package service

import (
	"testing"

	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"society-be-svc/internal/auth"
	"society-be-svc/internal/config"
	"society-be-svc/internal/notification/mocks"
	"society-be-svc/internal/repository"
	"society-be-svc/internal/testutil"
	"society-be-svc/pkg/logger"
)

// fixture wires every service against one in-memory database
type fixture struct {
	db       *gorm.DB
	jwt      *auth.JWTManager
	notifier *mocks.MockNotifier

	userRepo repository.UserRepository
	flatRepo repository.FlatRepository
	billRepo repository.MaintenanceRepository

	auth        AuthService
	flats       FlatService
	maintenance MaintenanceService
	dashboard   DashboardService
	users       UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.NewNopLogger()
	ctrl := gomock.NewController(t)

	f := &fixture{
		db:       db,
		jwt:      auth.NewJWTManager(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 24, Issuer: "test"}),
		notifier: mocks.NewMockNotifier(ctrl),
		userRepo: repository.NewUserRepository(db),
		flatRepo: repository.NewFlatRepository(db),
		billRepo: repository.NewMaintenanceRepository(db),
	}
	dashboardRepo := repository.NewDashboardRepository(db)
	cache := NopDashboardCache{}

	f.auth = NewAuthService(db, f.userRepo, f.flatRepo, f.jwt, f.notifier, cache, log)
	f.flats = NewFlatService(db, f.flatRepo, f.userRepo, cache, log)
	f.maintenance = NewMaintenanceService(db, f.billRepo, f.flatRepo, f.userRepo, dashboardRepo, f.notifier, cache, log)
	f.dashboard = NewDashboardService(f.userRepo, f.flatRepo, f.billRepo, cache, log)
	f.users = NewUserService(f.userRepo, log)

	return f
}

// allowNotifications accepts any number of notifications
func (f *fixture) allowNotifications() {
	f.notifier.EXPECT().NotifyVerification(gomock.Any(), gomock.Any()).AnyTimes()
	f.notifier.EXPECT().NotifyPaymentConfirmation(gomock.Any(), gomock.Any()).AnyTimes()
}

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
