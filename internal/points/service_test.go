package points_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/points"
)

func TestPoints(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Points Module Suite")
}

type mockPointsRepository struct {
	balances map[int64]*points.Balance

	lastCompanyListed int64
}

func newMockPointsRepository() *mockPointsRepository {
	return &mockPointsRepository{balances: make(map[int64]*points.Balance)}
}

func (m *mockPointsRepository) GetBalance(ctx context.Context, userID int64) (*points.Balance, error) {
	balance, ok := m.balances[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return balance, nil
}

func (m *mockPointsRepository) ListSent(ctx context.Context, userID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	return nil, nil
}

func (m *mockPointsRepository) ListReceived(ctx context.Context, userID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	return nil, nil
}

func (m *mockPointsRepository) ListByCompany(ctx context.Context, companyID int64, p internal.Pagination) ([]*points.TransactionView, error) {
	m.lastCompanyListed = companyID
	return nil, nil
}

var _ = Describe("PointsService", func() {
	var (
		service *points.Service
		repo    *mockPointsRepository
		ctx     context.Context
	)

	admin := &auth.User{ID: 1, CompanyID: 10, Role: datamodel.RoleAdmin}
	member := &auth.User{ID: 2, CompanyID: 10, Role: datamodel.RoleMember}

	BeforeEach(func() {
		repo = newMockPointsRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = points.NewService(repo, lg)
		ctx = context.Background()

		repo.balances[1] = &points.Balance{UserID: 1, CompanyID: 10, GiveablePoints: 50}
		repo.balances[2] = &points.Balance{UserID: 2, CompanyID: 10, GiveablePoints: 30}
		repo.balances[9] = &points.Balance{UserID: 9, CompanyID: 99, GiveablePoints: 10}
	})

	Describe("GetBalance", func() {
		It("lets members read their own balance", func() {
			balance, err := service.GetBalance(ctx, member, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.GiveablePoints).To(Equal(int64(30)))
		})

		It("rejects members reading someone else's balance", func() {
			_, err := service.GetBalance(ctx, member, 1)
			Expect(err).To(MatchError(internal.ErrAdminRequired))
		})

		It("lets admins read any balance of their company", func() {
			balance, err := service.GetBalance(ctx, admin, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(balance.UserID).To(Equal(int64(2)))
		})

		It("keeps admins out of other companies", func() {
			_, err := service.GetBalance(ctx, admin, 9)
			Expect(err).To(MatchError(internal.ErrCrossCompany))
		})
	})

	Describe("ListCompanyTransactions", func() {
		It("requires the admin role", func() {
			_, err := service.ListCompanyTransactions(ctx, member, internal.Pagination{})
			Expect(err).To(MatchError(internal.ErrAdminRequired))
		})

		It("scopes the listing to the admin's own company", func() {
			_, err := service.ListCompanyTransactions(ctx, admin, internal.Pagination{})
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastCompanyListed).To(Equal(int64(10)))
		})
	})
})
