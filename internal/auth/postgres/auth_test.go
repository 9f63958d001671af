package postgres

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/auth"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

func TestAuthRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthRepository Suite")
}

var _ = Describe("AuthRepository", func() {
	var (
		db   *gorm.DB
		repo auth.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&datamodel.Company{}, &datamodel.User{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewAuthRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("GetOrCreateCompany", func() {
		It("creates a company on first sight and reuses it afterwards", func() {
			first, err := repo.GetOrCreateCompany(ctx, "Acme")
			Expect(err).ToNot(HaveOccurred())
			Expect(first.ID).To(BeNumerically(">", 0))

			second, err := repo.GetOrCreateCompany(ctx, "Acme")
			Expect(err).ToNot(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))

			var count int64
			Expect(db.Model(&datamodel.Company{}).Count(&count).Error).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("keeps differently named companies apart", func() {
			acme, err := repo.GetOrCreateCompany(ctx, "Acme")
			Expect(err).ToNot(HaveOccurred())

			globex, err := repo.GetOrCreateCompany(ctx, "Globex")
			Expect(err).ToNot(HaveOccurred())
			Expect(globex.ID).ToNot(Equal(acme.ID))
		})
	})

	Describe("GetUserByEmail", func() {
		It("loads a stored user by email", func() {
			company, err := repo.GetOrCreateCompany(ctx, "Acme")
			Expect(err).ToNot(HaveOccurred())

			user := datamodel.User{
				FullName: "Ada", Email: "ada@acme.test", PasswordHash: "hash",
				CompanyID: company.ID, Role: datamodel.RoleAdmin,
			}
			Expect(db.Create(&user).Error).ToNot(HaveOccurred())

			loaded, err := repo.GetUserByEmail(ctx, "ada@acme.test")
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.ID).To(Equal(user.ID))
		})

		It("returns not found for an unknown email", func() {
			_, err := repo.GetUserByEmail(ctx, "nobody@acme.test")
			Expect(err).To(MatchError(internal.ErrUserNotFound))
		})
	})

	Describe("CountCompanyUsers", func() {
		It("counts only the company's users", func() {
			acme, _ := repo.GetOrCreateCompany(ctx, "Acme")
			globex, _ := repo.GetOrCreateCompany(ctx, "Globex")

			Expect(db.Create(&datamodel.User{
				FullName: "A", Email: "a@acme.test", PasswordHash: "h",
				CompanyID: acme.ID, Role: datamodel.RoleAdmin,
			}).Error).ToNot(HaveOccurred())
			Expect(db.Create(&datamodel.User{
				FullName: "B", Email: "b@globex.test", PasswordHash: "h",
				CompanyID: globex.ID, Role: datamodel.RoleAdmin,
			}).Error).ToNot(HaveOccurred())

			count, err := repo.CountCompanyUsers(ctx, acme.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})
})
