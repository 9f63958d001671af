package postgres

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/post"
)

func TestPostRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PostRepository Suite")
}

var _ = Describe("PostRepository", func() {
	var (
		db   *gorm.DB
		repo post.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&datamodel.Company{},
			&datamodel.User{},
			&datamodel.Post{},
			&datamodel.Comment{},
			&datamodel.PointsTransaction{},
			&datamodel.PointsRecipient{},
			&datamodel.PostLike{},
			&datamodel.CommentLike{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewPostRepository(db)
		ctx = context.Background()

		users := []datamodel.User{
			{ID: 1, FullName: "Ada", Email: "ada@test.local", PasswordHash: "h", CompanyID: 10, Role: datamodel.RoleMember},
			{ID: 2, FullName: "Bob", Email: "bob@test.local", PasswordHash: "h", CompanyID: 10, Role: datamodel.RoleMember},
			{ID: 9, FullName: "Eve", Email: "eve@test.local", PasswordHash: "h", CompanyID: 99, Role: datamodel.RoleMember},
		}
		for i := range users {
			Expect(db.Create(&users[i]).Error).ToNot(HaveOccurred())
		}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	seedPost := func(id, authorID int64, createdAt time.Time) {
		Expect(db.Create(&datamodel.Post{
			ID: id, AuthorID: authorID, Content: "content", TotalPoints: 5, CreatedAt: createdAt,
		}).Error).ToNot(HaveOccurred())
	}

	Describe("GetByID", func() {
		It("returns the post with author and engagement counts", func() {
			seedPost(1, 1, time.Now())
			Expect(db.Create(&datamodel.PostLike{PostID: 1, UserID: 2}).Error).ToNot(HaveOccurred())
			Expect(db.Create(&datamodel.Comment{PostID: 1, AuthorID: 2, Content: "nice"}).Error).ToNot(HaveOccurred())

			view, err := repo.GetByID(ctx, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.AuthorName).To(Equal("Ada"))
			Expect(view.AuthorCompanyID).To(Equal(int64(10)))
			Expect(view.LikeCount).To(Equal(int64(1)))
			Expect(view.CommentCount).To(Equal(int64(1)))
		})

		It("attaches the recognition recipients", func() {
			seedPost(1, 1, time.Now())
			postID := int64(1)
			tx := datamodel.PointsTransaction{
				SenderID: ptr(int64(1)), TransactionType: datamodel.TransactionTypeRecognition,
				PostID: &postID, Points: 5,
			}
			Expect(db.Create(&tx).Error).ToNot(HaveOccurred())
			Expect(db.Create(&datamodel.PointsRecipient{
				TransactionID: tx.ID, RecipientID: 2, PointsAmount: 5,
			}).Error).ToNot(HaveOccurred())

			view, err := repo.GetByID(ctx, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.Recipients).To(HaveLen(1))
			Expect(view.Recipients[0].FullName).To(Equal("Bob"))
			Expect(view.Recipients[0].Points).To(Equal(int64(5)))
		})

		It("returns not found for a missing post", func() {
			_, err := repo.GetByID(ctx, 4242)
			Expect(err).To(MatchError(internal.ErrPostNotFound))
		})
	})

	Describe("ListByCompany", func() {
		base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

		BeforeEach(func() {
			seedPost(1, 1, base)
			seedPost(2, 2, base.Add(time.Hour))
			seedPost(3, 9, base.Add(2*time.Hour)) // other company
		})

		It("returns only the company's posts, newest first", func() {
			views, err := repo.ListByCompany(ctx, 10, internal.Pagination{Limit: 10})
			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(2))
			Expect(views[0].ID).To(Equal(int64(2)))
			Expect(views[1].ID).To(Equal(int64(1)))
		})

		It("paginates with skip and limit", func() {
			views, err := repo.ListByCompany(ctx, 10, internal.Pagination{Skip: 1, Limit: 1})
			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(1))
			Expect(views[0].ID).To(Equal(int64(1)))
		})

		It("returns empty recipient lists for plain rows", func() {
			views, err := repo.ListByCompany(ctx, 10, internal.Pagination{Limit: 10})
			Expect(err).ToNot(HaveOccurred())
			for _, v := range views {
				Expect(v.Recipients).ToNot(BeNil())
				Expect(v.Recipients).To(BeEmpty())
			}
		})
	})
})

func ptr[T any](v T) *T {
	return &v
}
