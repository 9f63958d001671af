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
	"github.com/frahmantamala/peer-recognition/internal/comment"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
)

func TestCommentRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CommentRepository Suite")
}

var _ = Describe("CommentRepository", func() {
	var (
		db   *gorm.DB
		repo comment.Repository
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
			&datamodel.CommentLike{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = NewCommentRepository(db)
		ctx = context.Background()

		users := []datamodel.User{
			{ID: 1, FullName: "Ada", Email: "ada@test.local", PasswordHash: "h", CompanyID: 10, Role: datamodel.RoleMember},
			{ID: 2, FullName: "Bob", Email: "bob@test.local", PasswordHash: "h", CompanyID: 10, Role: datamodel.RoleMember},
		}
		for i := range users {
			Expect(db.Create(&users[i]).Error).ToNot(HaveOccurred())
		}
		Expect(db.Create(&datamodel.Post{
			ID: 1, AuthorID: 1, Content: "post", TotalPoints: 5,
		}).Error).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	seedComment := func(id, authorID int64, createdAt time.Time) {
		Expect(db.Create(&datamodel.Comment{
			ID: id, PostID: 1, AuthorID: authorID, Content: "comment", CreatedAt: createdAt,
		}).Error).ToNot(HaveOccurred())
	}

	Describe("ListByPost", func() {
		base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

		It("returns the thread in chronological order", func() {
			seedComment(1, 1, base.Add(time.Minute))
			seedComment(2, 2, base)

			views, err := repo.ListByPost(ctx, 1, internal.Pagination{}.Normalize())
			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(2))
			Expect(views[0].ID).To(Equal(int64(2)))
			Expect(views[1].ID).To(Equal(int64(1)))
		})

		It("windows the thread with skip and limit", func() {
			for i := int64(1); i <= 5; i++ {
				seedComment(i, 1, base.Add(time.Duration(i)*time.Minute))
			}

			views, err := repo.ListByPost(ctx, 1, internal.Pagination{Skip: 1, Limit: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(views).To(HaveLen(2))
			Expect(views[0].ID).To(Equal(int64(2)))
			Expect(views[1].ID).To(Equal(int64(3)))

			tail, err := repo.ListByPost(ctx, 1, internal.Pagination{Skip: 4, Limit: 2})
			Expect(err).ToNot(HaveOccurred())
			Expect(tail).To(HaveLen(1))
			Expect(tail[0].ID).To(Equal(int64(5)))
		})

		It("carries like counts and author names", func() {
			seedComment(1, 2, base)
			Expect(db.Create(&datamodel.CommentLike{CommentID: 1, UserID: 1}).Error).ToNot(HaveOccurred())

			views, err := repo.ListByPost(ctx, 1, internal.Pagination{}.Normalize())
			Expect(err).ToNot(HaveOccurred())
			Expect(views[0].AuthorName).To(Equal("Bob"))
			Expect(views[0].LikeCount).To(Equal(int64(1)))
		})
	})

	Describe("GetByID", func() {
		It("attaches recipients of a points-carrying comment", func() {
			seedComment(1, 1, time.Now())
			commentID := int64(1)
			tx := datamodel.PointsTransaction{
				SenderID: ptr(int64(1)), TransactionType: datamodel.TransactionTypeCommentRecognition,
				CommentID: &commentID, Points: 10,
			}
			Expect(db.Create(&tx).Error).ToNot(HaveOccurred())
			Expect(db.Create(&datamodel.PointsRecipient{
				TransactionID: tx.ID, RecipientID: 2, PointsAmount: 10,
			}).Error).ToNot(HaveOccurred())

			view, err := repo.GetByID(ctx, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.Recipients).To(HaveLen(1))
			Expect(view.Recipients[0].UserID).To(Equal(int64(2)))
		})

		It("returns not found for a missing comment", func() {
			_, err := repo.GetByID(ctx, 4242)
			Expect(err).To(MatchError(internal.ErrCommentNotFound))
		})
	})
})

func ptr[T any](v T) *T {
	return &v
}
