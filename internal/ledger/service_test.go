package ledger_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/core/events"
	"github.com/frahmantamala/peer-recognition/internal/ledger"
)

func TestLedger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Ledger Module Suite")
}

// Mock repository for testing. It mimics the transactional contract: every
// mutation inside WithinTx is staged and only applied when the callback
// returns nil.
type mockLedgerRepository struct {
	members      map[int64]*ledger.Member
	posts        map[int64]*datamodel.Post
	comments     map[int64]*datamodel.Comment
	transactions map[int64]*datamodel.PointsTransaction
	recipients   []datamodel.PointsRecipient
	postAuthors  map[int64]int64

	nextPostID        int64
	nextCommentID     int64
	nextTransactionID int64
	nextMemberID      int64

	inTx bool

	createTransactionError error
}

func newMockLedgerRepository() *mockLedgerRepository {
	return &mockLedgerRepository{
		members:           make(map[int64]*ledger.Member),
		posts:             make(map[int64]*datamodel.Post),
		comments:          make(map[int64]*datamodel.Comment),
		transactions:      make(map[int64]*datamodel.PointsTransaction),
		postAuthors:       make(map[int64]int64),
		nextPostID:        1,
		nextCommentID:     1,
		nextTransactionID: 1,
		nextMemberID:      100,
	}
}

func (m *mockLedgerRepository) snapshot() *mockLedgerRepository {
	clone := newMockLedgerRepository()
	for id, member := range m.members {
		copied := *member
		clone.members[id] = &copied
	}
	for id, p := range m.posts {
		copied := *p
		clone.posts[id] = &copied
	}
	for id, c := range m.comments {
		copied := *c
		clone.comments[id] = &copied
	}
	for id, tx := range m.transactions {
		copied := *tx
		clone.transactions[id] = &copied
	}
	clone.recipients = append([]datamodel.PointsRecipient(nil), m.recipients...)
	for id, author := range m.postAuthors {
		clone.postAuthors[id] = author
	}
	clone.nextPostID = m.nextPostID
	clone.nextCommentID = m.nextCommentID
	clone.nextTransactionID = m.nextTransactionID
	clone.nextMemberID = m.nextMemberID
	return clone
}

func (m *mockLedgerRepository) restore(s *mockLedgerRepository) {
	m.members = s.members
	m.posts = s.posts
	m.comments = s.comments
	m.transactions = s.transactions
	m.recipients = s.recipients
	m.postAuthors = s.postAuthors
	m.nextPostID = s.nextPostID
	m.nextCommentID = s.nextCommentID
	m.nextTransactionID = s.nextTransactionID
	m.nextMemberID = s.nextMemberID
}

func (m *mockLedgerRepository) WithinTx(ctx context.Context, fn func(ledger.Repository) error) error {
	before := m.snapshot()
	m.inTx = true
	err := fn(m)
	m.inTx = false
	if err != nil {
		m.restore(before)
		return err
	}
	return nil
}

func (m *mockLedgerRepository) GetMember(ctx context.Context, userID int64) (*ledger.Member, error) {
	member, ok := m.members[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	copied := *member
	return &copied, nil
}

func (m *mockLedgerRepository) GetPostAuthor(ctx context.Context, postID int64) (*ledger.Member, error) {
	authorID, ok := m.postAuthors[postID]
	if !ok {
		return nil, internal.ErrPostNotFound
	}
	return m.GetMember(ctx, authorID)
}

func (m *mockLedgerRepository) CreateMember(ctx context.Context, user *datamodel.User) error {
	user.ID = m.nextMemberID
	m.nextMemberID++
	m.members[user.ID] = &ledger.Member{
		ID:        user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
	}
	return nil
}

func (m *mockLedgerRepository) CreatePost(ctx context.Context, post *datamodel.Post) error {
	post.ID = m.nextPostID
	m.nextPostID++
	copied := *post
	m.posts[post.ID] = &copied
	m.postAuthors[post.ID] = post.AuthorID
	return nil
}

func (m *mockLedgerRepository) CreateComment(ctx context.Context, comment *datamodel.Comment) error {
	comment.ID = m.nextCommentID
	m.nextCommentID++
	copied := *comment
	m.comments[comment.ID] = &copied
	return nil
}

func (m *mockLedgerRepository) CreateTransaction(ctx context.Context, tx *datamodel.PointsTransaction) error {
	if m.createTransactionError != nil {
		return m.createTransactionError
	}
	tx.ID = m.nextTransactionID
	m.nextTransactionID++
	copied := *tx
	m.transactions[tx.ID] = &copied
	return nil
}

func (m *mockLedgerRepository) CreateRecipients(ctx context.Context, recipients []datamodel.PointsRecipient) error {
	m.recipients = append(m.recipients, recipients...)
	return nil
}

func (m *mockLedgerRepository) DebitGiveable(ctx context.Context, userID, amount int64) error {
	member, ok := m.members[userID]
	if !ok || member.GiveablePoints < amount {
		return internal.ErrInsufficientBalance
	}
	member.GiveablePoints -= amount
	return nil
}

func (m *mockLedgerRepository) CreditGiveable(ctx context.Context, userID, amount int64) error {
	member, ok := m.members[userID]
	if !ok {
		return internal.ErrUserNotFound
	}
	member.GiveablePoints += amount
	return nil
}

func (m *mockLedgerRepository) CreditRedeemable(ctx context.Context, userID, amount int64) error {
	member, ok := m.members[userID]
	if !ok {
		return internal.ErrUserNotFound
	}
	member.RedeemablePoints += amount
	return nil
}

func (m *mockLedgerRepository) AdjustGiveableClamped(ctx context.Context, userID, delta int64) error {
	member, ok := m.members[userID]
	if !ok {
		return internal.ErrUserNotFound
	}
	member.GiveablePoints += delta
	if member.GiveablePoints < 0 {
		member.GiveablePoints = 0
	}
	return nil
}

var _ = Describe("LedgerService", func() {
	var (
		service *ledger.Service
		repo    *mockLedgerRepository
		ctx     context.Context
	)

	addMember := func(id, companyID, giveable int64, role string) {
		repo.members[id] = &ledger.Member{
			ID:             id,
			CompanyID:      companyID,
			Role:           role,
			GiveablePoints: giveable,
		}
	}

	BeforeEach(func() {
		repo = newMockLedgerRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(lg)
		service = ledger.NewService(repo, bus, lg)
		ctx = context.Background()

		addMember(1, 10, 50, datamodel.RoleMember)
		addMember(2, 10, 50, datamodel.RoleMember)
		addMember(3, 10, 50, datamodel.RoleAdmin)
		addMember(9, 99, 50, datamodel.RoleMember)
	})

	Describe("CreateRecognitionPost", func() {
		It("moves points from the sender to the recipient", func() {
			post, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "great work on the release",
				Recipients: []ledger.RecipientShare{{UserID: 2, Points: 30}},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(post.ID).To(BeNumerically(">", 0))
			Expect(post.TotalPoints).To(Equal(int64(30)))
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(20)))
			Expect(repo.members[2].RedeemablePoints).To(Equal(int64(30)))
			Expect(repo.members[2].GiveablePoints).To(Equal(int64(50)))
			Expect(repo.transactions).To(HaveLen(1))
			Expect(repo.recipients).To(HaveLen(1))
		})

		It("splits points across multiple recipients", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content: "team effort",
				Recipients: []ledger.RecipientShare{
					{UserID: 2, Points: 20},
					{UserID: 3, Points: 10},
				},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(20)))
			Expect(repo.members[2].RedeemablePoints).To(Equal(int64(20)))
			Expect(repo.members[3].RedeemablePoints).To(Equal(int64(10)))
			Expect(repo.recipients).To(HaveLen(2))
		})

		It("rejects a total above the sender's giveable balance", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "too generous",
				Recipients: []ledger.RecipientShare{{UserID: 2, Points: 60}},
			})

			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(50)))
			Expect(repo.posts).To(BeEmpty())
			Expect(repo.transactions).To(BeEmpty())
		})

		It("rejects recipients from another company", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "cross company",
				Recipients: []ledger.RecipientShare{{UserID: 9, Points: 10}},
			})

			Expect(err).To(MatchError(internal.ErrCrossCompany))
			Expect(repo.posts).To(BeEmpty())
		})

		It("rejects self recognition", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "me myself and i",
				Recipients: []ledger.RecipientShare{{UserID: 1, Points: 10}},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSelfTarget))
		})

		It("rolls everything back when one recipient is invalid", func() {
			repo.members[2].Deleted = true

			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content: "mixed recipients",
				Recipients: []ledger.RecipientShare{
					{UserID: 3, Points: 10},
					{UserID: 2, Points: 10},
				},
			})

			Expect(err).To(HaveOccurred())
			Expect(repo.posts).To(BeEmpty())
			Expect(repo.transactions).To(BeEmpty())
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(50)))
			Expect(repo.members[3].RedeemablePoints).To(Equal(int64(0)))
		})

		It("rejects a deactivated sender", func() {
			repo.members[1].Deleted = true

			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "from beyond",
				Recipients: []ledger.RecipientShare{{UserID: 2, Points: 10}},
			})

			Expect(err).To(MatchError(internal.ErrUserDeactivated))
		})

		It("rejects per-recipient points outside the allowed range", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content:    "too many",
				Recipients: []ledger.RecipientShare{{UserID: 2, Points: 101}},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPoints))
		})

		It("rejects duplicate recipients", func() {
			_, err := service.CreateRecognitionPost(ctx, 1, ledger.CreatePostDTO{
				Content: "twice",
				Recipients: []ledger.RecipientShare{
					{UserID: 2, Points: 10},
					{UserID: 2, Points: 10},
				},
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRecipient))
		})
	})

	Describe("CreateRecognitionComment", func() {
		var postID int64

		BeforeEach(func() {
			post, err := service.CreateRecognitionPost(ctx, 2, ledger.CreatePostDTO{
				Content:    "original post",
				Recipients: []ledger.RecipientShare{{UserID: 3, Points: 5}},
			})
			Expect(err).ToNot(HaveOccurred())
			postID = post.ID
		})

		It("creates a plain comment without recording a transaction", func() {
			before := len(repo.transactions)

			comment, err := service.CreateRecognitionComment(ctx, 1, ledger.CreateCommentDTO{
				PostID:  postID,
				Content: "congrats!",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(comment.TotalPoints).To(Equal(int64(0)))
			Expect(repo.transactions).To(HaveLen(before))
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(50)))
		})

		It("distributes points when recipients are attached", func() {
			comment, err := service.CreateRecognitionComment(ctx, 1, ledger.CreateCommentDTO{
				PostID:     postID,
				Content:    "extra kudos",
				Recipients: []ledger.RecipientShare{{UserID: 2, Points: 15}},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(comment.TotalPoints).To(Equal(int64(15)))
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(35)))
			Expect(repo.members[2].RedeemablePoints).To(Equal(int64(20)))

			var found *datamodel.PointsTransaction
			for _, tx := range repo.transactions {
				if tx.CommentID != nil && *tx.CommentID == comment.ID {
					found = tx
				}
			}
			Expect(found).ToNot(BeNil())
			Expect(found.TransactionType).To(Equal(datamodel.TransactionTypeCommentRecognition))
		})

		It("rejects commenting on a post from another company", func() {
			_, err := service.CreateRecognitionComment(ctx, 9, ledger.CreateCommentDTO{
				PostID:  postID,
				Content: "outsider",
			})

			Expect(err).To(MatchError(internal.ErrCrossCompany))
		})

		It("rejects an unknown post", func() {
			_, err := service.CreateRecognitionComment(ctx, 1, ledger.CreateCommentDTO{
				PostID:  4242,
				Content: "where am i",
			})

			Expect(err).To(MatchError(internal.ErrPostNotFound))
		})
	})

	Describe("AdminAdjustment", func() {
		It("credits the full delta on a positive adjustment", func() {
			tx, err := service.AdminAdjustment(ctx, 3, ledger.AdminAdjustmentDTO{
				TargetUserID: 1,
				Delta:        25,
				Notes:        "spot bonus",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(tx.Points).To(Equal(int64(25)))
			Expect(tx.TransactionType).To(Equal(datamodel.TransactionTypeAdminAdjustment))
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(75)))
		})

		It("floors the balance at zero but records the intended magnitude", func() {
			repo.members[1].GiveablePoints = 5

			tx, err := service.AdminAdjustment(ctx, 3, ledger.AdminAdjustmentDTO{
				TargetUserID: 1,
				Delta:        -20,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.members[1].GiveablePoints).To(Equal(int64(0)))
			Expect(tx.Points).To(Equal(int64(20)))
		})

		It("rejects non-admin callers", func() {
			_, err := service.AdminAdjustment(ctx, 1, ledger.AdminAdjustmentDTO{
				TargetUserID: 2,
				Delta:        10,
			})

			Expect(err).To(MatchError(internal.ErrAdminRequired))
		})

		It("rejects targets from another company", func() {
			_, err := service.AdminAdjustment(ctx, 3, ledger.AdminAdjustmentDTO{
				TargetUserID: 9,
				Delta:        10,
			})

			Expect(err).To(MatchError(internal.ErrCrossCompany))
		})

		It("rejects a zero delta", func() {
			_, err := service.AdminAdjustment(ctx, 3, ledger.AdminAdjustmentDTO{
				TargetUserID: 1,
				Delta:        0,
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPoints))
		})
	})

	Describe("EnrollMember", func() {
		It("stores the user with the starting balance and a sender-less entry", func() {
			user := &datamodel.User{FullName: "Fresh", Email: "fresh@test.local", CompanyID: 10, Role: datamodel.RoleMember}

			err := service.EnrollMember(ctx, user)

			Expect(err).ToNot(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(repo.members[user.ID].GiveablePoints).To(Equal(int64(ledger.InitialGiveablePoints)))

			var found *datamodel.PointsTransaction
			for _, tx := range repo.transactions {
				if tx.TransactionType == datamodel.TransactionTypeInitialAllocation {
					found = tx
				}
			}
			Expect(found).ToNot(BeNil())
			Expect(found.SenderID).To(BeNil())
		})

		It("rolls the user row back when the allocation cannot be recorded", func() {
			repo.createTransactionError = errors.New("write failed")
			user := &datamodel.User{FullName: "Fresh", Email: "fresh@test.local", CompanyID: 10, Role: datamodel.RoleMember}

			err := service.EnrollMember(ctx, user)

			Expect(err).To(HaveOccurred())
			Expect(repo.members).ToNot(HaveKey(user.ID))
		})
	})
})
