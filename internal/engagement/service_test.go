package engagement_test

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
	"github.com/frahmantamala/peer-recognition/internal/engagement"
)

func TestEngagement(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Engagement Module Suite")
}

type likeKey struct {
	targetID int64
	userID   int64
}

type mockEngagementRepository struct {
	postCompanies    map[int64]int64
	commentCompanies map[int64]int64
	postLikes        map[likeKey]bool
	commentLikes     map[likeKey]bool
}

func newMockEngagementRepository() *mockEngagementRepository {
	return &mockEngagementRepository{
		postCompanies:    make(map[int64]int64),
		commentCompanies: make(map[int64]int64),
		postLikes:        make(map[likeKey]bool),
		commentLikes:     make(map[likeKey]bool),
	}
}

func (m *mockEngagementRepository) GetPostTarget(ctx context.Context, postID int64) (*engagement.Target, error) {
	companyID, ok := m.postCompanies[postID]
	if !ok {
		return nil, internal.ErrPostNotFound
	}
	return &engagement.Target{ID: postID, CompanyID: companyID}, nil
}

func (m *mockEngagementRepository) GetCommentTarget(ctx context.Context, commentID int64) (*engagement.Target, error) {
	companyID, ok := m.commentCompanies[commentID]
	if !ok {
		return nil, internal.ErrCommentNotFound
	}
	return &engagement.Target{ID: commentID, CompanyID: companyID}, nil
}

func (m *mockEngagementRepository) InsertPostLike(ctx context.Context, postID, userID int64) error {
	key := likeKey{postID, userID}
	if m.postLikes[key] {
		return internal.ErrAlreadyLiked
	}
	m.postLikes[key] = true
	return nil
}

func (m *mockEngagementRepository) DeletePostLike(ctx context.Context, postID, userID int64) error {
	key := likeKey{postID, userID}
	if !m.postLikes[key] {
		return internal.ErrNotLiked
	}
	delete(m.postLikes, key)
	return nil
}

func (m *mockEngagementRepository) InsertCommentLike(ctx context.Context, commentID, userID int64) error {
	key := likeKey{commentID, userID}
	if m.commentLikes[key] {
		return internal.ErrAlreadyLiked
	}
	m.commentLikes[key] = true
	return nil
}

func (m *mockEngagementRepository) DeleteCommentLike(ctx context.Context, commentID, userID int64) error {
	key := likeKey{commentID, userID}
	if !m.commentLikes[key] {
		return internal.ErrNotLiked
	}
	delete(m.commentLikes, key)
	return nil
}

func (m *mockEngagementRepository) CountPostLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	for key := range m.postLikes {
		if key.targetID == postID {
			count++
		}
	}
	return count, nil
}

func (m *mockEngagementRepository) CountCommentLikes(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	for key := range m.commentLikes {
		if key.targetID == commentID {
			count++
		}
	}
	return count, nil
}

var _ = Describe("EngagementService", func() {
	var (
		service   *engagement.Service
		repo      *mockEngagementRepository
		requester *auth.User
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockEngagementRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = engagement.NewService(repo, lg)
		requester = &auth.User{ID: 1, CompanyID: 10, Role: datamodel.RoleMember}
		ctx = context.Background()

		repo.postCompanies[1] = 10
		repo.postCompanies[2] = 99
		repo.commentCompanies[1] = 10
	})

	Describe("LikePost", func() {
		It("likes a post and reports the count", func() {
			result, err := service.LikePost(ctx, requester, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Liked).To(BeTrue())
			Expect(result.LikeCount).To(Equal(int64(1)))
		})

		It("surfaces a duplicate like as a conflict", func() {
			_, err := service.LikePost(ctx, requester, 1)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.LikePost(ctx, requester, 1)
			Expect(err).To(MatchError(internal.ErrAlreadyLiked))
		})

		It("hides posts from other companies", func() {
			_, err := service.LikePost(ctx, requester, 2)
			Expect(err).To(MatchError(internal.ErrPostNotFound))
		})
	})

	Describe("UnlikePost", func() {
		It("removes a like and reports the count", func() {
			_, err := service.LikePost(ctx, requester, 1)
			Expect(err).ToNot(HaveOccurred())

			result, err := service.UnlikePost(ctx, requester, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Liked).To(BeFalse())
			Expect(result.LikeCount).To(BeZero())
		})

		It("rejects removing a like that does not exist", func() {
			_, err := service.UnlikePost(ctx, requester, 1)
			Expect(err).To(MatchError(internal.ErrNotLiked))
		})
	})

	Describe("comment likes", func() {
		It("applies the same contract to comments", func() {
			result, err := service.LikeComment(ctx, requester, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.LikeCount).To(Equal(int64(1)))

			_, err = service.LikeComment(ctx, requester, 1)
			Expect(err).To(MatchError(internal.ErrAlreadyLiked))

			_, err = service.UnlikeComment(ctx, requester, 1)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.UnlikeComment(ctx, requester, 1)
			Expect(err).To(MatchError(internal.ErrNotLiked))
		})
	})
})
