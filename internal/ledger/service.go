package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/peer-recognition/internal"
	"github.com/frahmantamala/peer-recognition/internal/core/datamodel"
	"github.com/frahmantamala/peer-recognition/internal/core/events"
)

// Service is the ledger engine. All validation runs before any mutation;
// the mutations of one operation share a single database transaction.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateRecognitionPost creates a post that distributes points to one or
// more recipients. The post, the transaction, the allocation rows and both
// balance updates commit together or not at all.
func (s *Service) CreateRecognitionPost(ctx context.Context, senderID int64, dto CreatePostDTO) (*datamodel.Post, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("recognition post validation failed", "error", err, "sender_id", senderID)
		return nil, err
	}

	total := dto.TotalPoints()
	var post *datamodel.Post
	var transactionID int64

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		sender, err := s.eligibleSender(ctx, tx, senderID, dto.Recipients)
		if err != nil {
			return err
		}
		if total > sender.GiveablePoints {
			return internal.ErrInsufficientBalance
		}

		post = &datamodel.Post{
			AuthorID:    senderID,
			Content:     dto.Content,
			TotalPoints: total,
		}
		if err := tx.CreatePost(ctx, post); err != nil {
			return err
		}

		transactionID, err = s.recordRecognition(ctx, tx, sender, datamodel.TransactionTypeRecognition, &post.ID, nil, dto.Recipients, total)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recognition post created",
		"post_id", post.ID,
		"sender_id", senderID,
		"total_points", total,
		"recipients", len(dto.Recipients))

	s.bus.Publish(ctx, events.NewRecognitionCreatedEvent(transactionID, senderID, total, datamodel.TransactionTypeRecognition))

	return post, nil
}

// CreateRecognitionComment creates a comment on an existing post. With zero
// recipients it is a plain comment and no transaction is recorded.
func (s *Service) CreateRecognitionComment(ctx context.Context, senderID int64, dto CreateCommentDTO) (*datamodel.Comment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("recognition comment validation failed", "error", err, "sender_id", senderID)
		return nil, err
	}

	total := dto.TotalPoints()
	var comment *datamodel.Comment
	var transactionID int64

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		sender, err := s.eligibleSender(ctx, tx, senderID, dto.Recipients)
		if err != nil {
			return err
		}

		postAuthor, err := tx.GetPostAuthor(ctx, dto.PostID)
		if err != nil {
			return err
		}
		if postAuthor.CompanyID != sender.CompanyID {
			return internal.ErrCrossCompany
		}

		if total > sender.GiveablePoints {
			return internal.ErrInsufficientBalance
		}

		comment = &datamodel.Comment{
			PostID:      dto.PostID,
			AuthorID:    senderID,
			Content:     dto.Content,
			TotalPoints: total,
		}
		if err := tx.CreateComment(ctx, comment); err != nil {
			return err
		}

		if total == 0 {
			return nil
		}

		transactionID, err = s.recordRecognition(ctx, tx, sender, datamodel.TransactionTypeCommentRecognition, nil, &comment.ID, dto.Recipients, total)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"comment_id", comment.ID,
		"post_id", dto.PostID,
		"sender_id", senderID,
		"total_points", total)

	if total > 0 {
		s.bus.Publish(ctx, events.NewRecognitionCreatedEvent(transactionID, senderID, total, datamodel.TransactionTypeCommentRecognition))
	}

	return comment, nil
}

// AdminAdjustment records a manual giveable-points correction. A negative
// delta floors the balance at zero while the transaction keeps the requested
// magnitude, so the audit trail records intended, not realized, change.
func (s *Service) AdminAdjustment(ctx context.Context, adminID int64, dto AdminAdjustmentDTO) (*datamodel.PointsTransaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("admin adjustment validation failed", "error", err, "admin_id", adminID)
		return nil, err
	}

	magnitude := dto.Delta
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var transaction *datamodel.PointsTransaction

	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		admin, err := tx.GetMember(ctx, adminID)
		if err != nil {
			return err
		}
		if admin.Deleted {
			return internal.ErrUserDeactivated
		}
		if !admin.IsAdmin() {
			return internal.ErrAdminRequired
		}

		target, err := tx.GetMember(ctx, dto.TargetUserID)
		if err != nil {
			return err
		}
		if target.CompanyID != admin.CompanyID {
			return internal.ErrCrossCompany
		}

		transaction = &datamodel.PointsTransaction{
			SenderID:        &adminID,
			TransactionType: datamodel.TransactionTypeAdminAdjustment,
			Points:          magnitude,
		}
		if dto.Notes != "" {
			notes := dto.Notes
			transaction.AdminNotes = &notes
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return err
		}
		if err := tx.CreateRecipients(ctx, []datamodel.PointsRecipient{
			{TransactionID: transaction.ID, RecipientID: dto.TargetUserID, PointsAmount: magnitude},
		}); err != nil {
			return err
		}

		if dto.Delta > 0 {
			return tx.CreditGiveable(ctx, dto.TargetUserID, dto.Delta)
		}
		return tx.AdjustGiveableClamped(ctx, dto.TargetUserID, dto.Delta)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin adjustment recorded",
		"transaction_id", transaction.ID,
		"admin_id", adminID,
		"target_user_id", dto.TargetUserID,
		"delta", dto.Delta)

	s.bus.Publish(ctx, events.NewPointsAdjustedEvent(transaction.ID, adminID, dto.TargetUserID, dto.Delta))

	return transaction, nil
}

// EnrollMember persists a new user and grants the starting giveable balance
// in the same unit of work, recorded as a sender-less initial_allocation
// transaction. A failed allocation leaves no user row behind.
func (s *Service) EnrollMember(ctx context.Context, user *datamodel.User) error {
	err := s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := tx.CreateMember(ctx, user); err != nil {
			return err
		}

		transaction := &datamodel.PointsTransaction{
			TransactionType: datamodel.TransactionTypeInitialAllocation,
			Points:          InitialGiveablePoints,
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return err
		}
		if err := tx.CreateRecipients(ctx, []datamodel.PointsRecipient{
			{TransactionID: transaction.ID, RecipientID: user.ID, PointsAmount: InitialGiveablePoints},
		}); err != nil {
			return err
		}
		return tx.CreditGiveable(ctx, user.ID, InitialGiveablePoints)
	})
	if err != nil {
		if !errors.Is(err, internal.ErrEmailTaken) {
			s.logger.Error("member enrollment failed", "error", err, "email", user.Email)
		}
		return err
	}

	s.logger.Info("member enrolled", "user_id", user.ID, "points", InitialGiveablePoints)
	return nil
}

// eligibleSender loads the sender and checks every recipient before any row
// is written: active sender, active recipients, same company, no self
// recognition.
func (s *Service) eligibleSender(ctx context.Context, tx Repository, senderID int64, shares []RecipientShare) (*Member, error) {
	sender, err := tx.GetMember(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender.Deleted {
		return nil, internal.ErrUserDeactivated
	}

	for _, share := range shares {
		if share.UserID == senderID {
			return nil, internal.NewForbiddenError("cannot recognize yourself", internal.ErrCodeSelfTarget)
		}
		recipient, err := tx.GetMember(ctx, share.UserID)
		if err != nil {
			return nil, err
		}
		if recipient.Deleted {
			return nil, internal.NewValidationError("recipient is deactivated", internal.ErrCodeInvalidRecipient)
		}
		if recipient.CompanyID != sender.CompanyID {
			return nil, internal.ErrCrossCompany
		}
	}

	return sender, nil
}

// recordRecognition writes the transaction, its allocation rows, and both
// sides of the balance movement. Caller must already hold the unit of work.
func (s *Service) recordRecognition(
	ctx context.Context,
	tx Repository,
	sender *Member,
	transactionType string,
	postID, commentID *int64,
	shares []RecipientShare,
	total int64,
) (int64, error) {
	transaction := &datamodel.PointsTransaction{
		SenderID:        &sender.ID,
		TransactionType: transactionType,
		PostID:          postID,
		CommentID:       commentID,
		Points:          total,
	}
	if err := tx.CreateTransaction(ctx, transaction); err != nil {
		return 0, err
	}

	recipients := make([]datamodel.PointsRecipient, 0, len(shares))
	for _, share := range shares {
		recipients = append(recipients, datamodel.PointsRecipient{
			TransactionID: transaction.ID,
			RecipientID:   share.UserID,
			PointsAmount:  share.Points,
		})
	}
	if err := tx.CreateRecipients(ctx, recipients); err != nil {
		return 0, err
	}

	for _, share := range shares {
		if err := tx.CreditRedeemable(ctx, share.UserID, share.Points); err != nil {
			return 0, err
		}
	}

	// the conditional debit is the authoritative balance guard: a concurrent
	// spend between the eligibility read and this update fails here and
	// rolls the whole unit of work back
	if err := tx.DebitGiveable(ctx, sender.ID, total); err != nil {
		return 0, err
	}

	return transaction.ID, nil
}
