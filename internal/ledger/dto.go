package ledger

import (
	"fmt"

	"github.com/frahmantamala/peer-recognition/internal"
)

type RecipientShare struct {
	UserID int64 `json:"user_id"`
	Points int64 `json:"points"`
}

type CreatePostDTO struct {
	Content    string           `json:"content"`
	Recipients []RecipientShare `json:"recipients"`
}

func (dto CreatePostDTO) Validate() error {
	if err := validateContent(dto.Content, MaxPostLength, "content"); err != nil {
		return err
	}
	if len(dto.Recipients) == 0 {
		return internal.NewValidationError("at least one recipient is required", internal.ErrCodeInvalidRecipient)
	}
	return validateShares(dto.Recipients)
}

func (dto CreatePostDTO) TotalPoints() int64 {
	return totalShares(dto.Recipients)
}

type CreateCommentDTO struct {
	PostID     int64            `json:"post_id"`
	Content    string           `json:"content"`
	Recipients []RecipientShare `json:"recipients"`
}

func (dto CreateCommentDTO) Validate() error {
	if dto.PostID <= 0 {
		return internal.NewValidationError("post_id is required", internal.ErrCodeValidationFailed)
	}
	if err := validateContent(dto.Content, MaxCommentLength, "content"); err != nil {
		return err
	}
	// comments may carry zero recipients: a plain comment without points
	return validateShares(dto.Recipients)
}

func (dto CreateCommentDTO) TotalPoints() int64 {
	return totalShares(dto.Recipients)
}

type AdminAdjustmentDTO struct {
	TargetUserID int64  `json:"user_id"`
	Delta        int64  `json:"points"`
	Notes        string `json:"notes"`
}

func (dto AdminAdjustmentDTO) Validate() error {
	if dto.TargetUserID <= 0 {
		return internal.NewValidationError("user_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Delta == 0 {
		return internal.NewValidationError("points must be non-zero", internal.ErrCodeInvalidPoints)
	}
	return nil
}

func validateContent(content string, max int, field string) error {
	if content == "" {
		return internal.NewValidationError(fmt.Sprintf("%s is required", field), internal.ErrCodeInvalidContent)
	}
	if len(content) > max {
		return internal.NewValidationError(
			fmt.Sprintf("%s must not exceed %d characters", field, max),
			internal.ErrCodeInvalidContent)
	}
	return nil
}

func validateShares(shares []RecipientShare) error {
	seen := make(map[int64]struct{}, len(shares))
	for _, share := range shares {
		if share.UserID <= 0 {
			return internal.NewValidationError("recipient user_id is required", internal.ErrCodeInvalidRecipient)
		}
		if share.Points < MinPointsPerRecognition || share.Points > MaxPointsPerRecognition {
			return internal.NewValidationError(
				fmt.Sprintf("points per recipient must be between %d and %d", MinPointsPerRecognition, MaxPointsPerRecognition),
				internal.ErrCodeInvalidPoints)
		}
		if _, dup := seen[share.UserID]; dup {
			return internal.NewValidationError(
				fmt.Sprintf("duplicate recipient: %d", share.UserID),
				internal.ErrCodeInvalidRecipient)
		}
		seen[share.UserID] = struct{}{}
	}
	return nil
}

func totalShares(shares []RecipientShare) int64 {
	var total int64
	for _, share := range shares {
		total += share.Points
	}
	return total
}
