// Package engagement handles likes on posts and comments. Duplicate likes
// are rejected by a unique constraint, not by a read-then-write check, so
// concurrent doubles collapse to one row and one error.
package engagement

import "context"

// Target locates the artifact being liked and the company it belongs to.
type Target struct {
	ID        int64
	CompanyID int64
}

type Repository interface {
	GetPostTarget(ctx context.Context, postID int64) (*Target, error)
	GetCommentTarget(ctx context.Context, commentID int64) (*Target, error)

	// InsertPostLike returns ErrAlreadyLiked when the unique constraint
	// rejects the row; DeletePostLike returns ErrNotLiked when no row
	// matched. Same contract for comments.
	InsertPostLike(ctx context.Context, postID, userID int64) error
	DeletePostLike(ctx context.Context, postID, userID int64) error
	InsertCommentLike(ctx context.Context, commentID, userID int64) error
	DeleteCommentLike(ctx context.Context, commentID, userID int64) error

	CountPostLikes(ctx context.Context, postID int64) (int64, error)
	CountCommentLikes(ctx context.Context, commentID int64) (int64, error)
}
