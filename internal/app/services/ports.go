package services

import (
	"context"
	"time"

	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/auth"
)

// Transactor runs fn in a database transaction carried by ctx
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountStore is the account persistence used by services
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
	CountClubs(ctx context.Context, approved *bool) (int64, error)
}

// ClubStore is the club profile persistence used by services
type ClubStore interface {
	Create(ctx context.Context, club *models.Club) error
	Update(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int64) (*models.Club, error)
	GetByAccountID(ctx context.Context, accountID int64) (*models.Club, error)
	GetBySlug(ctx context.Context, slug string) (*models.Club, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	List(ctx context.Context, filter models.ClubFilter) ([]models.Club, int64, error)
	Search(ctx context.Context, query string, limit uint64) ([]models.Club, error)
}

// PostStore is the post persistence used by services
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	AppendImages(ctx context.Context, postID int64, refs []string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, int64, error)
	ImageRefsByAccount(ctx context.Context, accountID int64) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// MessageStore is the direct message persistence used by services
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	ListBetween(ctx context.Context, a, b int64) ([]models.Message, error)
	ListInvolving(ctx context.Context, accountID int64) ([]models.Message, error)
	MarkRead(ctx context.Context, recipientID, senderID int64) (int64, error)
	CountUnread(ctx context.Context, accountID int64) (int64, error)
	DeleteInvolving(ctx context.Context, accountID int64) (int64, error)
}

// FeedbackStore is the feedback persistence used by services
type FeedbackStore interface {
	Create(ctx context.Context, fb *models.Feedback) error
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int64, error)
	MarkRead(ctx context.Context, id, clubID int64) error
	Delete(ctx context.Context, id int64) error
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(account *models.Account) (*auth.IssuedToken, error)
}

// TokenRevoker denies a token id until it would have expired
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hashedPassword, password string) bool
}
