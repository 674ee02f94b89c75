// Package seed creates the administrator account and sample data through the
// regular services so every validation rule applies.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
)

// SamplePassword is the password of every sample club account
const SamplePassword = "kulup123"

// AdminCreator creates the administrator if it is missing
type AdminCreator interface {
	CreateAdmin(ctx context.Context, username, email, password string) (*models.Account, bool, error)
}

// ClubRegistrar registers club accounts
type ClubRegistrar interface {
	RegisterClub(ctx context.Context, in *services.ClubRegistration) (*models.Account, error)
}

// ClubApprover approves club accounts
type ClubApprover interface {
	Approve(ctx context.Context, p *authz.Principal, accountID int64) (*models.Account, error)
}

// PostCreator publishes posts
type PostCreator interface {
	Create(ctx context.Context, p *authz.Principal, in *services.PostInput) (*models.Post, error)
}

// FeedbackSubmitter submits feedback
type FeedbackSubmitter interface {
	Submit(ctx context.Context, p *authz.Principal, in *services.FeedbackInput) (*models.Feedback, error)
}

// Services bundles what the sample data generator needs
type Services struct {
	Auth     ClubRegistrar
	Admin    ClubApprover
	Posts    PostCreator
	Feedback FeedbackSubmitter
}

// EnsureAdmin creates the administrator from configuration. An empty password
// skips creation so a fresh install never gets a guessable admin.
func EnsureAdmin(ctx context.Context, creator AdminCreator, username, email, password string, lgr zerolog.Logger) (*models.Account, error) {
	if password == "" {
		lgr.Warn().Msg("ADMIN_PASSWORD is not set, skipping administrator creation")
		return nil, nil
	}

	account, created, err := creator.CreateAdmin(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create administrator: %w", err)
	}
	if created {
		lgr.Info().Str("username", account.Username).Msg("Administrator account created")
	} else {
		lgr.Info().Str("username", account.Username).Msg("Administrator account already exists")
	}
	return account, nil
}

// Summary reports what SampleData created
type Summary struct {
	Clubs    int
	Approved int
	Posts    int
	Feedback int
	Skipped  int
}

type sampleClub struct {
	profile  services.ClubProfileInput
	email    string
	approved bool
	post     *services.PostInput
}

func fixedClubs() []sampleClub {
	return []sampleClub{
		{
			profile: services.ClubProfileInput{
				Name:         "Yazılım Kulübü",
				About:        "Yazılım ve teknoloji odaklı projeler geliştiren öğrenci topluluğu",
				Achievements: "2024 Hackathon Birinciliği, Google Developer Student Club",
				Location:     "Mühendislik Fakültesi A Blok",
				MemberCount:  "150",
				Phone:        "0555 123 45 67",
				Instagram:    "yazilimkulubu",
				Twitter:      "yazilimkulubu",
			},
			email:    "yazilim@uni.edu.tr",
			approved: true,
			post: &services.PostInput{
				Title:   "Hackathon 2024 Kayıtları Başladı",
				Content: "24 saatlik hackathon etkinliğimiz için kayıtlar başlamıştır. Ödüllü yarışmaya katılmak için son kayıt tarihi 1 Haziran.",
			},
		},
		{
			profile: services.ClubProfileInput{
				Name:        "Müzik Kulübü",
				About:       "Müzik severleri bir araya getiren kulüp",
				Location:    "Güzel Sanatlar Fakültesi",
				MemberCount: "80",
			},
			email: "muzik@uni.edu.tr",
		},
	}
}

func fakeClub(faker *gofakeit.Faker, n int) sampleClub {
	name := fmt.Sprintf("%s Club %d", faker.Company(), n)
	return sampleClub{
		profile: services.ClubProfileInput{
			Name:        name,
			About:       faker.Paragraph(1, 2, 8, " "),
			Location:    faker.City() + " Campus",
			MemberCount: fmt.Sprint(faker.Number(5, 300)),
			Website:     faker.URL(),
		},
		email:    fmt.Sprintf("club%d.%s@uni.edu.tr", n, faker.Username()),
		approved: faker.Bool(),
		post: &services.PostInput{
			Title:   faker.Sentence(5),
			Content: faker.Paragraph(1, 3, 8, "\n"),
		},
	}
}

// SampleData registers the fixed sample clubs plus extra generated ones,
// approves some of them and publishes a few posts. admin may be nil, in which
// case nothing is approved. Clubs that already exist are skipped.
func SampleData(ctx context.Context, svc Services, admin *models.Account, extra int, seed uint64, lgr zerolog.Logger) (Summary, error) {
	var sum Summary
	var adminP *authz.Principal
	if admin != nil {
		adminP = &authz.Principal{Account: admin}
	}

	clubs := fixedClubs()
	faker := gofakeit.New(seed)
	for i := 1; i <= extra; i++ {
		clubs = append(clubs, fakeClub(faker, i))
	}

	var firstApproved *models.Account
	for _, sc := range clubs {
		reg := &services.ClubRegistration{
			ClubProfileInput: sc.profile,
			Email:            sc.email,
			Password:         SamplePassword,
			ConfirmPassword:  SamplePassword,
		}
		account, err := svc.Auth.RegisterClub(ctx, reg)
		if errors.Is(err, apperrors.ErrDuplicate) {
			sum.Skipped++
			lgr.Debug().Str("club", sc.profile.Name).Msg("Sample club already exists")
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("register %q: %w", sc.profile.Name, err)
		}
		sum.Clubs++

		if !sc.approved || adminP == nil {
			continue
		}
		account, err = svc.Admin.Approve(ctx, adminP, account.ID)
		if err != nil {
			return sum, fmt.Errorf("approve %q: %w", sc.profile.Name, err)
		}
		sum.Approved++
		if firstApproved == nil {
			firstApproved = account
		}

		if sc.post != nil {
			if _, err := svc.Posts.Create(ctx, &authz.Principal{Account: account}, sc.post); err != nil {
				return sum, fmt.Errorf("post for %q: %w", sc.profile.Name, err)
			}
			sum.Posts++
		}
	}

	if adminP == nil {
		return sum, nil
	}

	_, err := svc.Posts.Create(ctx, adminP, &services.PostInput{
		Title:   "Bahar Şenliği Duyurusu",
		Content: "Üniversitemizin geleneksel Bahar Şenliği 15 Mayıs tarihinde düzenlenecektir. Tüm öğrencilerimizi bekliyoruz!",
	})
	if err != nil {
		return sum, fmt.Errorf("admin post: %w", err)
	}
	sum.Posts++

	if firstApproved != nil && firstApproved.Club != nil {
		_, err := svc.Feedback.Submit(ctx, adminP, &services.FeedbackInput{
			ClubID:  firstApproved.Club.ID,
			Title:   "Etkinlik Tebriği",
			Content: "Düzenlediğiniz hackathon çok başarılıydı, tebrik ederiz.",
		})
		if err != nil {
			return sum, fmt.Errorf("sample feedback: %w", err)
		}
		sum.Feedback++
	}

	lgr.Info().Int("clubs", sum.Clubs).Int("approved", sum.Approved).Int("posts", sum.Posts).Msg("Sample data created")
	return sum, nil
}
