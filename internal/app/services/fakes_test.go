package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	authz "github.com/yigit/clubportal/internal/app/auth"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/pkg/apperrors"
	"github.com/yigit/clubportal/internal/pkg/auth"
	"github.com/yigit/clubportal/internal/pkg/filestorage"
)

// memDB is an in-memory stand-in for the relational schema, including its
// cascade rules.
type memDB struct {
	seq      int64
	now      time.Time
	accounts map[int64]*models.Account
	clubs    map[int64]*models.Club
	posts    map[int64]*models.Post
	messages []*models.Message
	feedback map[int64]*models.Feedback

	// slugRaces makes the next club writes fail as if another writer took the slug
	slugRaces int
}

func newMemDB() *memDB {
	return &memDB{
		now:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		accounts: map[int64]*models.Account{},
		clubs:    map[int64]*models.Club{},
		posts:    map[int64]*models.Post{},
		feedback: map[int64]*models.Feedback{},
	}
}

func (m *memDB) nextID() int64 {
	m.seq++
	return m.seq
}

func (m *memDB) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memDB) clubOf(accountID int64) *models.Club {
	for _, c := range m.clubs {
		if c.AccountID == accountID {
			return c
		}
	}
	return nil
}

// snapshot copies every row so a failed transaction can be undone
func (m *memDB) snapshot() memDB {
	c := *m
	c.accounts = map[int64]*models.Account{}
	for id, a := range m.accounts {
		v := *a
		c.accounts[id] = &v
	}
	c.clubs = map[int64]*models.Club{}
	for id, cl := range m.clubs {
		v := *cl
		c.clubs[id] = &v
	}
	c.posts = map[int64]*models.Post{}
	for id, p := range m.posts {
		v := *p
		v.Images = append([]string{}, p.Images...)
		c.posts[id] = &v
	}
	c.messages = make([]*models.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		v := *msg
		c.messages = append(c.messages, &v)
	}
	c.feedback = map[int64]*models.Feedback{}
	for id, fb := range m.feedback {
		v := *fb
		c.feedback[id] = &v
	}
	return c
}

type fakeTx struct {
	db        *memDB
	calls     int
	rollbacks int
}

func (t *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	saved := t.db.snapshot()
	if err := fn(ctx); err != nil {
		races := t.db.slugRaces
		*t.db = saved
		t.db.slugRaces = races
		t.rollbacks++
		return err
	}
	return nil
}

// accounts

type fakeAccounts struct{ db *memDB }

func (f fakeAccounts) Create(_ context.Context, a *models.Account) error {
	for _, other := range f.db.accounts {
		if other.Username == a.Username {
			return apperrors.ErrDuplicateUsername
		}
		if other.Email == a.Email {
			return apperrors.ErrDuplicateEmail
		}
	}
	a.ID = f.db.nextID()
	a.CreatedAt = f.db.tick()
	stored := *a
	stored.Club = nil
	f.db.accounts[a.ID] = &stored
	return nil
}

func (f fakeAccounts) load(a *models.Account) *models.Account {
	out := *a
	if c := f.db.clubOf(a.ID); c != nil && a.IsClub() {
		club := *c
		club.IsApproved = a.IsApproved
		out.Club = &club
	}
	return &out
}

func (f fakeAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	a, ok := f.db.accounts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return f.load(a), nil
}

func (f fakeAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	for _, a := range f.db.accounts {
		if a.Username == username {
			return f.load(a), nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeAccounts) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	return err == nil, nil
}

func (f fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	for _, a := range f.db.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeAccounts) SetApproved(_ context.Context, id int64, approved bool) error {
	a, ok := f.db.accounts[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	a.IsApproved = approved
	return nil
}

func (f fakeAccounts) Delete(_ context.Context, id int64) error {
	if _, ok := f.db.accounts[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.accounts, id)
	if c := f.db.clubOf(id); c != nil {
		for fid, fb := range f.db.feedback {
			if fb.ClubID == c.ID {
				delete(f.db.feedback, fid)
			}
		}
		delete(f.db.clubs, c.ID)
	}
	for pid, p := range f.db.posts {
		if p.AccountID == id {
			delete(f.db.posts, pid)
		}
	}
	for _, msg := range f.db.messages {
		if msg.SenderID != nil && *msg.SenderID == id {
			msg.SenderID = nil
		}
		if msg.RecipientID != nil && *msg.RecipientID == id {
			msg.RecipientID = nil
		}
	}
	for _, fb := range f.db.feedback {
		if fb.SenderID != nil && *fb.SenderID == id {
			fb.SenderID = nil
		}
	}
	return nil
}

func (f fakeAccounts) CountClubs(_ context.Context, approved *bool) (int64, error) {
	var n int64
	for _, a := range f.db.accounts {
		if a.IsClub() && (approved == nil || a.IsApproved == *approved) {
			n++
		}
	}
	return n, nil
}

// clubs

type fakeClubs struct{ db *memDB }

func (f fakeClubs) view(c *models.Club) models.Club {
	out := *c
	if a, ok := f.db.accounts[c.AccountID]; ok {
		out.IsApproved = a.IsApproved
		out.OwnerEmail = a.Email
	}
	out.PostCount = 0
	for _, p := range f.db.posts {
		if p.AccountID == c.AccountID {
			out.PostCount++
		}
	}
	return out
}

func (f fakeClubs) slugTaken(slug string, excludeID int64) bool {
	for _, c := range f.db.clubs {
		if c.Slug == slug && c.ID != excludeID {
			return true
		}
	}
	return false
}

func (f fakeClubs) Create(_ context.Context, c *models.Club) error {
	if f.db.slugRaces > 0 {
		f.db.slugRaces--
		return apperrors.ErrDuplicateSlug
	}
	if f.slugTaken(c.Slug, 0) {
		return apperrors.ErrDuplicateSlug
	}
	c.ID = f.db.nextID()
	c.CreatedAt = f.db.tick()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	f.db.clubs[c.ID] = &stored
	return nil
}

func (f fakeClubs) Update(_ context.Context, c *models.Club) error {
	if _, ok := f.db.clubs[c.ID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	if f.db.slugRaces > 0 {
		f.db.slugRaces--
		return apperrors.ErrDuplicateSlug
	}
	if f.slugTaken(c.Slug, c.ID) {
		return apperrors.ErrDuplicateSlug
	}
	c.UpdatedAt = f.db.tick()
	stored := *c
	f.db.clubs[c.ID] = &stored
	return nil
}

func (f fakeClubs) find(match func(*models.Club) bool) (*models.Club, error) {
	for _, c := range f.db.clubs {
		if match(c) {
			v := f.view(c)
			return &v, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f fakeClubs) GetByID(_ context.Context, id int64) (*models.Club, error) {
	return f.find(func(c *models.Club) bool { return c.ID == id })
}

func (f fakeClubs) GetByAccountID(_ context.Context, accountID int64) (*models.Club, error) {
	return f.find(func(c *models.Club) bool { return c.AccountID == accountID })
}

func (f fakeClubs) GetBySlug(_ context.Context, slug string) (*models.Club, error) {
	return f.find(func(c *models.Club) bool { return c.Slug == slug })
}

func (f fakeClubs) SlugExists(_ context.Context, slug string, excludeID int64) (bool, error) {
	return f.slugTaken(slug, excludeID), nil
}

func (f fakeClubs) NameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, c := range f.db.clubs {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeClubs) List(_ context.Context, filter models.ClubFilter) ([]models.Club, int64, error) {
	out := []models.Club{}
	for _, c := range f.db.clubs {
		v := f.view(c)
		switch filter.Status {
		case models.ClubStatusApproved:
			if !v.IsApproved {
				continue
			}
		case models.ClubStatusPending:
			if v.IsApproved {
				continue
			}
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(v.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.Sort {
		case models.ClubSortNewest:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case models.ClubSortOldest:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			return out[i].Name < out[j].Name
		}
	})
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (f fakeClubs) Search(ctx context.Context, query string, limit uint64) ([]models.Club, error) {
	clubs, _, err := f.List(ctx, models.ClubFilter{Status: models.ClubStatusApproved, Search: query, Limit: limit})
	return clubs, err
}

func page[T any](items []T, limit, offset uint64) []T {
	if limit == 0 {
		return items
	}
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := offset + limit
	if end > uint64(len(items)) {
		end = uint64(len(items))
	}
	return items[offset:end]
}

// posts

type fakePosts struct{ db *memDB }

func (f fakePosts) Create(_ context.Context, p *models.Post) error {
	p.ID = f.db.nextID()
	p.CreatedAt = f.db.tick()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Images = append([]string{}, p.Images...)
	stored.Author = nil
	f.db.posts[p.ID] = &stored
	return nil
}

func (f fakePosts) view(p *models.Post) models.Post {
	out := *p
	out.Images = append([]string{}, p.Images...)
	if a, ok := f.db.accounts[p.AccountID]; ok {
		out.Author = fakeAccounts(f).load(a)
	}
	return out
}

func (f fakePosts) GetByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := f.db.posts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	v := f.view(p)
	return &v, nil
}

func (f fakePosts) Update(_ context.Context, p *models.Post) error {
	stored, ok := f.db.posts[p.ID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.UpdatedAt = f.db.tick()
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (f fakePosts) AppendImages(_ context.Context, postID int64, refs []string) error {
	stored, ok := f.db.posts[postID]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	stored.Images = append(stored.Images, refs...)
	return nil
}

func (f fakePosts) Delete(_ context.Context, id int64) error {
	if _, ok := f.db.posts[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.posts, id)
	return nil
}

func (f fakePosts) List(_ context.Context, filter models.PostFilter) ([]models.Post, int64, error) {
	out := []models.Post{}
	for _, p := range f.db.posts {
		v := f.view(p)
		if len(filter.AccountIDs) > 0 && !containsID(filter.AccountIDs, p.AccountID) {
			continue
		}
		if filter.VisibleOnly && !(v.Author.IsAdmin() || v.Author.IsApproved) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (f fakePosts) ImageRefsByAccount(_ context.Context, accountID int64) ([]string, error) {
	var ids []int64
	for id, p := range f.db.posts {
		if p.AccountID == accountID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	refs := []string{}
	for _, id := range ids {
		refs = append(refs, f.db.posts[id].Images...)
	}
	return refs, nil
}

func (f fakePosts) Count(context.Context) (int64, error) {
	return int64(len(f.db.posts)), nil
}

// messages

type fakeMessages struct{ db *memDB }

func (f fakeMessages) Create(_ context.Context, msg *models.Message) error {
	msg.ID = f.db.nextID()
	msg.CreatedAt = f.db.tick()
	stored := *msg
	f.db.messages = append(f.db.messages, &stored)
	return nil
}

func involves(msg *models.Message, id int64) bool {
	return (msg.SenderID != nil && *msg.SenderID == id) || (msg.RecipientID != nil && *msg.RecipientID == id)
}

func (f fakeMessages) ListBetween(_ context.Context, a, b int64) ([]models.Message, error) {
	out := []models.Message{}
	for _, msg := range f.db.messages {
		if involves(msg, a) && involves(msg, b) && msg.SenderID != nil && msg.RecipientID != nil {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (f fakeMessages) ListInvolving(_ context.Context, id int64) ([]models.Message, error) {
	out := []models.Message{}
	for i := len(f.db.messages) - 1; i >= 0; i-- {
		if involves(f.db.messages[i], id) {
			out = append(out, *f.db.messages[i])
		}
	}
	return out, nil
}

func (f fakeMessages) MarkRead(_ context.Context, recipientID, senderID int64) (int64, error) {
	var n int64
	for _, msg := range f.db.messages {
		if !msg.IsRead && msg.RecipientID != nil && *msg.RecipientID == recipientID && msg.SentBy(senderID) {
			msg.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f fakeMessages) CountUnread(_ context.Context, id int64) (int64, error) {
	var n int64
	for _, msg := range f.db.messages {
		if !msg.IsRead && msg.RecipientID != nil && *msg.RecipientID == id {
			n++
		}
	}
	return n, nil
}

func (f fakeMessages) DeleteInvolving(_ context.Context, id int64) (int64, error) {
	kept := f.db.messages[:0]
	var n int64
	for _, msg := range f.db.messages {
		if involves(msg, id) {
			n++
			continue
		}
		kept = append(kept, msg)
	}
	f.db.messages = kept
	return n, nil
}

// feedback

type fakeFeedback struct{ db *memDB }

func (f fakeFeedback) Create(_ context.Context, fb *models.Feedback) error {
	if _, ok := f.db.clubs[fb.ClubID]; !ok {
		return errors.New("foreign key violation")
	}
	fb.ID = f.db.nextID()
	fb.CreatedAt = f.db.tick()
	stored := *fb
	f.db.feedback[fb.ID] = &stored
	return nil
}

func (f fakeFeedback) GetByID(_ context.Context, id int64) (*models.Feedback, error) {
	fb, ok := f.db.feedback[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	v := *fb
	return &v, nil
}

func (f fakeFeedback) List(_ context.Context, filter models.FeedbackFilter) ([]models.Feedback, int64, error) {
	out := []models.Feedback{}
	for _, fb := range f.db.feedback {
		if filter.ClubID != nil && fb.ClubID != *filter.ClubID {
			continue
		}
		out = append(out, *fb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (f fakeFeedback) MarkRead(_ context.Context, id, clubID int64) error {
	fb, ok := f.db.feedback[id]
	if !ok || fb.ClubID != clubID {
		return apperrors.ErrResourceNotFound
	}
	fb.IsRead = true
	return nil
}

func (f fakeFeedback) Delete(_ context.Context, id int64) error {
	if _, ok := f.db.feedback[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.db.feedback, id)
	return nil
}

// blobs

type fakeBlobs struct {
	seq        int
	saved      map[string]bool
	deleted    []string
	failDelete map[string]bool
	failSave   bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{saved: map[string]bool{}, failDelete: map[string]bool{}}
}

func (b *fakeBlobs) Save(_ context.Context, fh *multipart.FileHeader, category filestorage.Category) (string, error) {
	if b.failSave {
		return "", errors.New("disk full")
	}
	if !filestorage.AllowedFile(fh.Filename) {
		return "", filestorage.ErrUnsupportedType
	}
	b.seq++
	ref := fmt.Sprintf("%s/blob-%d%s", category, b.seq, strings.ToLower(filepath.Ext(fh.Filename)))
	b.saved[ref] = true
	return ref, nil
}

func (b *fakeBlobs) Delete(_ context.Context, ref string) error {
	if b.failDelete[ref] {
		return errors.New("permission denied")
	}
	b.deleted = append(b.deleted, ref)
	delete(b.saved, ref)
	return nil
}

// auth collaborators

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Check(hashed, password string) bool { return hashed == "hashed:"+password }

type fakeIssuer struct{}

func (fakeIssuer) GenerateAccessToken(a *models.Account) (*auth.IssuedToken, error) {
	return &auth.IssuedToken{
		Token:     fmt.Sprintf("token-%d", a.ID),
		ID:        fmt.Sprintf("jti-%d", a.ID),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

type fakeRevoker struct{ revoked map[string]time.Duration }

func (r *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if r.revoked == nil {
		r.revoked = map[string]time.Duration{}
	}
	r.revoked[jti] = ttl
	return nil
}

// env wires every service against one memDB

type env struct {
	db       *memDB
	tx       *fakeTx
	blobs    *fakeBlobs
	revoker  *fakeRevoker
	auth     *AuthService
	clubs    *ClubService
	posts    *PostService
	messages *MessageService
	feedback *FeedbackService
	admin    *AdminService
}

func newEnv(cascadeMessages bool) *env {
	db := newMemDB()
	e := &env{db: db, tx: &fakeTx{db: db}, blobs: newFakeBlobs(), revoker: &fakeRevoker{}}
	log := zerolog.Nop()

	accounts, clubs, posts := fakeAccounts{db}, fakeClubs{db}, fakePosts{db}
	messages, feedback := fakeMessages{db}, fakeFeedback{db}

	e.auth = NewAuthService(e.tx, accounts, clubs, e.blobs, plainHasher{}, fakeIssuer{}, e.revoker, log)
	e.clubs = NewClubService(accounts, clubs, posts, feedback, messages, e.blobs, log)
	e.posts = NewPostService(e.tx, posts, e.blobs, log)
	e.messages = NewMessageService(messages, accounts, clubs, log)
	e.feedback = NewFeedbackService(e.tx, feedback, clubs, log)
	e.admin = NewAdminService(e.tx, accounts, clubs, posts, messages, e.blobs, cascadeMessages, log)
	return e
}

func registration(name string) *ClubRegistration {
	return &ClubRegistration{
		ClubProfileInput: ClubProfileInput{
			Name:        name,
			About:       "We meet every week to " + strings.ToLower(name) + " together.",
			Location:    "Main Campus",
			MemberCount: "25",
		},
		Email:           strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@uni.edu",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func (e *env) principal(id int64) *authz.Principal {
	a, err := fakeAccounts{e.db}.GetByID(context.Background(), id)
	if err != nil {
		panic(err)
	}
	return &authz.Principal{Account: a, TokenID: fmt.Sprintf("jti-%d", id), ExpiresAt: time.Now().Add(time.Hour)}
}

func (e *env) mustAdmin() *authz.Principal {
	a, _, err := e.auth.CreateAdmin(context.Background(), "admin", "admin@uni.edu", "adminpass")
	if err != nil {
		panic(err)
	}
	return e.principal(a.ID)
}

// mustClub registers a club and approves it when approved is set
func (e *env) mustClub(name string, approved bool) *authz.Principal {
	a, err := e.auth.RegisterClub(context.Background(), registration(name))
	if err != nil {
		panic(err)
	}
	if approved {
		e.db.accounts[a.ID].IsApproved = true
	}
	return e.principal(a.ID)
}

func image(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 128}
}
