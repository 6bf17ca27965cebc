// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"forumhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seedVal := time.Now().UnixNano()
	gofakeit.Seed(seedVal)
	return &Factory{
		db:   db,
		opts: opts,
		//nolint:gosec // Weak random number generator is fine for seeding
		r: rand.New(rand.NewSource(seedVal)),
	}
}

// CreateUser persists a user with a realistic profile and a shared demo password.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!demo"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	username := strings.ToLower(gofakeit.Username())
	if len(username) < 3 {
		username = username + strconv.Itoa(f.r.Intn(900)+100)
	}

	user := &models.User{
		Username:    username,
		Email:       strings.ToLower(gofakeit.Email()),
		Password:    string(hashed),
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(8),
		AvatarURL:   fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		Role:        models.RoleMember,
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateThread persists a thread in the given category with generated content.
func (f *Factory) CreateThread(author *models.User, category *models.Category, overrides ...func(*models.Thread)) (*models.Thread, error) {
	title := strings.TrimSuffix(gofakeit.Sentence(f.r.Intn(6)+4), ".")
	created := f.pastTime()

	thread := &models.Thread{
		Title:      title,
		Slug:       seedSlug(title, created),
		Content:    gofakeit.Paragraph(2, 4, 8, "\n\n"),
		AuthorID:   author.ID,
		CategoryID: category.ID,
		ViewCount:  f.r.Intn(500),
		CreatedAt:  created,
	}
	for _, override := range overrides {
		override(thread)
	}

	if err := f.db.Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

// CreatePost persists a reply to the given thread.
func (f *Factory) CreatePost(author *models.User, thread *models.Thread, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 6, "\n"),
		AuthorID:  author.ID,
		ThreadID:  thread.ID,
		CreatedAt: thread.CreatedAt.Add(time.Duration(f.r.Intn(72)+1) * time.Hour),
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateShout persists a shoutbox message on the given channel.
func (f *Factory) CreateShout(author *models.User, channel string) (*models.ShoutboxMessage, error) {
	msg := &models.ShoutboxMessage{
		UserID:    author.ID,
		Content:   gofakeit.Sentence(f.r.Intn(8) + 3),
		Channel:   channel,
		CreatedAt: time.Now().Add(-time.Duration(f.r.Intn(120)) * time.Minute),
	}
	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

func seedSlug(title string, created time.Time) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	base := strings.TrimRight(b.String(), "-")
	return base + "-" + strconv.FormatInt(created.UnixMilli(), 36)
}
