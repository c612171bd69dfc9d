package auth

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

// Account is a dashboard login kept in postgres.
type Account struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Account) TableName() string {
	return "dashboard_accounts"
}

// OpenAccounts connects to the accounts database. When replicaDSN is set,
// reads are routed to the replica and writes to the primary.
func OpenAccounts(dsn, replicaDSN string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, errs.NewDatabaseError("connect", "accounts", err)
	}

	if replicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, errs.NewDatabaseError("register replica", "accounts", err)
		}
	}

	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, errs.NewDatabaseError("migrate", "accounts", err)
	}
	return db, nil
}

var _ Provider = LocalProvider{}

// LocalProvider keeps bcrypt-hashed accounts in postgres.
type LocalProvider struct {
	db *gorm.DB
}

func NewLocalProvider(db *gorm.DB) LocalProvider {
	return LocalProvider{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p LocalProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	var account Account
	// read from the primary so an account created a moment ago can sign in
	err := p.db.WithContext(ctx).Clauses(dbresolver.Write).
		Where("email = ?", normalizeEmail(email)).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, errs.NewInvalidCredentialsError(err)
	}
	if err != nil {
		return Identity{}, errs.NewDatabaseError("find", "account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Identity{}, errs.NewInvalidCredentialsError(err)
	}
	return Identity{UserID: account.ID, Email: account.Email}, nil
}

func (p LocalProvider) CreateUser(ctx context.Context, email, password string) (Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, errs.NewInvalidFieldError("password", err.Error())
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
	}

	var existing int64
	if err := p.db.WithContext(ctx).Clauses(dbresolver.Write).Model(&Account{}).
		Where("email = ?", account.Email).Count(&existing).Error; err != nil {
		return Identity{}, errs.NewDatabaseError("count", "account", err)
	}
	if existing > 0 {
		return Identity{}, errs.NewAlreadyExists("account")
	}

	if err := p.db.WithContext(ctx).Create(&account).Error; err != nil {
		return Identity{}, errs.NewDatabaseError("create", "account", err)
	}
	return Identity{UserID: account.ID, Email: account.Email}, nil
}
