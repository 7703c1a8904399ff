// Package prefs stores per-account feed preferences in SQLite. The feed
// pipeline treats it as read-only except for lazy expiry pruning of
// temporary mutes.
package prefs

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/feedscope/pkg/moderation"
	"github.com/umputun/feedscope/pkg/timeline"
)

//go:embed schema.sql
var schema string

// Account holds one account's feed preferences
type Account struct {
	DID                string                             `json:"did"`
	Languages          []string                           `json:"languages"`
	AllowUnspecified   bool                               `json:"allow_unspecified"`
	UseSystemLanguages bool                               `json:"use_system_languages"`
	HiddenReposts      []string                           `json:"hidden_reposts"`
	MutedWords         []string                           `json:"muted_words"`
	LabelPolicies      map[string]moderation.Visibility   `json:"label_policies"`
	SavedFeeds         []string                           `json:"saved_feeds"`
	PinnedFeeds        []string                           `json:"pinned_feeds"`
	TempMutes          map[string]time.Time               `json:"temp_mutes"`
}

// LanguagePrefs converts the account's language settings to filter prefs
func (a Account) LanguagePrefs() timeline.LanguagePrefs {
	return timeline.LanguagePrefs{
		Languages:          a.Languages,
		AllowUnspecified:   a.AllowUnspecified,
		UseSystemLanguages: a.UseSystemLanguages,
	}
}

// ModerationOpts converts the account's moderation settings to decider opts
func (a Account) ModerationOpts() moderation.Opts {
	return moderation.Opts{Labels: a.LabelPolicies, MutedWords: a.MutedWords}
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repository provides access to stored account preferences
type Repository struct {
	db *sqlx.DB
}

// accountSQL represents an account row for SQL operations
type accountSQL struct {
	DID                string    `db:"did"`
	Languages          string    `db:"languages"`
	AllowUnspecified   bool      `db:"allow_unspecified"`
	UseSystemLanguages bool      `db:"use_system_languages"`
	HiddenReposts      string    `db:"hidden_reposts"`
	MutedWords         string    `db:"muted_words"`
	LabelPolicies      string    `db:"label_policies"`
	SavedFeeds         string    `db:"saved_feeds"`
	PinnedFeeds        string    `db:"pinned_feeds"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// New opens the preferences database and initializes the schema
func New(cfg Config) (*Repository, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:feedscope.db?cache=shared&mode=rwc"
	}

	conn, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// optimize SQLite settings
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Repository{db: conn}, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Get retrieves an account's preferences. A missing account yields
// permissive defaults. Expired temporary mutes are pruned on read.
func (r *Repository) Get(ctx context.Context, did string) (Account, error) {
	account := Account{
		DID:                did,
		AllowUnspecified:   true,
		UseSystemLanguages: true,
		LabelPolicies:      map[string]moderation.Visibility{},
		TempMutes:          map[string]time.Time{},
	}

	var row accountSQL
	err := r.db.GetContext(ctx, &row, "SELECT * FROM accounts WHERE did = ?", did)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// defaults apply
	case err != nil:
		return Account{}, fmt.Errorf("get account: %w", err)
	default:
		if err := row.decodeInto(&account); err != nil {
			return Account{}, fmt.Errorf("decode account %s: %w", did, err)
		}
	}

	mutes, err := r.activeTempMutes(ctx, did)
	if err != nil {
		return Account{}, err
	}
	account.TempMutes = mutes

	return account, nil
}

// Upsert stores an account's preferences, replacing any existing row
func (r *Repository) Upsert(ctx context.Context, account Account) error {
	row, err := encodeAccount(account)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", account.DID, err)
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO accounts (did, languages, allow_unspecified, use_system_languages,
			                      hidden_reposts, muted_words, label_policies, saved_feeds, pinned_feeds)
			VALUES (:did, :languages, :allow_unspecified, :use_system_languages,
			        :hidden_reposts, :muted_words, :label_policies, :saved_feeds, :pinned_feeds)
			ON CONFLICT(did) DO UPDATE SET
				languages = excluded.languages,
				allow_unspecified = excluded.allow_unspecified,
				use_system_languages = excluded.use_system_languages,
				hidden_reposts = excluded.hidden_reposts,
				muted_words = excluded.muted_words,
				label_policies = excluded.label_policies,
				saved_feeds = excluded.saved_feeds,
				pinned_feeds = excluded.pinned_feeds,
				updated_at = CURRENT_TIMESTAMP
		`
		if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("upsert account: %w", err)}
		}
		return nil
	})
}

// SetTempMute mutes an actor for the account until the given time
func (r *Repository) SetTempMute(ctx context.Context, did, actor string, until time.Time) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO temp_mutes (did, actor_did, until) VALUES (?, ?, ?)
			ON CONFLICT(did, actor_did) DO UPDATE SET until = excluded.until
		`
		if _, err := r.db.ExecContext(ctx, query, did, actor, until.UTC()); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("set temp mute: %w", err)}
		}
		return nil
	})
}

// DeleteTempMute unmutes an actor before the expiry
func (r *Repository) DeleteTempMute(ctx context.Context, did, actor string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM temp_mutes WHERE did = ? AND actor_did = ?", did, actor); err != nil {
		return fmt.Errorf("delete temp mute: %w", err)
	}
	return nil
}

// activeTempMutes returns the still-active mutes, deleting expired rows
func (r *Repository) activeTempMutes(ctx context.Context, did string) (map[string]time.Time, error) {
	// lazy expiry pruning, the only write the feed pipeline triggers
	if _, err := r.db.ExecContext(ctx, "DELETE FROM temp_mutes WHERE did = ? AND until <= ?", did, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("prune temp mutes: %w", err)
	}

	var rows []struct {
		ActorDID string    `db:"actor_did"`
		Until    time.Time `db:"until"`
	}
	if err := r.db.SelectContext(ctx, &rows, "SELECT actor_did, until FROM temp_mutes WHERE did = ?", did); err != nil {
		return nil, fmt.Errorf("get temp mutes: %w", err)
	}

	mutes := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		mutes[row.ActorDID] = row.Until
	}
	return mutes, nil
}

func encodeAccount(account Account) (accountSQL, error) {
	row := accountSQL{
		DID:                account.DID,
		AllowUnspecified:   account.AllowUnspecified,
		UseSystemLanguages: account.UseSystemLanguages,
	}

	fields := []struct {
		value any
		dest  *string
	}{
		{orEmpty(account.Languages), &row.Languages},
		{orEmpty(account.HiddenReposts), &row.HiddenReposts},
		{orEmpty(account.MutedWords), &row.MutedWords},
		{account.LabelPolicies, &row.LabelPolicies},
		{orEmpty(account.SavedFeeds), &row.SavedFeeds},
		{orEmpty(account.PinnedFeeds), &row.PinnedFeeds},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.value)
		if err != nil {
			return accountSQL{}, err
		}
		*f.dest = string(data)
	}
	return row, nil
}

// orEmpty keeps nil slices serialized as [] instead of null
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (row accountSQL) decodeInto(account *Account) error {
	fields := []struct {
		data string
		dest any
	}{
		{row.Languages, &account.Languages},
		{row.HiddenReposts, &account.HiddenReposts},
		{row.MutedWords, &account.MutedWords},
		{row.LabelPolicies, &account.LabelPolicies},
		{row.SavedFeeds, &account.SavedFeeds},
		{row.PinnedFeeds, &account.PinnedFeeds},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.data), f.dest); err != nil {
			return err
		}
	}
	account.AllowUnspecified = row.AllowUnspecified
	account.UseSystemLanguages = row.UseSystemLanguages
	return nil
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
