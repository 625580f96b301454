// Package ledger keeps the user's scanned contacts on the device. The whole
// ledger is one JSON array stored under a single key, and every mutation is a
// serialised read-modify-write of that array.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bitnet/internal/client/models"
	"github.com/dmitrijs2005/bitnet/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bitnet/internal/common"
	"github.com/dmitrijs2005/bitnet/internal/exchange"
	"github.com/dmitrijs2005/bitnet/internal/logging"
)

// Store is the key/value backend. Get returns an error wrapping
// common.ErrNotFound for absent keys. Set must be atomic.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Options struct {
	// OverwriteOnResave drops notes, meetings, reminders and connection
	// status when a contact is saved again. By default they are kept.
	OverwriteOnResave bool
}

// DefaultAuthor signs notes added without an author.
const DefaultAuthor = "You"

type Ledger struct {
	mu     sync.Mutex
	store  Store
	opts   Options
	log    logging.Logger
	now    func() time.Time
	lastID int64
}

func New(store Store, log logging.Logger, opts Options) *Ledger {
	return &Ledger{
		store: store,
		opts:  opts,
		log:   log.With("module", "ledger"),
		now:   time.Now,
	}
}

// nextID returns max(nowMillis, last+1). Caller holds mu.
func (l *Ledger) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// load reads the ledger. A missing key reads as empty. A store error is
// returned wrapped in ErrUnreadable. Undecodable data reads as empty with
// corrupt set, so the caller can back it up before overwriting it.
func (l *Ledger) load(ctx context.Context) (contacts []models.Contact, corrupt []byte, err error) {
	raw, err := l.store.Get(ctx, metadata.KeyContacts)
	if errors.Is(err, common.ErrNotFound) {
		raw, err = l.store.Get(ctx, metadata.KeyLegacyContacts)
		if errors.Is(err, common.ErrNotFound) {
			return []models.Contact{}, nil, nil
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(raw) == 0 {
		return []models.Contact{}, nil, nil
	}

	if err := json.Unmarshal(raw, &contacts); err != nil {
		l.log.Warn(ctx, "contact ledger corrupt, reading as empty", "error", err)
		return []models.Contact{}, raw, nil
	}

	out := contacts[:0]
	for _, c := range contacts {
		if c.CompanyID == 0 {
			continue
		}
		normalize(&c)
		l.trackIDs(c)
		out = append(out, c)
	}
	return out, nil, nil
}

// read is load for queries: an unreadable store reads as empty.
func (l *Ledger) read(ctx context.Context) []models.Contact {
	contacts, _, err := l.load(ctx)
	if err != nil {
		l.log.Warn(ctx, "contact ledger unreadable, reading as empty", "error", err)
		return []models.Contact{}
	}
	return contacts
}

// normalize fills defaults missing from older records.
func normalize(c *models.Contact) {
	if c.Category == "" {
		c.Category = models.CategoryProspect
	}
	if c.ConnectionStatus == "" {
		c.ConnectionStatus = models.StatusInitial
	}
	if c.Notes == nil {
		c.Notes = []models.Note{}
	}
	if c.Meetings == nil {
		c.Meetings = []models.Meeting{}
	}
	if c.Reminders == nil {
		c.Reminders = []models.Reminder{}
	}
}

func (l *Ledger) trackIDs(c models.Contact) {
	for _, n := range c.Notes {
		l.lastID = max(l.lastID, n.ID)
	}
	for _, m := range c.Meetings {
		l.lastID = max(l.lastID, m.ID)
	}
	for _, r := range c.Reminders {
		l.lastID = max(l.lastID, r.ID)
	}
}

// persist writes contacts. A non-nil corrupt blob is copied to
// KeyContactsBackup first, and a failed backup aborts the write.
func (l *Ledger) persist(ctx context.Context, contacts []models.Contact, corrupt []byte) error {
	if corrupt != nil {
		if err := l.store.Set(ctx, metadata.KeyContactsBackup, corrupt); err != nil {
			return fmt.Errorf("back up corrupt ledger: %w", err)
		}
		l.log.Warn(ctx, "corrupt contact ledger backed up", "key", metadata.KeyContactsBackup)
	}
	raw, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Set(ctx, metadata.KeyContacts, raw); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func indexOf(contacts []models.Contact, companyID int64) int {
	for i := range contacts {
		if contacts[i].CompanyID == companyID {
			return i
		}
	}
	return -1
}

func parseCategory(category models.Category) (models.Category, error) {
	if category == "" {
		return models.CategoryProspect, nil
	}
	category = models.Category(strings.ToLower(strings.TrimSpace(string(category))))
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return category, nil
}

// Save upserts the scanned profile. A re-saved contact keeps its position.
func (l *Ledger) Save(ctx context.Context, p exchange.Payload, category models.Category) (models.Contact, error) {
	if p.CompanyID <= 0 {
		return models.Contact{}, ErrInvalidPayload
	}
	category, err := parseCategory(category)
	if err != nil {
		return models.Contact{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	contacts, corrupt, err := l.load(ctx)
	if err != nil {
		return models.Contact{}, err
	}
	now := l.now().UTC()

	c := models.Contact{
		CompanyID:        p.CompanyID,
		Name:             p.Name,
		Industry:         p.Industry,
		Description:      p.Description,
		ContactEmail:     p.ContactEmail,
		ContactPhone:     p.ContactPhone,
		Website:          p.Website,
		Address:          p.Address,
		Category:         category,
		ConnectionStatus: models.StatusInitial,
		SavedAt:          now,
		UpdatedAt:        now,
	}
	normalize(&c)

	if i := indexOf(contacts, p.CompanyID); i >= 0 {
		if !l.opts.OverwriteOnResave {
			prev := contacts[i]
			c.ConnectionStatus = prev.ConnectionStatus
			c.Notes = prev.Notes
			c.Meetings = prev.Meetings
			c.Reminders = prev.Reminders
		}
		contacts[i] = c
	} else {
		contacts = append(contacts, c)
	}

	if err := l.persist(ctx, contacts, corrupt); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

// Remove deletes the contact. Absent ids are a no-op.
func (l *Ledger) Remove(ctx context.Context, companyID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	contacts, corrupt, err := l.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(contacts, companyID)
	if i < 0 {
		return nil
	}
	contacts = append(contacts[:i], contacts[i+1:]...)
	return l.persist(ctx, contacts, corrupt)
}

func (l *Ledger) Get(ctx context.Context, companyID int64) (models.Contact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	contacts := l.read(ctx)
	i := indexOf(contacts, companyID)
	if i < 0 {
		return models.Contact{}, ErrContactNotFound
	}
	return contacts[i], nil
}

// List returns the contacts matching f in insertion order.
func (l *Ledger) List(ctx context.Context, f models.Filter) ([]models.Contact, error) {
	l.mu.Lock()
	contacts := l.read(ctx)
	l.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if active(f.Category) && string(c.Category) != f.Category {
			continue
		}
		if active(f.Industry) && c.Industry != f.Industry {
			continue
		}
		if term != "" && !matches(c, term) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func active(v string) bool {
	return v != "" && v != "all"
}

func matches(c models.Contact, term string) bool {
	for _, field := range []string{c.Name, c.Industry, c.ContactEmail, c.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// update applies fn to the contact and persists the ledger.
func (l *Ledger) update(ctx context.Context, companyID int64, fn func(c *models.Contact) error) (models.Contact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	contacts, corrupt, err := l.load(ctx)
	if err != nil {
		return models.Contact{}, err
	}
	i := indexOf(contacts, companyID)
	if i < 0 {
		return models.Contact{}, ErrContactNotFound
	}
	if err := fn(&contacts[i]); err != nil {
		return models.Contact{}, err
	}
	contacts[i].UpdatedAt = l.now().UTC()

	if err := l.persist(ctx, contacts, corrupt); err != nil {
		return models.Contact{}, err
	}
	return contacts[i], nil
}

func (l *Ledger) AppendNote(ctx context.Context, companyID int64, text, author string) (models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Note{}, fmt.Errorf("%w: note text", ErrEmptyField)
	}
	if author = strings.TrimSpace(author); author == "" {
		author = DefaultAuthor
	}

	var note models.Note
	_, err := l.update(ctx, companyID, func(c *models.Contact) error {
		note = models.Note{ID: l.nextID(), Text: text, Date: l.now().UTC(), Author: author}
		c.Notes = append(c.Notes, note)
		return nil
	})
	return note, err
}

func (l *Ledger) ScheduleMeeting(ctx context.Context, companyID int64, m models.Meeting) (models.Meeting, error) {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return models.Meeting{}, fmt.Errorf("%w: meeting title", ErrEmptyField)
	}
	if m.Status == "" {
		m.Status = models.MeetingScheduled
	}

	_, err := l.update(ctx, companyID, func(c *models.Contact) error {
		m.ID = l.nextID()
		m.CreatedAt = l.now().UTC()
		c.Meetings = append(c.Meetings, m)
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

func (l *Ledger) AddReminder(ctx context.Context, companyID int64, r models.Reminder) (models.Reminder, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return models.Reminder{}, fmt.Errorf("%w: reminder title", ErrEmptyField)
	}
	if r.Priority == "" {
		r.Priority = models.PriorityMedium
	}
	if !r.Priority.Valid() {
		return models.Reminder{}, fmt.Errorf("%w: %q", ErrInvalidPriority, r.Priority)
	}
	if r.Status == "" {
		r.Status = models.ReminderPending
	}

	_, err := l.update(ctx, companyID, func(c *models.Contact) error {
		r.ID = l.nextID()
		r.CreatedAt = l.now().UTC()
		c.Reminders = append(c.Reminders, r)
		return nil
	})
	if err != nil {
		return models.Reminder{}, err
	}
	return r, nil
}

func (l *Ledger) SetConnectionStatus(ctx context.Context, companyID int64, status models.ConnectionStatus) (models.Contact, error) {
	status = models.ConnectionStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return models.Contact{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return l.update(ctx, companyID, func(c *models.Contact) error {
		c.ConnectionStatus = status
		return nil
	})
}

// SetCategory re-files an existing contact.
func (l *Ledger) SetCategory(ctx context.Context, companyID int64, category models.Category) (models.Contact, error) {
	category, err := parseCategory(category)
	if err != nil {
		return models.Contact{}, err
	}
	return l.update(ctx, companyID, func(c *models.Contact) error {
		c.Category = category
		return nil
	})
}
