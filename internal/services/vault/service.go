package vault

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tokenvault/internal/crypto"
	"tokenvault/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required
	// for a passphrase set through Rekey.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when a new passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service is the vault façade: named secrets encrypted under keys derived
// from one passphrase, persisted through a domain.SecretStore.
//
// Each record gets its own random salt. The key is re-derived from the
// passphrase on every Get, Add and Update and is wiped after use; only the
// salt and KDF parameters reach the store.
type Service struct {
	store      domain.SecretStore
	prompter   domain.Prompter
	algorithm  domain.KDFAlgorithm
	iterations int
	log        *zap.Logger
	now        func() time.Time

	mu         sync.RWMutex
	passphrase []byte
}

// Option configures a Service.
type Option func(*Service)

// WithPrompter sets who is asked for a value when none is passed in.
func WithPrompter(p domain.Prompter) Option {
	return func(s *Service) { s.prompter = p }
}

// WithKDF selects the algorithm and PBKDF2 iteration count for new records.
// Existing records keep the parameters they were sealed with.
func WithKDF(alg domain.KDFAlgorithm, iterations int) Option {
	return func(s *Service) {
		s.algorithm = alg
		s.iterations = iterations
	}
}

// WithLogger sets the logger. Secret values are never logged.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a vault over store protected by passphrase.
func New(store domain.SecretStore, passphrase []byte, opts ...Option) (*Service, error) {
	if len(passphrase) == 0 {
		return nil, domain.ErrPassphraseRequired
	}
	s := &Service{
		store:      store,
		algorithm:  domain.KDFPBKDF2SHA256,
		log:        zap.NewNop(),
		now:        time.Now,
		passphrase: slices.Clone(passphrase),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := crypto.NewKDFParams(s.algorithm, s.iterations); err != nil {
		return nil, err
	}
	return s, nil
}

// Close wipes the in-memory passphrase. The Service is unusable afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	crypto.Wipe(s.passphrase)
	s.passphrase = nil
}

// Exists reports whether a record named name is present.
func (s *Service) Exists(ctx context.Context, name domain.SecretName) (bool, error) {
	found := false
	err := s.store.View(ctx, func(records []domain.SecretRecord) error {
		found = indexOf(records, name) >= 0
		return nil
	})
	return found, err
}

// Get returns the plaintext of the first record named name. ok is false
// when there is no such record.
func (s *Service) Get(ctx context.Context, name domain.SecretName) (value string, ok bool, err error) {
	rec, found, err := s.lookup(ctx, name)
	if err != nil || !found {
		return "", false, err
	}
	pt, err := s.open(rec)
	if err != nil {
		s.log.Warn("decrypt failed", zap.Stringer("name", name), zap.Stringer("id", rec.ID))
		return "", false, fmt.Errorf("get %q: %w", name, err)
	}
	return pt, true, nil
}

// Add seals value under a fresh key and appends a new record. A nil value
// is obtained from the Prompter. Adding an existing name fails with
// domain.ErrDuplicateName and leaves the store untouched.
func (s *Service) Add(ctx context.Context, name domain.SecretName, value *string) (domain.Token, error) {
	tok, _, err := s.add(ctx, name, value)
	return tok, err
}

func (s *Service) add(ctx context.Context, name domain.SecretName, value *string) (domain.Token, string, error) {
	if err := validateName(name); err != nil {
		return "", "", err
	}
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return "", "", err
	}
	if exists {
		s.log.Warn("secret already exists, use update", zap.Stringer("name", name))
		return "", "", fmt.Errorf("add %q: %w", name, domain.ErrDuplicateName)
	}

	plain, err := s.resolveValue(ctx, fmt.Sprintf("Value for %q", name), value)
	if err != nil {
		return "", "", err
	}

	var rec domain.SecretRecord
	err = s.mutate(ctx, func(passphrase []byte, records []domain.SecretRecord) ([]domain.SecretRecord, error) {
		// Re-checked under the lock: another writer may have won the race.
		if indexOf(records, name) >= 0 {
			return nil, fmt.Errorf("add %q: %w", name, domain.ErrDuplicateName)
		}
		if err := verifyPassphrase(passphrase, records); err != nil {
			return nil, fmt.Errorf("add %q: %w", name, err)
		}
		params, tok, err := sealWith(passphrase, s.algorithm, s.iterations, name, plain)
		if err != nil {
			return nil, err
		}
		now := s.now().UTC()
		rec = domain.SecretRecord{
			ID:        domain.RecordID(uuid.NewString()),
			Name:      name,
			KDF:       params,
			Token:     tok,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(records, rec), nil
	})
	if err != nil {
		return "", "", err
	}
	s.log.Info("secret added", zap.Stringer("name", name), zap.Stringer("id", rec.ID))
	return rec.Token, plain, nil
}

// Update re-seals the record named name under a fresh key. Name and ID are
// kept. A missing name fails with domain.ErrNotFound and nothing is written.
// The current value must open under the passphrase, so a mistyped passphrase
// cannot overwrite a secret.
func (s *Service) Update(ctx context.Context, name domain.SecretName, value *string) (domain.Token, error) {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		s.log.Warn("secret does not exist, use add", zap.Stringer("name", name))
		return "", fmt.Errorf("update %q: %w", name, domain.ErrNotFound)
	}

	plain, err := s.resolveValue(ctx, fmt.Sprintf("New value for %q", name), value)
	if err != nil {
		return "", err
	}

	var (
		id  domain.RecordID
		tok domain.Token
	)
	err = s.mutate(ctx, func(passphrase []byte, records []domain.SecretRecord) ([]domain.SecretRecord, error) {
		i := indexOf(records, name)
		if i < 0 {
			return nil, fmt.Errorf("update %q: %w", name, domain.ErrNotFound)
		}
		if _, err := openWith(passphrase, records[i]); err != nil {
			return nil, fmt.Errorf("update %q: %w", name, err)
		}
		params, sealed, err := sealWith(passphrase, s.algorithm, s.iterations, name, plain)
		if err != nil {
			return nil, err
		}
		records[i].KDF = params
		records[i].Token = sealed
		records[i].UpdatedAt = s.now().UTC()
		id, tok = records[i].ID, sealed
		return records, nil
	})
	if err != nil {
		return "", err
	}
	s.log.Info("secret updated", zap.Stringer("name", name), zap.Stringer("id", id))
	return tok, nil
}

// Remove deletes the first record named name. A missing name returns
// domain.ErrNotFound and the file is not rewritten, so removing twice is safe.
func (s *Service) Remove(ctx context.Context, name domain.SecretName) error {
	var id domain.RecordID
	err := s.store.Update(ctx, func(records []domain.SecretRecord) ([]domain.SecretRecord, error) {
		i := indexOf(records, name)
		if i < 0 {
			return nil, fmt.Errorf("remove %q: %w", name, domain.ErrNotFound)
		}
		id = records[i].ID
		return slices.Delete(records, i, i+1), nil
	})
	if err != nil {
		if isNotFound(err) {
			s.log.Warn("secret does not exist", zap.Stringer("name", name))
		}
		return err
	}
	s.log.Info("secret removed", zap.Stringer("name", name), zap.Stringer("id", id))
	return nil
}

// List returns every stored name in file order.
func (s *Service) List(ctx context.Context) ([]domain.SecretName, error) {
	var names []domain.SecretName
	err := s.store.View(ctx, func(records []domain.SecretRecord) error {
		names = make([]domain.SecretName, 0, len(records))
		for _, r := range records {
			names = append(names, r.Name)
		}
		return nil
	})
	return names, err
}

// Records returns the stored records in file order, for listings that need
// more than names. Tokens stay sealed.
func (s *Service) Records(ctx context.Context) ([]domain.SecretRecord, error) {
	return s.store.ReadAll(ctx)
}

// Ensure is add-or-get: it returns the stored plaintext, adding the secret
// first (prompting when value is nil) if it does not exist yet.
func (s *Service) Ensure(ctx context.Context, name domain.SecretName, value *string) (string, error) {
	if v, ok, err := s.Get(ctx, name); err != nil || ok {
		return v, err
	}
	_, plain, err := s.add(ctx, name, value)
	if isDuplicate(err) {
		v, _, err := s.Get(ctx, name)
		return v, err
	}
	return plain, err
}

// Rekey re-encrypts every record under newPassphrase in a single locked
// rewrite. If any record fails to open, nothing is written and the old
// passphrase stays in effect.
func (s *Service) Rekey(ctx context.Context, newPassphrase []byte) error {
	if !isSecurePassphrase(string(newPassphrase)) {
		return ErrWeakPassphrase
	}
	next := slices.Clone(newPassphrase)

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	err := s.store.Update(ctx, func(records []domain.SecretRecord) ([]domain.SecretRecord, error) {
		for i := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			plain, err := openWith(s.passphrase, records[i])
			if err != nil {
				return nil, fmt.Errorf("rekey %q: %w", records[i].Name, err)
			}
			params, tok, err := sealWith(next, s.algorithm, s.iterations, records[i].Name, plain)
			if err != nil {
				return nil, err
			}
			records[i].KDF = params
			records[i].Token = tok
			records[i].UpdatedAt = s.now().UTC()
		}
		count = len(records)
		return records, nil
	})
	if err != nil {
		crypto.Wipe(next)
		return err
	}
	crypto.Wipe(s.passphrase)
	s.passphrase = next
	s.log.Info("vault rekeyed", zap.Int("records", count))
	return nil
}

func (s *Service) lookup(ctx context.Context, name domain.SecretName) (domain.SecretRecord, bool, error) {
	var (
		rec   domain.SecretRecord
		found bool
	)
	err := s.store.View(ctx, func(records []domain.SecretRecord) error {
		if i := indexOf(records, name); i >= 0 {
			rec, found = records[i], true
		}
		return nil
	})
	return rec, found, err
}

func (s *Service) resolveValue(ctx context.Context, label string, value *string) (string, error) {
	var v string
	switch {
	case value != nil:
		v = *value
	case s.prompter == nil:
		return "", fmt.Errorf("%w: no prompter configured", domain.ErrNoValue)
	default:
		var err error
		if v, err = s.prompter.Secret(ctx, label); err != nil {
			return "", err
		}
	}
	if v == "" {
		return "", fmt.Errorf("%w: empty value", domain.ErrNoValue)
	}
	return v, nil
}

// mutate runs fn inside a locked store update while holding the passphrase
// read lock, so Rekey cannot swap the passphrase between sealing and the
// write.
func (s *Service) mutate(
	ctx context.Context,
	fn func(passphrase []byte, records []domain.SecretRecord) ([]domain.SecretRecord, error),
) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.passphrase == nil {
		return domain.ErrPassphraseRequired
	}
	return s.store.Update(ctx, func(records []domain.SecretRecord) ([]domain.SecretRecord, error) {
		return fn(s.passphrase, records)
	})
}

func (s *Service) open(rec domain.SecretRecord) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.passphrase == nil {
		return "", domain.ErrPassphraseRequired
	}
	return openWith(s.passphrase, rec)
}

func sealWith(
	passphrase []byte,
	alg domain.KDFAlgorithm,
	iterations int,
	name domain.SecretName,
	plain string,
) (domain.KDFParams, domain.Token, error) {
	params, err := crypto.NewKDFParams(alg, iterations)
	if err != nil {
		return domain.KDFParams{}, "", err
	}
	key, err := crypto.DeriveKey(passphrase, params)
	if err != nil {
		return domain.KDFParams{}, "", err
	}
	pt := []byte(plain)
	defer crypto.Wipe(key, pt)

	tok, err := crypto.Seal(key, pt, []byte(name))
	if err != nil {
		return domain.KDFParams{}, "", err
	}
	return params, tok, nil
}

func openWith(passphrase []byte, rec domain.SecretRecord) (string, error) {
	// Parameters come from the file; out-of-range ones mean it was tampered with.
	if err := crypto.ValidateKDF(rec.KDF); err != nil {
		return "", fmt.Errorf("%w: record %q: %w", domain.ErrCorruptStore, rec.Name, err)
	}
	key, err := crypto.DeriveKey(passphrase, rec.KDF)
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(key)

	pt, err := crypto.Open(key, rec.Token, []byte(rec.Name))
	if err != nil {
		return "", err
	}
	defer crypto.Wipe(pt)
	return string(pt), nil
}

// verifyPassphrase checks passphrase against the first stored record, so
// a mistyped passphrase is refused before it can seal anything new.
func verifyPassphrase(passphrase []byte, records []domain.SecretRecord) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := openWith(passphrase, records[0]); err != nil {
		return fmt.Errorf("passphrase does not open %q: %w", records[0].Name, err)
	}
	return nil
}

// indexOf returns the position of the first record named name, or -1.
func indexOf(records []domain.SecretRecord, name domain.SecretName) int {
	return slices.IndexFunc(records, func(r domain.SecretRecord) bool { return r.Name == name })
}

func validateName(name domain.SecretName) error {
	if name == "" {
		return fmt.Errorf("%w: empty", domain.ErrInvalidName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", domain.ErrInvalidName, name)
		}
	}
	return nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.VaultService.
var _ domain.VaultService = (*Service)(nil)
