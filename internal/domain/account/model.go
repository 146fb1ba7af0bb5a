package account

import (
	"errors"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength        = 254
	MaxDisplayNameLength  = 100
	MaxProfileFieldLength = 100
	MinPasswordLength     = 6
	MaxPasswordLength     = 72 // bcrypt ignores bytes past 72
	MinAge                = 10
	MaxAge                = 120
)

// Role discriminates the two account variants.
type Role string

// Role constants
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleMember, RoleAdmin}

// HashCost is the bcrypt work factor used by HashPassword. Tests lower it.
var HashCost = 12

// Domain errors
var (
	ErrNotFound      = errors.New("account not found")
	ErrEmailTaken    = errors.New("email is already registered")
	ErrWrongPassword = errors.New("incorrect password")
	ErrInvalid       = errors.New("validation failed")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrInvalid).
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Profile holds the member-only fields. Admin accounts leave it zero.
type Profile struct {
	Age    int
	Gender string
	Goal   string
}

// Account holds state for the Account concept.
type Account struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	Profile      Profile
	CreatedAt    time.Time
}

// ParseRole converts form input into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of ValidRoles.
func (r Role) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// DashboardPath is where a freshly authenticated account of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleMember:
		return "/member/dashboard"
	default:
		return "/login"
	}
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated, Email already normalized
// POST: Returns nil if valid, *ValidationError for the first failing field otherwise
func (a *Account) Validate() error {
	checks := []struct {
		field string
		err   error
	}{
		{"email", validation.Validate(a.Email, validation.Required, validation.Length(3, MaxEmailLength), is.EmailFormat)},
		{"displayName", validation.Validate(a.DisplayName, validation.Length(0, MaxDisplayNameLength))},
		{"role", validation.Validate(a.Role, validation.Required, validation.In(RoleMember, RoleAdmin))},
	}
	if a.Role == RoleMember {
		checks = append(checks,
			struct {
				field string
				err   error
			}{"age", validation.Validate(a.Profile.Age, validation.When(a.Profile.Age != 0, validation.Min(MinAge), validation.Max(MaxAge)))},
			struct {
				field string
				err   error
			}{"gender", validation.Validate(a.Profile.Gender, validation.Length(0, MaxProfileFieldLength))},
			struct {
				field string
				err   error
			}{"goal", validation.Validate(a.Profile.Goal, validation.Length(0, MaxProfileFieldLength))},
		)
	}
	for _, c := range checks {
		if c.err != nil {
			return &ValidationError{Field: c.field, Reason: c.err.Error()}
		}
	}
	return nil
}

// ValidatePassword enforces the password policy.
func ValidatePassword(plaintext string) error {
	if err := validation.Validate(plaintext, validation.Required, validation.Length(MinPasswordLength, 0)); err != nil {
		return &ValidationError{Field: "password", Reason: err.Error()}
	}
	if len(plaintext) > MaxPasswordLength {
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return nil
}

// HashPassword returns a salted bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches hash. The comparison is constant time.
func VerifyPassword(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

var (
	padOnce sync.Once
	padHash string
)

// VerifyAgainstPad burns the same bcrypt work as a real comparison.
// Login calls it for unknown emails so response time does not reveal which addresses exist.
func VerifyAgainstPad(plaintext string) {
	padOnce.Do(func() {
		padHash, _ = HashPassword("aura-gym-timing-pad")
	})
	_ = VerifyPassword(plaintext, padHash)
}

// SetPassword validates and hashes a password.
// PRE: plaintext satisfies ValidatePassword
// POST: PasswordHash is set to a bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if err := ValidatePassword(plaintext); err != nil {
		return err
	}
	hash, err := HashPassword(plaintext)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if !VerifyPassword(plaintext, a.PasswordHash) {
		return ErrWrongPassword
	}
	return nil
}
