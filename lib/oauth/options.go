package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/dunice-shabanov/passport-youtube/lib/kflags"
	"github.com/dunice-shabanov/passport-youtube/lib/logger"
	"github.com/dunice-shabanov/passport-youtube/lib/token"
)

// Flags configures the cookies and tokens generated by an Authenticator.
type Flags struct {
	// Hex encoded key used to sign cookies. If empty, a random key is generated,
	// which means that credentials will not survive a restart of the process.
	SymmetricKey string
	// How long the credentials cookie is valid for.
	LoginTime time.Duration
	// How long the user has to complete the login with the provider.
	AuthTime time.Duration
	// String prepended to the name of all cookies.
	CookiePrefix string
}

func DefaultFlags() *Flags {
	return &Flags{
		LoginTime: 24 * time.Hour,
		AuthTime:  30 * time.Minute,
	}
}

func (f *Flags) Register(set kflags.FlagSet, prefix string) *Flags {
	set.StringVar(&f.SymmetricKey, prefix+"symmetric-key", f.SymmetricKey, "Hex encoded key used to sign authentication cookies. If empty, a random key is generated at startup")
	set.DurationVar(&f.LoginTime, prefix+"login-time", f.LoginTime, "How long the user credentials stay valid after login")
	set.DurationVar(&f.AuthTime, prefix+"auth-time", f.AuthTime, "How long the user has to complete authentication with the provider")
	set.StringVar(&f.CookiePrefix, prefix+"cookie-prefix", f.CookiePrefix, "Prefix to add to the name of all the cookies, to avoid conflicts with other applications")
	return f
}

type Options struct {
	log          logger.Logger
	rng          io.Reader
	symmetricKey []byte
	loginTime    time.Duration
	authTime     time.Duration
	baseCookie   string
}

func DefaultOptions() Options {
	flags := DefaultFlags()
	return Options{
		log:       logger.Go,
		rng:       rand.Reader,
		loginTime: flags.LoginTime,
		authTime:  flags.AuthTime,
	}
}

type Modifier func(*Options) error

type Modifiers []Modifier

func (mods Modifiers) Apply(o *Options) error {
	for _, m := range mods {
		if err := m(o); err != nil {
			return err
		}
	}
	return nil
}

func WithLogger(log logger.Logger) Modifier {
	return func(o *Options) error {
		o.log = log
		return nil
	}
}

// WithRng configures the source of randomness used to generate keys.
func WithRng(rng io.Reader) Modifier {
	return func(o *Options) error {
		o.rng = rng
		return nil
	}
}

func WithSymmetricKey(key []byte) Modifier {
	return func(o *Options) error {
		o.symmetricKey = key
		return nil
	}
}

func WithLoginTime(lifetime time.Duration) Modifier {
	return func(o *Options) error {
		o.loginTime = lifetime
		return nil
	}
}

func WithAuthTime(lifetime time.Duration) Modifier {
	return func(o *Options) error {
		o.authTime = lifetime
		return nil
	}
}

func WithCookiePrefix(prefix string) Modifier {
	return func(o *Options) error {
		o.baseCookie = prefix
		return nil
	}
}

func FromFlags(flags *Flags) Modifier {
	return func(o *Options) error {
		if flags.SymmetricKey != "" {
			key, err := hex.DecodeString(flags.SymmetricKey)
			if err != nil {
				return kflags.NewUsageErrorf("invalid symmetric key - must be hex encoded: %w", err)
			}
			o.symmetricKey = key
		}
		if flags.LoginTime <= 0 {
			return kflags.NewUsageErrorf("login time must be positive, got %s", flags.LoginTime)
		}
		if flags.AuthTime <= 0 {
			return kflags.NewUsageErrorf("auth time must be positive, got %s", flags.AuthTime)
		}
		o.loginTime = flags.LoginTime
		o.authTime = flags.AuthTime
		o.baseCookie = flags.CookiePrefix
		return nil
	}
}

// key returns the configured symmetric key, generating one if necessary.
func (o *Options) key() ([]byte, error) {
	if len(o.symmetricKey) > 0 {
		if len(o.symmetricKey) < 16 {
			return nil, kflags.NewUsageErrorf("invalid symmetric key: %w", token.ErrInvalidKey)
		}
		return o.symmetricKey, nil
	}

	key, err := token.GenerateSymmetricKey(o.rng, 256)
	if err != nil {
		return nil, err
	}
	o.log.Warnf("no symmetric key configured - generated a random one, credentials will not survive a restart")
	o.symmetricKey = key
	return key, nil
}

// deriveKey returns a key dedicated to a specific use, so that tokens
// generated for one purpose cannot be accepted for another.
func deriveKey(key []byte, purpose string) []byte {
	sum := sha256.Sum256(append([]byte(purpose+":"), key...))
	return sum[:]
}

// NewExtractor creates an Extractor using the configured key and login time.
func (o *Options) NewExtractor() (*Extractor, error) {
	key, err := o.key()
	if err != nil {
		return nil, err
	}

	encoder, err := token.NewTypeEncoder(deriveKey(key, "credentials"), token.WithLifetime(o.loginTime))
	if err != nil {
		return nil, kflags.NewUsageErrorf("invalid symmetric key: %w", err)
	}
	return &Extractor{loginEncoder: encoder, baseCookie: o.baseCookie}, nil
}

// NewExtractor returns an Extractor able to validate credentials cookies.
func NewExtractor(mods ...Modifier) (*Extractor, error) {
	options := DefaultOptions()
	if err := Modifiers(mods).Apply(&options); err != nil {
		return nil, err
	}
	return options.NewExtractor()
}
