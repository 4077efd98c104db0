package placeholder

// Default values applied when options are omitted.
const (
	DefaultImage         = "default.png"
	DefaultTitleMediaKey = "mTitleMedia"
)

// Encoder converts a string FormState value into the text inserted in place
// of its token.
type Encoder func(string) string

// Option configures a Substituter.
type Option func(*config)

type config struct {
	defaultImage  string
	titleMediaKey string
	encoder       Encoder
}

// WithDefaultImage overrides the image used when the title media slot is
// empty or unresolved.
func WithDefaultImage(ref string) Option {
	return func(cfg *config) {
		if ref != "" {
			cfg.defaultImage = ref
		}
	}
}

// WithTitleMediaKey overrides the FormState key that designates the title
// media slot.
func WithTitleMediaKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.titleMediaKey = key
		}
	}
}

// WithEncoder replaces the value encoder. The default normalises slashes and
// percent-encodes the value.
func WithEncoder(enc Encoder) Option {
	return func(cfg *config) {
		if enc != nil {
			cfg.encoder = enc
		}
	}
}
