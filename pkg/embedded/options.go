package embedded

import (
	"github.com/magiconair/properties"

	"kvbind/pkg/common"
	"kvbind/pkg/config"
	"kvbind/pkg/storage"
)

const (
	PropDir         = "embedded.dir"
	PropEngine      = "embedded.engine"
	PropVerifySize  = "embedded.verifysize"
	PropFieldCount  = "fieldcount"
	PropFieldLength = "fieldlength"
	PropReadAll     = "readallfields"

	DefaultDir         = "/tmp/kvbind.db"
	DefaultFieldCount  = 10  // YCSB default
	DefaultFieldLength = 100 // YCSB default
)

type Options struct {
	Dir           string
	Engine        string
	FieldCount    int
	FieldLength   int
	ReadAllFields bool
	VerifySize    bool
}

// ValueSize is the flattened length every insert must produce.
func (o Options) ValueSize() int {
	return o.FieldCount * o.FieldLength
}

func ParseOptions(p *properties.Properties) (Options, error) {
	opts := Options{
		Dir:    config.String(p, PropDir, DefaultDir),
		Engine: config.String(p, PropEngine, storage.KindLevelDB),
	}

	var err error
	if opts.FieldCount, err = config.Int(p, PropFieldCount, DefaultFieldCount); err != nil {
		return opts, err
	}
	if opts.FieldLength, err = config.Int(p, PropFieldLength, DefaultFieldLength); err != nil {
		return opts, err
	}
	if opts.ReadAllFields, err = config.Bool(p, PropReadAll, true); err != nil {
		return opts, err
	}
	if opts.VerifySize, err = config.Bool(p, PropVerifySize, true); err != nil {
		return opts, err
	}

	if opts.FieldCount < 0 {
		return opts, common.ConfigError(PropFieldCount, "must not be negative, got %d", opts.FieldCount)
	}
	if opts.FieldLength < 0 {
		return opts, common.ConfigError(PropFieldLength, "must not be negative, got %d", opts.FieldLength)
	}
	// The store keeps one opaque blob per key, so single-field reads cannot be served.
	if !opts.ReadAllFields && opts.FieldCount > 1 {
		return opts, common.ConfigError(PropReadAll, "must be true when fieldcount > 1 (got fieldcount=%d)", opts.FieldCount)
	}
	return opts, nil
}
