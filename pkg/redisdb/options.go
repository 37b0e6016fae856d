package redisdb

import (
	"net"
	"strconv"

	"github.com/magiconair/properties"

	"kvbind/pkg/common"
	"kvbind/pkg/config"
)

const (
	PropHost     = "redis.host"
	PropPort     = "redis.port"
	PropUDS      = "redis.uds"
	PropPassword = "redis.password"
	PropCluster  = "redis.cluster"
	PropDB       = "redis.db"

	DefaultHost = "localhost"
	DefaultPort = 6379
)

type Options struct {
	Host     string
	Port     int
	UDS      string
	Password string
	Cluster  bool
	DB       int
}

// Addr is the host:port target, or the socket path in unix-socket mode.
func (o Options) Addr() string {
	if o.UDS != "" && !o.Cluster {
		return o.UDS
	}
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// Network is "unix" when a socket path is configured in standalone mode.
func (o Options) Network() string {
	if o.UDS != "" && !o.Cluster {
		return "unix"
	}
	return "tcp"
}

func ParseOptions(p *properties.Properties) (Options, error) {
	opts := Options{
		Host:     config.String(p, PropHost, DefaultHost),
		UDS:      config.String(p, PropUDS, ""),
		Password: config.String(p, PropPassword, ""),
	}

	var err error
	if opts.Cluster, err = config.Bool(p, PropCluster, false); err != nil {
		return opts, err
	}
	// a standalone socket connection never looks at the port
	socket := opts.UDS != "" && !opts.Cluster
	opts.Port = DefaultPort
	if !socket {
		if opts.Port, err = config.Int(p, PropPort, DefaultPort); err != nil {
			return opts, err
		}
	}
	if opts.DB, err = config.Int(p, PropDB, 0); err != nil {
		return opts, err
	}

	if !socket && (opts.Port <= 0 || opts.Port > 65535) {
		return opts, common.ConfigError(PropPort, "out of range: %d", opts.Port)
	}
	if opts.DB < 0 {
		return opts, common.ConfigError(PropDB, "must not be negative, got %d", opts.DB)
	}
	if opts.Cluster && opts.DB != 0 {
		return opts, common.ConfigError(PropDB, "cluster mode only serves database 0")
	}
	return opts, nil
}
