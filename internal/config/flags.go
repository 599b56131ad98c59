// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Flags holds the command-line overrides registered on a pflag.FlagSet.
// Values are read after the flag set has been parsed.
type Flags struct {
	serverAddress     NetAddress
	grpcServerAddress NetAddress
	databaseDSN       string
	filesDir          string
	filesBackend      string
	cacheAddress      string
	jsonConfigPath    string
	tokenSignKey      string
	tokenIssuer       string
	tokenDuration     time.Duration
	requestTimeout    time.Duration
}

// NewFlags registers all configuration flags on fs.
//
// Flags:
//
//	-a, --address       server address in format [host]:[port]
//	    --grpc-address  grpc server address in format [host]:[port]
//	-d, --database-dsn  database DSN
//	-f, --files-dir     local blob directory
//	    --files-backend blob backend (local|minio)
//	    --cache-address redis address
//	-c, --config        json file path with configs
//	    --token-sign-key token signing key
//	    --token-issuer  token issuer name
//	    --token-duration token duration (e.g., "1h", "30m")
//	    --request-timeout request timeout (e.g., "30s", "1m")
func NewFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{}

	fs.VarP(&f.serverAddress, "address", "a", "Net address host:port")
	fs.Var(&f.grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVarP(&f.databaseDSN, "database-dsn", "d", "", "Database DSN")
	fs.StringVarP(&f.filesDir, "files-dir", "f", "", "Local blob directory")
	fs.StringVar(&f.filesBackend, "files-backend", "", "Blob backend (local|minio)")
	fs.StringVar(&f.cacheAddress, "cache-address", "", "Redis address host:port")
	fs.StringVarP(&f.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVar(&f.tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&f.tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&f.tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&f.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	return f
}

func (f *Flags) config() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  f.tokenSignKey,
			TokenIssuer:   f.tokenIssuer,
			TokenDuration: f.tokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: f.databaseDSN,
			},
			Files: Files{
				Backend: f.filesBackend,
				Dir:     f.filesDir,
			},
		},
		Cache: Cache{
			Address: f.cacheAddress,
		},
		Server: Server{
			HTTPAddress:    f.serverAddress.String(),
			GRPCAddress:    f.grpcServerAddress.String(),
			RequestTimeout: f.requestTimeout,
		},
		JSONFilePath: f.jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
