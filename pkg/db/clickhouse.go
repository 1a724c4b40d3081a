package db

import (
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/cleverage/tools/pkg/config"
	"github.com/pkg/errors"
)

func openClickHouse(conn config.Connection) (*sql.DB, error) {
	opts, err := clickhouse.ParseDSN(conn.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "invalid clickhouse DSN")
	}

	if conn.TLS != nil {
		if opts.TLS, err = TLSConfig(*conn.TLS); err != nil {
			return nil, err
		}
	}

	return clickhouse.OpenDB(opts), nil
}

// TLSConfig creates a TLS config for connecting to a server over mTLS.
//
// Example usage:
//
//	tlsConfig, err := TLSConfig(config.TLS{
//		CAFile:   "ca.crt",
//		CertFile: "tls.crt",
//		KeyFile:  "tls.key",
//	})
//	if err != nil {
//		return err
//	}
func TLSConfig(files config.TLS) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(files.CertFile, files.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to load certfile/keyfile")
	}

	caCert, err := os.ReadFile(files.CAFile)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to load CAfile")
	}

	caCertPool := x509.NewCertPool()
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
