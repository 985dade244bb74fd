// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the command-line configuration flags in args (without
// the program name).
//
// Flags:
//
//	-c/-config config file path (.json, .yaml or .yml)
//	-log-level zerolog level name
//	-d database DSN
//	-sync-interval interval between batch runs (e.g., "5m")
//	-concurrency records in flight per batch
//	-max-retries retry cap for failed records
//	-retry-interval retry worker period (e.g., "1m")
//	-chunk-size conflict detection chunk size
//	-cluster-context clustering preset (person, pet, project, business)
//	-cache-budget media cache budget in bytes
//	-metrics-address metrics listener in format [host]:[port]
func ParseFlags(args []string) (*StructuredConfig, error) {
	var (
		configPath     string
		logLevel       string
		databaseDSN    string
		syncInterval   time.Duration
		concurrency    int
		maxRetries     int
		retryInterval  time.Duration
		chunkSize      int
		clusterContext string
		cacheBudget    int64
		metricsAddress NetAddress
	)

	fs := flag.NewFlagSet("timelinesync", flag.ContinueOnError)
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Interval between batch runs (e.g., 5m)")
	fs.IntVar(&concurrency, "concurrency", 0, "Records in flight per batch")
	fs.IntVar(&maxRetries, "max-retries", 0, "Retry cap for failed records")
	fs.DurationVar(&retryInterval, "retry-interval", 0, "Retry worker period (e.g., 1m)")
	fs.IntVar(&chunkSize, "chunk-size", 0, "Conflict detection chunk size")
	fs.StringVar(&clusterContext, "cluster-context", "", "Clustering preset")
	fs.Int64Var(&cacheBudget, "cache-budget", 0, "Media cache budget in bytes")
	fs.Var(&metricsAddress, "metrics-address", "Metrics net address host:port")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			Interval:      syncInterval,
			Concurrency:   concurrency,
			MaxRetries:    maxRetries,
			RetryInterval: retryInterval,
			ChunkSize:     chunkSize,
		},
		Clustering: Clustering{
			Context: clusterContext,
		},
		Cache: Cache{
			BudgetBytes: cacheBudget,
		},
		Metrics: Metrics{
			Address: metricsAddress.String(),
		},
		FilePath: configPath,
	}, nil
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
// "localhost" or empty, and returns an error if the format or values are
// invalid.
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
		return errors.New("port number must be within 1..65535")
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
