package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/alphadose/rhmap"
)

const (
	defaultCount = 100000
	defaultHash  = "fx"
	defaultProbe = "wrap"
)

type config struct {
	hash     rhmap.HashKind
	key      []byte
	probing  rhmap.Probing
	capacity uintptr
	bloomFP  float64
}

func usage() {
	log.Printf("Usage: rhstat [-hash kind] [-key hex] [-probe wrap|append] [-cap n] [-bloom rate] [-in file | -n count]\n")
	flag.PrintDefaults()
}

func showUsageAndExit(exitcode int) {
	usage()
	os.Exit(exitcode)
}

func exitOnErr(logger logr.Logger, err error, msg string) {
	if err != nil {
		logger.Error(err, msg)
		os.Exit(1)
	}
}

// getLogger returns a stdr.Logger that implements the logr.Logger interface
// and sets the verbosity of the returned logger.
// set v to 0 for info level messages,
// 1 to also see every resize and 2 for tail appends.
// any other verbosity level will default to 0.
func getLogger(v int) logr.Logger {
	logger := stdr.New(nil)
	// bound check
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, setting logger to display info level messages only.")
	}
	stdr.SetVerbosity(v)

	return logger
}

// memUsage logs the memory held by the process and garbage collector calls
func memUsage(logger logr.Logger) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.V(1).Info("Final stats", "total memory (MiB)", math.Round(float64(m.Sys)*100/(1024*1024))/100)
	logger.V(1).Info("Final stats", "garbage collector calls", m.NumGC)
}

// readKeys returns one key per line of r
func readKeys(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		keys = append(keys, scanner.Text())
	}
	return keys, scanner.Err()
}

// sequentialKeys returns the decimal strings of 0 to n-1
func sequentialKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// run loads keys into a map built from cfg, checks every key reads back and
// returns the placement statistics
func run(logger logr.Logger, cfg config, keys []string) (rhmap.Stats, error) {
	p, err := rhmap.NewHashProvider(cfg.hash, cfg.key)
	if err != nil {
		return rhmap.Stats{}, err
	}
	opts := []rhmap.Option{
		rhmap.WithHashProvider(p),
		rhmap.WithProbing(cfg.probing),
		rhmap.WithCapacity(cfg.capacity),
		rhmap.WithLogger(logger.WithName("rhmap")),
	}
	if cfg.bloomFP > 0 {
		opts = append(opts, rhmap.WithBloomFilter(uint(len(keys)), cfg.bloomFP))
	}
	m := rhmap.New[string, int](opts...)

	start := time.Now()
	for i, k := range keys {
		m.Set(k, i)
	}
	logger.V(1).Info("inserted", "keys", len(keys), "elapsed", time.Since(start))

	start = time.Now()
	for _, k := range keys {
		if _, ok := m.Get(k); !ok {
			return rhmap.Stats{}, fmt.Errorf("key %q was inserted but cannot be found", k)
		}
	}
	logger.V(1).Info("looked up", "keys", len(keys), "elapsed", time.Since(start))

	return m.Stats(), nil
}

func main() {
	var hash = flag.String("hash", defaultHash, "the hash provider (fx,xxh3,xxhash64,murmur3,metro,highwayhash,siphash,blake3)")
	var key = flag.String("key", "", "hex encoded hash key, random when empty and the provider is keyed")
	var probe = flag.String("probe", defaultProbe, "the probing policy (wrap,append)")
	var capacity = flag.Uint("cap", 0, "initial number of slots")
	var bloomFP = flag.Float64("bloom", 0, "put a bloom filter with this false positive rate in front of lookups")
	var file = flag.String("in", "", "A list of keys terminated with a newline")
	var count = flag.Int("n", defaultCount, "number of sequential keys to insert when -in is not set")
	var verbose = flag.Int("v", 0, "Verbosity level, default to -v 0 for info level messages, -v 1 for resizes, and -v 2 for tail appends.")
	var showHelp = flag.Bool("h", false, "Show help message")

	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if *showHelp {
		showUsageAndExit(0)
	}

	slog := getLogger(*verbose)

	var cfg = config{capacity: uintptr(*capacity), bloomFP: *bloomFP}
	var err error
	cfg.hash, err = rhmap.ParseHashKind(*hash)
	exitOnErr(slog, err, "invalid hash")
	cfg.probing, err = rhmap.ParseProbing(*probe)
	exitOnErr(slog, err, "invalid probing")

	if *key != "" {
		cfg.key, err = hex.DecodeString(*key)
		exitOnErr(slog, err, "invalid key")
	} else {
		cfg.key, err = rhmap.RandomKey(cfg.hash)
		exitOnErr(slog, err, "failed to generate a key")
	}

	var keys []string
	if *file != "" {
		f, err := os.Open(*file)
		exitOnErr(slog, err, "failed to open file")
		keys, err = readKeys(f)
		f.Close()
		exitOnErr(slog, err, "failed to read keys")
	} else {
		keys = sequentialKeys(*count)
	}
	log.Printf("operating with %s hashing and %s probing on %d keys", cfg.hash, cfg.probing, len(keys))

	st, err := run(slog, cfg, keys)
	exitOnErr(slog, err, "failed to load keys")

	slog.Info("placement", "len", st.Len, "cap", st.Cap, "buckets", st.Buckets, "spilled", st.Spilled)
	slog.Info("probe sequence length", "max", st.MaxPSL, "mean", st.MeanPSL)
	for d, n := range st.PSLHistogram {
		slog.V(1).Info("histogram", "psl", d, "entries", n)
	}
	memUsage(slog)
}
