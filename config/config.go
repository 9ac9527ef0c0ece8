package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/allocator"
	"github.com/vkngwrapper/fitsim/heap"
	"github.com/vkngwrapper/fitsim/metadata"
	"github.com/vkngwrapper/fitsim/partition"
)

// DefaultMappedCapacity is the reservation made for a mapped heap when no limit is set
const DefaultMappedCapacity = 1 << 20

var json = jsoniter.Config{
	OnlyTaggedField:       true,
	CaseSensitive:         true,
	DisallowUnknownFields: true,
}.Froze()

type HeapKind int

const (
	HeapSimulated HeapKind = iota
	HeapMapped
)

var heapKindMapping = map[HeapKind]string{
	HeapSimulated: "simulated",
	HeapMapped:    "mapped",
}

func (k HeapKind) String() string {
	return heapKindMapping[k]
}

// ParseHeapKind maps "simulated" or "mapped" to a HeapKind. The empty string is simulated.
func ParseHeapKind(s string) (HeapKind, error) {
	if s == "" {
		return HeapSimulated, nil
	}

	for kind, name := range heapKindMapping {
		if name == s {
			return kind, nil
		}
	}

	return HeapSimulated, errors.Newf("unknown heap kind %q: expected simulated or mapped", s)
}

type HeapConfig struct {
	Kind string `json:"kind"`
	// Base is the first address of a simulated heap. Ignored by mapped heaps.
	Base uint64 `json:"base"`
	// Limit caps heap growth in bytes. 0 is unlimited for a simulated heap and
	// DefaultMappedCapacity for a mapped one.
	Limit int `json:"limit"`
}

type Config struct {
	Partitions []int      `json:"partitions"`
	Heap       HeapConfig `json:"heap"`
	LogLevel   string     `json:"log_level"`
}

// Default returns the configuration used when no file is provided: the 32..512 partition
// table on an unlimited simulated heap, logging at info.
func Default() *Config {
	return &Config{
		Partitions: partition.Default().Sizes(),
		Heap: HeapConfig{
			Kind: HeapSimulated.String(),
			Base: uint64(heap.DefaultBreakBase),
		},
		LogLevel: "info",
	}
}

// Load reads a json config file. Fields missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open config %s", path)
	}
	defer file.Close()

	return Read(file)
}

// Read decodes a json config from r on top of Default and validates the result
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	err := json.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	_, err := partition.New(c.Partitions...)
	if err != nil {
		return err
	}

	_, err = ParseHeapKind(c.Heap.Kind)
	if err != nil {
		return err
	}

	if c.Heap.Limit < 0 {
		return errors.Wrapf(fitsim.ErrInvalidSize, "heap limit %d", c.Heap.Limit)
	}

	_, err = c.Level()
	return err
}

// Level parses LogLevel as a slog level name such as "debug" or "warn"
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "log level %q", c.LogLevel)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Options builds allocator options from the config. The returned io.Closer releases the
// heap and must be closed once the allocator is no longer used.
func (c *Config) Options() (allocator.CreateOptions, io.Closer, error) {
	table, err := partition.New(c.Partitions...)
	if err != nil {
		return allocator.CreateOptions{}, nil, err
	}

	kind, err := ParseHeapKind(c.Heap.Kind)
	if err != nil {
		return allocator.CreateOptions{}, nil, err
	}

	switch kind {
	case HeapMapped:
		capacity := c.Heap.Limit
		if capacity == 0 {
			capacity = DefaultMappedCapacity
		}

		mapped, err := heap.NewMapped(capacity)
		if err != nil {
			return allocator.CreateOptions{}, nil, err
		}

		return allocator.CreateOptions{Partitions: table, Grower: mapped}, mapped, nil
	default:
		brk := heap.NewBreak(heap.BreakOptions{
			Base:  metadata.Address(c.Heap.Base),
			Limit: c.Heap.Limit,
		})
		return allocator.CreateOptions{Partitions: table, Grower: brk}, nopCloser{}, nil
	}
}
