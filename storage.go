// Package storage implements a small embedded columnar storage engine:
// tables of immutable, append-only row sets, each row set a directory of
// fixed-width column files with block-level checksums, written once and
// read back through sequential column iterators aligned into
// multi-column chunks. See SPEC_FULL.md for the full design.
package storage

import (
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/logging"
	"github.com/riselite/storage/internal/options"
	"github.com/riselite/storage/internal/vfs"
	"github.com/riselite/storage/rowtable"
)

// Options configures a DiskStorage root.
type Options struct {
	// ColumnOptions governs block layout (target size, checksum
	// algorithm, compression) for every column of every table created
	// under this root.
	ColumnOptions column.Options
	// FS is the virtual filesystem the engine writes through. Defaults
	// to the real OS filesystem when nil.
	FS vfs.FS
	// Logger receives structured log output. Defaults to a WARN-level
	// logger writing to stderr when nil.
	Logger logging.Logger
}

// DefaultOptions returns sane defaults: 4KiB blocks, CRC32C checksums, no
// compression, the OS filesystem, and a WARN-level default logger.
func DefaultOptions() Options {
	return Options{
		ColumnOptions: column.DefaultOptions(),
		FS:            vfs.Default(),
		Logger:        logging.NewDefaultLogger(logging.LevelWarn),
	}
}

// DiskStorage is the top-level handle onto a storage root directory: a
// registry of tables, each with its own independently-locked row-set
// list, sharing one base path and one set of column-builder options.
type DiskStorage struct {
	basePath string
	opts     Options
	fs       vfs.FS
	logger   logging.Logger

	mu     sync.Mutex
	tables map[int]*rowtable.Table

	nextTableID atomic.Int64

	// backgroundErr is set by the logger's fatal handler and propagated
	// to every table already registered, plus any table registered
	// afterward, so a fatal condition closes the whole storage root for
	// writes rather than just the table that happened to be open when it
	// fired.
	backgroundErr atomic.Pointer[error]
}

// Open returns a DiskStorage rooted at basePath, creating the directory
// if it does not already exist. It does not scan basePath for existing
// tables; use OpenTable to register a table whose row sets a prior process
// already flushed.
func Open(basePath string, opts Options) (*DiskStorage, error) {
	if opts.FS == nil {
		opts.FS = vfs.Default()
	}
	opts.Logger = logging.OrDefault(opts.Logger)

	if err := opts.FS.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", basePath, err)
	}
	s := &DiskStorage{
		basePath: basePath,
		opts:     opts,
		fs:       opts.FS,
		logger:   opts.Logger,
		tables:   make(map[int]*rowtable.Table),
	}
	if dl, ok := opts.Logger.(*logging.DefaultLogger); ok {
		dl.SetFatalHandler(func(msg string) {
			s.markClosedForWrites(fmt.Errorf("%w: %s", logging.ErrFatal, msg))
		})
	}
	return s, nil
}

// markClosedForWrites records err as the storage root's sticky background
// error (first error wins) and propagates it to every table currently
// registered. Tables registered afterward pick it up in CreateTable/
// OpenTable, so a fatal condition closes writes storage-wide, not just for
// the tables that happened to exist when it fired.
func (s *DiskStorage) markClosedForWrites(err error) {
	s.backgroundErr.CompareAndSwap(nil, &err)

	s.mu.Lock()
	tables := make([]*rowtable.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	s.mu.Unlock()

	for _, t := range tables {
		t.MarkClosedForWrites(err)
	}
}

// OpenFromConfigFile reads an INI-style configuration file through fs
// (its [Storage] base_path section, plus [ColumnBuilder] target_block_size,
// checksum_type, and compression keys) and opens a DiskStorage from it.
// logger receives the storage root's log output; the config file has no
// section for it.
func OpenFromConfigFile(fs vfs.FS, configPath string, logger logging.Logger) (*DiskStorage, error) {
	parsed, err := options.ReadOptionsFile(fs, configPath)
	if err != nil {
		return nil, fmt.Errorf("storage: read config %s: %w", configPath, err)
	}
	return Open(parsed.BasePath, Options{
		ColumnOptions: column.Options{
			TargetBlockSize: parsed.TargetBlockSize,
			ChecksumType:    parsed.ChecksumType,
			Compression:     parsed.Compression,
		},
		FS:     fs,
		Logger: logger,
	})
}

func (s *DiskStorage) tableDir(id int) string {
	return filepath.Join(s.basePath, strconv.Itoa(id))
}

// CreateTable registers a new, empty table with the given id and column
// descriptors under this storage root. It returns ErrTableExists if the
// id is already registered.
func (s *DiskStorage) CreateTable(id int, columns []array.ColumnDesc) (*rowtable.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrTableExists, id)
	}
	dir := s.tableDir(id)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}

	t := rowtable.New(id, columns, dir, s.opts.ColumnOptions, s.fs, s.logger)
	if p := s.backgroundErr.Load(); p != nil {
		t.MarkClosedForWrites(*p)
	}
	s.tables[id] = t
	s.logger.Infof(logging.NSTable+"created table %d with %d columns", id, len(columns))
	return t, nil
}

// OpenTable registers a table whose row sets already exist on disk under
// this storage root, named by the row-set ids in rowsetIDs.
func (s *DiskStorage) OpenTable(id int, columns []array.ColumnDesc, rowsetIDs []uint32) (*rowtable.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[id]; ok {
		return nil, fmt.Errorf("%w: %d", ErrTableExists, id)
	}
	t, err := rowtable.Open(id, columns, s.tableDir(id), s.opts.ColumnOptions, s.fs, s.logger, rowsetIDs)
	if err != nil {
		return nil, err
	}
	if p := s.backgroundErr.Load(); p != nil {
		t.MarkClosedForWrites(*p)
	}
	s.tables[id] = t
	return t, nil
}

// GetTable returns the table registered under id, or ErrTableNotFound.
func (s *DiskStorage) GetTable(id int) (*rowtable.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrTableNotFound, id)
	}
	return t, nil
}

// DropTable unregisters a table and removes its on-disk directory,
// including every row set it ever flushed. Callers must ensure no
// transaction is still using the table.
func (s *DiskStorage) DropTable(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[id]; !ok {
		return fmt.Errorf("%w: %d", ErrTableNotFound, id)
	}
	delete(s.tables, id)
	return s.fs.RemoveAll(s.tableDir(id))
}

// TableIDs returns the ids of every table currently registered, in no
// particular order.
func (s *DiskStorage) TableIDs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	return ids
}

// NextTableID returns a fresh table id, unique within this DiskStorage's
// process lifetime. Callers that manage their own table ids (e.g. a
// catalog layer) are free to ignore it.
func (s *DiskStorage) NextTableID() int {
	return int(s.nextTableID.Add(1) - 1)
}
