// Package main provides the rscat CLI tool for inspecting storage
// engine table directories: listing row sets, dumping a column's block
// index, and verifying every block's checksum.
//
// Usage:
//
//	rscat --table=<path> <command> [options]
//
// Commands:
//
//	rowsets            List row-set directories and their row counts
//	index <col>        Dump the block index for column id <col>
//	verify             Read and checksum every block of every column
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/riselite/storage/internal/checksum"
	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/compression"
	"github.com/riselite/storage/internal/rsblock"
	"github.com/riselite/storage/internal/vfs"
)

var (
	tablePath       = flag.String("table", "", "Path to a table directory (required)")
	compressionFlag = flag.String("compression", "none", "Block compression used when this table was written: none, snappy, lz4, zstd")
	help            = flag.Bool("help", false, "Print help")
)

func parseCompression(s string) (compression.Type, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return compression.None, nil
	case "snappy":
		return compression.Snappy, nil
	case "lz4":
		return compression.LZ4, nil
	case "zstd":
		return compression.Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

func main() {
	flag.Parse()

	if *help || len(flag.Args()) == 0 {
		printUsage()
		return
	}
	if *tablePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --table flag is required")
		os.Exit(1)
	}

	fs := vfs.Default()
	command := flag.Arg(0)
	args := flag.Args()[1:]

	compType, err := parseCompression(*compressionFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	switch command {
	case "rowsets":
		err = cmdRowsets(fs, *tablePath)
	case "index":
		err = cmdIndex(fs, *tablePath, args)
	case "verify":
		err = cmdVerify(fs, *tablePath, compType)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: rscat --table=<path> <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  rowsets            List row-set directories")
	fmt.Fprintln(os.Stderr, "  index <col>        Dump the block index for column id <col>")
	fmt.Fprintln(os.Stderr, "  verify             Checksum every block of every column")
}

func rowsetDirs(fs vfs.FS, tablePath string) ([]string, error) {
	names, err := fs.ListDir(tablePath)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, n := range names {
		if _, err := strconv.ParseUint(n, 10, 32); err == nil {
			dirs = append(dirs, n)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func columnFiles(fs vfs.FS, rowsetDir string) ([]string, error) {
	names, err := fs.ListDir(rowsetDir)
	if err != nil {
		return nil, err
	}
	var ids []string
	seen := map[string]bool{}
	for _, n := range names {
		if !strings.HasSuffix(n, ".idx") {
			continue
		}
		id := strings.TrimSuffix(n, ".idx")
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func cmdRowsets(fs vfs.FS, tablePath string) error {
	dirs, err := rowsetDirs(fs, tablePath)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		fullDir := tablePath + "/" + d
		cols, err := columnFiles(fs, fullDir)
		if err != nil {
			return err
		}
		total := uint32(0)
		if len(cols) > 0 {
			entries, err := readIndex(fs, fullDir, cols[0])
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				last := entries[len(entries)-1]
				total = last.FirstRowID + last.RowCount
			}
		}
		fmt.Printf("rowset %s: %d columns, %d rows\n", d, len(cols), total)
	}
	return nil
}

func readIndex(fs vfs.FS, rowsetDir, colID string) ([]rsblock.IndexEntry, error) {
	f, err := fs.Open(rowsetDir + "/" + colID + ".idx")
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := f.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			break
		}
	}
	return rsblock.DecodeIndex(buf)
}

func cmdIndex(fs vfs.FS, tablePath string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("index requires a column id")
	}
	colID := args[0]

	dirs, err := rowsetDirs(fs, tablePath)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		fullDir := tablePath + "/" + d
		entries, err := readIndex(fs, fullDir, colID)
		if err != nil {
			return fmt.Errorf("rowset %s: %w", d, err)
		}
		fmt.Printf("rowset %s, column %s: %d blocks\n", d, colID, len(entries))
		for i, e := range entries {
			fmt.Printf("  block %d: offset=%d length=%d first_row=%d rows=%d\n", i, e.Offset, e.Length, e.FirstRowID, e.RowCount)
		}
	}
	return nil
}

func cmdVerify(fs vfs.FS, tablePath string, compType compression.Type) error {
	dirs, err := rowsetDirs(fs, tablePath)
	if err != nil {
		return err
	}
	total, bad := 0, 0
	for _, d := range dirs {
		fullDir := tablePath + "/" + d
		cols, err := columnFiles(fs, fullDir)
		if err != nil {
			return err
		}
		for _, colID := range cols {
			entries, err := readIndex(fs, fullDir, colID)
			if err != nil {
				fmt.Printf("rowset %s col %s: bad index: %v\n", d, colID, err)
				bad++
				continue
			}
			file, err := fs.OpenRandomAccess(fullDir + "/" + colID + ".col")
			if err != nil {
				fmt.Printf("rowset %s col %s: cannot open: %v\n", d, colID, err)
				bad++
				continue
			}
			for i, e := range entries {
				total++
				buf := make([]byte, e.Length)
				if _, err := file.ReadAt(buf, int64(e.Offset)); err != nil {
					fmt.Printf("rowset %s col %s block %d: read error: %v\n", d, colID, i, err)
					bad++
					continue
				}
				header, err := rsblock.DecodeHeader(buf[:rsblock.HeaderSize])
				if err != nil {
					fmt.Printf("rowset %s col %s block %d: %v\n", d, colID, i, err)
					bad++
					continue
				}
				rest := buf[rsblock.HeaderSize:]
				if !header.ChecksumType.IsValid() {
					fmt.Printf("rowset %s col %s block %d: unknown checksum type\n", d, colID, i)
					bad++
					continue
				}
				payload := rest
				if compType != compression.None {
					if len(rest) < 1 {
						fmt.Printf("rowset %s col %s block %d: missing compression tag\n", d, colID, i)
						bad++
						continue
					}
					payload = rest[1:]
				}
				sum := checksum.Value(header.ChecksumType, payload)
				if sum != header.Checksum {
					fmt.Printf("rowset %s col %s block %d: checksum mismatch\n", d, colID, i)
					bad++
				}
			}
			_ = file.Close()
		}
	}
	fmt.Printf("checked %d blocks, %d bad\n", total, bad)
	if bad > 0 {
		os.Exit(1)
	}
	return nil
}
